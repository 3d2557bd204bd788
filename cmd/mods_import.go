/*
 * commod: mod compatibility engine and installer for Ex Machina/M113/Arcade
 * Copyright © 2026 Mario Finelli
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"strings"
	"time"

	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal"
	"github.com/dem-team/commod/internal/blobstore"
	"github.com/dem-team/commod/internal/importer"
	"github.com/dem-team/commod/internal/manifest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	modsImportTimeout int64
	modsImportRm      bool
)

var modsImportCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Import a mod archive into the blob store",
	Long: `Import a mod distribution archive into commod's content-addressed archive
store.

The archive is listed with bsdtar to locate manifest.yaml, which is
extracted and validated the same way the Manifest Loader validates an
on-disk mod directory. commod never unpacks the rest of the archive
itself; bsdtar remains the sole archive collaborator, and the archive is
stored as-is, addressed by its SHA-256.

If --rm is provided, the original input file is deleted only after the
archive has been safely stored and the database has been updated
successfully.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := internal.EnsureDBExists(); err != nil {
			return err
		}

		db, err := internal.SetupDB()
		if err != nil {
			return fmt.Errorf("error setting up database: %w", err)
		}
		defer db.Close()

		if err := internal.MigrateDB(ctx, db); err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}

		archivePath := args[0]
		archivesDir := viper.GetString("archives_dir")

		if modsImportRm {
			info, err := os.Lstat(archivePath)
			if err != nil {
				return fmt.Errorf("stat input: %w", err)
			}
			if info.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("--rm refuses to operate on symlinks")
			}
			if !info.Mode().IsRegular() {
				return fmt.Errorf("--rm requires a regular file input")
			}
			under, err := internal.IsUnderDir(archivePath, archivesDir)
			if err != nil {
				return fmt.Errorf("check --rm safety: %w", err)
			}
			if under {
				return fmt.Errorf("--rm refuses to remove files already inside the archive store")
			}
		}

		ctxT, cancel := context.WithTimeout(ctx, time.Duration(modsImportTimeout)*time.Second)
		defer cancel()

		entries, err := importer.ListArchive(ctxT, viper.GetString("bsdtar"), archivePath)
		if err != nil {
			return fmt.Errorf("list archive: %w", err)
		}

		manifestEntry, err := findManifestEntry(entries)
		if err != nil {
			return err
		}

		bs := blobstore.Store{
			ArchivesDir:  archivesDir,
			BackupsDir:   viper.GetString("backups_dir"),
			OverridesDir: viper.GetString("overrides_dir"),
			TmpDir:       viper.GetString("tmp_dir"),
		}
		extractor := importer.BsdtarExtractor{Bsdtar: viper.GetString("bsdtar")}
		listing := manifest.NewArchiveListing(entries)

		res, err := importer.ImportArchive(ctx, db, dbq.New(db), bs, extractor, archivePath, manifestEntry, listing)
		if err != nil {
			return err
		}

		if modsImportRm {
			if err := os.Remove(archivePath); err != nil {
				return fmt.Errorf("import succeeded but failed to remove original file: %w", err)
			}
		}

		fmt.Println("Imported:")
		fmt.Printf("  id:           %d\n", res.ID)
		fmt.Printf("  name:         %s\n", res.ModName)
		fmt.Printf("  version:      %s\n", res.ModVersion)
		fmt.Printf("  build:        %s\n", res.ModBuild)
		fmt.Printf("  sha256:       %s\n", res.SHA256Hex)
		fmt.Printf("  size_bytes:   %d\n", res.SizeBytes)
		if res.AlreadyStored {
			fmt.Println("  (archive already present in the blob store)")
		}

		return nil
	},
}

func init() {
	modsCmd.AddCommand(modsImportCmd)

	modsImportCmd.Flags().Int64VarP(&modsImportTimeout, "list-timeout",
		"t", 60, "Timeout in seconds for listing the archive with bsdtar")
	modsImportCmd.Flags().BoolVar(&modsImportRm, "rm", false,
		"Remove original archive after import")
}

// findManifestEntry locates manifest.yaml at the archive root or one
// directory deep (<mod dir>/manifest.yaml), matching where the Loader
// expects it relative to a mod's distribution directory.
func findManifestEntry(entries []string) (string, error) {
	var candidates []string
	for _, e := range entries {
		clean := strings.TrimSuffix(e, "/")
		if path.Base(clean) != "manifest.yaml" {
			continue
		}
		if strings.Count(clean, "/") > 1 {
			continue
		}
		candidates = append(candidates, clean)
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("archive does not contain a manifest.yaml")
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("archive contains multiple manifest.yaml candidates: %s", strings.Join(candidates, ", "))
	}
}
