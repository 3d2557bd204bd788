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

	"github.com/charmbracelet/lipgloss"
	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal"
	"github.com/spf13/cobra"
)

var modsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported mod archives",
	Long: `List mods previously imported with "commod mods import".

Each archive is recorded once, content-addressed by SHA-256; importing the
same archive twice reuses the existing blob rather than duplicating it.`,
	Args:         cobra.ExactArgs(0),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
		subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

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

		q := dbq.New(db)

		rows, err := q.ListImportedMods(ctx)
		if err != nil {
			return fmt.Errorf("list imported mods: %w", err)
		}

		if len(rows) == 0 {
			fmt.Println(subtleStyle.Render("No mods imported yet."))
			fmt.Println(subtleStyle.Render("Use `commod mods import <archive>` to add one."))
			return nil
		}

		fmt.Println(headerStyle.Render("Mods"))
		fmt.Println()

		for _, m := range rows {
			sha := m.ArchiveSha256
			if len(sha) > 12 {
				sha = sha[:12]
			}
			fmt.Printf("%d  %s  %s (build %s)\n", m.ID, m.ModName, m.ModVersion, m.ModBuild)
			fmt.Println(subtleStyle.Render(fmt.Sprintf(
				"  imported_at=%s  sha=%s  file=%s", m.ImportedAt, sha, m.OriginalName,
			)))
		}

		return nil
	},
}

func init() {
	modsCmd.AddCommand(modsListCmd)
}
