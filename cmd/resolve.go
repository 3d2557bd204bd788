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

	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal"
	"github.com/dem-team/commod/internal/manifest"
	"github.com/dem-team/commod/internal/probe"
	"github.com/dem-team/commod/internal/resolver"
	"github.com/dem-team/commod/internal/session"
	"github.com/dem-team/commod/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var resolveDistro string
var resolveGame string

var resolveCmd = &cobra.Command{
	Use:   "resolve <mod>",
	Short: "Check whether a mod can be installed into a game",
	Long: `Load a mod from a distribution directory, probe a tracked game
install, and report the Resolver's compatibility verdicts: installment and
tool-version compatibility, each prerequisite and incompatible mod, and
whether this would be a fresh install or a reinstall.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		distro := resolveDistro
		if distro == "" {
			distro = viper.GetString("current_distro")
		}
		if distro == "" {
			return fmt.Errorf("no distribution directory given; pass --distro or set current_distro")
		}
		if resolveGame == "" {
			return fmt.Errorf("--game is required")
		}

		err := internal.EnsureDBExists()
		if err != nil {
			return err
		}

		db, err := internal.SetupDB()
		if err != nil {
			return fmt.Errorf("error setting up database: %w", err)
		}
		defer db.Close()

		err = internal.MigrateDB(ctx, db)
		if err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}

		q := dbq.New(db)

		m, err := loadModByID(ctx, q, distro, args[0])
		if err != nil {
			return err
		}

		gi, err := internal.ResolveGameInstallArg(ctx, q, resolveGame)
		if err != nil {
			return err
		}

		snap, err := probe.Snapshot(gi.RootPath)
		if err != nil {
			return fmt.Errorf("probe %s: %w", gi.RootPath, err)
		}

		toolVersion := version.Parse(rootCmd.Version)
		v := resolver.Resolve(m, snap, toolVersion)

		printVerdicts(m, v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveDistro, "distro", "", "Distribution directory to load the mod from (defaults to current_distro)")
	resolveCmd.Flags().StringVar(&resolveGame, "game", "", "Game install to resolve against (id, selector, or path)")
}

// loadModByID loads the named distribution and returns the requested mod,
// or an error naming it if no such mod was found.
func loadModByID(ctx context.Context, q *dbq.Queries, distro, modID string) (*manifest.Manifest, error) {
	sess, err := session.Load(ctx, q, distro)
	if err != nil {
		return nil, fmt.Errorf("load distribution %s: %w", distro, err)
	}
	m, ok := sess.Mods[modID]
	if !ok {
		return nil, fmt.Errorf("mod %q not found in %s", modID, distro)
	}
	return m, nil
}

func printVerdicts(m *manifest.Manifest, v resolver.Verdicts) {
	fmt.Printf("%s %s\n", m.Name, m.Version.String())
	fmt.Printf("  installment compatible: %t\n", v.InstallmentCompatible)
	fmt.Printf("  tool version compatible: %t\n", v.ToolVersionCompatible)

	for _, r := range v.Requirements {
		status := "ok"
		if !r.Satisfied {
			status = "unsatisfied"
		}
		fmt.Printf("  requirement %v: %s\n", r.Entry.Names, status)
		for _, reason := range r.Reasons {
			fmt.Printf("    - %s\n", reason)
		}
	}

	for _, inc := range v.Incompatibles {
		status := "clear"
		if inc.Incompatible {
			status = "conflicts"
		}
		fmt.Printf("  incompatible %v: %s\n", inc.Entry.Names, status)
		for _, reason := range inc.Reasons {
			fmt.Printf("    - %s\n", reason)
		}
	}

	if v.Reinstall.IsReinstall {
		fmt.Printf("  reinstall: %s\n", v.Reinstall.Kind)
	}

	fmt.Printf("  can install: %t\n", v.CanInstall)
}
