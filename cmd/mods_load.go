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
	"sort"

	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal"
	"github.com/dem-team/commod/internal/session"
	"github.com/spf13/cobra"
)

var modsLoadCmd = &cobra.Command{
	Use:   "load <distro>",
	Short: "Load every mod manifest from a distribution directory",
	Long: `Walk <distro>/mods and load each subdirectory's manifest.yaml.

Every manifest is parsed on every run, changed or not. The SQLite hash
cache records each manifest's content hash but does not let commod skip
a parse. This command reports what it found. Other commands (resolve,
install) load the same way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

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
		sess, err := session.Load(ctx, q, args[0])
		if err != nil {
			return fmt.Errorf("load distribution %s: %w", args[0], err)
		}

		names := make([]string, 0, len(sess.Mods))
		for name := range sess.Mods {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			m := sess.Mods[name]
			fmt.Printf("%s\t%s\t%s\n", name, m.Version.String(), m.Installment)
		}
		fmt.Printf("\nLoaded %d mod(s) from %s\n", len(sess.Mods), args[0])
		return nil
	},
}

func init() {
	modsCmd.AddCommand(modsLoadCmd)
}
