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
	"github.com/dem-team/commod/internal/completion"
	"github.com/dem-team/commod/internal/state"
	"github.com/spf13/cobra"
)

var gamesSetActiveCmd = &cobra.Command{
	Use:   "set-active <id|selector|path>",
	Short: "Set the active game install",
	Long: `Record which game install is active. "games info" marks it as the
current context; install and resolve do not read it and always take --game.

The argument may be a numeric install id (as shown by "games list"), a
selector such as "steam:1091500" or "manual:/games/exmachina", or a
bare root path.`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return completion.GameInstallPaths(cmd, toComplete)
	},
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
		gi, err := internal.ResolveGameInstallArg(ctx, q, args[0])
		if err != nil {
			return err
		}

		if err := state.SaveActive(state.Active{ActiveGameRoot: gi.RootPath}); err != nil {
			return fmt.Errorf("save active game: %w", err)
		}

		fmt.Printf("Active game set to %s (%s)\n", gi.RootPath, gi.DisplayName)
		return nil
	},
}

func init() {
	gamesCmd.AddCommand(gamesSetActiveCmd)
}
