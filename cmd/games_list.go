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

	"github.com/charmbracelet/lipgloss/table"
	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal"
	"github.com/spf13/cobra"
)

var gamesListAll bool
var gamesListSource string

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked game installs",
	Long: `List game installs commod knows about.

Installs discovered via "commod games refresh" are recorded with
source "steam"; installs registered by hand carry source "manual". Use
--source to filter, or --all to show every tracked install regardless of
source.`,
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
		var games []dbq.GameInstall

		if gamesListAll {
			games, err = q.ListGameInstalls(ctx)
		} else if gamesListSource != "" {
			games, err = q.ListGameInstallsBySource(ctx, gamesListSource)
		} else {
			games, err = q.ListGameInstallsBySource(ctx, "steam")
		}
		if err != nil {
			return fmt.Errorf("error listing games: %w", err)
		}

		rows := [][]string{}
		for _, game := range games {
			present := "✗"
			if game.IsPresent {
				present = "✓"
			}

			lastSeen := ""
			if game.LastSeenAt.Valid {
				lastSeen = game.LastSeenAt.String
			}

			rows = append(rows, []string{
				fmt.Sprintf(" %d ", game.ID),
				fmt.Sprintf(" %s ", internal.Selector(game.Source, fmt.Sprintf("%d", game.ID))),
				fmt.Sprintf(" %s ", game.DisplayName),
				fmt.Sprintf(" %s ", game.Installment),
				fmt.Sprintf(" %s ", game.RootPath),
				fmt.Sprintf(" %s ", present),
				fmt.Sprintf(" %s ", lastSeen),
			})
		}

		t := table.New().
			Headers(" ID ", " Selector ", " Name ", " Installment ", " Path ", " Present ", " Last Seen ").
			Rows(rows...)

		fmt.Println(t)

		return nil
	},
}

func init() {
	gamesCmd.AddCommand(gamesListCmd)

	gamesListCmd.Flags().BoolVarP(&gamesListAll, "all", "A", false,
		"List games regardless of source")

	gamesListCmd.Flags().StringVarP(&gamesListSource, "source", "s", "",
		"List games from the given source (steam, manual)")

	gamesListCmd.MarkFlagsMutuallyExclusive("all", "source")
}
