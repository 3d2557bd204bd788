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
	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Manage tracked game installs",
	Long: `Manage the game installs commod knows about.

A game install is a directory containing an Ex Machina, M113, or Arcade
installment. commod tracks installs discovered on Steam as well as
installs registered by hand, and records which one is active; "games
info" marks that install as the current context. Install and resolve do
not read it and always take --game.`,
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}
