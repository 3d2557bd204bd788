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
	"fmt"
	"sort"

	"github.com/dem-team/commod/internal/probe"
	"github.com/spf13/cobra"
)

var gamesProbeCmd = &cobra.Command{
	Use:   "probe <path>",
	Short: "Probe a directory directly, without consulting the database",
	Long: `Run the full game probe against an arbitrary directory: validate
the sentinel paths, resolve the executable, read its version fingerprint,
classify the installment, and list currently installed mods.

Unlike "games info", this does not require the directory to already be
tracked in the database — useful for checking a candidate install before
registering it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := probe.Snapshot(args[0])
		if err != nil {
			return fmt.Errorf("probe %s: %w", args[0], err)
		}

		fmt.Printf("Root:        %s\n", snap.RootPath)
		fmt.Printf("Exe:         %s\n", snap.ExePath)
		fmt.Printf("Version:     %s\n", snap.ExeVersion)
		fmt.Printf("Installment: %s\n", snap.Installment)
		fmt.Printf("Running:     %t\n", snap.IsRunning)

		names := make([]string, 0, len(snap.InstalledContent))
		for name := range snap.InstalledContent {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Printf("Installed mods:\n")
		if len(names) == 0 {
			fmt.Println("  (none)")
		}
		for _, name := range names {
			entry := snap.InstalledContent[name]
			fmt.Printf("  %s\t%s\tbuild %s\n", name, entry.Version, entry.Build)
		}

		return nil
	},
}

func init() {
	gamesCmd.AddCommand(gamesProbeCmd)
}
