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
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal"
	"github.com/dem-team/commod/internal/completion"
	"github.com/dem-team/commod/internal/probe"
	"github.com/dem-team/commod/internal/state"
	"github.com/spf13/cobra"
)

var gamesInfoCmd = &cobra.Command{
	Use:   "info <id|selector|path>",
	Short: "Show detailed information about a game install",
	Long: `Show detailed information about a tracked game install: its
identity, presence on disk, installment, and the mods currently
installed into it.

The argument may be a numeric install id, a selector such as
"steam:1091500", or a bare root path.`,
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

		snap, snapErr := probe.Snapshot(gi.RootPath)

		a, err := state.LoadActive()
		if err != nil {
			return err
		}
		isCurrent := a.ActiveGameRoot == gi.RootPath

		fmt.Println(renderGameInfo(gi, snap, snapErr, isCurrent))
		return nil
	},
}

func init() {
	gamesCmd.AddCommand(gamesInfoCmd)
}

func renderGameInfo(gi dbq.GameInstall, snap *probe.GameSnapshot, snapErr error, isCurrentContext bool) string {
	cardBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Bold(true)

	selectorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	sectionTitleStyle := lipgloss.NewStyle().
		Bold(true).
		MarginTop(1)

	warningBanner := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("11")).
		Padding(0, 1)

	contextBadge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("10")).
		Padding(0, 1).
		Bold(true)

	selText := internal.Selector(gi.Source, fmt.Sprintf("%d", gi.ID))

	headerContent := titleStyle.Render(gi.DisplayName) + "\n" +
		selectorStyle.Render(selText)

	if isCurrentContext {
		headerContent += "\n\n" + contextBadge.Render("CURRENT ACTIVE CONTEXT")
	}

	header := cardBorder.Render(headerContent)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	if !gi.IsPresent {
		b.WriteString("\n")
		b.WriteString(warningBanner.Render("⚠  This install is not currently present on disk"))
		b.WriteString("\n")
	}

	b.WriteString(sectionTitleStyle.Render("Install") + "\n")
	writeKV(&b, "ID:", fmt.Sprintf("%d", gi.ID))
	writeKV(&b, "Source:", gi.Source)
	writeKV(&b, "Installment:", gi.Installment)
	writeKV(&b, "Path:", gi.RootPath)

	present := "yes"
	if !gi.IsPresent {
		present = "no"
	}
	writeKV(&b, "Present:", present)

	if gi.LastSeenAt.Valid {
		writeKV(&b, "Last seen:", gi.LastSeenAt.String)
	}

	b.WriteString("\n" + sectionTitleStyle.Render("Installed mods") + "\n")
	switch {
	case snapErr != nil:
		b.WriteString("  (could not probe install: " + snapErr.Error() + ")\n")
	case len(snap.InstalledContent) == 0:
		b.WriteString("  (none)\n")
	default:
		names := make([]string, 0, len(snap.InstalledContent))
		for name := range snap.InstalledContent {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			entry := snap.InstalledContent[name]
			b.WriteString("  • " + name + "\n")
			writeKVIndented(&b, "version:", entry.Version)
			writeKVIndented(&b, "build:", entry.Build)
			if entry.Base != "" {
				writeKVIndented(&b, "base:", entry.Base)
			}
			for opt, choice := range entry.Options {
				writeKVIndented(&b, opt+":", choice)
			}
		}
	}

	if snapErr == nil {
		b.WriteString("\n" + sectionTitleStyle.Render("Executable") + "\n")
		writeKV(&b, "Exe path:", snap.ExePath)
		writeKV(&b, "Version:", snap.ExeVersion)
		running := "no"
		if snap.IsRunning {
			running = "yes"
		}
		writeKV(&b, "Running:", running)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeKV(b *strings.Builder, label, value string) {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7")).
		Width(12)

	b.WriteString("  " + labelStyle.Render(label) + " " + value + "\n")
}

func writeKVIndented(b *strings.Builder, label, value string) {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7")).
		Width(12)

	b.WriteString("      " + labelStyle.Render(label) + " " + value + "\n")
}
