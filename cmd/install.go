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
	"strings"

	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal"
	"github.com/dem-team/commod/internal/installer"
	"github.com/dem-team/commod/internal/manifest"
	"github.com/dem-team/commod/internal/patcher"
	"github.com/dem-team/commod/internal/planner"
	"github.com/dem-team/commod/internal/probe"
	"github.com/dem-team/commod/internal/resolver"
	"github.com/dem-team/commod/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	communityPatchModName    = "community_patch"
	communityRemasterModName = "community_remaster"
)

var installDistro string
var installGame string
var installSelect string

var installCmd = &cobra.Command{
	Use:   "install <mod>",
	Short: "Install a mod into a game",
	Long: `Resolve a mod against a tracked game install and, if it can
install, copy its content, edit the UI configuration, apply binary
patches, and record it in the game's installed-mods manifest.

--select takes a comma-separated list of key=value pairs, e.g.
"base=yes,high_res_textures=skip". Any optional content not named keeps
its manifest-declared default; an option with install settings and no
declared default is not installed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		distro := installDistro
		if distro == "" {
			distro = viper.GetString("current_distro")
		}
		if distro == "" {
			return fmt.Errorf("no distribution directory given; pass --distro or set current_distro")
		}
		if installGame == "" {
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

		gi, err := internal.ResolveGameInstallArg(ctx, q, installGame)
		if err != nil {
			return err
		}

		selection, err := parseSelection(installSelect)
		if err != nil {
			return err
		}
		for _, oc := range m.OptionalContent {
			if _, named := selection[oc.Name]; named {
				continue
			}
			switch {
			case oc.DefaultOption != "":
				selection[oc.Name] = oc.DefaultOption
			case len(oc.InstallSettings) == 0:
				selection[oc.Name] = "yes"
			}
		}

		toolVersion := version.Parse(rootCmd.Version)

		snap, err := probe.Snapshot(gi.RootPath)
		if err != nil {
			return fmt.Errorf("probe %s: %w", gi.RootPath, err)
		}

		v := resolver.Resolve(m, snap, toolVersion)
		if !v.CanInstall {
			return fmt.Errorf("%s cannot be installed into %s: see `commod resolve` for details", m.Name, gi.RootPath)
		}

		jobs, err := planner.Plan(m, selection, v.Reinstall)
		if err != nil {
			return fmt.Errorf("plan install: %w", err)
		}

		env := environmentFor(m)

		var widescreen *installer.WidescreenOptions
		if env.IsCommunityRemaster {
			widescreen = &installer.WidescreenOptions{
				ScreenWidth:  viper.GetInt("window.width"),
				ScreenHeight: viper.GetInt("window.height"),
			}
		}

		reverify := func() (bool, error) {
			fresh, rerr := probe.Snapshot(gi.RootPath)
			if rerr != nil {
				return false, rerr
			}
			return resolver.Resolve(m, fresh, toolVersion).CanInstall, nil
		}

		onProgress := func(idx, count int, rel string, size int64) {
			fmt.Printf("\r[%d/%d] %s", idx, count, rel)
		}
		onStatus := func(status string) {
			fmt.Printf("\n%s...\n", status)
		}

		result, err := installer.Install(ctx, gi.RootPath, m, selection, jobs, env, widescreen, reverify, onProgress, onStatus)
		if err != nil {
			return fmt.Errorf("install %s: %w", m.Name, err)
		}

		fmt.Printf("\nInstalled %s %s (%d files copied, %d patches applied)\n",
			m.Name, m.Version.String(), result.FilesCopied, len(result.PatchDescriptions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringVar(&installDistro, "distro", "", "Distribution directory to load the mod from (defaults to current_distro)")
	installCmd.Flags().StringVar(&installGame, "game", "", "Game install to install into (id, selector, or path)")
	installCmd.Flags().StringVar(&installSelect, "select", "", "Comma-separated option=value selections, e.g. base=yes,option=skip")
}

func parseSelection(s string) (map[string]string, error) {
	sel := map[string]string{"base": "yes"}
	s = strings.TrimSpace(s)
	if s == "" {
		return sel, nil
	}

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid --select entry %q (expected key=value)", pair)
		}
		sel[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return sel, nil
}

// environmentFor derives the patcher's applies_when environment from the
// mod's identity, per the community_patch/community_remaster distinction
// the Resolver already uses to decide compatch-only compatibility.
func environmentFor(m *manifest.Manifest) patcher.Environment {
	switch m.Name {
	case communityRemasterModName:
		return patcher.Environment{IsCommunityRemaster: true}
	case communityPatchModName:
		return patcher.Environment{IsCommunityPatch: true}
	default:
		return patcher.Environment{IsVanillaMod: true}
	}
}
