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

// Package installer executes an install Plan: copies content, applies
// config edits and binary patches, and persists the installed-mods
// manifest. It never rolls back copied files on a later failure.
package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dem-team/commod/internal/configxml"
	"github.com/dem-team/commod/internal/ioutil"
	"github.com/dem-team/commod/internal/manifest"
	"github.com/dem-team/commod/internal/patcher"
	"github.com/dem-team/commod/internal/planner"
	"github.com/dem-team/commod/internal/probe"
	yaml "go.yaml.in/yaml/v3"
)

// progressThrottle bounds how often ProgressFunc fires: roughly 60 Hz,
// one call per ~16ms.
const progressThrottle = 16 * time.Millisecond

// ProgressFunc reports install progress; the Installer throttles calls to
// roughly one per progressThrottle.
type ProgressFunc func(fileIndex, fileCount int, relativePath string, sizeBytes int64)

// StatusFunc reports free-text status changes on a channel distinct from
// ProgressFunc.
type StatusFunc func(status string)

// Result is what a successful Install run returns.
type Result struct {
	FilesCopied       int
	PatchDescriptions []string
	InstalledEntry    probe.InstalledEntry
}

// PrerequisitesNoLongerMetError is returned when a fresh re-probe shows the
// prerequisites that held at resolve time no longer hold: another process
// modified the game between resolve and install.
type PrerequisitesNoLongerMetError struct{}

func (e *PrerequisitesNoLongerMetError) Error() string {
	return "prerequisites are no longer met: the game directory changed since the last resolve"
}

// ManifestWriteFailedError wraps a failure to persist the installed-mods
// manifest after a successful copy+patch run.
type ManifestWriteFailedError struct{ Err error }

func (e *ManifestWriteFailedError) Error() string {
	return fmt.Sprintf("failed to write installed-mods manifest: %v", e.Err)
}

func (e *ManifestWriteFailedError) Unwrap() error { return e.Err }

// ReverifyFunc lets the caller re-run the Resolver against a fresh Probe
// snapshot immediately before copying begins.
type ReverifyFunc func() (stillSatisfied bool, err error)

// WidescreenOptions carries the tool-configuration window size
// (window.width/window.height) used to retarget config.cfg/glob_props.xml
// when installing onto a community-remaster game root.
type WidescreenOptions struct {
	ScreenWidth  int
	ScreenHeight int
}

// Install executes jobs against gameRoot in order, applies config edits and
// patcherEnv's catalogue patches, and merges selection into the
// installed-mods manifest.
//
// Ordering follows the documented guarantees: all copy jobs complete before
// any config edit or patch is attempted, config edits happen before binary
// patches, patches apply in catalogue order, and the installed-mods
// manifest is written last and atomically.
func Install(
	ctx context.Context,
	gameRoot string,
	m *manifest.Manifest,
	selection map[string]string,
	jobs []planner.CopyJob,
	patcherEnv patcher.Environment,
	widescreen *WidescreenOptions,
	reverify ReverifyFunc,
	onProgress ProgressFunc,
	onStatus StatusFunc,
) (Result, error) {
	if reverify != nil {
		ok, err := reverify()
		if err != nil {
			return Result{}, fmt.Errorf("reverify prerequisites: %w", err)
		}
		if !ok {
			return Result{}, &PrerequisitesNoLongerMetError{}
		}
	}

	if onStatus != nil {
		onStatus("copying files")
	}

	throttled := throttle(onProgress, progressThrottle)

	totalCopied := 0
	for _, job := range jobs {
		dst := filepath.Join(gameRoot, "data", job.DestDir)
		result, err := ioutil.CopyDir(ctx, job.SourceDir, dst, func(idx, count int, rel string, size int64) {
			throttled(totalCopied+idx, totalCopied+count, filepath.Join(job.Label, rel), size)
		})
		totalCopied += result.FilesCopied
		if err != nil {
			return Result{FilesCopied: totalCopied}, fmt.Errorf("copy job %s: %w", job.Label, err)
		}
	}

	if patcherEnv.IsCommunityRemaster && widescreen != nil {
		if onStatus != nil {
			onStatus("editing UI configuration")
		}
		if err := configxml.ToggleUIWidescreen(gameRoot, widescreen.ScreenWidth, widescreen.ScreenHeight, true); err != nil {
			return Result{FilesCopied: totalCopied}, fmt.Errorf("toggle UI widescreen: %w", err)
		}
		if err := configxml.ToggleGlobPropsWidescreen(gameRoot, true); err != nil {
			return Result{FilesCopied: totalCopied}, fmt.Errorf("toggle glob_props widescreen: %w", err)
		}
	}

	if onStatus != nil {
		onStatus("applying patches")
	}

	if patcherEnv.IsCommunityRemaster {
		if err := patcher.ApplyDXRenderPatch(gameRoot); err != nil {
			return Result{FilesCopied: totalCopied}, fmt.Errorf("dxrender patch: %w", err)
		}
	}

	applied, err := patcher.ApplyCatalogue(gameRoot, patcherEnv)
	if err != nil {
		return Result{FilesCopied: totalCopied, PatchDescriptions: applied}, err
	}

	paramPatches, err := applyPatcherOptions(gameRoot, m.PatcherOptions)
	applied = append(applied, paramPatches...)
	if err != nil {
		return Result{FilesCopied: totalCopied, PatchDescriptions: applied}, err
	}

	if onStatus != nil {
		onStatus("writing installed-mods manifest")
	}

	entry := buildInstalledEntry(m, selection)
	if err := persistInstalledContent(gameRoot, m.Name, entry); err != nil {
		return Result{FilesCopied: totalCopied, PatchDescriptions: applied}, &ManifestWriteFailedError{Err: err}
	}

	return Result{FilesCopied: totalCopied, PatchDescriptions: applied, InstalledEntry: entry}, nil
}

// applyPatcherOptions writes the numeric/string parameter patches declared
// under a manifest's patcher_options, in a fixed order, against the
// resolved game executable.
func applyPatcherOptions(gameRoot string, options map[string]any) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}

	exePath, err := probe.ResolveExe(gameRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve executable for patcher options: %w", err)
	}

	var applied []string

	if v, ok := options["gravity"]; ok {
		gravity, gerr := toFloat(v)
		if gerr != nil {
			return applied, fmt.Errorf("gravity: %w", gerr)
		}
		if err := patcher.WriteGravity(exePath, gravity); err != nil {
			return applied, fmt.Errorf("write gravity: %w", err)
		}
		applied = append(applied, "gravity")
	}

	if v, ok := options["skins_in_shop"]; ok {
		count, cerr := toInt(v)
		if cerr != nil {
			return applied, fmt.Errorf("skins_in_shop: %w", cerr)
		}
		if err := patcher.WriteSkinsInShop(exePath, count); err != nil {
			return applied, fmt.Errorf("write skins_in_shop: %w", err)
		}
		applied = append(applied, "skins_in_shop")
	}

	if v, ok := options["blast_damage_friendly_fire"]; ok {
		enabled, berr := toBool(v)
		if berr != nil {
			return applied, fmt.Errorf("blast_damage_friendly_fire: %w", berr)
		}
		if err := patcher.WriteBlastDamageFriendlyFire(exePath, enabled); err != nil {
			return applied, fmt.Errorf("write blast_damage_friendly_fire: %w", err)
		}
		applied = append(applied, "blast_damage_friendly_fire")
	}

	if v, ok := options["game_font"]; ok {
		name, ok := v.(string)
		if !ok {
			return applied, fmt.Errorf("game_font: expected string, got %T", v)
		}
		if err := patcher.WriteGameFont(exePath, name); err != nil {
			return applied, fmt.Errorf("write game_font: %w", err)
		}
		applied = append(applied, "game_font")
	}

	return applied, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return b == "true" || b == "yes" || b == "on", nil
	default:
		return false, fmt.Errorf("expected bool, got %T", v)
	}
}

func buildInstalledEntry(m *manifest.Manifest, selection map[string]string) probe.InstalledEntry {
	options := make(map[string]string, len(selection))
	base := "yes"
	for k, v := range selection {
		if k == "base" {
			base = v
			continue
		}
		options[k] = v
	}

	return probe.InstalledEntry{
		Version:     m.Version.String(),
		Build:       m.Build,
		Language:    m.Language,
		Installment: m.Installment,
		DisplayName: m.DisplayName,
		Base:        base,
		Options:     options,
	}
}

// persistInstalledContent merges entry into the existing installed-mods
// manifest (creating it if absent) and writes it back atomically.
func persistInstalledContent(gameRoot, modName string, entry probe.InstalledEntry) error {
	existing, err := probe.LoadInstalledContent(gameRoot)
	if err != nil {
		existing = map[string]probe.InstalledEntry{}
	}
	existing[modName] = entry

	out, err := yaml.Marshal(existing)
	if err != nil {
		return fmt.Errorf("marshal installed content: %w", err)
	}

	path := filepath.Join(gameRoot, probe.InstalledContentFileName)
	return ioutil.WriteFileAtomic(path, out, 0o644)
}

// throttle wraps a ProgressFunc so it fires at most once per window,
// always including the final call so callers observe completion.
func throttle(fn ProgressFunc, window time.Duration) ProgressFunc {
	if fn == nil {
		return func(int, int, string, int64) {}
	}

	var mu sync.Mutex
	var last time.Time

	return func(idx, count int, rel string, size int64) {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if idx == count || now.Sub(last) >= window {
			last = now
			fn(idx, count, rel, size)
		}
	}
}
