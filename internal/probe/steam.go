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

package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/andygrunwald/vdf"
)

// SteamCandidate is one Steam-reported installation of the game, discovered
// without yet being validated as a real game directory.
type SteamCandidate struct {
	AppID       string
	Name        string
	InstallRoot string
	LibraryRoot string
}

// DiscoverSteamCandidates locates Steam library folders and enumerates
// installed app manifests beneath them, returning every candidate whose
// installdir looks plausible. Validation that the directory is actually a
// supported game happens later via ValidateGameDir/ResolveExe.
func DiscoverSteamCandidates() ([]SteamCandidate, []string, error) {
	libs, didScan, warnings, err := discoverSteamLibraries()
	if err != nil {
		return nil, warnings, fmt.Errorf("scanning steam libraries: %w", err)
	}
	if !didScan {
		return nil, warnings, nil
	}

	var candidates []SteamCandidate
	for _, lib := range libs {
		found, warns, err := discoverSteamInstalls(lib)
		warnings = append(warnings, warns...)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		candidates = append(candidates, found...)
	}

	return candidates, warnings, nil
}

func discoverSteamLibraries() ([]string, bool, []string, error) {
	roots := candidateSteamRoots()
	seenRoots := make(map[string]struct{}, len(roots))

	didScan := false
	var warnings []string

	var uniqRoots []string
	for _, r := range roots {
		r = expandHome(r)
		canon, err := canonicalizePathBestEffort(r)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("steam root canonicalize failed (%s): %v", r, err))
			canon = filepath.Clean(r)
		}
		if _, ok := seenRoots[canon]; ok {
			continue
		}
		seenRoots[canon] = struct{}{}
		uniqRoots = append(uniqRoots, canon)
	}

	libSet := make(map[string]struct{})
	for _, root := range uniqRoots {
		vdfPath := filepath.Join(root, "steamapps", "libraryfolders.vdf")
		st, statErr := os.Stat(vdfPath)
		if statErr != nil || st.IsDir() {
			continue
		}

		f, openErr := os.Open(vdfPath)
		if openErr != nil {
			warnings = append(warnings, fmt.Sprintf("failed to open %s: %v", vdfPath, openErr))
			continue
		}

		p := vdf.NewParser(f)
		parsed, parseErr := p.Parse()
		f.Close()
		if parseErr != nil {
			warnings = append(warnings, fmt.Sprintf("failed to parse %s: %v", vdfPath, parseErr))
			continue
		}

		paths := extractLibraryPaths(parsed)
		didScan = true
		if len(paths) == 0 {
			warnings = append(warnings, fmt.Sprintf("no libraries found in %s", vdfPath))
			continue
		}

		for _, p := range paths {
			p = strings.TrimSpace(expandHome(p))
			if p == "" {
				continue
			}
			canon, cerr := canonicalizePathBestEffort(p)
			if cerr != nil {
				warnings = append(warnings, fmt.Sprintf("library path canonicalize failed (%s): %v", p, cerr))
				canon = filepath.Clean(p)
			}
			libSet[canon] = struct{}{}
		}
	}

	libs := make([]string, 0, len(libSet))
	for p := range libSet {
		libs = append(libs, p)
	}
	sort.Strings(libs)

	return libs, didScan, warnings, nil
}

func discoverSteamInstalls(libRoot string) ([]SteamCandidate, []string, error) {
	var warnings []string
	var out []SteamCandidate

	steamapps := filepath.Join(libRoot, "steamapps")
	if st, statErr := os.Stat(steamapps); statErr != nil || !st.IsDir() {
		return nil, nil, nil
	}

	glob := filepath.Join(steamapps, "appmanifest_*.acf")
	manifestPaths, globErr := filepath.Glob(glob)
	if globErr != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", glob, globErr)
	}
	sort.Strings(manifestPaths)

	for _, manifestPath := range manifestPaths {
		appid, name, installdir, warn, err := parseAppManifest(manifestPath)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		if err != nil {
			continue
		}

		installRaw := filepath.Join(steamapps, "common", installdir)
		installCanon, cerr := canonicalizePathBestEffort(installRaw)
		if cerr != nil {
			warnings = append(warnings, fmt.Sprintf("install_root canonicalize failed (%s): %v", installRaw, cerr))
			installCanon = filepath.Clean(installRaw)
		}

		display := strings.TrimSpace(name)
		if display == "" {
			display = fmt.Sprintf("Steam %s", appid)
		}

		out = append(out, SteamCandidate{
			AppID:       appid,
			Name:        display,
			InstallRoot: installCanon,
			LibraryRoot: libRoot,
		})
	}

	return out, warnings, nil
}

func canonicalizePathBestEffort(p string) (string, error) {
	p = filepath.Clean(p)
	if !filepath.IsAbs(p) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		p = abs
	}
	real, err := filepath.EvalSymlinks(p)
	if err == nil {
		return filepath.Clean(real), nil
	}
	return p, nil
}

func candidateSteamRoots() []string {
	home, _ := os.UserHomeDir()

	return []string{
		filepath.Join(xdg.DataHome, "Steam"),
		filepath.Join(home, ".local", "share", "Steam"),
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", "data", "Steam"),
	}
}

func expandHome(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}

// extractLibraryPaths supports both the old ("1" "/path") and new
// ("1" {"path" "/path"}) libraryfolders.vdf formats.
func extractLibraryPaths(parsed any) []string {
	root, ok := parsed.(map[string]any)
	if !ok {
		return nil
	}

	lf, ok := root["libraryfolders"].(map[string]any)
	if !ok {
		return nil
	}

	var out []string
	for k, v := range lf {
		if _, err := strconv.Atoi(k); err != nil {
			continue
		}
		switch vv := v.(type) {
		case string:
			out = append(out, vv)
		case map[string]any:
			if p, ok := vv["path"].(string); ok && strings.TrimSpace(p) != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseAppManifest(manifestPath string) (appid, name, installdir, warning string, err error) {
	f, openErr := os.Open(manifestPath)
	if openErr != nil {
		return "", "", "", fmt.Sprintf("failed to open %s: %v", manifestPath, openErr), openErr
	}
	defer f.Close()

	p := vdf.NewParser(f)
	parsed, perr := p.Parse()
	if perr != nil {
		w := fmt.Sprintf("failed to parse %s: %v", manifestPath, perr)
		return "", "", "", w, perr
	}

	appStateAny, ok := parsed["AppState"]
	if !ok {
		appStateAny, ok = parsed["appstate"]
	}
	appState, ok := appStateAny.(map[string]any)
	if !ok {
		w := fmt.Sprintf("manifest missing AppState map %s", manifestPath)
		return "", "", "", w, fmt.Errorf("%s", w)
	}

	appid = strings.TrimSpace(vdfString(appState["appid"]))
	name = strings.TrimSpace(vdfString(appState["name"]))
	installdir = strings.TrimSpace(vdfString(appState["installdir"]))

	if appid == "" || installdir == "" {
		w := fmt.Sprintf("manifest missing required fields (appid/installdir) %s", manifestPath)
		return "", "", "", w, fmt.Errorf("%s", w)
	}

	return appid, name, installdir, "", nil
}

func vdfString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
