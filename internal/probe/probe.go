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

// Package probe discovers and fingerprints an installed copy of the game:
// locating the executable, reading its version signature, classifying the
// installment, and loading the currently installed mod content.
package probe

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "go.yaml.in/yaml/v3"
)

// Installment is one of the closed set of supported game editions.
type Installment string

const (
	InstallmentExMachina Installment = "exmachina"
	InstallmentM113      Installment = "m113"
	InstallmentArcade    Installment = "arcade"
	InstallmentUnknown   Installment = ""
)

// candidateExeNames are tried in order against the game root.
var candidateExeNames = []string{
	"hta.exe",
	"game.exe",
	"start.exe",
}

// sentinelFiles must all be present for a directory to be accepted as a game
// root by ValidateGameDir.
var sentinelFiles = []string{
	"data",
	"resource",
}

// fingerprints maps a fixed-offset byte signature (read as a short ASCII
// token) to its installment. The offset and token table mirror the
// executables' own embedded version strings.
var fingerprints = map[string]Installment{
	"1.02":      InstallmentExMachina,
	"1.04":      InstallmentExMachina,
	"KRBDZHA10": InstallmentExMachina,
	"M113":      InstallmentM113,
	"ARCD":      InstallmentArcade,
}

const (
	fingerprintOffset = 0x2F4
	fingerprintLength = 16
)

// Flags capture the boolean render/display toggles of a game install.
// Snapshot does not read them from the config; they stay false.
type Flags struct {
	HiDPIAware             bool
	FullscreenOptsDisabled bool
	Windowed               bool
}

// InstalledEntry is one mod's recorded installation state, persisted inside
// installed_content.yaml in the game directory.
type InstalledEntry struct {
	Version     string            `yaml:"version"`
	Build       string            `yaml:"build"`
	Language    string            `yaml:"language"`
	Installment string            `yaml:"installment"`
	DisplayName string            `yaml:"display_name"`
	Base        string            `yaml:"base"`
	Options     map[string]string `yaml:",inline"`
}

// GameSnapshot is a point-in-time fingerprint of one game installation,
// replaced wholesale on every refresh.
type GameSnapshot struct {
	RootPath              string
	ExePath               string
	ExeVersion             string
	Installment           Installment
	InstalledContent      map[string]InstalledEntry
	InstalledDescriptions map[string]string
	IsRunning             bool
	Flags                 Flags
}

// InstalledContentFileName is the well-known path, relative to the game
// root, of the installed-mods manifest.
const InstalledContentFileName = "installed_content.yaml"

// MissingFilesError reports that ValidateGameDir could not find a required
// sentinel file or directory.
type MissingFilesError struct {
	Root        string
	FirstMissing string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("%s: missing required path %q", e.Root, e.FirstMissing)
}

// ValidateGameDir requires presence of a small fixed set of sentinel paths.
func ValidateGameDir(root string) error {
	for _, name := range sentinelFiles {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			return &MissingFilesError{Root: root, FirstMissing: name}
		}
	}
	return nil
}

// ResolveExe discovers the game executable by trying each candidate name
// beneath root in order, returning the first that exists.
func ResolveExe(root string) (string, error) {
	for _, name := range candidateExeNames {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no known executable found under %s", root)
}

// ReadExeVersion reads the short signature token at the fixed fingerprint
// offset. If the file cannot be opened for reading (commonly because the
// game process holds it open), running is true and version is "".
func ReadExeVersion(path string) (version string, running bool, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		if os.IsPermission(openErr) {
			return "", true, nil
		}
		return "", false, fmt.Errorf("open %s: %w", path, openErr)
	}
	defer f.Close()

	buf := make([]byte, fingerprintLength)
	n, readErr := f.ReadAt(buf, fingerprintOffset)
	if readErr != nil && n == 0 {
		return "unknown", false, nil
	}

	token := trimNulTail(buf[:n])
	if token == "" {
		return "unknown", false, nil
	}
	return token, false, nil
}

func trimNulTail(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == 0x00 || b[end-1] == ' ') {
		end--
	}
	return string(b[:end])
}

// ClassifyInstallment maps a fingerprint token to its installment via the
// closed lookup table; unknown tokens classify as InstallmentUnknown.
func ClassifyInstallment(exeVersion string) Installment {
	if installment, ok := fingerprints[exeVersion]; ok {
		return installment
	}
	return InstallmentUnknown
}

// LoadInstalledContent reads the installed-mods YAML beneath root. A missing
// file is treated as "no mods installed"; a malformed file is treated as
// empty and the error is returned alongside the empty map so the caller can
// log it without treating the probe itself as failed.
func LoadInstalledContent(root string) (map[string]InstalledEntry, error) {
	path := filepath.Join(root, InstalledContentFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]InstalledEntry{}, nil
		}
		return map[string]InstalledEntry{}, fmt.Errorf("read %s: %w", path, err)
	}

	var content map[string]InstalledEntry
	if err := yaml.Unmarshal(b, &content); err != nil {
		return map[string]InstalledEntry{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if content == nil {
		content = map[string]InstalledEntry{}
	}
	return content, nil
}

// CheckIsRunning reports whether any process currently appears to be
// executing exePath. The check is best-effort: opening the file for
// writing and observing a permission error is the only portable-enough
// signal without linking a process-enumeration library. ReadExeVersion
// reads a permission error on its read-only open the same way.
func CheckIsRunning(exePath string) bool {
	f, err := os.OpenFile(exePath, os.O_RDWR, 0)
	if err != nil {
		return os.IsPermission(err)
	}
	f.Close()
	return false
}

// Snapshot runs the full probe sequence against a game root.
func Snapshot(root string) (*GameSnapshot, error) {
	if err := ValidateGameDir(root); err != nil {
		return nil, err
	}

	exePath, err := ResolveExe(root)
	if err != nil {
		return nil, err
	}

	exeVersion, running, err := ReadExeVersion(exePath)
	if err != nil {
		return nil, err
	}
	if running {
		running = true
	} else {
		running = CheckIsRunning(exePath)
	}

	installed, _ := LoadInstalledContent(root)

	descriptions := make(map[string]string, len(installed))
	for name, entry := range installed {
		descriptions[name] = entry.DisplayName
	}

	return &GameSnapshot{
		RootPath:              root,
		ExePath:               exePath,
		ExeVersion:            exeVersion,
		Installment:           ClassifyInstallment(exeVersion),
		InstalledContent:      installed,
		InstalledDescriptions: descriptions,
		IsRunning:             running,
	}, nil
}
