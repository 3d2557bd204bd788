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

// Package planner turns a validated install selection into an ordered list
// of copy jobs, applying the forced-option override that reinstalling a
// mod with optional content requires.
package planner

import (
	"fmt"
	"path/filepath"

	"github.com/dem-team/commod/internal/manifest"
	"github.com/dem-team/commod/internal/resolver"
)

// CopyJob is one source→destination directory pair the Installer must copy
// recursively, in order.
type CopyJob struct {
	SourceDir string
	DestDir   string
	Label     string
}

// UnknownSelectionKeyError reports a selection key that names neither "base"
// nor a declared optional content.
type UnknownSelectionKeyError struct{ Key string }

func (e *UnknownSelectionKeyError) Error() string {
	return fmt.Sprintf("selection key %q does not name a known option", e.Key)
}

// InvalidSelectionValueError reports a selection value that does not match
// the option's schema (flat options accept only yes/skip; options with
// install_settings accept only a declared setting name or skip).
type InvalidSelectionValueError struct {
	Key   string
	Value string
}

func (e *InvalidSelectionValueError) Error() string {
	return fmt.Sprintf("selection value %q is not valid for option %q", e.Value, e.Key)
}

// Plan validates selection against m's declared options, applies the
// forced-option override implied by reinstall.Kind when reinstalling a
// complex mod, and produces the ordered copy job list.
func Plan(m *manifest.Manifest, selection map[string]string, reinstall resolver.ReinstallVerdict) ([]CopyJob, error) {
	effective, err := effectiveSelection(m, selection, reinstall)
	if err != nil {
		return nil, err
	}

	if err := validateSelection(m, effective); err != nil {
		return nil, err
	}

	var jobs []CopyJob
	if !m.NoBaseContent && effective["base"] != "skip" {
		jobs = append(jobs, CopyJob{
			SourceDir: filepath.Join(m.DistributionDir, "data"),
			DestDir:   "data",
			Label:     "base",
		})
	}

	for _, oc := range m.OptionalContent {
		value := effective[oc.Name]
		if value == "skip" || value == "" {
			continue
		}

		optDir := filepath.Join(m.DistributionDir, oc.Name)
		if len(oc.InstallSettings) > 0 {
			jobs = append(jobs, CopyJob{SourceDir: optDir, DestDir: oc.Name, Label: oc.Name})
			jobs = append(jobs, CopyJob{
				SourceDir: filepath.Join(optDir, value),
				DestDir:   filepath.Join(oc.Name, value),
				Label:     fmt.Sprintf("%s/%s", oc.Name, value),
			})
		} else {
			jobs = append(jobs, CopyJob{SourceDir: optDir, DestDir: oc.Name, Label: oc.Name})
		}
	}

	return jobs, nil
}

// effectiveSelection returns the selection map after applying the
// forced-option override: on a complex reinstall, any option whose previous
// value is non-empty overrides the caller-supplied selection.
func effectiveSelection(m *manifest.Manifest, selection map[string]string, reinstall resolver.ReinstallVerdict) (map[string]string, error) {
	effective := make(map[string]string, len(selection))
	for k, v := range selection {
		effective[k] = v
	}

	forced := reinstall.Kind == resolver.ReinstallComplexSafe || reinstall.Kind == resolver.ReinstallComplexUnsafe
	if !forced || reinstall.PreviousInstall == nil {
		return effective, nil
	}

	prev := reinstall.PreviousInstall
	if prev.Base != "" {
		effective["base"] = prev.Base
	}
	for name, value := range prev.Options {
		if value != "" {
			effective[name] = value
		}
	}

	return effective, nil
}

func validateSelection(m *manifest.Manifest, selection map[string]string) error {
	if _, ok := selection["base"]; !ok {
		return &UnknownSelectionKeyError{Key: "base"}
	}

	for key, value := range selection {
		if key == "base" {
			if value != "yes" && value != "skip" {
				return &InvalidSelectionValueError{Key: key, Value: value}
			}
			continue
		}

		oc, ok := m.Option(key)
		if !ok {
			return &UnknownSelectionKeyError{Key: key}
		}

		if len(oc.InstallSettings) > 0 {
			if value == "skip" {
				continue
			}
			found := false
			for _, s := range oc.InstallSettings {
				if s.Name == value {
					found = true
					break
				}
			}
			if !found {
				return &InvalidSelectionValueError{Key: key, Value: value}
			}
		} else if value != "yes" && value != "skip" {
			return &InvalidSelectionValueError{Key: key, Value: value}
		}
	}

	return nil
}
