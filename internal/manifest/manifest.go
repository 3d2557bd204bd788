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

// Package manifest holds the typed in-memory form of a mod: its identity,
// presentation metadata, dependency sets, and install surface, along with
// the schema-driven loader and validator that builds it from YAML.
package manifest

import "github.com/dem-team/commod/internal/version"

// Tag is one of the closed set of mod classification tags.
type Tag string

const (
	TagBugfix        Tag = "BUGFIX"
	TagGameplay      Tag = "GAMEPLAY"
	TagStory         Tag = "STORY"
	TagVisual        Tag = "VISUAL"
	TagAudio         Tag = "AUDIO"
	TagWeapons       Tag = "WEAPONS"
	TagVehicles      Tag = "VEHICLES"
	TagUI            Tag = "UI"
	TagBalance       Tag = "BALANCE"
	TagHumor         Tag = "HUMOR"
	TagUncategorized Tag = "UNCATEGORIZED"
)

var knownTags = map[Tag]bool{
	TagBugfix: true, TagGameplay: true, TagStory: true, TagVisual: true,
	TagAudio: true, TagWeapons: true, TagVehicles: true, TagUI: true,
	TagBalance: true, TagHumor: true, TagUncategorized: true,
}

// ReservedOptionNames may never be used as an OptionalContent name: they
// collide with fields the Installer merges into an InstalledEntry.
var ReservedOptionNames = map[string]bool{
	"base": true, "display_name": true, "build": true, "version": true,
}

// Screenshot is a presentation collaborator; paths are resolved by the
// loader relative to the distribution directory.
type Screenshot struct {
	Img     string
	Text    string
	Compare string
}

// DependencyEntry is one prerequisite or incompatible entry: a set of
// alternative mod names (OR), an optional version ConstraintSet, and an
// optional list of required optional-content names.
type DependencyEntry struct {
	Names              []string
	VersionLiterals    []string
	Constraints        version.ConstraintSet
	OptionalContent    []string
	NameLabel          string // rendered by the Resolver for display
}

// InstallSetting is one mutually exclusive sub-choice of an OptionalContent
// that declares install_settings.
type InstallSetting struct {
	Name        string
	Description string
}

// OptionalContent is a named, install-time toggleable sub-package of a mod.
type OptionalContent struct {
	Name            string
	DisplayName     string
	Description     string
	InstallSettings []InstallSetting
	// DefaultOption is "", "skip", or one of InstallSettings' names. An
	// unset default and an explicit "install" are treated as equivalent.
	DefaultOption  string
	NoBaseContent  bool
	PatcherOptions map[string]any
}

// PatcherVersionDefault is applied when a manifest's
// patcher_version_requirement is empty or holds only blank entries.
var PatcherVersionDefault = []string{">=1.10"}

// Manifest is the immutable-after-load, in-memory form of one mod YAML
// file. Resolver-owned verdict fields
// (IndividualRequireStatus, IndividualIncompStatus) are the sole mutable
// parts of an otherwise-immutable value and are written only by
// internal/resolver.
type Manifest struct {
	Name        string
	DisplayName string
	Description string
	Authors     string
	Version     version.Version
	Build       string
	Language    string
	Installment string

	ReleaseDate string
	Tags        []Tag

	Logo          string
	InstallBanner string
	Screenshots   []Screenshot
	ChangeLog     string
	OtherInfo     string
	URL           string
	TrailerURL    string

	Prerequisites []DependencyEntry
	Incompatible  []DependencyEntry

	PatcherVersionRequirement version.ConstraintSet

	NoBaseContent   bool
	OptionalContent []*OptionalContent
	PatcherOptions  map[string]any

	// DistributionDir is the directory this manifest was loaded from
	// (<distro>/mods/<mod_id>).
	DistributionDir string

	TranslationsLoaded map[string]*Manifest
	VariantsLoaded     map[string]*Manifest

	IndividualRequireStatus []RequirementStatus
	IndividualIncompStatus  []IncompatibleStatus

	optionsDict map[string]*OptionalContent
}

// RequirementStatus is the Resolver's recorded per-prerequisite verdict.
type RequirementStatus struct {
	Entry     DependencyEntry
	Satisfied bool
	Reasons   []string
}

// IncompatibleStatus is the Resolver's recorded per-incompatible verdict.
type IncompatibleStatus struct {
	Entry        DependencyEntry
	Incompatible bool
	Reasons      []string
}

// Option looks up a declared OptionalContent by name.
func (m *Manifest) Option(name string) (*OptionalContent, bool) {
	oc, ok := m.optionsDict[name]
	return oc, ok
}

// FullInstallSettings returns the default installation selection: base
// plus, for each optional content, its DefaultOption or "yes" if unset.
func (m *Manifest) FullInstallSettings() map[string]string {
	sel := map[string]string{"base": "yes"}
	for _, oc := range m.OptionalContent {
		if oc.DefaultOption != "" {
			sel[oc.Name] = oc.DefaultOption
		} else {
			sel[oc.Name] = "yes"
		}
	}
	return sel
}
