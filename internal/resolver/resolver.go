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

// Package resolver is the central decision engine: given a loaded Manifest
// and a GameSnapshot, it computes the orthogonal compatibility verdicts the
// rest of the pipeline (planner, installer, UI) consumes.
package resolver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dem-team/commod/internal/manifest"
	"github.com/dem-team/commod/internal/probe"
	"github.com/dem-team/commod/internal/version"
)

const communityPatch = "community_patch"
const communityRemaster = "community_remaster"

// ReinstallKind enumerates the reinstall verdict produced when the mod (or,
// for community_remaster, community_patch) is already present in the
// snapshot's installed content.
type ReinstallKind string

const (
	ReinstallNone                   ReinstallKind = "none"
	ReinstallCannotOtherModsPresent ReinstallKind = "cannot_reinstall_other_mods_present"
	ReinstallSafe                   ReinstallKind = "safe_reinstall"
	ReinstallComplexSafe            ReinstallKind = "complex_safe_reinstall"
	ReinstallUnsafe                 ReinstallKind = "unsafe_reinstall"
	ReinstallComplexUnsafe          ReinstallKind = "complex_unsafe_reinstall"
	ReinstallCantOverNewerBuild     ReinstallKind = "cant_reinstall_over_newer_build"
	ReinstallCantOverOtherVersion   ReinstallKind = "cant_reinstall_over_other_version"
)

// blocks reports whether this reinstall kind must prevent installation.
func (k ReinstallKind) blocks() bool {
	switch k {
	case ReinstallCannotOtherModsPresent, ReinstallCantOverNewerBuild, ReinstallCantOverOtherVersion:
		return true
	default:
		return false
	}
}

// RequirementVerdict is the per-prerequisite outcome.
type RequirementVerdict struct {
	Entry     manifest.DependencyEntry
	Satisfied bool
	Reasons   []string
}

// IncompatibleVerdict is the per-incompatible outcome.
type IncompatibleVerdict struct {
	Entry        manifest.DependencyEntry
	Incompatible bool
	Reasons      []string
}

// ReinstallVerdict carries whether the mod is already present and, if so,
// what kind of reinstall this would be.
type ReinstallVerdict struct {
	IsReinstall     bool
	Kind            ReinstallKind
	PreviousInstall *probe.InstalledEntry
	OffendingMods   []string
}

// Verdicts is the full set of decisions the Resolver produces for one
// (Manifest, GameSnapshot) pair.
type Verdicts struct {
	InstallmentCompatible bool
	ToolVersionCompatible bool
	Requirements          []RequirementVerdict
	Incompatibles         []IncompatibleVerdict
	Reinstall             ReinstallVerdict
	CanInstall            bool
}

// Resolve computes every verdict and writes the per-entry verdicts back onto
// the manifest's IndividualRequireStatus / IndividualIncompStatus fields so
// callers rendering the manifest can do so without re-running Resolve.
func Resolve(m *manifest.Manifest, g *probe.GameSnapshot, toolVersion version.Version) Verdicts {
	v := Verdicts{
		InstallmentCompatible: string(g.Installment) == m.Installment,
		ToolVersionCompatible: toolVersionCompatible(m, toolVersion),
	}

	isCompatchEnv := isCompatchEnvironment(g.InstalledContent)

	m.IndividualRequireStatus = nil
	for _, prereq := range m.Prerequisites {
		if m.Name == communityRemaster && len(prereq.Names) > 0 && prereq.Names[0] == communityPatch {
			continue
		}
		rv := checkRequirement(m, prereq, g.InstalledContent, isCompatchEnv)
		v.Requirements = append(v.Requirements, rv)
		m.IndividualRequireStatus = append(m.IndividualRequireStatus, manifest.RequirementStatus{
			Entry: prereq, Satisfied: rv.Satisfied, Reasons: rv.Reasons,
		})
	}

	m.IndividualIncompStatus = nil
	for _, incomp := range m.Incompatible {
		iv := checkIncompatible(incomp, g.InstalledContent)
		v.Incompatibles = append(v.Incompatibles, iv)
		m.IndividualIncompStatus = append(m.IndividualIncompStatus, manifest.IncompatibleStatus{
			Entry: incomp, Incompatible: iv.Incompatible, Reasons: iv.Reasons,
		})
	}

	v.Reinstall = checkReinstallability(m, g.InstalledContent)

	allReqsMet := true
	for _, r := range v.Requirements {
		allReqsMet = allReqsMet && r.Satisfied
	}
	allIncompatsClear := true
	for _, i := range v.Incompatibles {
		allIncompatsClear = allIncompatsClear && !i.Incompatible
	}

	v.CanInstall = v.InstallmentCompatible && v.ToolVersionCompatible &&
		allReqsMet && allIncompatsClear && !v.Reinstall.Kind.blocks()

	return v
}

// toolVersionCompatible evaluates the patcher_version_requirement against
// the running tool version, stripping its pre-release identifier first: the
// tool is always considered the released form of its own version.
func toolVersionCompatible(m *manifest.Manifest, toolVersion version.Version) bool {
	released := toolVersion
	released.Identifier = ""
	return version.Evaluate(m.PatcherVersionRequirement, released)
}

func isCompatchEnvironment(installed map[string]probe.InstalledEntry) bool {
	_, hasRemaster := installed[communityRemaster]
	_, hasPatch := installed[communityPatch]
	return !hasRemaster && hasPatch
}

func checkRequirement(m *manifest.Manifest, prereq manifest.DependencyEntry, installed map[string]probe.InstalledEntry, isCompatchEnv bool) RequirementVerdict {
	var requiredModName string
	for _, candidate := range prereq.Names {
		if _, ok := installed[candidate]; ok {
			requiredModName = candidate
		}
	}

	nameValidated := requiredModName != ""
	var reasons []string

	if requiredModName == communityPatch && m.Name != communityRemaster && !containsName(prereq.Names, communityRemaster) {
		if _, hasRemaster := installed[communityRemaster]; hasRemaster {
			nameValidated = false
			reasons = append(reasons, "compatch-only mod is incompatible with an installed community remaster")
		}
	}

	versionValidated := true
	if nameValidated && len(prereq.Constraints.Constraints) > 0 {
		installedVersion := version.Parse(installed[requiredModName].Version)
		versionValidated = version.Evaluate(prereq.Constraints, installedVersion)
	}

	optionalContentValidated := true
	if nameValidated && versionValidated && len(prereq.OptionalContent) > 0 {
		entry := installed[requiredModName]
		for _, opt := range prereq.OptionalContent {
			val, ok := entry.Options[opt]
			if !ok || val == "" || val == "skip" {
				optionalContentValidated = false
				reasons = append(reasons, fmt.Sprintf("required option %q not installed for %s", opt, displayLabel(prereq, installed)))
			}
		}
	}

	satisfied := nameValidated && versionValidated && optionalContentValidated
	if !satisfied && len(reasons) == 0 {
		if !nameValidated {
			reasons = append(reasons, fmt.Sprintf("required mod not found: %s", displayLabel(prereq, installed)))
		} else if !versionValidated {
			reasons = append(reasons, fmt.Sprintf("installed version of %s does not satisfy requirement", displayLabel(prereq, installed)))
		}
	}
	_ = isCompatchEnv // retained for parity with the richer diagnostic text the UI layer composes

	return RequirementVerdict{Entry: prereq, Satisfied: satisfied, Reasons: reasons}
}

func checkIncompatible(incomp manifest.DependencyEntry, installed map[string]probe.InstalledEntry) IncompatibleVerdict {
	var incompModName string
	for _, candidate := range incomp.Names {
		if _, ok := installed[candidate]; ok {
			incompModName = candidate
		}
	}

	if incompModName == "" {
		return IncompatibleVerdict{Entry: incomp, Incompatible: false}
	}

	nameIncompat := true
	versionIncomp := true
	if len(incomp.Constraints.Constraints) > 0 {
		installedVersion := version.Parse(installed[incompModName].Version)
		versionIncomp = version.Evaluate(incomp.Constraints, installedVersion)
	}

	optionalContentIncomp := true
	if len(incomp.OptionalContent) > 0 {
		entry := installed[incompModName]
		optionalContentIncomp = false
		for _, opt := range incomp.OptionalContent {
			val, ok := entry.Options[opt]
			if ok && val != "" && val != "skip" {
				optionalContentIncomp = true
			}
		}
	}

	isIncompatible := nameIncompat && versionIncomp && optionalContentIncomp
	var reasons []string
	if isIncompatible {
		reasons = append(reasons, fmt.Sprintf("found incompatible mod installed: %s", displayLabel(incomp, installed)))
	}

	return IncompatibleVerdict{Entry: incomp, Incompatible: isIncompatible, Reasons: reasons}
}

func checkReinstallability(m *manifest.Manifest, installed map[string]probe.InstalledEntry) ReinstallVerdict {
	previous, ok := installed[m.Name]
	if !ok && m.Name == communityRemaster {
		previous, ok = installed[communityPatch]
	}
	if !ok {
		return ReinstallVerdict{IsReinstall: false, Kind: ReinstallNone}
	}

	selfAndPrereqs := map[string]bool{m.Name: true}
	for _, prereq := range m.Prerequisites {
		for _, name := range prereq.Names {
			selfAndPrereqs[name] = true
		}
	}

	var offenders []string
	for name := range installed {
		if !selfAndPrereqs[name] {
			offenders = append(offenders, name)
		}
	}
	if len(offenders) > 0 {
		sort.Strings(offenders)
		return ReinstallVerdict{IsReinstall: true, Kind: ReinstallCannotOtherModsPresent, PreviousInstall: &previous, OffendingMods: offenders}
	}

	existingVersion := version.Parse(previous.Version)
	thisVersion := m.Version

	if !existingVersion.Equal(thisVersion) {
		return ReinstallVerdict{IsReinstall: true, Kind: ReinstallCantOverOtherVersion, PreviousInstall: &previous}
	}

	complex := len(m.OptionalContent) > 0
	switch compareBuilds(m.Build, previous.Build) {
	case 0:
		if complex {
			return ReinstallVerdict{IsReinstall: true, Kind: ReinstallComplexSafe, PreviousInstall: &previous}
		}
		return ReinstallVerdict{IsReinstall: true, Kind: ReinstallSafe, PreviousInstall: &previous}
	case 1:
		if complex {
			return ReinstallVerdict{IsReinstall: true, Kind: ReinstallComplexUnsafe, PreviousInstall: &previous}
		}
		return ReinstallVerdict{IsReinstall: true, Kind: ReinstallUnsafe, PreviousInstall: &previous}
	default:
		return ReinstallVerdict{IsReinstall: true, Kind: ReinstallCantOverNewerBuild, PreviousInstall: &previous}
	}
}

// compareBuilds orders two opaque build tokens, returning -1/0/1 for
// a<b/a==b/a>b. Builds are ordered lexicographically per spec, except when
// both tokens parse entirely as integers, in which case they are compared
// numerically — this is what keeps "7" ordered below "10" the way a build
// counter actually increments, rather than by first-byte lexicographic
// accident.
func compareBuilds(a, b string) int {
	if na, erra := strconv.Atoi(a); erra == nil {
		if nb, errb := strconv.Atoi(b); errb == nil {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a, b)
}

func containsName(names []string, target string) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}

func displayLabel(entry manifest.DependencyEntry, installed map[string]probe.InstalledEntry) string {
	var labels []string
	for _, name := range entry.Names {
		if mod, ok := installed[name]; ok {
			labels = append(labels, mod.DisplayName)
		} else {
			labels = append(labels, name)
		}
	}
	return strings.Join(labels, " or ")
}
