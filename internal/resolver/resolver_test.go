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

package resolver

import (
	"testing"

	"github.com/dem-team/commod/internal/manifest"
	"github.com/dem-team/commod/internal/probe"
	"github.com/dem-team/commod/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainManifest(name, installment, ver, build string) *manifest.Manifest {
	return &manifest.Manifest{
		Name:        name,
		Installment: installment,
		Version:     version.Parse(ver),
		Build:       build,
		PatcherVersionRequirement: version.ParseConstraintSet([]string{">=1.10"}, version.DefaultGreaterEqual),
	}
}

func TestResolve_S2_PrereqSatisfiedByRange(t *testing.T) {
	t.Parallel()

	m := plainManifest("alpha", "exmachina", "1.0.0", "0001")
	m.Prerequisites = []manifest.DependencyEntry{
		{
			Names:           []string{"beta"},
			VersionLiterals: []string{">=2.0", "<3.0"},
			Constraints:     version.ParseConstraintSet([]string{">=2.0", "<3.0"}, version.DefaultEqual),
		},
	}

	g := &probe.GameSnapshot{
		Installment: probe.InstallmentExMachina,
		InstalledContent: map[string]probe.InstalledEntry{
			"beta": {Version: "2.3.1", DisplayName: "Beta"},
		},
	}

	v := Resolve(m, g, version.Parse("1.10"))
	require.Len(t, v.Requirements, 1)
	assert.True(t, v.Requirements[0].Satisfied)
	assert.Equal(t, version.StyleRange, m.Prerequisites[0].Constraints.Style)
	assert.True(t, v.CanInstall)
}

func TestResolve_S3_PrereqFailsOnIdentifier(t *testing.T) {
	t.Parallel()

	m := plainManifest("alpha", "exmachina", "1.0.0", "0001")
	m.Prerequisites = []manifest.DependencyEntry{
		{
			Names:           []string{"beta"},
			VersionLiterals: []string{"1.0.0"},
			Constraints:     version.ParseConstraintSet([]string{"1.0.0"}, version.DefaultEqual),
		},
	}

	g := &probe.GameSnapshot{
		Installment: probe.InstallmentExMachina,
		InstalledContent: map[string]probe.InstalledEntry{
			"beta": {Version: "1.0.0-rc1", DisplayName: "Beta"},
		},
	}

	v := Resolve(m, g, version.Parse("1.10"))
	require.Len(t, v.Requirements, 1)
	assert.False(t, v.Requirements[0].Satisfied)
	assert.False(t, v.CanInstall)
}

func TestResolve_S4_IncompatiblePresent(t *testing.T) {
	t.Parallel()

	m := plainManifest("alpha", "exmachina", "1.0.0", "0001")
	m.Incompatible = []manifest.DependencyEntry{
		{Names: []string{"gamma"}},
	}

	g := &probe.GameSnapshot{
		Installment: probe.InstallmentExMachina,
		InstalledContent: map[string]probe.InstalledEntry{
			"gamma": {Version: "0.5", DisplayName: "Gamma"},
		},
	}

	v := Resolve(m, g, version.Parse("1.10"))
	require.Len(t, v.Incompatibles, 1)
	assert.True(t, v.Incompatibles[0].Incompatible)
	assert.False(t, v.CanInstall)
}

func TestResolve_S5_ReinstallSameBuild(t *testing.T) {
	t.Parallel()

	m := plainManifest("alpha", "exmachina", "1.0.0", "0007")

	g := &probe.GameSnapshot{
		Installment: probe.InstallmentExMachina,
		InstalledContent: map[string]probe.InstalledEntry{
			"alpha": {Version: "1.0.0", Build: "0007", DisplayName: "Alpha"},
		},
	}

	v := Resolve(m, g, version.Parse("1.10"))
	assert.True(t, v.Reinstall.IsReinstall)
	assert.Equal(t, ReinstallSafe, v.Reinstall.Kind)
	assert.True(t, v.CanInstall)
}

func TestResolve_S6_ReinstallNewerBuildPresent(t *testing.T) {
	t.Parallel()

	// both builds are purely numeric, so they compare as integers: 7 < 10,
	// so the manifest's build is older than what's installed and is blocked.
	m := plainManifest("alpha", "exmachina", "1.0.0", "7")

	g := &probe.GameSnapshot{
		Installment: probe.InstallmentExMachina,
		InstalledContent: map[string]probe.InstalledEntry{
			"alpha": {Version: "1.0.0", Build: "10", DisplayName: "Alpha"},
		},
	}

	v := Resolve(m, g, version.Parse("1.10"))
	assert.Equal(t, ReinstallCantOverNewerBuild, v.Reinstall.Kind)
	assert.False(t, v.CanInstall)
}

func TestResolve_Idempotence(t *testing.T) {
	t.Parallel()

	m := plainManifest("alpha", "exmachina", "1.0.0", "0001")
	m.Prerequisites = []manifest.DependencyEntry{
		{
			Names:       []string{"beta"},
			Constraints: version.ParseConstraintSet(nil, version.DefaultEqual),
		},
	}
	m.Incompatible = []manifest.DependencyEntry{{Names: []string{"gamma"}}}

	g := &probe.GameSnapshot{
		Installment: probe.InstallmentExMachina,
		InstalledContent: map[string]probe.InstalledEntry{
			"beta": {Version: "1.0.0", DisplayName: "Beta"},
		},
	}

	first := Resolve(m, g, version.Parse("1.10"))
	second := Resolve(m, g, version.Parse("1.10"))

	assert.Equal(t, first.CanInstall, second.CanInstall)
	assert.Equal(t, first.InstallmentCompatible, second.InstallmentCompatible)
	assert.Equal(t, first.ToolVersionCompatible, second.ToolVersionCompatible)
	assert.Equal(t, first.Reinstall, second.Reinstall)
	require.Len(t, second.Requirements, len(first.Requirements))
	for i := range first.Requirements {
		assert.Equal(t, first.Requirements[i].Satisfied, second.Requirements[i].Satisfied)
		assert.Equal(t, first.Requirements[i].Reasons, second.Requirements[i].Reasons)
	}
}

func TestResolve_ReinstallOtherModsPresent(t *testing.T) {
	t.Parallel()

	m := plainManifest("alpha", "exmachina", "1.0.0", "0001")

	g := &probe.GameSnapshot{
		Installment: probe.InstallmentExMachina,
		InstalledContent: map[string]probe.InstalledEntry{
			"alpha": {Version: "1.0.0", Build: "0001", DisplayName: "Alpha"},
			"other": {Version: "1.0.0", Build: "0001", DisplayName: "Other"},
		},
	}

	v := Resolve(m, g, version.Parse("1.10"))
	assert.Equal(t, ReinstallCannotOtherModsPresent, v.Reinstall.Kind)
	assert.Equal(t, []string{"other"}, v.Reinstall.OffendingMods)
	assert.False(t, v.CanInstall)
}

func TestResolve_CommunityRemasterSkipsCommunityPatchPrereq(t *testing.T) {
	t.Parallel()

	m := plainManifest(communityRemaster, "exmachina", "1.0.0", "0001")
	m.Prerequisites = []manifest.DependencyEntry{{Names: []string{communityPatch}}}

	g := &probe.GameSnapshot{Installment: probe.InstallmentExMachina, InstalledContent: map[string]probe.InstalledEntry{}}

	v := Resolve(m, g, version.Parse("1.10"))
	assert.Empty(t, v.Requirements)
}

func TestResolve_ToolVersionStripsPrereleaseIdentifier(t *testing.T) {
	t.Parallel()

	m := plainManifest("alpha", "exmachina", "1.0.0", "0001")
	m.PatcherVersionRequirement = version.ParseConstraintSet([]string{">=1.10"}, version.DefaultGreaterEqual)

	g := &probe.GameSnapshot{Installment: probe.InstallmentExMachina, InstalledContent: map[string]probe.InstalledEntry{}}

	v := Resolve(m, g, version.Parse("1.10-rc1"))
	assert.True(t, v.ToolVersionCompatible)
}
