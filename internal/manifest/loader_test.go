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

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dem-team/commod/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseManifestYAML = `
name: test_mod
display_name: Test Mod
version: "1.0.0"
build: "0001aaa"
description: a mod for testing
authors: someone
language: en
prerequisites:
  - name: community_patch
    versions: [">=1.10"]
patcher_version_requirement: ">=1.10"
`

func writeManifestTree(t *testing.T, modID string, yamlBody string, withDataDir bool) string {
	t.Helper()
	root := t.TempDir()
	modDir := filepath.Join(root, "mods", modID)
	require.NoError(t, os.MkdirAll(modDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(modDir, "manifest.yaml"), []byte(yamlBody), 0o644))
	if withDataDir {
		require.NoError(t, os.MkdirAll(filepath.Join(modDir, "data"), 0o755))
	}
	return modDir
}

func TestLoadDir_Basic(t *testing.T) {
	t.Parallel()

	modDir := writeManifestTree(t, "test_mod", baseManifestYAML, true)
	m, err := LoadDir(modDir)
	require.NoError(t, err)
	assert.Equal(t, "test_mod", m.Name)
	assert.Equal(t, "Test Mod", m.DisplayName)
	assert.Equal(t, "1.0.0", m.Version.String())
	assert.Len(t, m.Prerequisites, 1)
	assert.Equal(t, []string{"community_patch"}, m.Prerequisites[0].Names)
}

func TestLoadDir_MissingBaseDataDir(t *testing.T) {
	t.Parallel()

	modDir := writeManifestTree(t, "test_mod", baseManifestYAML, false)
	_, err := LoadDir(modDir)
	require.Error(t, err)
	var mcd *MissingContentDirectoryError
	assert.ErrorAs(t, err, &mcd)
}

func TestLoadDir_ForbiddenPrerequisite(t *testing.T) {
	t.Parallel()

	yamlBody := `
name: test_mod
display_name: Test Mod
version: "1.0.0"
build: "0001aaa"
description: a mod for testing
authors: someone
language: en
prerequisites:
  - name: community_patch
    versions: [">=1.10"]
    optional_content: ["some_part"]
patcher_version_requirement: ">=1.10"
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)
	_, err := LoadDir(modDir)
	require.Error(t, err)
	var fpe *ForbiddenPrerequisiteError
	assert.ErrorAs(t, err, &fpe)
}

func TestLoadDir_ForbiddenIncompatible(t *testing.T) {
	t.Parallel()

	yamlBody := baseManifestYAML + `
incompatible:
  - name: community_patch
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)
	_, err := LoadDir(modDir)
	require.Error(t, err)
	var fie *ForbiddenIncompatibleError
	assert.ErrorAs(t, err, &fie)
}

func TestLoadDir_ReservedOptionName(t *testing.T) {
	t.Parallel()

	yamlBody := baseManifestYAML + `
optional_content:
  - name: base
    display_name: Base
    description: not allowed
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)
	_, err := LoadDir(modDir)
	require.Error(t, err)
	var rone *ReservedOptionNameError
	assert.ErrorAs(t, err, &rone)
}

func TestLoadDir_OptionalContentMissingDir(t *testing.T) {
	t.Parallel()

	yamlBody := baseManifestYAML + `
optional_content:
  - name: extra_weapons
    display_name: Extra Weapons
    description: more guns
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)
	_, err := LoadDir(modDir)
	require.Error(t, err)
	var mcd *MissingContentDirectoryError
	assert.ErrorAs(t, err, &mcd)
}

func TestLoadDir_OptionalContentPresentDir(t *testing.T) {
	t.Parallel()

	yamlBody := baseManifestYAML + `
optional_content:
  - name: extra_weapons
    display_name: Extra Weapons
    description: more guns
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)
	require.NoError(t, os.MkdirAll(filepath.Join(modDir, "extra_weapons"), 0o755))

	m, err := LoadDir(modDir)
	require.NoError(t, err)
	require.Len(t, m.OptionalContent, 1)
	oc, ok := m.Option("extra_weapons")
	require.True(t, ok)
	assert.Equal(t, "Extra Weapons", oc.DisplayName)
}

func TestLoadDir_PatcherOptionsRangeEnforced(t *testing.T) {
	t.Parallel()

	yamlBody := baseManifestYAML + `
patcher_options:
  gravity: -500
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)
	_, err := LoadDir(modDir)
	require.Error(t, err)
	var se *SchemaError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, "gravity", se.Field)
}

func TestLoadDir_PatcherVersionRequirementDefault(t *testing.T) {
	t.Parallel()

	yamlBody := `
name: test_mod
display_name: Test Mod
version: "1.0.0"
build: "0001aaa"
description: a mod for testing
authors: someone
language: en
prerequisites: []
patcher_version_requirement: ""
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)
	m, err := LoadDir(modDir)
	require.NoError(t, err)
	require.Len(t, m.PatcherVersionRequirement.Constraints, 1)
	assert.Equal(t, version.OpGreaterEqual, m.PatcherVersionRequirement.Constraints[0].Op)
	assert.Equal(t, "1.10.0", m.PatcherVersionRequirement.Constraints[0].V.String())
}

func TestLoadDir_TranslationMismatchRejected(t *testing.T) {
	t.Parallel()

	yamlBody := baseManifestYAML + `
translations: [fr]
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)
	badTranslation := `
name: different_name
display_name: Test Mod FR
version: "1.0.0"
build: "0001aaa"
description: un mod de test
authors: someone
language: fr
prerequisites:
  - name: community_patch
    versions: [">=1.10"]
patcher_version_requirement: ">=1.10"
`
	require.NoError(t, os.WriteFile(filepath.Join(modDir, "manifest_fr.yaml"), []byte(badTranslation), 0o644))

	_, err := LoadDir(modDir)
	require.Error(t, err)
	var tmm *TranslationMetadataMismatchError
	assert.ErrorAs(t, err, &tmm)
}

func TestLoadDir_TranslationLoadedOK(t *testing.T) {
	t.Parallel()

	yamlBody := baseManifestYAML + `
translations: [fr]
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)
	goodTranslation := `
name: test_mod
display_name: Test Mod FR
version: "1.0.0"
build: "0001aaa"
description: un mod de test
authors: someone
language: fr
prerequisites:
  - name: community_patch
    versions: [">=1.10"]
patcher_version_requirement: ">=1.10"
`
	require.NoError(t, os.WriteFile(filepath.Join(modDir, "manifest_fr.yaml"), []byte(goodTranslation), 0o644))

	m, err := LoadDir(modDir)
	require.NoError(t, err)
	require.Contains(t, m.TranslationsLoaded, "fr")
	assert.Equal(t, "Test Mod FR", m.TranslationsLoaded["fr"].DisplayName)
}

func TestLoadDir_MissingDeclaredTranslation(t *testing.T) {
	t.Parallel()

	yamlBody := baseManifestYAML + `
translations: [fr]
`
	modDir := writeManifestTree(t, "test_mod", yamlBody, true)

	_, err := LoadDir(modDir)
	require.Error(t, err)
	var mte *MissingTranslationError
	require.ErrorAs(t, err, &mte)
	assert.Equal(t, "fr", mte.Lang)
}

func TestArchiveListing_IsDir(t *testing.T) {
	t.Parallel()

	listing := NewArchiveListing([]string{"test_mod/data/", "test_mod/data/file.txt", "test_mod/extra/"})
	assert.True(t, listing.IsDir("test_mod/data"))
	assert.True(t, listing.IsDir("test_mod/extra"))
	assert.False(t, listing.IsDir("test_mod/missing"))
}

func TestLoadArchive_UsesListingNotFilesystem(t *testing.T) {
	t.Parallel()

	listing := NewArchiveListing([]string{"test_mod/data/"})
	m, err := LoadArchive([]byte(baseManifestYAML), "test_mod/manifest.yaml", listing)
	require.NoError(t, err)
	assert.Equal(t, "test_mod", m.Name)
}
