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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFingerprint(t *testing.T, path, token string) {
	t.Helper()
	buf := make([]byte, fingerprintOffset+fingerprintLength)
	copy(buf[fingerprintOffset:], []byte(token))
	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

func TestValidateGameDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	err := ValidateGameDir(root)
	require.Error(t, err)
	var mfe *MissingFilesError
	assert.ErrorAs(t, err, &mfe)
	assert.Equal(t, "data", mfe.FirstMissing)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "resource"), 0o755))
	assert.NoError(t, ValidateGameDir(root))
}

func TestResolveExe(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := ResolveExe(root)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "hta.exe"), []byte{0x4d, 0x5a}, 0o644))
	p, err := ResolveExe(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "hta.exe"), p)
}

func TestReadExeVersion_KnownFingerprint(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exe := filepath.Join(root, "hta.exe")
	writeFingerprint(t, exe, "KRBDZHA10")

	version, running, err := ReadExeVersion(exe)
	require.NoError(t, err)
	assert.False(t, running)
	assert.Equal(t, "KRBDZHA10", version)
	assert.Equal(t, InstallmentExMachina, ClassifyInstallment(version))
}

func TestReadExeVersion_UnknownFingerprint(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exe := filepath.Join(root, "hta.exe")
	require.NoError(t, os.WriteFile(exe, []byte{0x4d, 0x5a}, 0o644))

	version, running, err := ReadExeVersion(exe)
	require.NoError(t, err)
	assert.False(t, running)
	assert.Equal(t, "unknown", version)
	assert.Equal(t, InstallmentUnknown, ClassifyInstallment(version))
}

func TestClassifyInstallment_M113AndArcade(t *testing.T) {
	t.Parallel()

	assert.Equal(t, InstallmentM113, ClassifyInstallment("M113"))
	assert.Equal(t, InstallmentArcade, ClassifyInstallment("ARCD"))
}

func TestLoadInstalledContent_Missing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	content, err := LoadInstalledContent(root)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestLoadInstalledContent_Present(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	body := `
community_remaster:
  version: "1.0.0"
  build: "0001aaa"
  language: en
  installment: exmachina
  display_name: Community Remaster
  base: "yes"
  extra_weapons: "yes"
`
	require.NoError(t, os.WriteFile(filepath.Join(root, InstalledContentFileName), []byte(body), 0o644))

	content, err := LoadInstalledContent(root)
	require.NoError(t, err)
	require.Contains(t, content, "community_remaster")
	entry := content["community_remaster"]
	assert.Equal(t, "1.0.0", entry.Version)
	assert.Equal(t, "yes", entry.Base)
}

func TestLoadInstalledContent_Malformed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, InstalledContentFileName), []byte("not: [valid: yaml"), 0o644))

	content, err := LoadInstalledContent(root)
	require.Error(t, err)
	assert.Empty(t, content)
}

func TestSnapshot_FullSequence(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "resource"), 0o755))
	writeFingerprint(t, filepath.Join(root, "hta.exe"), "KRBDZHA10")

	snap, err := Snapshot(root)
	require.NoError(t, err)
	assert.Equal(t, InstallmentExMachina, snap.Installment)
	assert.Equal(t, root, snap.RootPath)
	assert.False(t, snap.IsRunning)
	assert.Empty(t, snap.InstalledContent)
}
