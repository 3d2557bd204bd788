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

package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dem-team/commod/internal/manifest"
	"github.com/dem-team/commod/internal/patcher"
	"github.com/dem-team/commod/internal/planner"
	"github.com/dem-team/commod/internal/probe"
	"github.com/dem-team/commod/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGameRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	return root
}

func TestInstall_CopiesAndWritesManifest(t *testing.T) {
	t.Parallel()

	distDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(distDir, "alpha", "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(distDir, "alpha", "data", "mod.txt"), []byte("payload"), 0o644))

	root := setupGameRoot(t)

	m := &manifest.Manifest{
		Name:            "alpha",
		DisplayName:     "Alpha",
		Version:         version.Parse("1.0.0"),
		Build:           "0001",
		Language:        "en",
		Installment:     "exmachina",
		DistributionDir: distDir,
	}

	jobs := []planner.CopyJob{{SourceDir: filepath.Join(distDir, "alpha", "data"), DestDir: "", Label: "base"}}

	result, err := Install(context.Background(), root, m, map[string]string{"base": "yes"}, jobs, patcher.Environment{}, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesCopied)

	copied, err := os.ReadFile(filepath.Join(root, "data", "mod.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(copied))

	content, err := probe.LoadInstalledContent(root)
	require.NoError(t, err)
	require.Contains(t, content, "alpha")
	assert.Equal(t, "1.0.0", content["alpha"].Version)
	assert.Equal(t, "yes", content["alpha"].Base)
}

func TestInstall_PrerequisitesNoLongerMetAbortsBeforeCopy(t *testing.T) {
	t.Parallel()

	distDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(distDir, "alpha", "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(distDir, "alpha", "data", "mod.txt"), []byte("payload"), 0o644))

	root := setupGameRoot(t)
	m := &manifest.Manifest{Name: "alpha", Version: version.Parse("1.0.0"), DistributionDir: distDir}
	jobs := []planner.CopyJob{{SourceDir: filepath.Join(distDir, "alpha", "data"), DestDir: "", Label: "base"}}

	reverify := func() (bool, error) { return false, nil }

	_, err := Install(context.Background(), root, m, map[string]string{"base": "yes"}, jobs, patcher.Environment{}, nil, reverify, nil, nil)
	require.Error(t, err)
	var pnlm *PrerequisitesNoLongerMetError
	assert.ErrorAs(t, err, &pnlm)

	_, statErr := os.Stat(filepath.Join(root, "data", "mod.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstall_ManifestAtomicityOnFailureAfterCopy(t *testing.T) {
	t.Parallel()

	distDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(distDir, "alpha", "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(distDir, "alpha", "data", "mod.txt"), []byte("payload"), 0o644))

	root := setupGameRoot(t)

	preExisting := "beta:\n  version: \"2.0.0\"\n  build: \"0001\"\n  base: \"yes\"\n"
	manifestPath := filepath.Join(root, probe.InstalledContentFileName)
	require.NoError(t, os.WriteFile(manifestPath, []byte(preExisting), 0o644))

	before, err := os.ReadFile(manifestPath)
	require.NoError(t, err)

	m := &manifest.Manifest{Name: "alpha", Version: version.Parse("1.0.0"), DistributionDir: distDir}
	jobs := []planner.CopyJob{{SourceDir: filepath.Join(distDir, "missing_dir"), DestDir: "", Label: "base"}}

	_, err = Install(context.Background(), root, m, map[string]string{"base": "yes"}, jobs, patcher.Environment{}, nil, nil, nil, nil)
	require.Error(t, err)

	after, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "manifest must be byte-identical to pre-install state after a failed install")
}
