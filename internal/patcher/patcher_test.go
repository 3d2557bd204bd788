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

package patcher

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, size int, offset int64, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target.bin")
	buf := make([]byte, size)
	copy(buf[offset:], data)
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestApply_PreconditionMismatchLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	p := Patch{Name: "test_patch", Offset: 4, ExpectedBytes: []byte{0xAA, 0xBB}, NewBytes: []byte{0xCC, 0xDD}}
	path := writeFile(t, 16, p.Offset, []byte{0x11, 0x22}) // doesn't match expected

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = Apply(path, p)
	require.Error(t, err)
	var ppf *PatchPreconditionFailedError
	assert.ErrorAs(t, err, &ppf)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApply_AlreadyAppliedLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	p := Patch{Name: "test_patch", Offset: 4, ExpectedBytes: []byte{0xAA, 0xBB}, NewBytes: []byte{0xCC, 0xDD}}
	path := writeFile(t, 16, p.Offset, p.NewBytes) // already patched

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = Apply(path, p)
	require.Error(t, err)
	var already *AlreadyAppliedError
	assert.ErrorAs(t, err, &already)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApply_Success(t *testing.T) {
	t.Parallel()

	p := Patch{Name: "test_patch", Offset: 4, ExpectedBytes: []byte{0xAA, 0xBB}, NewBytes: []byte{0xCC, 0xDD}}
	path := writeFile(t, 16, p.Offset, p.ExpectedBytes)

	require.NoError(t, Apply(path, p))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, p.NewBytes, after[4:6])
}

func TestClampGravity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1.0, ClampGravity(5.0))
	assert.Equal(t, -100.0, ClampGravity(-500.0))
	assert.Equal(t, -42.0, ClampGravity(-42.0))
}

func TestClampSkinsInShop(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 8, ClampSkinsInShop(1))
	assert.Equal(t, 32, ClampSkinsInShop(100))
	assert.Equal(t, 16, ClampSkinsInShop(16))
}

func TestWriteGravity(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hta.exe")
	require.NoError(t, os.WriteFile(path, make([]byte, 0x3F200), 0o644))

	require.NoError(t, WriteGravity(path, -20.0))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, float32(-20.0), math.Float32frombits(binary.LittleEndian.Uint32(b[gravityOffset:gravityOffset+4])))
}

func TestApplyDXRenderPatch_MissingDLL(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	err := ApplyDXRenderPatch(root)
	require.Error(t, err)
	var dxe *DXRenderDllNotFoundError
	assert.ErrorAs(t, err, &dxe)
}

func TestApplyCatalogue_SkipsNonMatchingEnvironment(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hta.exe"), make([]byte, 0x2C500), 0o644))

	_, err := ApplyCatalogue(root, Environment{})
	require.Error(t, err) // disable_intro_logos (applies_when: always) won't precondition-match a zeroed file
	var ppf *PatchPreconditionFailedError
	assert.ErrorAs(t, err, &ppf)
	assert.Equal(t, "disable_intro_logos", ppf.Name)
}
