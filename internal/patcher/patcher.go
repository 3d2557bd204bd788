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

// Package patcher applies the static catalogue of named byte-level edits to
// the game executable and auxiliary DLLs, plus the numeric parameter
// patches exposed through manifest patcher_options.
package patcher

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// ApplyWhen selects which environment a catalogue patch targets.
type ApplyWhen string

const (
	ApplyAlways               ApplyWhen = "always"
	ApplyIsCommunityPatch     ApplyWhen = "is_community_patch"
	ApplyIsCommunityRemaster  ApplyWhen = "is_community_remaster"
	ApplyIsVanillaMod         ApplyWhen = "is_vanilla_mod"
)

// Patch is one named, constant byte-level edit. All offsets and byte
// patterns are data: the catalogue below holds the executable patches,
// ApplyDXRenderPatch holds the DLL patch, and the constants after the
// catalogue hold the numeric parameter offsets.
type Patch struct {
	Name          string
	File          string // relative to the game root: the exe name or a DLL name
	Offset        int64
	ExpectedBytes []byte
	NewBytes      []byte
	AppliesWhen   ApplyWhen
	Description   string
}

// Catalogue is the static, ordered table of known patches. Ordering here is
// the ordering patches are applied in.
var Catalogue = []Patch{
	{
		Name:          "disable_intro_logos",
		File:          "hta.exe",
		Offset:        0x1A2B0,
		ExpectedBytes: []byte{0x74, 0x12},
		NewBytes:      []byte{0xEB, 0x12},
		AppliesWhen:   ApplyAlways,
		Description:   "skip publisher/engine splash screens on launch",
	},
	{
		Name:          "widescreen_fov_fix",
		File:          "hta.exe",
		Offset:        0x2C410,
		ExpectedBytes: []byte{0x3F, 0x80, 0x00, 0x00},
		NewBytes:      []byte{0x3F, 0x99, 0x99, 0x9A},
		AppliesWhen:   ApplyIsCommunityRemaster,
		Description:   "correct field of view for 16:9 displays",
	},
}

const (
	gravityOffset       = 0x3F120
	skinsInShopOffset   = 0x3F200
	blastDamageFFOffset = 0x3F240
	gameFontOffset      = 0x3F300
	gameFontRegionSize  = 64
)

// damageCoefficientOffsets pairs the ratio computed at a reference gravity
// with the offset the recomputed coefficient is written to, mirroring the
// documented table of dependent damage constants.
var damageCoefficientOffsets = []struct {
	ratioAtReferenceGravity float64
	offset                  int64
}{
	{ratioAtReferenceGravity: 1.0, offset: 0x3F140},
	{ratioAtReferenceGravity: 0.82, offset: 0x3F150},
	{ratioAtReferenceGravity: 0.5, offset: 0x3F160},
}

const referenceGravity = -10.0

// PatchPreconditionFailedError is returned when expected_bytes at offset do
// not match the target file's current contents. The file is left untouched.
type PatchPreconditionFailedError struct {
	Name string
	File string
}

func (e *PatchPreconditionFailedError) Error() string {
	return fmt.Sprintf("patch precondition failed: %s (%s)", e.Name, e.File)
}

// AlreadyAppliedError is an informational, non-fatal result: the bytes
// already match new_bytes, so applying the patch is a no-op.
type AlreadyAppliedError struct {
	Name string
}

func (e *AlreadyAppliedError) Error() string {
	return fmt.Sprintf("patch already applied: %s", e.Name)
}

// DXRenderDllNotFoundError is returned when the remaster variant's
// secondary patch target is missing from the game directory.
type DXRenderDllNotFoundError struct{ Path string }

func (e *DXRenderDllNotFoundError) Error() string {
	return fmt.Sprintf("dxrender9.dll not found at %s", e.Path)
}

// Apply applies one catalogue patch against a file at path, verifying
// expected_bytes first. Returns AlreadyAppliedError (not a Go error in the
// failure sense, but reported the same way so callers can distinguish it
// from PatchPreconditionFailedError) when the file already carries new_bytes.
func Apply(path string, p Patch) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, len(p.ExpectedBytes))
	if _, err := f.ReadAt(buf, p.Offset); err != nil {
		return fmt.Errorf("read %s at offset %#x: %w", path, p.Offset, err)
	}

	if bytes.Equal(buf, p.NewBytes) {
		return &AlreadyAppliedError{Name: p.Name}
	}

	if !bytes.Equal(buf, p.ExpectedBytes) {
		return &PatchPreconditionFailedError{Name: p.Name, File: path}
	}

	if _, err := f.WriteAt(p.NewBytes, p.Offset); err != nil {
		return fmt.Errorf("write %s at offset %#x: %w", path, p.Offset, err)
	}

	return nil
}

// ApplyCatalogue applies every patch in Catalogue whose AppliesWhen matches
// the current environment, in catalogue order, against files beneath
// gameRoot. AlreadyAppliedError results are swallowed (they are
// informational); any other error aborts immediately.
func ApplyCatalogue(gameRoot string, env Environment) ([]string, error) {
	var applied []string
	for _, p := range Catalogue {
		if !env.matches(p.AppliesWhen) {
			continue
		}

		path := gameRoot + string(os.PathSeparator) + p.File
		err := Apply(path, p)
		if err == nil {
			applied = append(applied, p.Description)
			continue
		}
		var already *AlreadyAppliedError
		if asAlreadyApplied(err, &already) {
			continue
		}
		return applied, err
	}
	return applied, nil
}

func asAlreadyApplied(err error, target **AlreadyAppliedError) bool {
	if aa, ok := err.(*AlreadyAppliedError); ok {
		*target = aa
		return true
	}
	return false
}

// Environment tells ApplyCatalogue which applies_when conditions hold for
// this install.
type Environment struct {
	IsCommunityPatch    bool
	IsCommunityRemaster bool
	IsVanillaMod        bool
}

func (e Environment) matches(w ApplyWhen) bool {
	switch w {
	case ApplyAlways:
		return true
	case ApplyIsCommunityPatch:
		return e.IsCommunityPatch
	case ApplyIsCommunityRemaster:
		return e.IsCommunityRemaster
	case ApplyIsVanillaMod:
		return e.IsVanillaMod
	default:
		return false
	}
}

// ClampGravity restricts a requested gravity value to the documented range.
func ClampGravity(v float64) float64 {
	return clamp(v, -100.0, -1.0)
}

// ClampSkinsInShop restricts a requested skins_in_shop value to the
// documented range.
func ClampSkinsInShop(v int) int {
	if v < 8 {
		return 8
	}
	if v > 32 {
		return 32
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WriteGravity writes the clamped gravity coefficient as IEEE-754 at its
// fixed offset, then recomputes and writes the dependent damage
// coefficients documented in damageCoefficientOffsets.
func WriteGravity(path string, gravity float64) error {
	gravity = ClampGravity(gravity)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(gravity)))
	if _, err := f.WriteAt(buf[:], gravityOffset); err != nil {
		return fmt.Errorf("write gravity: %w", err)
	}

	ratio := gravity / referenceGravity
	for _, dep := range damageCoefficientOffsets {
		coeff := float32(dep.ratioAtReferenceGravity * ratio)
		var depBuf [4]byte
		binary.LittleEndian.PutUint32(depBuf[:], math.Float32bits(coeff))
		if _, err := f.WriteAt(depBuf[:], dep.offset); err != nil {
			return fmt.Errorf("write damage coefficient at %#x: %w", dep.offset, err)
		}
	}

	return nil
}

// WriteSkinsInShop writes the clamped shop-skin count as a single byte.
func WriteSkinsInShop(path string, count int) error {
	count = ClampSkinsInShop(count)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteAt([]byte{byte(count)}, skinsInShopOffset); err != nil {
		return fmt.Errorf("write skins_in_shop: %w", err)
	}
	return nil
}

// WriteBlastDamageFriendlyFire toggles the single NOP/JMP byte pair that
// gates whether blast damage applies to allies.
func WriteBlastDamageFriendlyFire(path string, enabled bool) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	bytesToWrite := []byte{0x90, 0x90} // NOP NOP: friendly fire disabled (default)
	if enabled {
		bytesToWrite = []byte{0xEB, 0x02} // JMP +2: skip the friendly-fire guard
	}

	if _, err := f.WriteAt(bytesToWrite, blastDamageFFOffset); err != nil {
		return fmt.Errorf("write blast_damage_friendly_fire: %w", err)
	}
	return nil
}

// WriteGameFont writes a length-prefixed ASCII blob into the reserved font
// name region, zero-filling the remainder.
func WriteGameFont(path string, name string) error {
	if len(name) > gameFontRegionSize-1 {
		name = name[:gameFontRegionSize-1]
	}

	region := make([]byte, gameFontRegionSize)
	region[0] = byte(len(name))
	copy(region[1:], name)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteAt(region, gameFontOffset); err != nil {
		return fmt.Errorf("write game_font: %w", err)
	}
	return nil
}

// ApplyDXRenderPatch applies the remaster's secondary DLL patch. Absence of
// the DLL fails before any exe patch is attempted, per the ordering
// guarantee that the DLL precondition is checked first.
func ApplyDXRenderPatch(gameRoot string) error {
	path := gameRoot + string(os.PathSeparator) + "dxrender9.dll"
	if _, err := os.Stat(path); err != nil {
		return &DXRenderDllNotFoundError{Path: path}
	}

	dxPatch := Patch{
		Name:          "dxrender_remaster_hook",
		File:          "dxrender9.dll",
		Offset:        0x1200,
		ExpectedBytes: []byte{0x55, 0x8B, 0xEC},
		NewBytes:      []byte{0xE9, 0x00, 0x01, 0x00},
		AppliesWhen:   ApplyIsCommunityRemaster,
	}

	if err := Apply(path, dxPatch); err != nil {
		var already *AlreadyAppliedError
		if asAlreadyApplied(err, &already) {
			return nil
		}
		return err
	}
	return nil
}
