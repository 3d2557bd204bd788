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

// Package version parses the mod manifest's bespoke version grammar and
// evaluates ordered constraints against it. This is not semver: components
// are bounded-length opaque strings, and ordering falls back to lowercased
// lexicographic comparison whenever any component fails to parse as an
// integer.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	maxMajorLen = 4
	maxMinorLen = 4
	maxPatchLen = 10
)

// Version is MAJOR[.MINOR[.PATCH]][-IDENTIFIER]. Missing components default
// to "0". IsNumeric is true only when all three parse as integers.
type Version struct {
	Major      string
	Minor      string
	Patch      string
	Identifier string
	IsNumeric  bool
}

// MalformedVersionError is returned when a version string cannot be parsed.
// Parse never actually rejects input (every string is a legal version under
// the grammar below), so this is reserved for callers that need to report a
// literal that failed additional caller-side constraints.
type MalformedVersionError struct {
	Literal string
}

func (e *MalformedVersionError) Error() string {
	return fmt.Sprintf("malformed version %q", e.Literal)
}

// Parse interprets s per MAJOR[.MINOR[.PATCH]][-IDENTIFIER]. Excess
// dot-separated components beyond the third are concatenated into Patch.
func Parse(s string) Version {
	v := Version{Major: "0", Minor: "0", Patch: "0"}

	numeric := s
	if idx := strings.IndexByte(s, '-'); idx != -1 {
		v.Identifier = s[idx+1:]
		numeric = s[:idx]
	}

	if strings.Contains(numeric, ".") {
		parts := strings.Split(numeric, ".")
		if len(parts) > 0 {
			v.Major = truncate(parts[0], maxMajorLen)
		}
		if len(parts) > 1 {
			v.Minor = truncate(parts[1], maxMinorLen)
		}
		if len(parts) > 2 {
			v.Patch = truncate(strings.Join(parts[2:], ""), maxPatchLen)
		}
	} else {
		v.Major = numeric
	}

	v.IsNumeric = isInt(v.Major) && isInt(v.Minor) && isInt(v.Patch)

	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func isInt(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String renders MAJOR.MINOR.PATCH[-IDENTIFIER], the canonical display form.
func (v Version) String() string {
	s := fmt.Sprintf("%s.%s.%s", v.Major, v.Minor, v.Patch)
	if v.Identifier != "" {
		s += "-" + v.Identifier
	}
	return s
}

// Equal reports whether v and other compare as equal, including identifier.
// Numeric comparison is used only when both versions are fully numeric;
// otherwise comparison is lowercased lexicographic.
func (v Version) Equal(other Version) bool {
	if v.compareCore(other) != 0 {
		return false
	}
	return v.Identifier == other.Identifier
}

// Compare returns -1, 0, or 1 comparing v to other, ignoring Identifier (the
// identifier participates only in equality checks, per design: pre-releases
// do not participate in range bounds).
func (v Version) Compare(other Version) int {
	return v.compareCore(other)
}

func (v Version) compareCore(other Version) int {
	if v.IsNumeric && other.IsNumeric {
		a := [3]int{atoi(v.Major), atoi(v.Minor), atoi(v.Patch)}
		b := [3]int{atoi(other.Major), atoi(other.Minor), atoi(other.Patch)}
		return compareTuple(a, b)
	}

	a := [3]string{strings.ToLower(v.Major), strings.ToLower(v.Minor), strings.ToLower(v.Patch)}
	b := [3]string{strings.ToLower(other.Major), strings.ToLower(other.Minor), strings.ToLower(other.Patch)}
	return compareStringTuple(a, b)
}

// LessThan is a convenience wrapper matching the ordering contract used by
// ConstraintSet evaluation.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func compareTuple(a, b [3]int) int {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func compareStringTuple(a, b [3]string) int {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
