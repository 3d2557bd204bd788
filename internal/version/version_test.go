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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Version
		numeric bool
	}{
		{
			name:    "full numeric",
			input:   "1.2.3",
			want:    Version{Major: "1", Minor: "2", Patch: "3"},
			numeric: true,
		},
		{
			name:    "major only",
			input:   "1",
			want:    Version{Major: "1", Minor: "0", Patch: "0"},
			numeric: true,
		},
		{
			name:    "major minor",
			input:   "1.2",
			want:    Version{Major: "1", Minor: "2", Patch: "0"},
			numeric: true,
		},
		{
			name:    "with identifier",
			input:   "1.2.3-beta",
			want:    Version{Major: "1", Minor: "2", Patch: "3", Identifier: "beta"},
			numeric: true,
		},
		{
			name:    "excess components concatenated into patch",
			input:   "1.2.3.4.5",
			want:    Version{Major: "1", Minor: "2", Patch: "345"},
			numeric: true,
		},
		{
			name:    "non numeric signature",
			input:   "KRBDZHA10",
			want:    Version{Major: "KRBDZHA10", Minor: "0", Patch: "0"},
			numeric: false,
		},
		{
			name:    "truncated major",
			input:   "123456.1.1",
			want:    Version{Major: "1234", Minor: "1", Patch: "1"},
			numeric: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.input)
			assert.Equal(t, tt.want.Major, got.Major)
			assert.Equal(t, tt.want.Minor, got.Minor)
			assert.Equal(t, tt.want.Patch, got.Patch)
			assert.Equal(t, tt.want.Identifier, got.Identifier)
			assert.Equal(t, tt.numeric, got.IsNumeric)
		})
	}
}

func TestVersion_Equal(t *testing.T) {
	t.Parallel()

	// Property 3: equality with identifier.
	assert.True(t, Parse("1.2.3").Equal(Parse("1.2.3")))
	assert.False(t, Parse("1.2.3").Equal(Parse("1.2.3-beta")))
}

func TestVersion_Compare_NonNumericUsesPatchNotTypo(t *testing.T) {
	t.Parallel()

	// Pins the non-numeric comparison to Patch. An earlier draft of this
	// comparator accidentally compared an unrelated field in this branch;
	// this test guards against that regressing back in.
	a := Parse("a.b.c")
	b := Parse("a.b.d")

	assert.True(t, a.LessThan(b))
	assert.False(t, b.LessThan(a))
}

func TestVersion_Compare_Numeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "less", a: "1.0.0", b: "2.0.0", want: -1},
		{name: "equal", a: "1.2.3", b: "1.2.3", want: 0},
		{name: "greater", a: "2.3.1", b: "2.0.0", want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.a).Compare(Parse(tt.b))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersion_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.0.0", Parse("1").String())
	assert.Equal(t, "1.2.3-beta", Parse("1.2.3-beta").String())
}

func TestConstraintMonotonicity(t *testing.T) {
	t.Parallel()

	// Property 2: if v1 < v2 and ">= v1" is satisfied by v1, it's satisfied by v2.
	v1 := Parse("2.0.0")
	v2 := Parse("2.3.1")
	require_ := v1.LessThan(v2)
	assert.True(t, require_)

	cs := ParseConstraintSet([]string{">=2.0"}, DefaultEqual)
	assert.True(t, Evaluate(cs, v1))
	assert.True(t, Evaluate(cs, v2))
}
