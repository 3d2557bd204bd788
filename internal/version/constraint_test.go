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

func TestParseConstraint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		mode   DefaultMode
		wantOp Operator
	}{
		{name: ">=", input: ">=2.0", mode: DefaultEqual, wantOp: OpGreaterEqual},
		{name: "<=", input: "<=3.0", mode: DefaultEqual, wantOp: OpLessEqual},
		{name: ">", input: ">1.0", mode: DefaultEqual, wantOp: OpGreater},
		{name: "<", input: "<1.0", mode: DefaultEqual, wantOp: OpLess},
		{name: "explicit =", input: "=1.0", mode: DefaultEqual, wantOp: OpEqual},
		{name: "default for prerequisite", input: "1.0.0", mode: DefaultEqual, wantOp: OpEqual},
		{name: "default for tool version", input: "1.10", mode: DefaultGreaterEqual, wantOp: OpGreaterEqual},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseConstraint(tt.input, tt.mode)
			assert.Equal(t, tt.wantOp, got.Op)
		})
	}
}

func TestParseConstraintSet_Style(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  Style
	}{
		{name: "strict single equal", input: []string{"1.0.0"}, want: StyleStrict},
		{name: "range", input: []string{">=2.0", "<3.0"}, want: StyleRange},
		{name: "mixed", input: []string{">=2.0", "=2.5"}, want: StyleMixed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseConstraintSet(tt.input, DefaultEqual)
			assert.Equal(t, tt.want, got.Style)
		})
	}
}

func TestEvaluate_Range(t *testing.T) {
	t.Parallel()

	// S2: prereq satisfied by range.
	cs := ParseConstraintSet([]string{">=2.0", "<3.0"}, DefaultEqual)
	assert.True(t, Evaluate(cs, Parse("2.3.1")))
	assert.False(t, Evaluate(cs, Parse("3.0.0")))
	assert.Equal(t, StyleRange, cs.Style)
}

func TestEvaluate_EqualRequiresIdentifierMatch(t *testing.T) {
	t.Parallel()

	// S3: prereq fails on identifier.
	cs := ParseConstraintSet([]string{"1.0.0"}, DefaultEqual)
	assert.False(t, Evaluate(cs, Parse("1.0.0-rc1")))
	assert.True(t, Evaluate(cs, Parse("1.0.0")))
}

func TestEvaluate_ToolVersionDefaultIsForwardCompatible(t *testing.T) {
	t.Parallel()

	cs := ParseConstraintSet([]string{"1.10"}, DefaultGreaterEqual)
	assert.True(t, Evaluate(cs, Parse("1.10")))
	assert.True(t, Evaluate(cs, Parse("1.12")))
	assert.False(t, Evaluate(cs, Parse("1.9")))
}
