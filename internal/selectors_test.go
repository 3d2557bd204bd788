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

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		source     string
		identifier string
		want       string
	}{
		{
			name:       "steam appid",
			source:     "steam",
			identifier: "1091500",
			want:       "steam:1091500",
		},
		{
			name:       "lowercases source",
			source:     "STEAM",
			identifier: "1091500",
			want:       "steam:1091500",
		},
		{
			name:       "trims whitespace",
			source:     " manual ",
			identifier: " /games/exmachina ",
			want:       "manual:/games/exmachina",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Selector(tt.source, tt.identifier)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelector(t *testing.T) {
	t.Parallel()

	type want struct {
		source     string
		identifier string
	}

	tests := []struct {
		name    string
		input   string
		want    want
		wantErr bool
	}{
		{
			name:  "parses steam appid",
			input: "steam:1091500",
			want:  want{source: "steam", identifier: "1091500"},
		},
		{
			name:  "lowercases source and trims whitespace",
			input: " STEAM : 1091500 ",
			want:  want{source: "steam", identifier: "1091500"},
		},
		{
			name:  "identifier may contain colons",
			input: "manual:C:\\Games\\ExMachina",
			want:  want{source: "manual", identifier: "C:\\Games\\ExMachina"},
		},
		{
			name:    "rejects empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "rejects missing colon",
			input:   "steam1091500",
			wantErr: true,
		},
		{
			name:    "rejects missing source",
			input:   ":1091500",
			wantErr: true,
		},
		{
			name:    "rejects missing identifier",
			input:   "steam:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source, identifier, err := ParseSelector(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want.source, source)
			assert.Equal(t, tt.want.identifier, identifier)
		})
	}
}
