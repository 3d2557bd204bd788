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
	"errors"
	"fmt"
	"strings"
)

// Selector builds the "source:identifier" form used to name a tracked
// game install on the command line, e.g. "steam:1091500" or
// "manual:/games/exmachina".
func Selector(source, identifier string) string {
	source = strings.ToLower(strings.TrimSpace(source))
	identifier = strings.TrimSpace(identifier)

	return fmt.Sprintf("%s:%s", source, identifier)
}

// ParseSelector parses "source:identifier" as produced by Selector.
// The identifier may itself contain colons (e.g. a Windows-style path),
// so only the first colon is significant.
func ParseSelector(s string) (source, identifier string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", errors.New("empty selector")
	}

	colon := strings.IndexByte(s, ':')
	if colon <= 0 || colon == len(s)-1 {
		return "", "", fmt.Errorf(
			"invalid selector %q (expected source:identifier)", s,
		)
	}

	source = strings.ToLower(strings.TrimSpace(s[:colon]))
	identifier = strings.TrimSpace(s[colon+1:])

	if source == "" || identifier == "" {
		return "", "", fmt.Errorf("invalid selector %q", s)
	}

	return source, identifier, nil
}
