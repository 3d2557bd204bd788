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
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dem-team/commod/dbq"
)

// ParseInt64 parses s as a base-10 int64, reporting ok=false (rather than
// an error) so callers can cheaply try it as a fast path before falling
// back to selector parsing.
func ParseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ResolveGameInstallArg resolves a user-supplied argument to a tracked
// game install. It accepts, in order of precedence:
//   - a numeric row id
//   - a "source:identifier" selector (e.g. "steam:1091500" or
//     "manual:/games/exmachina")
//   - a bare root path, tried as-is against root_path
func ResolveGameInstallArg(ctx context.Context, q *dbq.Queries, arg string) (dbq.GameInstall, error) {
	if id, ok := ParseInt64(arg); ok {
		gi, err := q.GetGameInstallByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return dbq.GameInstall{}, fmt.Errorf("no game install with id %d", id)
			}
			return dbq.GameInstall{}, fmt.Errorf("get game install by id: %w", err)
		}
		return gi, nil
	}

	source, identifier, err := ParseSelector(arg)
	if err == nil {
		return resolveBySelector(ctx, q, source, identifier)
	}

	gi, gerr := q.GetGameInstallByRootPath(ctx, arg)
	if gerr != nil {
		if errors.Is(gerr, sql.ErrNoRows) {
			return dbq.GameInstall{}, fmt.Errorf("no game install found for %q", arg)
		}
		return dbq.GameInstall{}, fmt.Errorf("get game install by root path: %w", gerr)
	}
	return gi, nil
}

func resolveBySelector(ctx context.Context, q *dbq.Queries, source, identifier string) (dbq.GameInstall, error) {
	if source == "manual" {
		gi, err := q.GetGameInstallByRootPath(ctx, identifier)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return dbq.GameInstall{}, fmt.Errorf("no manual game install at %q", identifier)
			}
			return dbq.GameInstall{}, fmt.Errorf("get game install by root path: %w", err)
		}
		return gi, nil
	}

	rows, err := q.ListGameInstallsBySource(ctx, source)
	if err != nil {
		return dbq.GameInstall{}, fmt.Errorf("list game installs for source %q: %w", source, err)
	}

	for _, r := range rows {
		if metadataAppID(r) == identifier {
			return r, nil
		}
	}

	return dbq.GameInstall{}, fmt.Errorf("no %s game install found for %q", source, identifier)
}

func metadataAppID(gi dbq.GameInstall) string {
	if !gi.Metadata.Valid || gi.Metadata.String == "" {
		return ""
	}
	var meta struct {
		AppID string `json:"appid"`
	}
	if err := json.Unmarshal([]byte(gi.Metadata.String), &meta); err != nil {
		return ""
	}
	return meta.AppID
}
