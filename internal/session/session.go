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

// Package session loads every mod manifest.yaml beneath a distribution
// directory's mods/ folder and records each manifest's content hash in a
// SQLite cache.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal/manifest"
)

// Session is the loaded set of mods for one distribution directory. It is
// rebuilt fresh on every Load call; nothing about a Manifest survives
// between loads.
type Session struct {
	DistroDir string
	Mods      map[string]*manifest.Manifest
}

// Load walks DistroDir/mods/*/manifest.yaml and parses every manifest it
// finds on every call. The hash cache does not let it skip a parse: an
// unchanged manifest is parsed again, not retained. A content hash that
// changed or has never been seen is written to the cache. Mods whose
// directory or manifest has disappeared since the last Load are absent
// from the result and their cache row removed.
func Load(ctx context.Context, q *dbq.Queries, distroDir string) (*Session, error) {
	modsDir := filepath.Join(distroDir, "mods")
	entries, err := os.ReadDir(modsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &Session{DistroDir: distroDir, Mods: map[string]*manifest.Manifest{}}, nil
		}
		return nil, fmt.Errorf("read %s: %w", modsDir, err)
	}

	sess := &Session{DistroDir: distroDir, Mods: make(map[string]*manifest.Manifest, len(entries))}
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		modID := entry.Name()
		modDir := filepath.Join(modsDir, modID)
		manifestPath := filepath.Join(modDir, "manifest.yaml")

		raw, err := os.ReadFile(manifestPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", manifestPath, err)
		}
		seen[modID] = true

		hash := contentHash(raw)

		cached, err := q.GetTrackedModHash(ctx, modID)
		changed := err != nil || cached.ContentHash != hash || cached.ManifestPath != manifestPath

		m, err := manifest.LoadDir(modDir)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", modDir, err)
		}
		sess.Mods[modID] = m

		if changed {
			if err := q.UpsertTrackedModHash(ctx, dbq.UpsertTrackedModHashParams{
				ModID:        modID,
				ManifestPath: manifestPath,
				ContentHash:  hash,
				UpdatedAt:    time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
			}); err != nil {
				return nil, fmt.Errorf("upsert tracked hash for %s: %w", modID, err)
			}
		}
	}

	stale, err := q.ListTrackedModHashes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracked hashes: %w", err)
	}
	for _, row := range stale {
		if seen[row.ModID] {
			continue
		}
		if err := q.DeleteTrackedModHash(ctx, row.ModID); err != nil {
			return nil, fmt.Errorf("delete tracked hash for %s: %w", row.ModID, err)
		}
	}

	return sess, nil
}

func contentHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
