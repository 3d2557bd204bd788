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

package session

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dem-team/commod/dbq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
name: alpha
display_name: Alpha
version: "1.0.0"
build: "0001"
description: a mod for testing
authors: someone
language: en
installment: exmachina
prerequisites: []
patcher_version_requirement: ">=1.10"
`

func newTestQueries(t *testing.T) *dbq.Queries {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fsys := os.DirFS(filepath.Join("..", "migrations"))
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	require.NoError(t, err)
	_, err = provider.Up(context.Background())
	require.NoError(t, err)

	return dbq.New(db)
}

func writeManifest(t *testing.T, distroDir, modID, body string) {
	t.Helper()
	dir := filepath.Join(distroDir, "mods", modID)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(body), 0o644))
}

func TestLoad_DiscoversMods(t *testing.T) {
	t.Parallel()

	q := newTestQueries(t)
	distro := t.TempDir()
	writeManifest(t, distro, "alpha", sampleManifest)

	sess, err := Load(context.Background(), q, distro)
	require.NoError(t, err)
	require.Contains(t, sess.Mods, "alpha")
	assert.Equal(t, "Alpha", sess.Mods["alpha"].DisplayName)

	cached, err := q.GetTrackedModHash(context.Background(), "alpha")
	require.NoError(t, err)
	assert.NotEmpty(t, cached.ContentHash)
}

func TestLoad_DropsModWhoseManifestDisappeared(t *testing.T) {
	t.Parallel()

	q := newTestQueries(t)
	distro := t.TempDir()
	writeManifest(t, distro, "alpha", sampleManifest)

	_, err := Load(context.Background(), q, distro)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(distro, "mods", "alpha")))

	sess, err := Load(context.Background(), q, distro)
	require.NoError(t, err)
	assert.NotContains(t, sess.Mods, "alpha")

	_, err = q.GetTrackedModHash(context.Background(), "alpha")
	assert.Error(t, err)
}

func TestLoad_ReloadsOnContentChange(t *testing.T) {
	t.Parallel()

	q := newTestQueries(t)
	distro := t.TempDir()
	writeManifest(t, distro, "alpha", sampleManifest)

	_, err := Load(context.Background(), q, distro)
	require.NoError(t, err)
	before, err := q.GetTrackedModHash(context.Background(), "alpha")
	require.NoError(t, err)

	changed := strings.Replace(sampleManifest, "authors: someone", "authors: Someone", 1)
	writeManifest(t, distro, "alpha", changed)

	sess, err := Load(context.Background(), q, distro)
	require.NoError(t, err)
	assert.Equal(t, "Someone", sess.Mods["alpha"].Authors)

	after, err := q.GetTrackedModHash(context.Background(), "alpha")
	require.NoError(t, err)
	assert.NotEqual(t, before.ContentHash, after.ContentHash)
}
