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

// Package importer ingests a mod distribution archive into commod's
// content-addressed archive store, validating that it carries a loadable
// manifest.yaml before it is recorded in the database.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal/blobstore"
	"github.com/dem-team/commod/internal/manifest"
)

// ManifestExtractor extracts a single member's bytes from an archive
// without unpacking the rest of it. Callers supply one backed by bsdtar,
// the same external collaborator used for archive listing; commod never
// links an in-process zip/7z codec.
type ManifestExtractor interface {
	ExtractFile(ctx context.Context, archivePath, memberName string) ([]byte, error)
}

// Result describes a successfully imported mod archive.
type Result struct {
	ID            int64
	SHA256Hex     string
	SizeBytes     int64
	ModName       string
	ModVersion    string
	ModBuild      string
	AlreadyStored bool
}

// ImportArchive ingests archivePath into the blob store, locates and
// validates its manifest.yaml against listing, and records the mod in
// the imported_mods table. manifestPathInArchive is the entry name (as
// reported by the listing) to extract and parse, e.g. "mod/manifest.yaml".
func ImportArchive(
	ctx context.Context,
	db *sql.DB,
	q *dbq.Queries,
	bs blobstore.Store,
	extractor ManifestExtractor,
	archivePath string,
	manifestPathInArchive string,
	listing manifest.ArchiveListing,
) (Result, error) {
	manifestBytes, err := extractor.ExtractFile(ctx, archivePath, manifestPathInArchive)
	if err != nil {
		return Result{}, fmt.Errorf("extract manifest for validation: %w", err)
	}

	m, err := manifest.LoadArchive(manifestBytes, manifestPathInArchive, listing)
	if err != nil {
		return Result{}, fmt.Errorf("validate manifest: %w", err)
	}

	ingest, err := bs.IngestFile(ctx, blobstore.KindArchive, archivePath)
	if err != nil {
		return Result{}, fmt.Errorf("ingest archive: %w", err)
	}

	base := filepath.Base(archivePath)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("start transaction: %w", err)
	}
	defer tx.Rollback()
	qtx := q.WithTx(tx)

	if err := blobstore.EnsureBlobRecorded(
		ctx, qtx, ingest.SHA256Hex, string(blobstore.KindArchive), ingest.SizeBytes, &base,
	); err != nil {
		return Result{}, err
	}

	row, err := qtx.InsertImportedMod(ctx, dbq.InsertImportedModParams{
		ModName:       m.Name,
		ModVersion:    m.Version.String(),
		ModBuild:      m.Build,
		ArchiveSha256: ingest.SHA256Hex,
		OriginalName:  base,
		ImportedAt:    time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
	if err != nil {
		return Result{}, fmt.Errorf("record imported mod: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit import: %w", err)
	}

	return Result{
		ID:            row.ID,
		SHA256Hex:     ingest.SHA256Hex,
		SizeBytes:     ingest.SizeBytes,
		ModName:       m.Name,
		ModVersion:    m.Version.String(),
		ModBuild:      m.Build,
		AlreadyStored: ingest.Existed,
	}, nil
}
