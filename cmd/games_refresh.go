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

package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dem-team/commod/dbq"
	"github.com/dem-team/commod/internal"
	"github.com/dem-team/commod/internal/probe"
	"github.com/spf13/cobra"
)

// gamesRefreshCmd represents the gamesRefresh command
var gamesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Discover installed games from Steam",
	Long: `Scan Steam's library folders and update the list of tracked game installs.

This command detects Steam-installed copies of Ex Machina, M113, and
Arcade, records or updates their install paths, and marks any
previously tracked Steam install that no longer validates as absent.
Manually registered installs are left untouched.

It is safe to run multiple times.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		err := internal.EnsureDBExists()
		if err != nil {
			return err
		}

		db, err := internal.SetupDB()
		if err != nil {
			return err
		}
		defer db.Close()

		err = internal.MigrateDB(ctx, db)
		if err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}

		return refreshSteamInstalls(ctx, dbq.New(db))
	},
}

func init() {
	gamesCmd.AddCommand(gamesRefreshCmd)
}

func refreshSteamInstalls(ctx context.Context, q *dbq.Queries) error {
	candidates, warnings, err := probe.DiscoverSteamCandidates()
	if err != nil {
		return fmt.Errorf("discover steam candidates: %w", err)
	}
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}

	now := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		seen[c.InstallRoot] = true

		installment := probe.InstallmentUnknown
		present := true
		if verr := probe.ValidateGameDir(c.InstallRoot); verr != nil {
			present = false
		} else if exePath, eerr := probe.ResolveExe(c.InstallRoot); eerr != nil {
			present = false
		} else if exeVersion, running, rerr := probe.ReadExeVersion(exePath); rerr == nil && !running {
			installment = probe.ClassifyInstallment(exeVersion)
		}

		meta, merr := json.Marshal(struct {
			AppID string `json:"appid"`
		}{AppID: c.AppID})
		if merr != nil {
			return fmt.Errorf("marshal steam metadata for %s: %w", c.AppID, merr)
		}

		_, err := q.UpsertGameInstall(ctx, dbq.UpsertGameInstallParams{
			RootPath:    c.InstallRoot,
			Installment: string(installment),
			DisplayName: c.Name,
			Source:      "steam",
			IsPresent:   present,
			LastSeenAt:  sql.NullString{String: now, Valid: true},
			Metadata:    sql.NullString{String: string(meta), Valid: true},
		})
		if err != nil {
			return fmt.Errorf("upsert game install for %s: %w", c.InstallRoot, err)
		}
	}

	tracked, err := q.ListGameInstallsBySource(ctx, "steam")
	if err != nil {
		return fmt.Errorf("list tracked steam installs: %w", err)
	}
	for _, gi := range tracked {
		if seen[gi.RootPath] {
			continue
		}
		if err := q.MarkGameInstallAbsent(ctx, gi.ID); err != nil {
			return fmt.Errorf("mark %s absent: %w", gi.RootPath, err)
		}
	}

	fmt.Printf("Discovered %d Steam install(s)\n", len(candidates))
	return nil
}
