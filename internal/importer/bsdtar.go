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

package importer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// BsdtarExtractor extracts single archive members by shelling out to
// bsdtar, the same external archive tool used to list imported files
// before storing them.
type BsdtarExtractor struct {
	Bsdtar string // path or name resolved via exec.LookPath
}

func (b BsdtarExtractor) ExtractFile(ctx context.Context, archivePath, memberName string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, b.Bsdtar, "-xO", "-f", archivePath, memberName)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("bsdtar -xO %s: %s", memberName, msg)
		}
		return nil, fmt.Errorf("bsdtar -xO %s: %w", memberName, err)
	}

	return stdout.Bytes(), nil
}

// ListArchive lists archive member names via bsdtar -t.
func ListArchive(ctx context.Context, bsdtar, archivePath string) ([]string, error) {
	cmd := exec.CommandContext(ctx, bsdtar, "-t", "-f", archivePath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("bsdtar -t: %s", msg)
		}
		return nil, fmt.Errorf("bsdtar -t: %w", err)
	}

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out, nil
}
