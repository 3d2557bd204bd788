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

// Package configxml edits individual attributes of the game's config.cfg
// and glob_props.xml in place. Both files are hand-authored XML the game
// itself re-reads verbatim, so edits touch only the named attributes and
// leave everything else byte-for-byte unchanged rather than round-tripping
// the whole document through a generic XML encoder.
package configxml

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const (
	configCfgPath   = "data/config.cfg"
	globPropsPath   = "data/glob_props.xml"
)

var possibleResolutions = map[int]int{
	1024: 768,
	1280: 720,
	1600: 900,
	1920: 1080,
	2560: 1440,
	3840: 2160,
}

// ToggleUIWidescreen flips config.cfg's UI path attributes between the
// 4:3 and 16:9 dialog sets, and adjusts r_width/r_height to match the
// requested screen size when it is safe to do so. Attributes absent from
// config.cfg are left untouched.
func ToggleUIWidescreen(gameRoot string, screenWidth, screenHeight int, enable bool) error {
	path := filepath.Join(gameRoot, configCfgPath)
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	pairs := []struct{ attr, on, off string }{
		{"pathToUiWindows", `data\if\dialogs_16_9\UiWindows.xml`, `data\if\dialogs\UiWindows.xml`},
		{"pathToCredits", `data\if\dialogs_16_9\credits.xml`, `data\if\dialogs\credits.xml`},
		{"ui_pathToFrames", `data\if\frames\frames_hd.xml`, `data\if\frames\frames.xml`},
		{"pathToSplashes", `data\if\ico_hd\splashes.xml`, `data\if\ico\splashes.xml`},
		{"pathToUiIcons", `data\if\ico_hd\UiIcons.xml`, `data\if\ico\UiIcons.xml`},
		{"pathToLevelInfo", `data\if\diz\LevelInfo_hd.xml`, `data\if\diz\LevelInfo.xml`},
	}

	for _, p := range pairs {
		if !hasAttr(b, p.attr) {
			continue
		}
		value := p.off
		if enable {
			value = p.on
		}
		b = setAttr(b, p.attr, value)
	}

	b = toggleResolution(b, screenWidth, screenHeight, enable)

	return os.WriteFile(path, b, 0o644)
}

// toggleResolution mirrors the original's r_width/r_height heuristic. It
// never touches a resolution that is already 1920/2560/3840 wide. When
// enabling, a stock 1024x768 is replaced by the screen size only if that
// size is a known resolution; any other width is replaced by the screen
// size, or by 1280x720 when the screen size is not a known resolution.
// When disabling, only 1280x720 is changed, back to 1024x768.
func toggleResolution(b []byte, screenWidth, screenHeight int, enable bool) []byte {
	width := attrValue(b, "r_width")
	height := attrValue(b, "r_height")
	if width == "" || height == "" {
		return b
	}
	if width == "1920" || width == "2560" || width == "3840" {
		return b
	}

	var newWidth, newHeight string
	if enable {
		goodRes := possibleResolutions[screenWidth] == screenHeight
		switch {
		case width == "1024" && height == "768":
			if goodRes {
				newWidth, newHeight = fmt.Sprintf("%d", screenWidth), fmt.Sprintf("%d", screenHeight)
			}
		case !goodRes:
			newWidth, newHeight = "1280", "720"
		default:
			newWidth, newHeight = fmt.Sprintf("%d", screenWidth), fmt.Sprintf("%d", screenHeight)
		}
	} else if width == "1280" && height == "720" {
		newWidth, newHeight = "1024", "768"
	}

	if newWidth == "" || newHeight == "" {
		return b
	}

	b = setAttr(b, "r_width", newWidth)
	b = setAttr(b, "r_height", newHeight)
	return b
}

// ToggleGlobPropsWidescreen adjusts glob_props.xml's GroundRepository and
// SmartCursor elements between their 4:3 and 16:9-tuned values. Elements
// absent from the file are left untouched.
func ToggleGlobPropsWidescreen(gameRoot string, enable bool) error {
	path := filepath.Join(gameRoot, globPropsPath)
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	groundSize := "13 10000"
	cursorRadius, cursorUnlock, cursorTimeout := "50", "300 300", "0.5"
	if enable {
		groundSize = "18 300"
		cursorRadius, cursorUnlock, cursorTimeout = "70", "422 422", "0.2"
	}

	b = setAttrWithinElement(b, "GroundRepository", "Size", groundSize)
	b = setAttrWithinElement(b, "SmartCursor", "InfoAreaRadius", cursorRadius)
	b = setAttrWithinElement(b, "SmartCursor", "UnlockRegion", cursorUnlock)
	b = setAttrWithinElement(b, "SmartCursor", "InfoObjUpdateTimeout", cursorTimeout)

	return os.WriteFile(path, b, 0o644)
}

func attrPattern(attr string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(attr) + `="[^"]*"`)
}

func hasAttr(doc []byte, attr string) bool {
	return attrPattern(attr).Match(doc)
}

func attrValue(doc []byte, attr string) string {
	m := attrPattern(attr).Find(doc)
	if m == nil {
		return ""
	}
	s := string(m)
	start := len(attr) + 2 // skip `attr="`
	return s[start : len(s)-1]
}

func setAttr(doc []byte, attr, value string) []byte {
	re := attrPattern(attr)
	if !re.Match(doc) {
		return doc
	}
	replacement := fmt.Sprintf(`%s="%s"`, attr, value)
	return re.ReplaceAll(doc, []byte(replacement))
}

// setAttrWithinElement rewrites attr only inside the opening tag of the
// named element, so that an identically named attribute elsewhere in the
// document (a different element) is never touched.
func setAttrWithinElement(doc []byte, element, attr, value string) []byte {
	elemRe := regexp.MustCompile(`(?s)<` + regexp.QuoteMeta(element) + `\b[^>]*>`)
	loc := elemRe.FindIndex(doc)
	if loc == nil {
		return doc
	}

	tag := doc[loc[0]:loc[1]]
	attrRe := attrPattern(attr)

	var newTag []byte
	if attrRe.Match(tag) {
		newTag = attrRe.ReplaceAll(tag, []byte(fmt.Sprintf(`%s="%s"`, attr, value)))
	} else {
		insertion := []byte(fmt.Sprintf(` %s="%s"`, attr, value))
		newTag = append(append(append([]byte{}, tag[:len(tag)-1]...), insertion...), '>')
	}

	out := make([]byte, 0, len(doc)-len(tag)+len(newTag))
	out = append(out, doc[:loc[0]]...)
	out = append(out, newTag...)
	out = append(out, doc[loc[1]:]...)
	return out
}
