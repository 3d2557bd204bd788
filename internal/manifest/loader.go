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

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dem-team/commod/internal/version"
	yaml "go.yaml.in/yaml/v3"
)

// DirChecker abstracts "does this directory exist" so the same validation
// logic runs against a real filesystem (directory-mode loads) or against an
// archive's file listing (archive-mode loads), so loading from a zip/7z
// archive never requires extracting it to disk first.
type DirChecker interface {
	IsDir(relPath string) bool
}

// osDirChecker checks real directories beneath root.
type osDirChecker struct{ root string }

func (c osDirChecker) IsDir(rel string) bool {
	info, err := os.Stat(filepath.Join(c.root, rel))
	return err == nil && info.IsDir()
}

// ArchiveListing checks directory presence against a flat archive file
// listing, treating empty-stream entries (trailing slash) as directories
// per src/commod/game/mod_archive.py's convention.
type ArchiveListing struct {
	Entries map[string]bool
}

func (a ArchiveListing) IsDir(rel string) bool {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), "/") + "/"
	return a.Entries[rel]
}

// NewArchiveListing builds an ArchiveListing from a flat list of archive
// entry names, exactly as mod_archive.py folds py7zr/zipfile listings into
// a single []string before checking membership.
func NewArchiveListing(names []string) ArchiveListing {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[filepath.ToSlash(n)] = true
	}
	return ArchiveListing{Entries: m}
}

// LoadDir loads and validates the primary manifest.yaml and all declared
// translations from a distribution directory, exactly as
// Mod.load_translations walks manifest_<lang>.yaml siblings.
func LoadDir(modDir string) (*Manifest, error) {
	primaryPath := filepath.Join(modDir, "manifest.yaml")
	raw, err := readYAML(primaryPath)
	if err != nil {
		return nil, err
	}

	checker := osDirChecker{root: filepath.Dir(modDir)}
	if err := validateStructure(raw, primaryPath, checker); err != nil {
		return nil, err
	}

	m, err := build(raw, modDir, primaryPath)
	if err != nil {
		return nil, err
	}

	if err := loadTranslations(m, raw, modDir, checker); err != nil {
		return nil, err
	}

	return m, nil
}

// LoadArchive loads and validates a manifest whose bytes and sibling
// directory structure come from an archive's file listing instead of the
// real filesystem.
func LoadArchive(manifestBytes []byte, manifestPathInArchive string, listing ArchiveListing) (*Manifest, error) {
	raw, err := decodeYAML(manifestBytes, manifestPathInArchive)
	if err != nil {
		return nil, err
	}

	if err := validateStructure(raw, manifestPathInArchive, listing); err != nil {
		return nil, err
	}

	modDir := filepath.Dir(manifestPathInArchive)
	return build(raw, modDir, manifestPathInArchive)
}

func readYAML(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return decodeYAML(b, path)
}

func decodeYAML(b []byte, path string) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw == nil {
		return nil, &SchemaError{Path: path, Field: "<root>", Msg: "empty or non-mapping document"}
	}
	return raw, nil
}

// validateStructure runs the schema pass followed by the structural rules:
// forbidden prerequisite/incompatible shapes, reserved optional-content
// names, and directory existence checks.
func validateStructure(raw map[string]any, path string, checker DirChecker) error {
	if err := validateDict(path, raw, schemaFieldsTop); err != nil {
		return err
	}

	if po, ok := raw["patcher_options"].(map[string]any); ok {
		if err := validateDictConstrained(path, po, schemaPatcherOptions); err != nil {
			return err
		}
	}

	prereqs, _ := raw["prerequisites"].([]any)
	for _, e := range prereqs {
		d, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if err := validateDict(path, d, schemaPrereq); err != nil {
			return err
		}
		names := asStringList(d["name"])
		oc := asStringList(d["optional_content"])
		if contains(names, "community_patch") && len(oc) > 0 {
			return &ForbiddenPrerequisiteError{Path: path}
		}
	}

	incomps, _ := raw["incompatible"].([]any)
	for _, e := range incomps {
		d, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if err := validateDict(path, d, schemaPrereq); err != nil {
			return err
		}
		names := asStringList(d["name"])
		if contains(names, "community_patch") {
			return &ForbiddenIncompatibleError{Path: path}
		}
	}

	optContent, _ := raw["optional_content"].([]any)
	if optContent != nil {
		if err := validateList(path, optContent, schemaOptionalContent); err != nil {
			return err
		}
		for _, e := range optContent {
			d, ok := e.(map[string]any)
			if !ok {
				continue
			}
			name, _ := d["name"].(string)
			if ReservedOptionNames[name] {
				return &ReservedOptionNameError{Path: path, Name: name}
			}
			if settings, ok := d["install_settings"].([]any); ok {
				if err := validateList(path, settings, schemaInstallSetting); err != nil {
					return err
				}
			}
			if po, ok := d["patcher_options"].(map[string]any); ok {
				if err := validateDictConstrained(path, po, schemaPatcherOptions); err != nil {
					return err
				}
			}
		}
	}

	return checkDirectories(raw, path, checker)
}

func checkDirectories(raw map[string]any, path string, checker DirChecker) error {
	modID, _ := raw["name"].(string)
	identifier := modID
	if modID == "community_remaster" {
		identifier = "remaster"
	}

	noBase := asBool(raw["no_base_content"])
	if !noBase {
		dataDir := filepath.Join(identifier, "data")
		if !checker.IsDir(dataDir) {
			return &MissingContentDirectoryError{Path: path, ExpectedDir: dataDir}
		}
	}

	optContent, _ := raw["optional_content"].([]any)
	for _, e := range optContent {
		d, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name, _ := d["name"].(string)
		optDir := filepath.Join(identifier, name)
		if !checker.IsDir(optDir) {
			return &MissingContentDirectoryError{Path: path, ExpectedDir: optDir}
		}
		if settings, ok := d["install_settings"].([]any); ok {
			for _, s := range settings {
				sd, ok := s.(map[string]any)
				if !ok {
					continue
				}
				sname, _ := sd["name"].(string)
				settingDir := filepath.Join(identifier, name, sname)
				if !checker.IsDir(settingDir) {
					return &MissingContentDirectoryError{Path: path, ExpectedDir: settingDir}
				}
			}
		}
	}

	return nil
}

// build constructs a Manifest from an already schema-validated raw map,
// mirroring Mod.__init__'s field normalization (string trimming/sanitizing,
// scalar-to-list coercion, default filling).
func build(raw map[string]any, distDir, path string) (*Manifest, error) {
	m := &Manifest{
		Name:               sanitizeName(asString(raw["name"]), 64),
		DisplayName:        truncateStr(asString(raw["display_name"]), 64),
		Description:        truncateStr(asString(raw["description"]), 2048),
		Authors:            truncateStr(asString(raw["authors"]), 256),
		Build:              truncateStr(asString(raw["build"]), 7),
		Language:           asString(raw["language"]),
		Installment:        asString(raw["installment"]),
		ReleaseDate:        asString(raw["release_date"]),
		URL:                truncateStr(asString(raw["link"]), 128),
		TrailerURL:         truncateStr(asString(raw["trailer_link"]), 128),
		ChangeLog:          asString(raw["change_log"]),
		OtherInfo:          asString(raw["other_info"]),
		Logo:               asString(raw["logo"]),
		InstallBanner:      asString(raw["install_banner"]),
		DistributionDir:    distDir,
		TranslationsLoaded: map[string]*Manifest{},
		VariantsLoaded:     map[string]*Manifest{},
		optionsDict:        map[string]*OptionalContent{},
	}
	m.Version = version.Parse(truncateStr(asString(raw["version"]), 64))

	tags := asStringList(raw["tags"])
	if len(tags) == 0 {
		m.Tags = []Tag{TagUncategorized}
	} else {
		seen := map[Tag]bool{}
		for _, t := range tags {
			tag := Tag(strings.ToUpper(t))
			if knownTags[tag] {
				seen[tag] = true
			}
		}
		for tag := range seen {
			m.Tags = append(m.Tags, tag)
		}
	}

	for _, s := range asList(raw["screenshots"]) {
		d, ok := s.(map[string]any)
		if !ok {
			continue
		}
		img, _ := d["img"].(string)
		if img == "" {
			continue
		}
		m.Screenshots = append(m.Screenshots, Screenshot{
			Img:     img,
			Text:    asString(d["text"]),
			Compare: asString(d["compare"]),
		})
	}

	m.Prerequisites = buildDependencyEntries(asList(raw["prerequisites"]))
	m.Incompatible = buildDependencyEntries(asList(raw["incompatible"]))

	reqLits := nonEmpty(asMixedStringList(raw["patcher_version_requirement"]))
	if len(reqLits) == 0 {
		reqLits = PatcherVersionDefault
	}
	m.PatcherVersionRequirement = version.ParseConstraintSet(reqLits, version.DefaultGreaterEqual)

	m.NoBaseContent = asBool(raw["no_base_content"])

	if po, ok := raw["patcher_options"].(map[string]any); ok {
		m.PatcherOptions = po
	} else {
		m.PatcherOptions = map[string]any{}
	}

	for _, e := range asList(raw["optional_content"]) {
		d, ok := e.(map[string]any)
		if !ok {
			continue
		}
		oc := buildOptionalContent(d, m)
		m.OptionalContent = append(m.OptionalContent, oc)
		m.optionsDict[oc.Name] = oc
	}

	return m, nil
}

func buildDependencyEntries(list []any) []DependencyEntry {
	var out []DependencyEntry
	for _, e := range list {
		d, ok := e.(map[string]any)
		if !ok {
			continue
		}
		entry := DependencyEntry{
			Names:           asStringList(d["name"]),
			VersionLiterals: asMixedStringList(d["versions"]),
			OptionalContent: asStringList(d["optional_content"]),
		}
		if len(entry.VersionLiterals) > 0 {
			entry.Constraints = version.ParseConstraintSet(entry.VersionLiterals, version.DefaultEqual)
		}
		out = append(out, entry)
	}
	return out
}

func buildOptionalContent(d map[string]any, parent *Manifest) *OptionalContent {
	oc := &OptionalContent{
		Name:        sanitizeName(asString(d["name"]), 64),
		DisplayName: truncateStr(asString(d["display_name"]), 64),
		Description: truncateStr(asString(d["description"]), 256),
	}

	for _, s := range asList(d["install_settings"]) {
		sd, ok := s.(map[string]any)
		if !ok {
			continue
		}
		oc.InstallSettings = append(oc.InstallSettings, InstallSetting{
			Name:        truncateStr(asString(sd["name"]), 64),
			Description: truncateStr(asString(sd["description"]), 128),
		})
	}

	defaultOption, _ := d["default_option"].(string)
	if len(oc.InstallSettings) > 0 {
		found := false
		for _, s := range oc.InstallSettings {
			if s.Name == defaultOption {
				found = true
				break
			}
		}
		switch {
		case found:
			oc.DefaultOption = defaultOption
		case strings.EqualFold(defaultOption, "skip"):
			oc.DefaultOption = "skip"
		}
	} else {
		// "install" and unset are equivalent for simple options.
		if strings.EqualFold(defaultOption, "skip") {
			oc.DefaultOption = "skip"
		}
	}

	oc.NoBaseContent = asBool(d["no_base_content"])

	if po, ok := d["patcher_options"].(map[string]any); ok {
		oc.PatcherOptions = po
		for k, v := range po {
			parent.PatcherOptions[k] = v
		}
	}

	return oc
}

// loadTranslations loads each declared translation manifest, enforcing
// identity-match invariants exactly as Mod.load_translations does. The set
// of languages to load comes from the primary manifest's own `translations:`
// field, not a directory scan: a declared language with no corresponding
// manifest_<lang>.yaml is a load failure, not a silent skip.
func loadTranslations(m *Manifest, raw map[string]any, modDir string, checker DirChecker) error {
	m.TranslationsLoaded[m.Language] = m

	for _, lang := range asStringList(raw["translations"]) {
		if lang == m.Language {
			continue
		}
		langPath := filepath.Join(modDir, fmt.Sprintf("manifest_%s.yaml", lang))
		langRaw, err := readYAML(langPath)
		if err != nil {
			return &MissingTranslationError{Path: langPath, Lang: lang}
		}
		if err := validateStructure(langRaw, langPath, checker); err != nil {
			return err
		}
		tr, err := build(langRaw, modDir, langPath)
		if err != nil {
			return err
		}

		if tr.Name != m.Name {
			return &TranslationMetadataMismatchError{Path: langPath, Reason: fmt.Sprintf("name %q != %q", tr.Name, m.Name)}
		}
		if !tr.Version.Equal(m.Version) {
			return &TranslationMetadataMismatchError{Path: langPath, Reason: "version mismatch"}
		}
		if !sameTags(tr.Tags, m.Tags) {
			return &TranslationMetadataMismatchError{Path: langPath, Reason: "tags mismatch"}
		}
		if tr.Language != lang {
			return &TranslationMetadataMismatchError{Path: langPath, Reason: "language mismatch between filename and manifest"}
		}
		if tr.Language == m.Language {
			return &TranslationMetadataMismatchError{Path: langPath, Reason: "duplicates the primary language"}
		}

		m.TranslationsLoaded[lang] = tr
	}

	return nil
}

func sameTags(a, b []Tag) bool {
	if len(a) != len(b) {
		return false
	}
	set := map[Tag]bool{}
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		if !set[t] {
			return false
		}
	}
	return true
}

func sanitizeName(s string, max int) string {
	s = truncateStr(s, max)
	s = strings.NewReplacer("/", "", "\\", "", ".", "").Replace(s)
	return strings.TrimSpace(s)
}

func truncateStr(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		s = s[:max]
	}
	return strings.TrimSpace(s)
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// asStringList coerces a scalar-or-list field to a list of strings, mirroring
// Mod.__init__'s "always work with them as a list of choices" normalization.
func asStringList(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			out = append(out, asString(e))
		}
		return out
	default:
		return nil
	}
}

// asMixedStringList coerces str|int|float|list[...] fields (version
// literals, patcher_version_requirement) into string literals.
func asMixedStringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			out = append(out, asString(e))
		}
		return out
	default:
		return []string{asString(val)}
	}
}

func nonEmpty(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
