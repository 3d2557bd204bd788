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

import "fmt"

// SchemaError reports a required-field or type-mismatch failure found while
// walking a data-driven schema table.
type SchemaError struct {
	Path  string
	Field string
	Msg   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", e.Path, e.Field, e.Msg)
}

// MissingTranslationError is returned when a declared translation language
// has no corresponding manifest_<lang>.yaml alongside the primary manifest.
type MissingTranslationError struct {
	Path string
	Lang string
}

func (e *MissingTranslationError) Error() string {
	return fmt.Sprintf("%s: lang %q specified but manifest_%s.yaml is missing", e.Path, e.Lang, e.Lang)
}

// TranslationMetadataMismatchError is returned when a translation's name,
// version, tags, or language disagree with its parent manifest.
type TranslationMetadataMismatchError struct {
	Path   string
	Reason string
}

func (e *TranslationMetadataMismatchError) Error() string {
	return fmt.Sprintf("%s: translation metadata mismatch: %s", e.Path, e.Reason)
}

// ReservedOptionNameError is returned when an OptionalContent uses one of
// the names reserved for InstalledEntry fields.
type ReservedOptionNameError struct {
	Path string
	Name string
}

func (e *ReservedOptionNameError) Error() string {
	return fmt.Sprintf("%s: optional content name %q is reserved", e.Path, e.Name)
}

// ForbiddenPrerequisiteError is returned when a prerequisite names
// community_patch together with a non-empty optional_content list.
type ForbiddenPrerequisiteError struct {
	Path string
}

func (e *ForbiddenPrerequisiteError) Error() string {
	return fmt.Sprintf("%s: prerequisites on community_patch may not declare optional_content", e.Path)
}

// ForbiddenIncompatibleError is returned when an incompatible entry
// references the reserved slug community_patch directly.
type ForbiddenIncompatibleError struct {
	Path string
}

func (e *ForbiddenIncompatibleError) Error() string {
	return fmt.Sprintf("%s: incompatible entries may not reference community_patch directly", e.Path)
}

// MissingContentDirectoryError is returned when a declared data directory
// (base or optional content) has no matching directory in the distribution
// (or, for archive loads, in the archive's file listing).
type MissingContentDirectoryError struct {
	Path          string
	ExpectedDir   string
}

func (e *MissingContentDirectoryError) Error() string {
	return fmt.Sprintf("%s: expected directory not found: %s", e.Path, e.ExpectedDir)
}
