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

// fieldKind enumerates the primitive/generic shapes a schema field may
// allow. Schemas are data (tables below), never branching code, mirroring
// the original's validate_dict/validate_dict_constrained design.
type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber // int or float, interchangeably, as the source accepts both
	kindBool
	kindList       // any list
	kindDict       // any map
	kindListString // list of scalars (string/int/float), homogeneous
)

type fieldRule struct {
	kinds    []fieldKind
	required bool
	// rng is set only for numeric fields validated with
	// validate_dict_constrained (patcher_options): [min, max].
	rng *[2]float64
}

type fieldSchema map[string]fieldRule

// schemaFieldsTop mirrors Mod.validate_install_config's schema_fieds_top.
var schemaFieldsTop = fieldSchema{
	"name":                         {kinds: []fieldKind{kindString}, required: true},
	"display_name":                 {kinds: []fieldKind{kindString}, required: true},
	"version":                      {kinds: []fieldKind{kindString, kindNumber}, required: true},
	"build":                        {kinds: []fieldKind{kindString}, required: true},
	"description":                  {kinds: []fieldKind{kindString}, required: true},
	"authors":                      {kinds: []fieldKind{kindString}, required: true},
	"prerequisites":                {kinds: []fieldKind{kindList}, required: true},
	"incompatible":                 {kinds: []fieldKind{kindList}, required: false},
	"patcher_version_requirement":  {kinds: []fieldKind{kindString, kindNumber, kindListString}, required: true},
	"release_date":                 {kinds: []fieldKind{kindString}, required: false},
	"language":                     {kinds: []fieldKind{kindString}, required: true},
	"translations":                 {kinds: []fieldKind{kindListString}, required: false},
	"link":                         {kinds: []fieldKind{kindString}, required: false},
	"tags":                         {kinds: []fieldKind{kindListString}, required: false},
	"logo":                         {kinds: []fieldKind{kindString}, required: false},
	"install_banner":               {kinds: []fieldKind{kindString}, required: false},
	"screenshots":                  {kinds: []fieldKind{kindList}, required: false},
	"change_log":                   {kinds: []fieldKind{kindString}, required: false},
	"other_info":                   {kinds: []fieldKind{kindString}, required: false},
	"patcher_options":              {kinds: []fieldKind{kindDict}, required: false},
	"optional_content":             {kinds: []fieldKind{kindList}, required: false},
	"no_base_content":              {kinds: []fieldKind{kindBool, kindString}, required: false},
	"installment":                  {kinds: []fieldKind{kindString}, required: false},
}

// schemaPrereq mirrors schema_prereqs, shared by prerequisites and
// incompatible entries.
var schemaPrereq = fieldSchema{
	"name":            {kinds: []fieldKind{kindString, kindListString}, required: true},
	"versions":        {kinds: []fieldKind{kindListString}, required: false},
	"optional_content": {kinds: []fieldKind{kindListString}, required: false},
}

func rng(lo, hi float64) *[2]float64 { return &[2]float64{lo, hi} }

// schemaPatcherOptions mirrors schema_patcher_options, including the
// clamped numeric ranges used by internal/patcher.
var schemaPatcherOptions = fieldSchema{
	"gravity":                     {kinds: []fieldKind{kindNumber}, required: false, rng: rng(-100.0, -1.0)},
	"skins_in_shop":               {kinds: []fieldKind{kindNumber}, required: false, rng: rng(8, 32)},
	"blast_damage_friendly_fire":  {kinds: []fieldKind{kindBool, kindString}, required: false},
	"game_font":                   {kinds: []fieldKind{kindString}, required: false},
}

// schemaOptionalContent mirrors schema_optional_content.
var schemaOptionalContent = fieldSchema{
	"name":             {kinds: []fieldKind{kindString}, required: true},
	"display_name":     {kinds: []fieldKind{kindString}, required: true},
	"description":      {kinds: []fieldKind{kindString}, required: true},
	"default_option":   {kinds: []fieldKind{kindString}, required: false},
	"install_settings": {kinds: []fieldKind{kindList}, required: false},
	"no_base_content":  {kinds: []fieldKind{kindBool, kindString}, required: false},
	"patcher_options":  {kinds: []fieldKind{kindDict}, required: false},
}

// schemaInstallSetting mirrors schema_install_settins.
var schemaInstallSetting = fieldSchema{
	"name":        {kinds: []fieldKind{kindString}, required: true},
	"description": {kinds: []fieldKind{kindString}, required: true},
}

func classify(v any) fieldKind {
	switch val := v.(type) {
	case string:
		return kindString
	case int, int64, float64:
		return kindNumber
	case bool:
		return kindBool
	case []any:
		for _, e := range val {
			switch e.(type) {
			case string, int, int64, float64:
				continue
			default:
				return kindList
			}
		}
		return kindListString
	case map[string]any:
		return kindDict
	default:
		return kindDict
	}
}

func kindAllowed(k fieldKind, allowed []fieldKind) bool {
	for _, a := range allowed {
		if a == k {
			return true
		}
		// a homogeneous scalar list also satisfies a bare "list" rule.
		if a == kindList && k == kindListString {
			return true
		}
	}
	return false
}

// validateDict validates a decoded map against a fieldSchema, mirroring
// Mod.validate_dict: missing required field or type mismatch aborts with a
// SchemaError naming the field.
func validateDict(path string, m map[string]any, schema fieldSchema) error {
	for field, rule := range schema {
		value, present := m[field]
		if rule.required && !present {
			return &SchemaError{Path: path, Field: field, Msg: "required but missing"}
		}
		if !present {
			continue
		}
		k := classify(value)
		if !kindAllowed(k, rule.kinds) {
			return &SchemaError{Path: path, Field: field, Msg: fmt.Sprintf("invalid type %v", k)}
		}
	}
	return nil
}

// validateDictConstrained mirrors Mod.validate_dict_constrained: in
// addition to type checks, numeric fields are range-clamped-checked
// against rule.rng.
func validateDictConstrained(path string, m map[string]any, schema fieldSchema) error {
	for field, rule := range schema {
		value, present := m[field]
		if rule.required && !present {
			return &SchemaError{Path: path, Field: field, Msg: "required but missing"}
		}
		if !present {
			continue
		}
		k := classify(value)
		if !kindAllowed(k, rule.kinds) {
			return &SchemaError{Path: path, Field: field, Msg: fmt.Sprintf("invalid type %v", k)}
		}
		if rule.rng != nil && k == kindNumber {
			n := toFloat(value)
			if n < rule.rng[0] || n > rule.rng[1] {
				return &SchemaError{Path: path, Field: field, Msg: fmt.Sprintf("out of range [%v, %v]", rule.rng[0], rule.rng[1])}
			}
		}
	}
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

// validateList runs validateDict for every dict element of a list against
// the same schema, mirroring Mod.validate_list.
func validateList(path string, list []any, schema fieldSchema) error {
	for _, e := range list {
		d, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if err := validateDict(path, d, schema); err != nil {
			return err
		}
	}
	return nil
}
