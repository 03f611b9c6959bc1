// Package project loads editor context from formula.toml: the property
// table a formula is checked against. The engine itself never touches
// the filesystem; this package exists for the CLI and for hosts that
// keep their schema in a file.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sahilm/fuzzy"

	"formula/internal/types"
)

// ErrPropertiesMissing indicates a manifest without any [[properties]].
var ErrPropertiesMissing = errors.New("missing [[properties]]")

// Manifest is a loaded formula.toml plus where it came from.
type Manifest struct {
	Path    string
	Root    string
	Context *types.Context
}

type contextFile struct {
	Context    contextSection `toml:"context"`
	Properties []propertyRow  `toml:"properties"`
}

type contextSection struct {
	Name string `toml:"name"`
}

type propertyRow struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Disabled string `toml:"disabled"`
}

// FindFormulaToml walks up from startDir to locate formula.toml.
func FindFormulaToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "formula.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the nearest formula.toml.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindFormulaToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	ctx, err := LoadContext(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:    path,
		Root:    filepath.Dir(path),
		Context: ctx,
	}, true, nil
}

// LoadContext parses a formula.toml into a semantic context over the
// builtin function registry.
func LoadContext(path string) (*types.Context, error) {
	var cfg contextFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("properties") {
		return nil, fmt.Errorf("%s: %w", path, ErrPropertiesMissing)
	}

	seen := make(map[string]bool, len(cfg.Properties))
	props := make([]types.Property, 0, len(cfg.Properties))
	for i, row := range cfg.Properties {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: properties[%d]: missing name", path, i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%s: duplicate property %q", path, name)
		}
		seen[name] = true

		ty, err := ParsePropertyType(row.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: property %q: %w", path, name, err)
		}
		props = append(props, types.Property{
			Name:           name,
			Ty:             ty,
			DisabledReason: strings.TrimSpace(row.Disabled),
		})
	}
	return types.NewContext(props), nil
}

var propertyTypeNames = []string{
	"number", "text", "boolean", "date",
	"number[]", "text[]", "boolean[]", "date[]",
}

// ParsePropertyType maps a formula.toml type string to a type. List
// types use a "[]" suffix, e.g. "number[]".
func ParsePropertyType(name string) (types.Ty, error) {
	trimmed := strings.TrimSpace(strings.ToLower(name))
	if trimmed == "" {
		return types.Ty{}, errors.New("missing type")
	}

	base := strings.TrimSuffix(trimmed, "[]")
	var ty types.Ty
	switch base {
	case "number":
		ty = types.Number
	case "text", "string":
		ty = types.String
	case "boolean", "checkbox":
		ty = types.Boolean
	case "date":
		ty = types.Date
	default:
		if hint := closestTypeName(trimmed); hint != "" {
			return types.Ty{}, fmt.Errorf("unknown type %q (did you mean %q?)", name, hint)
		}
		return types.Ty{}, fmt.Errorf("unknown type %q (expected one of: %s)",
			name, strings.Join(propertyTypeNames, ", "))
	}
	if strings.HasSuffix(trimmed, "[]") {
		return types.ListOf(ty), nil
	}
	return ty, nil
}

func closestTypeName(input string) string {
	matches := fuzzy.Find(input, propertyTypeNames)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
