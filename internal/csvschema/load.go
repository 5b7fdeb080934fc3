package csvschema

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadFile decodes a schema from a TOML file:
//
//	name = "players"
//	[[columns]]
//	name = "level"
//	type = "string"
//	required = true
//	enum = ["beginner", "intermediate", "advanced"]
func LoadFile(path string) (Schema, error) {
	var s Schema
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to parse schema %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Schema{}, fmt.Errorf("schema %s: unknown key %s", path, undecoded[0])
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for i := range s.Columns {
		if s.Columns[i].Type == "" {
			s.Columns[i].Type = TypeString
		}
	}
	if err := s.Validate(); err != nil {
		return Schema{}, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

// Resolve returns a built-in schema by name, or loads ref as a TOML file.
func Resolve(ref string) (Schema, error) {
	if s, ok := Builtin(ref); ok {
		return s, nil
	}
	if strings.EqualFold(filepath.Ext(ref), ".toml") {
		return LoadFile(ref)
	}
	return Schema{}, fmt.Errorf("unknown schema %q (built-in: %s)", ref, strings.Join(BuiltinNames(), ", "))
}
