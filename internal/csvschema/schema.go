// Package csvschema validates, documents and samples CSV content files against
// declarative column schemas.
package csvschema

import (
	"fmt"
	"strings"
)

// Type is the value type a column coerces to.
type Type string

// Column types.
const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
)

// CheckFunc is a custom predicate run after the built-in checks. data holds the
// coerced values of the columns declared before this one.
type CheckFunc func(value any, data map[string]any) error

// Column declares one CSV column.
type Column struct {
	Name        string   `toml:"name"`
	Type        Type     `toml:"type"`
	Required    bool     `toml:"required"`
	Enum        []string `toml:"enum"`
	Min         *float64 `toml:"min"`
	Max         *float64 `toml:"max"`
	Default     string   `toml:"default"`
	Rule        string   `toml:"rule"`
	Description string   `toml:"description"`

	Check CheckFunc `toml:"-"`
}

// Schema is an ordered list of columns.
type Schema struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Columns     []Column `toml:"columns"`
}

// Column returns the column called name, matched case-insensitively.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// Validate reports declaration mistakes: duplicate or empty names, unknown types,
// inverted bounds, unusable rules and defaults that do not pass their own column.
func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema %q has no columns", s.Name)
	}
	seen := map[string]bool{}
	for i, c := range s.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("column %d has no name", i+1)
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[key] = true
		switch c.Type {
		case TypeString, TypeNumber, TypeBoolean, TypeArray:
		default:
			return fmt.Errorf("column %q: unknown type %q", c.Name, c.Type)
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			return fmt.Errorf("column %q: min %v is greater than max %v", c.Name, *c.Min, *c.Max)
		}
		if c.Rule != "" {
			if err := checkRuleSyntax(c.Rule); err != nil {
				return fmt.Errorf("column %q: %w", c.Name, err)
			}
		}
		if c.Default != "" {
			var res Result
			res.Data = map[string]any{}
			validateColumn(&res, c, c.Default)
			if len(res.Errors) > 0 {
				return fmt.Errorf("column %q: default %q is invalid: %s", c.Name, c.Default, res.Errors[0].Message)
			}
		}
	}
	return nil
}

func (t Type) String() string {
	return string(t)
}

func bound(v float64) *float64 {
	return &v
}
