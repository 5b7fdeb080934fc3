package csvschema

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError is one violation in one column.
type FieldError struct {
	Column  string
	Value   string
	Message string
}

func (e FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Column, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Column, e.Message)
}

// pattern is the message without the offending value, used to group similar errors.
func (e FieldError) pattern() string {
	return fmt.Sprintf("%s: %s", e.Column, e.Message)
}

// Result is the outcome of validating one row.
type Result struct {
	Valid  bool
	Errors []FieldError
	Data   map[string]any
}

// Messages returns the errors as strings, in column order.
func (r Result) Messages() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}

// ValidateRow checks every declared column of row and returns the coerced data.
// Missing optional values become the column default or nil. Columns not declared in
// the schema are ignored.
func ValidateRow(row map[string]string, s Schema) Result {
	res := Result{Data: make(map[string]any, len(s.Columns))}
	for _, c := range s.Columns {
		validateColumn(&res, c, cell(row, c.Name))
	}
	res.Valid = len(res.Errors) == 0
	return res
}

func cell(row map[string]string, name string) string {
	if v, ok := row[name]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return v
		}
	}
	return ""
}

func validateColumn(res *Result, c Column, value string) {
	fail := func(msg, got string) {
		res.Errors = append(res.Errors, FieldError{Column: c.Name, Value: got, Message: msg})
	}
	raw := strings.TrimSpace(value)
	res.Data[c.Name] = nil
	if raw == "" {
		if c.Required {
			fail("is required", "")
			return
		}
		if c.Default == "" {
			return
		}
		raw = c.Default
	}

	var coerced any
	switch c.Type {
	case TypeNumber:
		d, ok := parseNumber(raw)
		if !ok {
			fail("must be a number", raw)
			return
		}
		f := d.InexactFloat64()
		res.Data[c.Name] = f
		if c.Min != nil && d.LessThan(decimal.NewFromFloat(*c.Min)) {
			fail(fmt.Sprintf("must be at least %s", formatBound(*c.Min)), raw)
		}
		if c.Max != nil && d.GreaterThan(decimal.NewFromFloat(*c.Max)) {
			fail(fmt.Sprintf("must be at most %s", formatBound(*c.Max)), raw)
		}
		coerced = f
	case TypeBoolean:
		b, ok := parseBool(raw)
		if !ok {
			fail("must be true/false, yes/no or 1/0", raw)
			return
		}
		coerced = b
	case TypeArray:
		items := splitArray(raw)
		if len(c.Enum) > 0 {
			for i, item := range items {
				canon, ok := canonicalEnum(c.Enum, item)
				if !ok {
					fail(enumMessage(c.Enum), item)
					continue
				}
				items[i] = canon
			}
		}
		coerced = items
	default:
		coerced = raw
		if len(c.Enum) > 0 {
			canon, ok := canonicalEnum(c.Enum, raw)
			if !ok {
				fail(enumMessage(c.Enum), raw)
			} else {
				coerced = canon
			}
		}
	}
	res.Data[c.Name] = coerced

	if c.Rule != "" {
		targets := []any{coerced}
		if items, ok := coerced.([]string); ok {
			targets = targets[:0]
			for _, item := range items {
				targets = append(targets, item)
			}
		}
		for _, target := range targets {
			if msg, ok := applyRule(c.Rule, target); !ok {
				fail(msg, fmt.Sprint(target))
				break
			}
		}
	}

	if c.Check != nil {
		if err := runCheck(c.Check, coerced, res.Data); err != nil {
			fail(err.Error(), "")
		}
	}
}

func runCheck(check CheckFunc, value any, data map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check failed: %v", r)
		}
	}()
	return check(value, data)
}

func enumMessage(values []string) string {
	return "must be one of: " + strings.Join(values, ", ")
}

func formatBound(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// InvalidRow is a rejected row with its 1-based position.
type InvalidRow struct {
	Row    int
	Raw    map[string]string
	Errors []FieldError
}

// BatchResult partitions a set of rows into valid and invalid ones.
type BatchResult struct {
	Total   int
	Valid   []map[string]any
	Invalid []InvalidRow
	Errors  []string
}

// ValidateRows validates every row. A row that fails, even by panicking in a custom
// check, never stops the remaining rows.
func ValidateRows(rows []map[string]string, s Schema) BatchResult {
	batch := BatchResult{Total: len(rows)}
	for i, row := range rows {
		n := i + 1
		res := safeValidate(row, s)
		if res.Valid {
			batch.Valid = append(batch.Valid, res.Data)
			continue
		}
		batch.Invalid = append(batch.Invalid, InvalidRow{Row: n, Raw: row, Errors: res.Errors})
		for _, e := range res.Errors {
			batch.Errors = append(batch.Errors, fmt.Sprintf("Row %d: %s", n, e.Error()))
		}
	}
	return batch
}

func safeValidate(row map[string]string, s Schema) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Errors: []FieldError{{Column: "row", Message: fmt.Sprintf("validation failed: %v", r)}}}
		}
	}()
	return ValidateRow(row, s)
}
