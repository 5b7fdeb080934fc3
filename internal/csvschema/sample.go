package csvschema

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const sampleArrayLen = 4

// GenerateSampleData builds count deterministic rows that satisfy the column types,
// enums, bounds and common rules.
func GenerateSampleData(s Schema, count int) []map[string]string {
	rows := make([]map[string]string, 0, count)
	for i := 0; i < count; i++ {
		row := make(map[string]string, len(s.Columns))
		for _, c := range s.Columns {
			row[c.Name] = sampleValue(c, i)
		}
		rows = append(rows, row)
	}
	return rows
}

func sampleValue(c Column, i int) string {
	switch c.Type {
	case TypeNumber:
		return sampleNumber(c, i)
	case TypeBoolean:
		if i%2 == 0 {
			return "true"
		}
		return "false"
	case TypeArray:
		items := make([]string, 0, sampleArrayLen)
		for j := 0; j < sampleArrayLen; j++ {
			if len(c.Enum) > 0 {
				if j >= len(c.Enum) {
					break
				}
				items = append(items, c.Enum[(i+j)%len(c.Enum)])
				continue
			}
			items = append(items, sampleText(c, i*sampleArrayLen+j))
		}
		return strings.Join(items, ", ")
	default:
		if len(c.Enum) > 0 {
			return c.Enum[i%len(c.Enum)]
		}
		return sampleText(c, i)
	}
}

// sampleNumber walks the integers inside the column bounds. A range holding no
// integer yields the lower bound itself.
func sampleNumber(c Column, i int) string {
	lo, hi := numberBounds(c)
	from, to := 0.0, 100.0
	switch {
	case lo != nil && hi != nil:
		from, to = math.Ceil(*lo), math.Floor(*hi)
	case lo != nil:
		from = math.Ceil(*lo)
		to = from + 100
	case hi != nil:
		to = math.Floor(*hi)
		from = to - 100
	}
	if to < from {
		return decimal.NewFromFloat(*lo).String()
	}
	to = min(to, from+100)
	span := int(to-from) + 1
	return strconv.FormatFloat(from+float64(i%span), 'f', -1, 64)
}

// numberBounds narrows Min and Max by the numeric limits of the rule.
func numberBounds(c Column) (lo, hi *float64) {
	lo, hi = c.Min, c.Max
	for _, tag := range ruleTags(c.Rule) {
		key, param, ok := strings.Cut(tag, "=")
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(param, 64)
		if err != nil {
			continue
		}
		switch key {
		case "min", "gte":
			if lo == nil || v > *lo {
				lo = &v
			}
		case "max", "lte":
			if hi == nil || v < *hi {
				hi = &v
			}
		case "len", "eq":
			lo, hi = bound(v), bound(v)
		}
	}
	return lo, hi
}

// lengthBounds returns the rune length limits of the rule, -1 when unset.
func lengthBounds(rule string) (minLen, maxLen int) {
	minLen, maxLen = -1, -1
	for _, tag := range ruleTags(rule) {
		key, param, ok := strings.Cut(tag, "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(param)
		if err != nil || n < 0 {
			continue
		}
		switch key {
		case "min", "gte":
			minLen = max(minLen, n)
		case "max", "lte":
			if maxLen < 0 || n < maxLen {
				maxLen = n
			}
		case "len", "eq":
			minLen, maxLen = n, n
		}
	}
	return minLen, maxLen
}

// ruleTags splits a rule into its tags. Rules with alternatives are not
// interpreted.
func ruleTags(rule string) []string {
	if rule == "" || strings.Contains(rule, "|") {
		return nil
	}
	return strings.Split(rule, ",")
}

func sampleText(c Column, i int) string {
	n := i + 1
	switch {
	case strings.Contains(c.Rule, "email"):
		return fmt.Sprintf("%s%d@example.com", strings.ReplaceAll(c.Name, "_", "."), n)
	case strings.Contains(c.Rule, "url"):
		return fmt.Sprintf("https://example.com/%s/%d", c.Name, n)
	default:
		minLen, maxLen := lengthBounds(c.Rule)
		return fitText(strings.ReplaceAll(c.Name, "_", " "), strconv.Itoa(n), minLen, maxLen)
	}
}

// fitText joins label and number, trimming the label to respect maxLen and
// padding to reach minLen.
func fitText(label, number string, minLen, maxLen int) string {
	s := label + " " + number
	if maxLen >= 0 && utf8.RuneCountInString(s) > maxLen {
		runes := []rune(label)
		keep := min(max(maxLen-len(number), 0), len(runes))
		s = strings.TrimSpace(string(runes[:keep])) + number
		if r := []rune(s); len(r) > maxLen {
			s = string(r[:maxLen])
		}
	}
	if n := utf8.RuneCountInString(s); minLen > n {
		s += strings.Repeat("x", minLen-n)
	}
	return s
}

// WriteCSV writes rows with a header in schema column order.
func WriteCSV(w io.Writer, s Schema, rows []map[string]string) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(s.Columns))
		for i, c := range s.Columns {
			record[i] = row[c.Name]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
