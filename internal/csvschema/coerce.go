package csvschema

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseNumber accepts plain decimals and commas grouping the integer part in threes.
func parseNumber(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") {
		var ok bool
		if s, ok = ungroup(s); !ok {
			return decimal.Zero, false
		}
	}
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ungroup removes thousands separators. "1,5" is rejected rather than read as 15.
func ungroup(s string) (string, bool) {
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if strings.Contains(frac, ",") {
		return "", false
	}
	groups := strings.Split(whole, ",")
	for i, g := range groups {
		if len(g) > 3 || len(g) == 0 || (i > 0 && len(g) != 3) {
			return "", false
		}
	}
	out := sign + strings.Join(groups, "")
	if hasFrac {
		out += "." + frac
	}
	return out, true
}

// parseBool accepts true/false, t/f, yes/no, y/n and 1/0.
func parseBool(raw string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}

// splitArray splits a comma separated cell, trimming items and dropping empty ones.
func splitArray(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// canonicalEnum returns the declared spelling of value, matched case-insensitively.
func canonicalEnum(values []string, value string) (string, bool) {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return v, true
		}
	}
	return "", false
}
