package csvschema

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

var docHeader = []string{"Column", "Type", "Required", "Allowed values", "Range", "Default", "Description"}

// GenerateDocumentation renders the schema as a Markdown table with aligned cells.
func GenerateDocumentation(s Schema) string {
	rows := make([][]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		required := "no"
		if c.Required {
			required = "yes"
		}
		allowed := strings.Join(c.Enum, ", ")
		if c.Rule != "" {
			if allowed != "" {
				allowed += "; "
			}
			allowed += "rule: " + c.Rule
		}
		rows = append(rows, []string{
			"`" + c.Name + "`",
			string(c.Type),
			required,
			escapeCell(allowed),
			rangeText(c),
			escapeCell(c.Default),
			escapeCell(c.Description),
		})
	}

	widths := make([]int, len(docHeader))
	for i, h := range docHeader {
		widths[i] = max(3, runewidth.StringWidth(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Name)
	if s.Description != "" {
		b.WriteString(s.Description + "\n\n")
	}
	writeDocRow(&b, docHeader, widths)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeDocRow(&b, sep, widths)
	for _, row := range rows {
		writeDocRow(&b, row, widths)
	}
	return b.String()
}

func writeDocRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("|")
	for i, cell := range cells {
		b.WriteString(" ")
		b.WriteString(runewidth.FillRight(cell, widths[i]))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func rangeText(c Column) string {
	switch {
	case c.Min != nil && c.Max != nil:
		return formatBound(*c.Min) + " to " + formatBound(*c.Max)
	case c.Min != nil:
		return ">= " + formatBound(*c.Min)
	case c.Max != nil:
		return "<= " + formatBound(*c.Max)
	}
	return ""
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
