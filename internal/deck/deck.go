// Package deck loads the multiple-choice prompt bank played by the minigame.
package deck

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/verte-zerg/movwise/internal/csvschema"
	"github.com/verte-zerg/movwise/internal/model"
)

//go:embed default_deck.csv
var defaultDeck []byte

// SchemaName is the csvschema built-in that deck files must satisfy.
const SchemaName = "prompts"

// Deck is a validated prompt bank.
type Deck struct {
	Source   string
	Prompts  []model.Prompt
	Rejected []string
}

// Default returns the embedded deck.
func Default() (*Deck, error) {
	return Parse(bytes.NewReader(defaultDeck), "builtin")
}

// Load reads a deck from a CSV file.
func Load(path string) (*Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only deck.
			_ = cerr
		}
	}()
	return Parse(file, path)
}

// Parse validates every row against the prompts schema. Invalid rows and duplicate
// ids are skipped and listed in Rejected; an error is returned only when nothing
// usable remains.
func Parse(r io.Reader, source string) (*Deck, error) {
	schema, _ := csvschema.Builtin(SchemaName)
	rows, header, err := csvschema.ReadCSV(r)
	if err != nil {
		return nil, err
	}
	if missing := csvschema.MissingColumns(schema, header); len(missing) > 0 {
		return nil, fmt.Errorf("deck %s: missing columns: %s", source, strings.Join(missing, ", "))
	}

	batch := csvschema.ValidateRows(rows, schema)
	d := &Deck{Source: source, Rejected: batch.Errors}
	seen := map[string]bool{}
	for _, data := range batch.Valid {
		p := toPrompt(data)
		if seen[p.ID] {
			d.Rejected = append(d.Rejected, fmt.Sprintf("duplicate prompt id %q", p.ID))
			continue
		}
		seen[p.ID] = true
		d.Prompts = append(d.Prompts, p)
	}
	if len(d.Prompts) == 0 {
		return nil, errors.New("deck is empty")
	}
	return d, nil
}

func toPrompt(data map[string]any) model.Prompt {
	text, _ := data["text"].(string)
	id, _ := data["id"].(string)
	choices, _ := data["choices"].([]string)
	answer, _ := data["answer"].(float64)
	difficulty, _ := data["difficulty"].(float64)
	category, _ := data["category"].(string)
	return model.Prompt{
		ID:         id,
		Text:       text,
		Choices:    choices,
		Answer:     int(answer),
		Difficulty: int(difficulty),
		Category:   category,
	}
}

// FilterFunc returns true when a prompt should be kept.
type FilterFunc func(model.Prompt) bool

// Filter returns the prompts accepted by keep.
func (d *Deck) Filter(keep FilterFunc) []model.Prompt {
	var out []model.Prompt
	for _, p := range d.Prompts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// ForDifficulty keeps prompts no harder than the difficulty allows.
func ForDifficulty(level model.Difficulty) FilterFunc {
	limit := level.MaxPromptLevel()
	return func(p model.Prompt) bool { return p.Difficulty <= limit }
}

// InCategory keeps prompts of one category, matched case-insensitively.
func InCategory(category string) FilterFunc {
	return func(p model.Prompt) bool { return strings.EqualFold(p.Category, category) }
}

// Categories lists the distinct categories in sorted order.
func (d *Deck) Categories() []string {
	set := map[string]bool{}
	for _, p := range d.Prompts {
		set[p.Category] = true
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
