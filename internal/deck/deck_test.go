package deck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/movwise/internal/model"
)

func TestDefaultDeckIsValid(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("default deck: %v", err)
	}
	if len(d.Rejected) != 0 {
		t.Fatalf("default deck has rejected rows: %v", d.Rejected)
	}
	counts := map[model.Difficulty]int{}
	for _, level := range model.Difficulties {
		counts[level] = len(d.Filter(ForDifficulty(level)))
	}
	if counts[model.DifficultyEasy] != 8 || counts[model.DifficultyNormal] != 17 || counts[model.DifficultyHard] != len(d.Prompts) {
		t.Fatalf("unexpected pool sizes %v of %d", counts, len(d.Prompts))
	}
	for _, p := range d.Prompts {
		if !p.Correct(p.Answer) || len(p.Choices) < 2 {
			t.Fatalf("bad prompt %+v", p)
		}
	}
	if got := d.Categories(); strings.Join(got, ",") != "grammar,phrases,vocabulary" {
		t.Fatalf("unexpected categories %v", got)
	}
}

func TestParseSkipsInvalidRows(t *testing.T) {
	csv := `id,text,choices,answer,difficulty
a1,Kick the ___,"ball,bat",0,1
a2,Missing choices,,0,1
a1,Duplicate,"x,y",1,2
a3,Out of range,"x,y",1,9
a4,Hit the ___,"racket,net",1,
`
	d, err := Parse(strings.NewReader(csv), "test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(d.Prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %+v", d.Prompts)
	}
	if d.Prompts[1].Difficulty != 1 || d.Prompts[1].Category != "general" {
		t.Fatalf("expected defaults applied, got %+v", d.Prompts[1])
	}
	// a2 fails both the choices and the answer check.
	if len(d.Rejected) != 4 {
		t.Fatalf("expected 4 rejection messages, got %v", d.Rejected)
	}
	if len(d.Filter(InCategory("GENERAL"))) != 2 {
		t.Fatalf("category filter should be case-insensitive")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatalf("expected open error")
	}
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("id,text\nx,y\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "choices") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}
