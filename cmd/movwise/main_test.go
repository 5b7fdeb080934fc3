package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/movwise/internal/csvschema"
	"github.com/verte-zerg/movwise/internal/feedback"
	"github.com/verte-zerg/movwise/internal/model"
)

func TestFlagsOverrideConfigValues(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("lives", "7"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileLives, fileDeck := 2, "deck.csv"
	applyIntConfig(cmd, "lives", &playLives, &fileLives)
	applyStringConfig(cmd, "deck", &playDeck, &fileDeck)
	if playLives != 7 {
		t.Fatalf("expected flag value to win, got %d", playLives)
	}
	if playDeck != "deck.csv" {
		t.Fatalf("expected config value for unset flag, got %q", playDeck)
	}
	playDeck = ""
}

func TestBuildConfigValidates(t *testing.T) {
	t.Cleanup(func() {
		playDifficulty, playLives, audioVolume = "", 0, defaultVolume
	})
	playDifficulty = "HARD"
	cfg, err := buildConfig()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.Difficulty != model.DifficultyHard {
		t.Fatalf("unexpected difficulty %q", cfg.Difficulty)
	}

	playDifficulty = "expert"
	if _, err := buildConfig(); err == nil {
		t.Fatalf("expected invalid difficulty error")
	}
	playDifficulty = ""
	playLives = -1
	if _, err := buildConfig(); err == nil {
		t.Fatalf("expected negative lives error")
	}
	playLives = 0
	audioVolume = 1.5
	if _, err := buildConfig(); err == nil {
		t.Fatalf("expected volume range error")
	}
}

func TestValidateFileReportsInvalidRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.csv")
	data := "id,text,choices,answer\n" +
		"p1,Pick the ball.,\"ball,bat\",0\n" +
		"p2,Pick the net.,\"ball,net\",5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := csvschema.Builtin("prompts")

	var out bytes.Buffer
	err := validateFile(&out, path, s)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 rows are invalid") {
		t.Fatalf("unexpected error %v", err)
	}
	for _, want := range []string{"Rows: 2  Valid: 1  Invalid: 1", "Quality: 50.0% (Poor)", "Row 2: answer:"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestValidateFileRejectsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.csv")
	if err := os.WriteFile(path, []byte("id,text\np1,hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := csvschema.Builtin("prompts")
	err := validateFile(&bytes.Buffer{}, path, s)
	if err == nil || !strings.Contains(err.Error(), "choices, answer") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestResolveSchemaSearchesUserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, "movwise", "schemas")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	schema := "[[columns]]\nname = \"team\"\nrequired = true\n"
	if err := os.WriteFile(filepath.Join(dir, "teams.toml"), []byte(schema), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := resolveSchema("teams")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Name != "teams" || len(s.Columns) != 1 {
		t.Fatalf("unexpected schema %+v", s)
	}
	if _, err := resolveSchema("unknown"); err == nil {
		t.Fatalf("expected unknown schema error")
	}
}

func TestListEffects(t *testing.T) {
	var out bytes.Buffer
	if err := listEffects(&out); err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(feedback.Keys()) {
		t.Fatalf("expected %d lines, got %d", len(feedback.Keys()), len(lines))
	}
	if !strings.Contains(out.String(), "levelUp      fanfare") {
		t.Fatalf("unexpected listing:\n%s", out.String())
	}
}

func TestExportEffectWritesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "correct.wav")
	if err := exportEffect(feedback.EffectCorrect, path, 0.5); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) <= 44 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("unexpected WAV header")
	}
	if err := exportEffect("nope", path, 0.5); err == nil {
		t.Fatalf("expected unknown effect error")
	}
	if err := exportEffect(feedback.EffectCorrect, path, 0); err == nil {
		t.Fatalf("expected gain error")
	}
}
