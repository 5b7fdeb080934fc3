package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/verte-zerg/movwise/internal/model"
)

// StorageKey is the key under which the profile envelope is stored.
const StorageKey = "movwise-game-storage"

// FormatVersion is written into every saved envelope.
const FormatVersion = "1.0.0"

// Storage is a small key/value store.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type envelope struct {
	PersistentData json.RawMessage `json:"persistentData"`
	LastSaved      string          `json:"lastSaved"`
	Version        string          `json:"version"`
}

func encodeProfile(p Profile, now time.Time) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	out, err := json.Marshal(envelope{
		PersistentData: data,
		LastSaved:      now.UTC().Format(time.RFC3339),
		Version:        FormatVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return out, nil
}

// decodeProfile merges a stored envelope over the defaults. It only fails when the
// document is not a JSON object at all; bad fields keep their default values.
func decodeProfile(raw []byte) (Profile, error) {
	p := NewProfile()
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return p, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	var fields map[string]json.RawMessage
	if len(env.PersistentData) == 0 || json.Unmarshal(env.PersistentData, &fields) != nil {
		return p, nil
	}
	mergeProfile(&p, fields)
	return p, nil
}

func mergeProfile(p *Profile, fields map[string]json.RawMessage) {
	counter := func(name string, dst *int) {
		var v int
		if raw, ok := fields[name]; ok && json.Unmarshal(raw, &v) == nil && v >= 0 {
			*dst = v
		}
	}
	counter("bestScore", &p.BestScore)
	counter("totalGamesPlayed", &p.TotalGamesPlayed)
	counter("totalCorrectAnswers", &p.TotalCorrectAnswers)
	counter("totalQuestions", &p.TotalQuestions)
	if p.TotalCorrectAnswers > p.TotalQuestions {
		p.TotalQuestions = p.TotalCorrectAnswers
	}
	p.Mastery = mastery(p.TotalCorrectAnswers, p.TotalQuestions)

	if raw, ok := fields["achievements"]; ok {
		var ids []string
		if json.Unmarshal(raw, &ids) == nil {
			seen := map[string]bool{}
			for _, id := range ids {
				if id == "" || seen[id] {
					continue
				}
				seen[id] = true
				p.Achievements = append(p.Achievements, id)
			}
		}
	}

	if raw, ok := fields["history"]; ok {
		var entries []json.RawMessage
		if json.Unmarshal(raw, &entries) == nil {
			for _, e := range entries {
				var h HistoryEntry
				if json.Unmarshal(e, &h) != nil || h.Score < 0 {
					continue
				}
				p.History = append(p.History, h)
				if len(p.History) == HistoryLimit {
					break
				}
			}
		}
	}

	if raw, ok := fields["preferences"]; ok {
		var prefs map[string]json.RawMessage
		if json.Unmarshal(raw, &prefs) == nil {
			var d string
			if json.Unmarshal(prefs["difficulty"], &d) == nil {
				if parsed, err := model.ParseDifficulty(d); err == nil {
					p.Preferences.Difficulty = parsed
				}
			}
			var b bool
			if json.Unmarshal(prefs["soundEnabled"], &b) == nil {
				p.Preferences.SoundEnabled = b
			}
			if json.Unmarshal(prefs["vibrationEnabled"], &b) == nil {
				p.Preferences.VibrationEnabled = b
			}
		}
	}
}

type nopStorage struct{}

func (nopStorage) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (nopStorage) Set(context.Context, string, []byte) error         { return nil }
func (nopStorage) Delete(context.Context, string) error              { return nil }
