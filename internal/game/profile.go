package game

import (
	"time"

	"github.com/verte-zerg/movwise/internal/model"
)

// HistoryLimit bounds the number of round summaries kept in the profile.
const HistoryLimit = 50

// HistoryEntry summarizes one finished round.
type HistoryEntry struct {
	ID            string           `json:"id"`
	Score         int              `json:"score"`
	Correct       int              `json:"correct"`
	Total         int              `json:"total"`
	Accuracy      float64          `json:"accuracy"`
	MaxCombo      int              `json:"maxCombo"`
	AvgReactionMs int64            `json:"avgReactionMs"`
	DurationMs    int64            `json:"durationMs"`
	Difficulty    model.Difficulty `json:"difficulty"`
	Level         int              `json:"level"`
	PlayedAt      time.Time        `json:"playedAt"`
}

// Profile is the player data that survives across rounds.
type Profile struct {
	BestScore           int            `json:"bestScore"`
	TotalGamesPlayed    int            `json:"totalGamesPlayed"`
	TotalCorrectAnswers int            `json:"totalCorrectAnswers"`
	TotalQuestions      int            `json:"totalQuestions"`
	Mastery             float64        `json:"mastery"`
	Achievements        []string       `json:"achievements"`
	History             []HistoryEntry `json:"history"`
	Preferences         Preferences    `json:"preferences"`
}

// NewProfile returns an empty profile with default preferences.
func NewProfile() Profile {
	return Profile{
		Achievements: []string{},
		History:      []HistoryEntry{},
		Preferences:  DefaultPreferences(),
	}
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	c := p
	c.Achievements = append([]string{}, p.Achievements...)
	c.History = append([]HistoryEntry{}, p.History...)
	return c
}

// HasAchievement reports whether id is unlocked.
func (p Profile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// AverageScore is the mean score over the kept history.
func (p Profile) AverageScore() float64 {
	if len(p.History) == 0 {
		return 0
	}
	total := 0
	for _, h := range p.History {
		total += h.Score
	}
	return float64(total) / float64(len(p.History))
}

func mastery(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

func summarize(s Session, id string, playedAt time.Time) HistoryEntry {
	return HistoryEntry{
		ID:            id,
		Score:         s.Score,
		Correct:       s.Correct,
		Total:         s.Attempts(),
		Accuracy:      s.Accuracy(),
		MaxCombo:      s.MaxCombo,
		AvgReactionMs: s.AvgReaction().Milliseconds(),
		DurationMs:    s.Elapsed().Milliseconds(),
		Difficulty:    s.Difficulty,
		Level:         s.Level,
		PlayedAt:      playedAt,
	}
}

// fold accumulates a finished session. Achievements are evaluated separately.
func (p *Profile) fold(s Session, entry HistoryEntry) {
	p.TotalGamesPlayed++
	p.TotalCorrectAnswers += s.Correct
	p.TotalQuestions += s.Attempts()
	p.Mastery = mastery(p.TotalCorrectAnswers, p.TotalQuestions)
	if s.Score > p.BestScore {
		p.BestScore = s.Score
	}
	p.History = append([]HistoryEntry{entry}, p.History...)
	if len(p.History) > HistoryLimit {
		p.History = p.History[:HistoryLimit]
	}
}
