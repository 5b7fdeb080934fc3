package game

import "time"

// Achievement identifiers.
const (
	AchievementScoreBronze   = "score_bronze"
	AchievementScoreSilver   = "score_silver"
	AchievementScoreGold     = "score_gold"
	AchievementPerfectionist = "perfectionist"
	AchievementSpeedDemon    = "speed_demon"
	AchievementComboMaster   = "combo_master"
	AchievementNoMistakes    = "no_mistakes"
)

// Achievement describes an unlockable badge.
type Achievement struct {
	ID          string
	Title       string
	Description string

	check func(Session) bool
}

var achievements = []Achievement{
	{ID: AchievementScoreBronze, Title: "Bronze Striker", Description: "Score 1000 points in one round",
		check: func(s Session) bool { return s.Score >= 1000 }},
	{ID: AchievementScoreSilver, Title: "Silver Striker", Description: "Score 2000 points in one round",
		check: func(s Session) bool { return s.Score >= 2000 }},
	{ID: AchievementScoreGold, Title: "Gold Striker", Description: "Score 3000 points in one round",
		check: func(s Session) bool { return s.Score >= 3000 }},
	{ID: AchievementPerfectionist, Title: "Perfectionist", Description: "95% accuracy over at least 10 answers",
		check: func(s Session) bool { return s.Attempts() >= 10 && s.Accuracy() >= 95 }},
	{ID: AchievementSpeedDemon, Title: "Speed Demon", Description: "Average reaction under 700ms over at least 10 answers",
		check: func(s Session) bool { return s.Attempts() >= 10 && s.AvgReaction() < 700*time.Millisecond }},
	{ID: AchievementComboMaster, Title: "Combo Master", Description: "Reach a 20 answer combo",
		check: func(s Session) bool { return s.MaxCombo >= 20 }},
	{ID: AchievementNoMistakes, Title: "No Mistakes", Description: "Answer 20 or more without a single miss",
		check: func(s Session) bool { return s.Attempts() >= 20 && s.Incorrect == 0 }},
}

// Achievements lists every achievement in display order.
func Achievements() []Achievement {
	return append([]Achievement(nil), achievements...)
}

// LookupAchievement returns the achievement with the given id.
func LookupAchievement(id string) (Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// evaluate returns the ids newly earned by s that p does not hold yet.
func evaluate(p Profile, s Session) []string {
	var unlocked []string
	for _, a := range achievements {
		if p.HasAchievement(a.ID) {
			continue
		}
		if a.check(s) {
			unlocked = append(unlocked, a.ID)
		}
	}
	return unlocked
}
