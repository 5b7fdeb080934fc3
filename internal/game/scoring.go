package game

import "time"

// MaxReaction is the upper bound recorded for a single answer.
const MaxReaction = 10 * time.Second

// comboStep is how many consecutive correct answers raise the multiplier.
const comboStep = 5

// ClampReaction bounds d to [0, MaxReaction].
func ClampReaction(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > MaxReaction {
		return MaxReaction
	}
	return d
}

// TimeBonus rewards fast answers.
func TimeBonus(reaction time.Duration) int {
	switch {
	case reaction < time.Second:
		return 10
	case reaction < 1500*time.Millisecond:
		return 5
	default:
		return 0
	}
}

// ComboBonus is floor(combo/5)*5.
func ComboBonus(combo int) int {
	return combo / comboStep * comboStep
}

// ScoreMultiplier is floor(combo/5)+1.
func ScoreMultiplier(combo int) int {
	return combo/comboStep + 1
}

// Points is the score awarded for a correct answer given the combo after it was counted.
func Points(difficulty int, reaction time.Duration, combo int) int {
	if difficulty < 1 {
		difficulty = 1
	}
	if combo < 0 {
		combo = 0
	}
	return (difficulty*10 + TimeBonus(reaction) + ComboBonus(combo)) * ScoreMultiplier(combo)
}
