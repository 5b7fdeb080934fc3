package csvschema

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	sports = []string{"soccer", "basketball", "tennis", "swimming", "baseball", "volleyball", "athletics"}
	levels = []string{"beginner", "intermediate", "advanced"}
)

var builtins = map[string]Schema{
	"prompts": {
		Name:        "prompts",
		Description: "Multiple-choice prompts for the movwise minigame.",
		Columns: []Column{
			{Name: "id", Type: TypeString, Required: true, Rule: "max=32", Description: "Unique prompt identifier"},
			{Name: "text", Type: TypeString, Required: true, Rule: "max=200", Description: "Question shown to the player"},
			{Name: "choices", Type: TypeArray, Required: true, Description: "Comma separated answer options"},
			{Name: "answer", Type: TypeNumber, Required: true, Min: bound(0), Max: bound(3), Check: checkAnswer,
				Description: "Zero-based index of the correct choice"},
			{Name: "difficulty", Type: TypeNumber, Min: bound(1), Max: bound(3), Default: "1", Check: checkInteger,
				Description: "1 (easy) to 3 (hard)"},
			{Name: "category", Type: TypeString, Default: "general", Description: "Topic such as vocabulary or grammar"},
		},
	},
	"students": {
		Name:        "students",
		Description: "Student roster import.",
		Columns: []Column{
			{Name: "name", Type: TypeString, Required: true, Description: "Full name"},
			{Name: "email", Type: TypeString, Rule: "email", Description: "Guardian contact email"},
			{Name: "age", Type: TypeNumber, Required: true, Min: bound(3), Max: bound(18), Check: checkInteger},
			{Name: "level", Type: TypeString, Required: true, Enum: levels},
			{Name: "sports", Type: TypeArray, Enum: sports, Description: "Enrolled sports"},
			{Name: "active", Type: TypeBoolean, Default: "true"},
		},
	},
	"coaches": {
		Name:        "coaches",
		Description: "Coach directory import.",
		Columns: []Column{
			{Name: "name", Type: TypeString, Required: true},
			{Name: "email", Type: TypeString, Required: true, Rule: "email"},
			{Name: "specialties", Type: TypeArray, Required: true, Enum: sports},
			{Name: "years_experience", Type: TypeNumber, Min: bound(0), Max: bound(60), Default: "0"},
			{Name: "active", Type: TypeBoolean, Default: "true"},
		},
	},
	"lesson-menus": {
		Name:        "lesson-menus",
		Description: "Lesson plans offered per sport and level.",
		Columns: []Column{
			{Name: "title", Type: TypeString, Required: true, Rule: "max=80"},
			{Name: "sport", Type: TypeString, Required: true, Enum: sports},
			{Name: "level", Type: TypeString, Required: true, Enum: levels},
			{Name: "duration_minutes", Type: TypeNumber, Required: true, Min: bound(15), Max: bound(180), Check: checkInteger},
			{Name: "skills", Type: TypeArray, Description: "Skills practiced in the lesson"},
			{Name: "description", Type: TypeString},
		},
	},
	"badges": {
		Name:        "badges",
		Description: "Badges awarded to students.",
		Columns: []Column{
			{Name: "name", Type: TypeString, Required: true},
			{Name: "category", Type: TypeString, Required: true, Enum: []string{"skill", "attendance", "teamwork", "achievement"}},
			{Name: "points", Type: TypeNumber, Min: bound(0), Max: bound(1000), Default: "10", Check: checkInteger},
			{Name: "icon_url", Type: TypeString, Rule: "url"},
			{Name: "description", Type: TypeString},
		},
	},
	"missions": {
		Name:        "missions",
		Description: "Skill evaluation sheets.",
		Columns: []Column{
			{Name: "title", Type: TypeString, Required: true},
			{Name: "sport", Type: TypeString, Required: true, Enum: sports},
			{Name: "level", Type: TypeString, Required: true, Enum: levels},
			{Name: "evaluation_items", Type: TypeArray, Required: true, Description: "Items the coach scores"},
			{Name: "max_score", Type: TypeNumber, Required: true, Min: bound(1), Max: bound(100)},
			{Name: "passing_score", Type: TypeNumber, Required: true, Min: bound(0), Max: bound(100), Check: checkPassingScore},
		},
	},
}

// Builtin returns the built-in schema called name.
func Builtin(name string) (Schema, bool) {
	s, ok := builtins[name]
	return s, ok
}

// BuiltinNames lists the built-in schema names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func checkInteger(value any, _ map[string]any) error {
	f, ok := value.(float64)
	if !ok {
		return nil
	}
	if f != math.Trunc(f) {
		return errors.New("must be a whole number")
	}
	return nil
}

func checkAnswer(value any, data map[string]any) error {
	if err := checkInteger(value, data); err != nil {
		return err
	}
	choices, _ := data["choices"].([]string)
	idx, _ := value.(float64)
	if len(choices) < 2 {
		return errors.New("needs at least two choices")
	}
	if int(idx) >= len(choices) {
		return fmt.Errorf("must index one of the %d choices", len(choices))
	}
	return nil
}

func checkPassingScore(value any, data map[string]any) error {
	passing, _ := value.(float64)
	maxScore, ok := data["max_score"].(float64)
	if ok && passing > maxScore {
		return errors.New("must not exceed max_score")
	}
	return nil
}
