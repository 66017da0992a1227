package chapter

import (
	"errors"
	"fmt"
)

const (
	// QuestionsPerLevel is the fixed number of questions in every level.
	QuestionsPerLevel = 25

	// LevelsPerChapter is the number of difficulty levels in a chapter.
	LevelsPerChapter = 30
)

// ErrUnknownChapter is returned when a chapter ID is not in the catalog.
var ErrUnknownChapter = errors.New("unknown chapter")

// Chapter is a thematic group of word problems on one math topic.
// Chapters are created once from the static catalog and never mutated.
type Chapter struct {
	// ID is the unique key used in player progress, e.g. "addition".
	ID string

	// Title is the display name, e.g. "Forest of Addition".
	Title string

	// Theme is the story setting handed to the question oracle.
	Theme string

	// Topic is the math topic handed to the question oracle.
	Topic string

	// Color is a hex color used when rendering the chapter.
	Color string

	// Icon is a short glyph shown next to the title.
	Icon string
}

// catalog holds the chapters in display order.
var catalog = []Chapter{
	{
		ID:    "addition",
		Title: "Forest of Addition",
		Theme: "a friendly forest with talking animals",
		Topic: "Addition",
		Color: "#22C55E",
		Icon:  "+",
	},
	{
		ID:    "subtraction",
		Title: "Castle of Subtraction",
		Theme: "a medieval castle with knights and dragons",
		Topic: "Subtraction",
		Color: "#64748B",
		Icon:  "-",
	},
	{
		ID:    "multiplication",
		Title: "Mountain of Multiplication",
		Theme: "a high mountain peak with eagles and yetis",
		Topic: "Multiplication",
		Color: "#EF4444",
		Icon:  "×",
	},
	{
		ID:    "division",
		Title: "Jungle of Division",
		Theme: "a dense jungle with monkeys and parrots",
		Topic: "Division",
		Color: "#EAB308",
		Icon:  "÷",
	},
	{
		ID:    "fractions",
		Title: "Ocean of Fractions",
		Theme: "an underwater world with colorful fish and coral reefs",
		Topic: "Fractions",
		Color: "#3B82F6",
		Icon:  "½",
	},
	{
		ID:    "geometry",
		Title: "Galaxy of Geometry",
		Theme: "a futuristic space adventure with aliens and rockets",
		Topic: "Geometry (shapes, area, perimeter)",
		Color: "#A855F7",
		Icon:  "△",
	},
}

// All returns a copy of the catalog in display order.
func All() []Chapter {
	out := make([]Chapter, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the chapter with the given ID.
func Get(id string) (Chapter, error) {
	for _, c := range catalog {
		if c.ID == id {
			return c, nil
		}
	}
	return Chapter{}, fmt.Errorf("%w: %q", ErrUnknownChapter, id)
}

// ValidLevel reports whether level is within 1..LevelsPerChapter.
func ValidLevel(level int) bool {
	return level >= 1 && level <= LevelsPerChapter
}
