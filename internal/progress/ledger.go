// Package progress holds the per-player progress ledger and the merge rule
// applied when a level is completed.
package progress

import (
	"errors"
	"fmt"
	"maps"

	"github.com/abhisek/mathquest/internal/chapter"
)

var (
	// ErrLevelOutOfRange is returned when a level is outside 1..LevelsPerChapter.
	ErrLevelOutOfRange = errors.New("level out of range")

	// ErrLevelLocked is returned when a level is beyond highestLevel+1.
	ErrLevelLocked = errors.New("level locked")
)

// ChapterProgress is the completion state of a single chapter.
type ChapterProgress struct {
	HighestLevel int         `json:"highestLevel"`
	HighScores   map[int]int `json:"highScores"`
}

// Unlocked reports whether level can be played.
func (c ChapterProgress) Unlocked(level int) bool {
	return level <= c.HighestLevel+1
}

// Completed reports whether level has been finished at least once.
func (c ChapterProgress) Completed(level int) bool {
	return level <= c.HighestLevel
}

// HighScore returns the best score recorded for level, or 0.
func (c ChapterProgress) HighScore(level int) int {
	return c.HighScores[level]
}

// PlayerProgress maps chapter ID to that chapter's progress.
type PlayerProgress map[string]ChapterProgress

// Chapter returns the progress for id, or the zero state if none exists.
func (p PlayerProgress) Chapter(id string) ChapterProgress {
	if c, ok := p[id]; ok {
		return c
	}
	return ChapterProgress{HighScores: map[int]int{}}
}

// Clone returns a deep copy of p.
func (p PlayerProgress) Clone() PlayerProgress {
	out := make(PlayerProgress, len(p))
	for id, c := range p {
		out[id] = ChapterProgress{
			HighestLevel: c.HighestLevel,
			HighScores:   maps.Clone(c.HighScores),
		}
	}
	return out
}

// Completion is the record emitted when the last question of a level is done.
type Completion struct {
	ChapterID string `json:"chapterId"`
	Level     int    `json:"level"`
	Score     int    `json:"score"`
}

// RecordCompletion merges a level completion into p and returns the new
// progress. Only the entry for chapterID is replaced; p itself is not
// modified. Stored values never decrease.
func RecordCompletion(p PlayerProgress, chapterID string, level, score int) PlayerProgress {
	existing := p.Chapter(chapterID)

	scores := make(map[int]int, len(existing.HighScores)+1)
	maps.Copy(scores, existing.HighScores)
	scores[level] = max(scores[level], score)

	out := make(PlayerProgress, len(p)+1)
	maps.Copy(out, p)
	out[chapterID] = ChapterProgress{
		HighestLevel: max(existing.HighestLevel, level),
		HighScores:   scores,
	}
	return out
}

// CheckSelectable returns nil if level of chapterID may be started.
func CheckSelectable(p PlayerProgress, chapterID string, level int) error {
	if _, err := chapter.Get(chapterID); err != nil {
		return err
	}
	if !chapter.ValidLevel(level) {
		return fmt.Errorf("%w: %d", ErrLevelOutOfRange, level)
	}
	if !p.Chapter(chapterID).Unlocked(level) {
		return fmt.Errorf("%w: %s level %d", ErrLevelLocked, chapterID, level)
	}
	return nil
}

// CompletedCount returns how many levels of chapterID are completed.
func CompletedCount(p PlayerProgress, chapterID string) int {
	return min(p.Chapter(chapterID).HighestLevel, chapter.LevelsPerChapter)
}
