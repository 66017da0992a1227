package progress

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCompletion_NewChapter(t *testing.T) {
	p := RecordCompletion(PlayerProgress{}, "addition", 1, 120)

	c := p.Chapter("addition")
	assert.Equal(t, 1, c.HighestLevel)
	assert.Equal(t, 120, c.HighScore(1))
}

func TestRecordCompletion_NeverDecreases(t *testing.T) {
	p := RecordCompletion(PlayerProgress{}, "addition", 5, 300)
	p = RecordCompletion(p, "addition", 2, 100)
	p = RecordCompletion(p, "addition", 5, 50)

	c := p.Chapter("addition")
	assert.Equal(t, 5, c.HighestLevel)
	assert.Equal(t, 300, c.HighScore(5))
	assert.Equal(t, 100, c.HighScore(2))
}

func TestRecordCompletion_DoesNotMutateInput(t *testing.T) {
	before := RecordCompletion(PlayerProgress{}, "addition", 1, 10)
	snapshot := before.Clone()

	_ = RecordCompletion(before, "addition", 2, 99)

	assert.Equal(t, snapshot, before)
}

func TestRecordCompletion_OtherChaptersUntouched(t *testing.T) {
	p := RecordCompletion(PlayerProgress{}, "addition", 3, 40)
	p = RecordCompletion(p, "fractions", 1, 10)

	next := RecordCompletion(p, "fractions", 2, 20)

	assert.True(t, reflect.DeepEqual(p["addition"], next["addition"]))
	assert.Len(t, next, 2)
}

func TestRecordCompletion_Idempotent(t *testing.T) {
	once := RecordCompletion(PlayerProgress{}, "division", 4, 75)
	twice := RecordCompletion(once, "division", 4, 75)
	assert.Equal(t, once, twice)
}

func TestRecordCompletion_MonotonicAnyOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	ids := []string{"addition", "subtraction", "geometry"}

	p := PlayerProgress{}
	for i := 0; i < 500; i++ {
		id := ids[r.IntN(len(ids))]
		lvl := 1 + r.IntN(30)
		score := r.IntN(400)

		next := RecordCompletion(p, id, lvl, score)
		for cid, prev := range p {
			cur := next[cid]
			require.GreaterOrEqual(t, cur.HighestLevel, prev.HighestLevel)
			for l, s := range prev.HighScores {
				require.GreaterOrEqual(t, cur.HighScores[l], s)
			}
		}
		p = next
	}
}

func TestUnlockedCompleted(t *testing.T) {
	c := ChapterProgress{HighestLevel: 3}

	tests := []struct {
		level     int
		unlocked  bool
		completed bool
	}{
		{1, true, true},
		{3, true, true},
		{4, true, false},
		{5, false, false},
	}
	for _, tt := range tests {
		if got := c.Unlocked(tt.level); got != tt.unlocked {
			t.Errorf("Unlocked(%d) = %v, want %v", tt.level, got, tt.unlocked)
		}
		if got := c.Completed(tt.level); got != tt.completed {
			t.Errorf("Completed(%d) = %v, want %v", tt.level, got, tt.completed)
		}
	}
}

func TestCheckSelectable(t *testing.T) {
	p := RecordCompletion(PlayerProgress{}, "addition", 2, 50)
	snapshot := p.Clone()

	assert.NoError(t, CheckSelectable(p, "addition", 3))
	assert.NoError(t, CheckSelectable(p, "subtraction", 1))

	err := CheckSelectable(p, "addition", 4)
	assert.True(t, errors.Is(err, ErrLevelLocked), "got %v", err)

	err = CheckSelectable(p, "addition", 31)
	assert.True(t, errors.Is(err, ErrLevelOutOfRange), "got %v", err)

	err = CheckSelectable(p, "addition", 0)
	assert.True(t, errors.Is(err, ErrLevelOutOfRange), "got %v", err)

	assert.Error(t, CheckSelectable(p, "algebra", 1))
	assert.Equal(t, snapshot, p)
}

func TestCompletedCount(t *testing.T) {
	p := RecordCompletion(PlayerProgress{}, "geometry", 7, 1)
	assert.Equal(t, 7, CompletedCount(p, "geometry"))
	assert.Equal(t, 0, CompletedCount(p, "addition"))
}
