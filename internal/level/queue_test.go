package level

import (
	"testing"

	"github.com/abhisek/mathquest/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_AheadOnlyOnce(t *testing.T) {
	q := NewQueue(25)
	require.True(t, q.Claim(0))
	require.True(t, q.Fill(0, oracle.Question{Text: "a"}))

	slot, ok := q.Ahead(0)
	require.True(t, ok)
	assert.Equal(t, 1, slot)

	_, ok = q.Ahead(0)
	assert.False(t, ok, "second prefetch while one is in flight")
	assert.False(t, q.Claim(1), "blocking fetch while prefetch is in flight")
	assert.True(t, q.Pending(1))
}

func TestQueue_FillRejectsWrongSlot(t *testing.T) {
	q := NewQueue(25)
	assert.False(t, q.Fill(1, oracle.Question{Text: "b"}))
	assert.True(t, q.Fill(0, oracle.Question{Text: "a"}))
	assert.False(t, q.Fill(0, oracle.Question{Text: "dup"}))
	assert.Equal(t, []string{"a"}, q.Texts())
}

func TestQueue_NoPrefetchPastSize(t *testing.T) {
	q := NewQueue(2)
	q.Fill(0, oracle.Question{Text: "a"})
	q.Fill(1, oracle.Question{Text: "b"})

	_, ok := q.Ahead(1)
	assert.False(t, ok)
	assert.False(t, q.Fill(2, oracle.Question{Text: "c"}))
}

func TestQueue_NoPrefetchWhenAlreadyBuffered(t *testing.T) {
	q := NewQueue(25)
	q.Fill(0, oracle.Question{Text: "a"})
	q.Fill(1, oracle.Question{Text: "b"})

	_, ok := q.Ahead(0)
	assert.False(t, ok)
}

func TestQueue_FailedSlotNotPrefetchedAgain(t *testing.T) {
	q := NewQueue(25)
	q.Fill(0, oracle.Question{Text: "a"})

	slot, ok := q.Ahead(0)
	require.True(t, ok)
	q.Fail(slot)

	_, ok = q.Ahead(0)
	assert.False(t, ok)
	assert.True(t, q.Claim(1), "blocking fetch is allowed after a failed prefetch")
}
