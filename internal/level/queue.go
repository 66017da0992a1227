package level

import "github.com/abhisek/mathquest/internal/oracle"

// Queue is the append-only question buffer for one level. At most one slot
// is being fetched at any time, and a slot is only filled when it is the
// next index, so a blocking fetch and a prefetch can never both append.
type Queue struct {
	size      int
	questions []oracle.Question
	pending   int
	failed    map[int]bool
}

// NewQueue creates a queue holding up to size questions.
func NewQueue(size int) *Queue {
	return &Queue{size: size, pending: -1, failed: make(map[int]bool)}
}

// Size returns the fixed number of questions in the level.
func (q *Queue) Size() int { return q.size }

// Len returns the number of questions fetched so far.
func (q *Queue) Len() int { return len(q.questions) }

// Get returns the question at i if it has been fetched.
func (q *Queue) Get(i int) (oracle.Question, bool) {
	if i < 0 || i >= len(q.questions) {
		return oracle.Question{}, false
	}
	return q.questions[i], true
}

// Texts returns the text of every fetched question in order.
func (q *Queue) Texts() []string {
	out := make([]string, len(q.questions))
	for i, qq := range q.questions {
		out[i] = qq.Text
	}
	return out
}

// Pending reports whether slot is currently being fetched.
func (q *Queue) Pending(slot int) bool {
	return q.pending == slot
}

// Ahead claims the slot after current for a background fetch. It succeeds
// only when exactly current+1 questions are buffered, the level is not
// full, nothing is in flight, and an earlier prefetch of that slot has not
// failed.
func (q *Queue) Ahead(current int) (int, bool) {
	slot := current + 1
	if len(q.questions) != slot || slot >= q.size || q.pending >= 0 || q.failed[slot] {
		return 0, false
	}
	q.pending = slot
	return slot, true
}

// Claim reserves slot for a blocking fetch. It fails when slot is not the
// next index or another fetch is in flight.
func (q *Queue) Claim(slot int) bool {
	if slot != len(q.questions) || slot >= q.size || q.pending >= 0 {
		return false
	}
	q.pending = slot
	delete(q.failed, slot)
	return true
}

// Fill appends qq at slot. It returns false, leaving the queue unchanged,
// if slot is not the next index.
func (q *Queue) Fill(slot int, qq oracle.Question) bool {
	if slot != len(q.questions) || slot >= q.size {
		return false
	}
	q.questions = append(q.questions, qq)
	if q.pending == slot {
		q.pending = -1
	}
	return true
}

// Fail releases slot after an unsuccessful fetch and stops it from being
// prefetched again.
func (q *Queue) Fail(slot int) {
	if q.pending == slot {
		q.pending = -1
	}
	q.failed[slot] = true
}
