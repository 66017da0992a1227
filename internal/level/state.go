package level

import (
	"github.com/abhisek/mathquest/internal/chapter"
	"github.com/abhisek/mathquest/internal/oracle"
)

// State is a read-only snapshot of a session for rendering.
type State struct {
	Chapter chapter.Chapter
	Level   int
	Status  Status

	// Index is zero-based; Total is the number of questions in the level.
	Index int
	Total int

	Question    oracle.Question
	HasQuestion bool
	Buffered    int

	Score      int
	Streak     int
	Multiplier int
	Misses     int

	LastCorrect bool
	LastPoints  int

	Hint            string
	HintLoading     bool
	Solution        *oracle.Hint
	SolutionLoading bool

	Error string
}

// CanTryAgain reports whether the player may retry after a first miss.
func (st State) CanTryAgain() bool {
	return st.Status == StatusAnswered && !st.LastCorrect
}

// CanRequestHint reports whether a hint may still be requested.
func (st State) CanRequestHint() bool {
	return st.CanTryAgain() && st.Hint == "" && !st.HintLoading
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	q, ok := s.queue.Get(s.index)
	st := State{
		Chapter:         s.config.Chapter,
		Level:           s.config.Level,
		Status:          s.status,
		Index:           s.index,
		Total:           s.queue.Size(),
		Question:        q,
		HasQuestion:     ok,
		Buffered:        s.queue.Len(),
		Score:           s.score,
		Streak:          s.streak,
		Multiplier:      Multiplier(s.streak),
		Misses:          s.misses,
		LastCorrect:     s.lastCorrect,
		LastPoints:      s.lastPoints,
		Hint:            s.hint,
		HintLoading:     s.hintRequested && s.hint == "",
		SolutionLoading: s.solutionRequested && s.solution == nil,
		Error:           s.errMsg,
	}
	if s.solution != nil {
		h := *s.solution
		st.Solution = &h
	}
	return st
}
