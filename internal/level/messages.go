package level

import (
	"time"

	"github.com/abhisek/mathquest/internal/oracle"
	"github.com/abhisek/mathquest/internal/progress"
)

// Msg is a result delivered back to Session.Update.
type Msg interface{ levelMsg() }

// Cmd is deferred work. Running it may block; the returned Msg must be
// passed to Update on the goroutine that owns the session.
type Cmd func() Msg

// BatchMsg carries several commands that may run concurrently.
type BatchMsg []Cmd

func (BatchMsg) levelMsg() {}

// Batch combines commands, dropping nils.
func Batch(cmds ...Cmd) Cmd {
	var valid []Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return func() Msg { return BatchMsg(valid) }
}

// CompletedMsg is produced once, after the last question of the level.
type CompletedMsg struct {
	Completion progress.Completion
}

func (CompletedMsg) levelMsg() {}

type questionMsg struct {
	gen      uint64
	slot     int
	prefetch bool
	question oracle.Question
	err      error
}

func (questionMsg) levelMsg() {}

type hintMsg struct {
	gen  uint64
	slot int
	text string
}

func (hintMsg) levelMsg() {}

type solutionMsg struct {
	gen  uint64
	slot int
	hint oracle.Hint
}

func (solutionMsg) levelMsg() {}

type advanceMsg struct {
	gen  uint64
	slot int
}

func (advanceMsg) levelMsg() {}

// Event is published to the session's Listener. Events are advisory.
type Event interface{ levelEvent() }

// Listener observes a session. It may be called from any goroutine.
type Listener func(Event)

// StatusChanged is published on every status transition.
type StatusChanged struct {
	From, To Status
}

// noSlot marks retries of hint and solution fetches.
const noSlot = -1

// RetryScheduled is published while a fetch waits out a rate limit. The
// player is waiting on it when the session is loading Slot.
type RetryScheduled struct {
	Slot    int // question slot, or -1 for hints and solutions
	Retry   int
	Wait    time.Duration
	Message string
}

// AnswerChecked is published after every accepted submission.
type AnswerChecked struct {
	Correct bool
	Points  int
}

func (StatusChanged) levelEvent()  {}
func (RetryScheduled) levelEvent() {}
func (AnswerChecked) levelEvent()  {}
