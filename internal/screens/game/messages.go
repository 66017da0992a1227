package game

import (
	"github.com/abhisek/mathquest/internal/level"
	"github.com/abhisek/mathquest/internal/progress"
)

// levelResultMsg carries the result of a level.Cmd back into the screen.
type levelResultMsg struct {
	gen uint64
	msg level.Msg
}

// levelEventMsg carries an observer event from the session.
type levelEventMsg struct {
	gen   uint64
	event level.Event
}

// savedMsg reports the outcome of persisting a completed level.
type savedMsg struct {
	progress progress.PlayerProgress
	newBest  bool
	err      error
}
