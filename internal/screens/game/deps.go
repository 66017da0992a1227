package game

import (
	"context"
	"time"

	"github.com/abhisek/mathquest/internal/fetch"
	"github.com/abhisek/mathquest/internal/oracle"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/store"
)

// Deps are the collaborators shared by the chapter, level and game screens.
type Deps struct {
	// Context is the parent of every level session. It carries the play
	// session id used to tag LLM events.
	Context context.Context

	Oracle    oracle.Oracle
	Tracker   *progress.Tracker
	Results   store.ResultRepo // optional
	Player    string
	SessionID string

	AdvanceDelay time.Duration
	Fetch        fetch.Config
	Questions    int // 0 uses chapter.QuestionsPerLevel
	Offline      bool
}

func (d Deps) context() context.Context {
	if d.Context == nil {
		return context.Background()
	}
	return d.Context
}
