package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/chapter"
	"github.com/abhisek/mathquest/internal/level"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

// eventBuffer bounds the queue of observer events between the session's
// fetch goroutines and the UI loop. Events past the bound are dropped.
const eventBuffer = 32

var screenGen atomic.Uint64

// GameScreen plays one level of one chapter.
type GameScreen struct {
	deps    Deps
	chapter chapter.Chapter
	level   int

	session *level.Session
	gen     uint64
	events  chan level.Event
	closed  chan struct{}
	once    sync.Once
	input   components.TextInput

	notice     string // latest question retry notice
	noticeSlot int
	flash      string // input validation message
	errMsg     string // session could not be created
	done       *progress.Completion
	newBest    bool
	saved      bool
	saveErr    string
}

var _ screen.Screen = (*GameScreen)(nil)
var _ screen.KeyHintProvider = (*GameScreen)(nil)
var _ screen.Closer = (*GameScreen)(nil)

// New creates a game screen for level lvl of ch.
func New(deps Deps, ch chapter.Chapter, lvl int) *GameScreen {
	g := &GameScreen{
		deps:    deps,
		chapter: ch,
		level:   lvl,
		gen:     screenGen.Add(1),
		events:  make(chan level.Event, eventBuffer),
		closed:  make(chan struct{}),
		input:   components.NewTextInput("Type your answer", components.AnswerChars, 12),
	}

	s, err := level.New(deps.context(), level.Config{
		Chapter:      ch,
		Level:        lvl,
		Questions:    deps.Questions,
		AdvanceDelay: deps.AdvanceDelay,
		Fetch:        deps.Fetch,
	}, deps.Oracle, level.WithListener(g.listen))
	if err != nil {
		g.errMsg = err.Error()
		return g
	}
	g.session = s
	return g
}

func (g *GameScreen) Init() tea.Cmd {
	if g.session == nil {
		return nil
	}
	return tea.Batch(
		g.run(g.session.Start()),
		g.waitForEvent(),
		g.input.Init(),
	)
}

func (g *GameScreen) Title() string {
	return g.chapter.Title
}

// Close abandons the session; outstanding fetches are cancelled.
func (g *GameScreen) Close() {
	g.once.Do(func() {
		close(g.closed)
		if g.session != nil {
			g.session.Abandon()
		}
	})
}

// listen is the session observer. It may run on fetch goroutines, so it
// only hands the event to the UI loop.
func (g *GameScreen) listen(e level.Event) {
	select {
	case g.events <- e:
	default:
		slog.Debug("dropping level event", "event", e)
	}
}

func (g *GameScreen) waitForEvent() tea.Cmd {
	ch, closed, gen := g.events, g.closed, g.gen
	return func() tea.Msg {
		select {
		case <-closed:
			return nil
		default:
		}
		select {
		case e := <-ch:
			return levelEventMsg{gen: gen, event: e}
		case <-closed:
			return nil
		}
	}
}

// run adapts a level.Cmd to a tea.Cmd.
func (g *GameScreen) run(c level.Cmd) tea.Cmd {
	if c == nil {
		return nil
	}
	gen := g.gen
	return func() tea.Msg {
		return levelResultMsg{gen: gen, msg: c()}
	}
}

func (g *GameScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case levelResultMsg:
		if msg.gen != g.gen {
			return g, nil
		}
		return g, g.handleResult(msg.msg)

	case levelEventMsg:
		if msg.gen != g.gen {
			return g, nil
		}
		g.handleEvent(msg.event)
		return g, g.waitForEvent()

	case savedMsg:
		g.saved = true
		g.newBest = msg.newBest
		if msg.err != nil {
			g.saveErr = msg.err.Error()
		}
		return g, nil

	case tea.KeyPressMsg:
		return g.handleKey(msg)
	}

	return g, nil
}

func (g *GameScreen) handleResult(m level.Msg) tea.Cmd {
	switch m := m.(type) {
	case level.BatchMsg:
		cmds := make([]tea.Cmd, 0, len(m))
		for _, c := range m {
			cmds = append(cmds, g.run(c))
		}
		return tea.Batch(cmds...)
	case level.CompletedMsg:
		c := m.Completion
		g.done = &c
		return g.save(c)
	}
	return g.run(g.session.Update(m))
}

func (g *GameScreen) handleEvent(e level.Event) {
	switch e := e.(type) {
	case level.RetryScheduled:
		if e.Slot >= 0 {
			g.notice, g.noticeSlot = e.Message, e.Slot
		}
	case level.StatusChanged:
		if e.To == level.StatusPlaying {
			g.notice = ""
			g.input.Reset()
		}
	case level.AnswerChecked:
		g.input.Mark(e.Correct)
	}
}

// save records the completion in the tracker and the result history.
func (g *GameScreen) save(c progress.Completion) tea.Cmd {
	deps := g.deps
	return func() tea.Msg {
		ctx := context.WithoutCancel(deps.context())
		if deps.Tracker == nil {
			return savedMsg{err: errors.New("progress is not being saved")}
		}

		before := deps.Tracker.Progress().Chapter(c.ChapterID)
		p, err := deps.Tracker.Record(ctx, c)
		if err != nil {
			return savedMsg{err: err}
		}

		if deps.Results != nil {
			if err := deps.Results.AppendLevelResult(ctx, store.LevelResult{
				SessionID: deps.SessionID,
				Player:    deps.Player,
				ChapterID: c.ChapterID,
				Level:     c.Level,
				Score:     c.Score,
				Timestamp: time.Now(),
			}); err != nil {
				slog.Warn("failed to record level result", "error", err)
			}
		}

		return savedMsg{
			progress: p,
			newBest:  !before.Completed(c.Level) || c.Score > before.HighScore(c.Level),
		}
	}
}

func (g *GameScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if g.session == nil {
		return g, popScreen
	}

	if g.done != nil {
		switch key {
		case "enter", "esc":
			return g, popScreen
		case "n":
			if g.saved && g.level < chapter.LevelsPerChapter {
				next := New(g.deps, g.chapter, g.level+1)
				return g, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
		}
		return g, nil
	}

	st := g.session.State()
	switch st.Status {
	case level.StatusPlaying:
		if key == "enter" {
			return g, g.submit()
		}
		g.flash = ""
		var cmd tea.Cmd
		g.input, cmd = g.input.Update(msg)
		return g, cmd

	case level.StatusAnswered:
		if st.LastCorrect {
			if key == "enter" || key == "space" {
				return g, g.run(g.session.Continue())
			}
			return g, nil
		}
		switch key {
		case "t", "enter":
			g.session.TryAgain()
		case "h":
			return g, g.run(g.session.RequestHint())
		}

	case level.StatusRevealed:
		if key == "enter" || key == "c" {
			return g, g.run(g.session.Continue())
		}

	case level.StatusError:
		if key == "enter" {
			return g, popScreen
		}
	}
	return g, nil
}

func (g *GameScreen) submit() tea.Cmd {
	cmd, err := g.session.Submit(g.input.Value())
	switch {
	case errors.Is(err, level.ErrInvalidAnswer):
		g.flash = "Type a number, like 12, 2.5 or 3/4."
		return nil
	case err != nil:
		return nil
	}
	g.flash = ""
	return g.run(cmd)
}

func (g *GameScreen) KeyHints() []layout.KeyHint {
	if g.session == nil {
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
	}
	if g.done != nil {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Back to levels"}}
		if g.level < chapter.LevelsPerChapter {
			hints = append(hints, layout.KeyHint{Key: "N", Description: "Next level"})
		}
		return hints
	}

	st := g.session.State()
	switch st.Status {
	case level.StatusPlaying:
		return []layout.KeyHint{{Key: "Enter", Description: "Check answer"}, {Key: "Esc", Description: "Leave level"}}
	case level.StatusAnswered:
		if st.LastCorrect {
			return []layout.KeyHint{{Key: "Enter", Description: "Next question"}}
		}
		hints := []layout.KeyHint{{Key: "T", Description: "Try again"}}
		if st.CanRequestHint() {
			hints = append(hints, layout.KeyHint{Key: "H", Description: "Show hint"})
		}
		return hints
	case level.StatusRevealed:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	case level.StatusError:
		return []layout.KeyHint{{Key: "Enter", Description: "Back to levels"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Leave level"}}
}

func popScreen() tea.Msg { return router.PopScreenMsg{} }
