// Package level runs a single level of play: it fetches questions one ahead
// of the player, checks answers, escalates hints, and reports completion.
//
// A Session is driven like an Elm model. Methods that accept player input and
// Update return a Cmd; the caller runs the Cmd (possibly on another
// goroutine) and feeds the resulting Msg back into Update. All methods must
// be called from one goroutine.
package level

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/abhisek/mathquest/internal/chapter"
	"github.com/abhisek/mathquest/internal/fetch"
	"github.com/abhisek/mathquest/internal/oracle"
	"github.com/abhisek/mathquest/internal/progress"
)

// ErrNotPlaying is returned when an answer is submitted outside StatusPlaying.
var ErrNotPlaying = errors.New("session is not accepting answers")

// DefaultAdvanceDelay is how long a correct answer stays on screen.
const DefaultAdvanceDelay = 1500 * time.Millisecond

// generation numbers sessions so results from an earlier session are never
// applied to a later one.
var generation atomic.Uint64

// Config describes the level being played.
type Config struct {
	Chapter chapter.Chapter
	Level   int

	// Questions is the number of questions in the level. Zero means
	// chapter.QuestionsPerLevel.
	Questions int

	// AdvanceDelay is the pause after a correct answer before the next
	// question. Zero advances immediately.
	AdvanceDelay time.Duration

	Fetch fetch.Config
}

// Option configures a Session.
type Option func(*Session)

// WithListener registers an observer for session events.
func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = l }
}

// WithSleeper replaces the real-time sleeper used for backoff and the
// advance delay.
func WithSleeper(sleep fetch.Sleeper) Option {
	return func(s *Session) { s.sleep = sleep }
}

// Session is the state machine for one attempt at a level.
type Session struct {
	config   Config
	oracle   oracle.Oracle
	listener Listener
	sleep    fetch.Sleeper

	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64

	started bool
	closed  bool

	queue  *Queue
	status Status
	index  int
	score  int
	streak int
	errMsg string

	// Per-question state, cleared on advance.
	misses            int
	lastAnswer        float64
	lastCorrect       bool
	lastPoints        int
	hint              string
	solution          *oracle.Hint
	hintRequested     bool
	hintSent          bool
	solutionRequested bool
	solutionSent      bool

	// aidInFlight is set while a hint or solution fetch is outstanding.
	aidInFlight bool
}

// New creates a session for cfg. Call Start to fetch the first question.
func New(parent context.Context, cfg Config, o oracle.Oracle, opts ...Option) (*Session, error) {
	if cfg.Chapter.ID == "" {
		return nil, fmt.Errorf("%w: empty chapter", chapter.ErrUnknownChapter)
	}
	if !chapter.ValidLevel(cfg.Level) {
		return nil, fmt.Errorf("%w: %d", progress.ErrLevelOutOfRange, cfg.Level)
	}
	if cfg.Questions <= 0 {
		cfg.Questions = chapter.QuestionsPerLevel
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		config: cfg,
		oracle: o,
		sleep:  fetch.Sleep,
		ctx:    ctx,
		cancel: cancel,
		gen:    generation.Add(1),
		queue:  NewQueue(cfg.Questions),
		status: StatusLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start issues the fetch for the first question. It only has an effect on
// the first call.
func (s *Session) Start() Cmd {
	if s.started || s.closed {
		return nil
	}
	s.started = true
	s.queue.Claim(0)
	return s.fetchQuestion(0, false)
}

// Abandon ends the session. Results of outstanding fetches are discarded.
func (s *Session) Abandon() {
	s.closed = true
	s.cancel()
}

// Update applies the result of a previously returned Cmd.
func (s *Session) Update(msg Msg) Cmd {
	if s.closed {
		return nil
	}

	switch m := msg.(type) {
	case questionMsg:
		if s.stale(m.gen, "question") {
			return nil
		}
		return s.onQuestion(m)
	case hintMsg:
		if s.stale(m.gen, "hint") {
			return nil
		}
		return s.onHint(m)
	case solutionMsg:
		if s.stale(m.gen, "solution") {
			return nil
		}
		return s.onSolution(m)
	case advanceMsg:
		if s.stale(m.gen, "advance") {
			return nil
		}
		if m.slot != s.index || s.status != StatusAnswered || !s.lastCorrect {
			return nil
		}
		return s.advance()
	}
	return nil
}

// Submit checks the player's answer to the current question.
func (s *Session) Submit(input string) (Cmd, error) {
	if s.closed || s.status != StatusPlaying {
		return nil, ErrNotPlaying
	}
	v, err := ParseAnswer(input)
	if err != nil {
		return nil, err
	}

	q, _ := s.queue.Get(s.index)
	s.lastAnswer = v

	if Matches(v, q.Answer) {
		points := RetryPoints
		if s.misses == 0 {
			points = FirstTryPoints * Multiplier(s.streak)
			s.streak++
		}
		s.score += points
		s.lastCorrect = true
		s.lastPoints = points
		s.emit(AnswerChecked{Correct: true, Points: points})
		s.setStatus(StatusAnswered)
		return Batch(s.prefetch(), s.scheduleAdvance()), nil
	}

	s.streak = 0
	s.misses++
	s.lastCorrect = false
	s.lastPoints = 0
	s.emit(AnswerChecked{Correct: false})

	if s.misses == 1 {
		s.setStatus(StatusAnswered)
		return s.prefetch(), nil
	}

	s.setStatus(StatusRevealed)
	s.solutionRequested = true
	return Batch(s.prefetch(), s.issueAid()), nil
}

// TryAgain returns to StatusPlaying after a first miss. It reports whether
// the transition happened.
func (s *Session) TryAgain() bool {
	if s.closed || s.status != StatusAnswered || s.lastCorrect {
		return false
	}
	s.setStatus(StatusPlaying)
	return true
}

// RequestHint fetches a text hint for the current question after a first
// miss. Only the first call per question has an effect.
func (s *Session) RequestHint() Cmd {
	if s.closed || s.status != StatusAnswered || s.lastCorrect || s.hintRequested {
		return nil
	}
	s.hintRequested = true
	return s.issueAid()
}

// Continue moves on from a revealed solution, or skips the remaining delay
// after a correct answer.
func (s *Session) Continue() Cmd {
	if s.closed {
		return nil
	}
	if s.status == StatusRevealed || (s.status == StatusAnswered && s.lastCorrect) {
		return s.advance()
	}
	return nil
}

func (s *Session) stale(gen uint64, kind string) bool {
	if gen == s.gen {
		return false
	}
	slog.Debug("discarding stale result", "kind", kind, "gen", gen, "current", s.gen)
	return true
}

func (s *Session) onQuestion(m questionMsg) Cmd {
	if s.status.Terminal() {
		return nil
	}

	if m.err != nil {
		s.queue.Fail(m.slot)
		if s.status != StatusLoading || m.slot != s.index {
			slog.Debug("prefetch failed", "chapter", s.config.Chapter.ID, "slot", m.slot, "error", m.err)
			return nil
		}
		// The player advanced onto a slot whose prefetch was still running.
		if m.prefetch && s.queue.Claim(m.slot) {
			slog.Info("prefetch failed while waiting, fetching again",
				"chapter", s.config.Chapter.ID, "slot", m.slot, "error", m.err)
			return s.fetchQuestion(m.slot, false)
		}
		slog.Warn("question fetch failed",
			"chapter", s.config.Chapter.ID, "level", s.config.Level, "slot", m.slot, "error", m.err)
		s.errMsg = oracle.QuestionErrorText
		s.setStatus(StatusError)
		return nil
	}

	if !s.queue.Fill(m.slot, m.question) {
		slog.Debug("discarding out of order question", "slot", m.slot, "len", s.queue.Len())
		return nil
	}
	if s.status == StatusLoading && m.slot == s.index {
		s.setStatus(StatusPlaying)
		return s.prefetch()
	}
	return nil
}

func (s *Session) onHint(m hintMsg) Cmd {
	s.aidInFlight = false
	if m.slot == s.index && !s.status.Terminal() {
		s.hint = m.text
	}
	return s.issueAid()
}

func (s *Session) onSolution(m solutionMsg) Cmd {
	s.aidInFlight = false
	if m.slot == s.index && !s.status.Terminal() {
		h := m.hint
		s.solution = &h
	}
	return s.issueAid()
}

// advance moves to the next question or completes the level.
func (s *Session) advance() Cmd {
	if s.index >= s.queue.Size()-1 {
		s.setStatus(StatusCompleted)
		s.cancel()
		c := progress.Completion{
			ChapterID: s.config.Chapter.ID,
			Level:     s.config.Level,
			Score:     s.score,
		}
		return func() Msg { return CompletedMsg{Completion: c} }
	}

	s.index++
	s.resetQuestion()

	if _, ok := s.queue.Get(s.index); ok {
		s.setStatus(StatusPlaying)
		return s.prefetch()
	}

	s.setStatus(StatusLoading)
	if s.queue.Pending(s.index) {
		return nil
	}
	if !s.queue.Claim(s.index) {
		return nil
	}
	return s.fetchQuestion(s.index, false)
}

func (s *Session) resetQuestion() {
	s.misses = 0
	s.lastAnswer = 0
	s.lastCorrect = false
	s.lastPoints = 0
	s.hint = ""
	s.solution = nil
	s.hintRequested = false
	s.hintSent = false
	s.solutionRequested = false
	s.solutionSent = false
}

// prefetch starts the background fetch of the question after the current
// one if the queue needs it.
func (s *Session) prefetch() Cmd {
	slot, ok := s.queue.Ahead(s.index)
	if !ok {
		return nil
	}
	return s.fetchQuestion(slot, true)
}

// issueAid starts the pending solution or hint fetch unless one is already
// outstanding. A solution supersedes an unsent hint.
func (s *Session) issueAid() Cmd {
	if s.aidInFlight {
		return nil
	}
	q, ok := s.queue.Get(s.index)
	if !ok {
		return nil
	}
	a := oracle.Attempt{Question: q.Text, UserAnswer: s.lastAnswer, Correct: q.Answer}

	switch {
	case s.solutionRequested && !s.solutionSent:
		s.solutionSent = true
		s.aidInFlight = true
		return s.fetchSolution(a)
	case s.hintRequested && !s.hintSent && !s.solutionRequested:
		s.hintSent = true
		s.aidInFlight = true
		return s.fetchHint(a)
	}
	return nil
}

// newFetcher builds the retrying fetcher for one request. slot is the
// question slot being fetched, or noSlot for hints and solutions.
func (s *Session) newFetcher(slot int) *fetch.Fetcher {
	return fetch.New(s.config.Fetch, oracle.IsRateLimited,
		fetch.WithSleeper(s.sleep),
		fetch.WithNotify(func(n fetch.Notice) {
			s.emit(RetryScheduled{Slot: slot, Retry: n.Retry, Wait: n.Wait, Message: n.Message()})
		}),
	)
}

func (s *Session) fetchQuestion(slot int, prefetch bool) Cmd {
	req := oracle.QuestionRequest{
		Topic:   s.config.Chapter.Topic,
		Theme:   s.config.Chapter.Theme,
		Level:   s.config.Level,
		Exclude: s.queue.Texts(),
	}
	f := s.newFetcher(slot)
	ctx, o, gen := s.ctx, s.oracle, s.gen

	return func() Msg {
		q, err := fetch.Do(ctx, f, func(ctx context.Context) (oracle.Question, error) {
			return o.Question(ctx, req)
		})
		return questionMsg{gen: gen, slot: slot, prefetch: prefetch, question: q, err: err}
	}
}

func (s *Session) fetchHint(a oracle.Attempt) Cmd {
	f := s.newFetcher(noSlot)
	ctx, o, gen, slot := s.ctx, s.oracle, s.gen, s.index

	return func() Msg {
		text, err := fetch.Do(ctx, f, func(ctx context.Context) (string, error) {
			return o.TextHint(ctx, a)
		})
		switch {
		case oracle.IsRateLimited(err):
			text = oracle.HintRateLimitedText
		case err != nil, strings.TrimSpace(text) == "":
			text = oracle.HintFallbackText
		}
		return hintMsg{gen: gen, slot: slot, text: text}
	}
}

func (s *Session) fetchSolution(a oracle.Attempt) Cmd {
	f := s.newFetcher(noSlot)
	ctx, o, gen, slot := s.ctx, s.oracle, s.gen, s.index

	return func() Msg {
		h, err := fetch.Do(ctx, f, func(ctx context.Context) (oracle.Hint, error) {
			return o.Solution(ctx, a)
		})
		if err != nil {
			h = oracle.SolutionFallback(a.Correct)
		}
		return solutionMsg{gen: gen, slot: slot, hint: h}
	}
}

func (s *Session) scheduleAdvance() Cmd {
	gen, slot := s.gen, s.index
	d := s.config.AdvanceDelay
	if d <= 0 {
		return func() Msg { return advanceMsg{gen: gen, slot: slot} }
	}
	ctx, sleep := s.ctx, s.sleep
	return func() Msg {
		_ = sleep(ctx, d)
		return advanceMsg{gen: gen, slot: slot}
	}
}

func (s *Session) setStatus(to Status) {
	if s.status == to {
		return
	}
	from := s.status
	s.status = to
	s.emit(StatusChanged{From: from, To: to})
}

func (s *Session) emit(e Event) {
	if s.listener != nil {
		s.listener(e)
	}
}
