package oracle

import (
	"context"
	"fmt"
	"sync"
)

// MockQuestion is a scripted Question result.
type MockQuestion struct {
	Question Question
	Err      error
}

// MockHint is a scripted TextHint result.
type MockHint struct {
	Text string
	Err  error
}

// MockSolution is a scripted Solution result.
type MockSolution struct {
	Hint Hint
	Err  error
}

// Mock is a deterministic Oracle for tests. Each method pops its scripted
// results in FIFO order and records the request.
type Mock struct {
	mu        sync.Mutex
	questions []MockQuestion
	hints     []MockHint
	solutions []MockSolution

	QuestionCalls []QuestionRequest
	HintCalls     []Attempt
	SolutionCalls []Attempt
}

// NewMock creates a Mock that will return questions in order.
func NewMock(questions ...MockQuestion) *Mock {
	return &Mock{questions: questions}
}

// AddQuestion appends a scripted question result.
func (m *Mock) AddQuestion(q MockQuestion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, q)
}

// AddHint appends a scripted hint result.
func (m *Mock) AddHint(h MockHint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hints = append(m.hints, h)
}

// AddSolution appends a scripted solution result.
func (m *Mock) AddSolution(s MockSolution) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solutions = append(m.solutions, s)
}

// Question returns the next scripted question, or ErrInvalidResponse when
// the script is empty.
func (m *Mock) Question(_ context.Context, req QuestionRequest) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QuestionCalls = append(m.QuestionCalls, req)
	if len(m.questions) == 0 {
		return Question{}, fmt.Errorf("%w: mock has no more questions", ErrInvalidResponse)
	}
	next := m.questions[0]
	m.questions = m.questions[1:]
	return next.Question, next.Err
}

// TextHint returns the next scripted hint, or HintFallbackText.
func (m *Mock) TextHint(_ context.Context, a Attempt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HintCalls = append(m.HintCalls, a)
	if len(m.hints) == 0 {
		return HintFallbackText, nil
	}
	next := m.hints[0]
	m.hints = m.hints[1:]
	return next.Text, next.Err
}

// Solution returns the next scripted solution, or SolutionFallback.
func (m *Mock) Solution(_ context.Context, a Attempt) (Hint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SolutionCalls = append(m.SolutionCalls, a)
	if len(m.solutions) == 0 {
		return SolutionFallback(a.Correct), nil
	}
	next := m.solutions[0]
	m.solutions = m.solutions[1:]
	return next.Hint, next.Err
}

// Counts returns the number of question, hint and solution calls made.
func (m *Mock) Counts() (questions, hints, solutions int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.QuestionCalls), len(m.HintCalls), len(m.SolutionCalls)
}
