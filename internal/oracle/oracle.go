// Package oracle generates word problems, hints and worked solutions.
// The game core depends only on the Oracle interface.
package oracle

import (
	"context"
	"errors"
	"strconv"
)

var (
	// ErrRateLimited is returned when the backing service asked the caller
	// to slow down. It is the only error the game retries.
	ErrRateLimited = errors.New("oracle rate limited")

	// ErrInvalidResponse is returned when the backing service produced
	// malformed or missing content.
	ErrInvalidResponse = errors.New("oracle returned an invalid response")
)

// IsRateLimited reports whether err is, or wraps, ErrRateLimited.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// Question is a single word problem and its numeric answer.
type Question struct {
	Text   string  `json:"questionText"`
	Answer float64 `json:"answer"`
}

// Hint is guidance for a question. Visual is SVG markup and may be empty.
type Hint struct {
	Text   string `json:"textHint"`
	Visual string `json:"visualSolution"`
}

// QuestionRequest describes the problem wanted.
type QuestionRequest struct {
	Topic string
	Theme string
	Level int

	// Exclude lists question texts already asked in this level, oldest first.
	Exclude []string
}

// Attempt is a wrong answer the player gave for a question.
type Attempt struct {
	Question   string
	UserAnswer float64
	Correct    float64
}

// Oracle is the question and hint generator.
type Oracle interface {
	// Question generates a new problem. Fails with ErrRateLimited or
	// ErrInvalidResponse.
	Question(ctx context.Context, req QuestionRequest) (Question, error)

	// TextHint returns a short hint that does not reveal the answer. Fails
	// only with ErrRateLimited; other failures yield a fallback text.
	TextHint(ctx context.Context, a Attempt) (string, error)

	// Solution returns a worked explanation and visual. Fails only with
	// ErrRateLimited; other failures yield SolutionFallback.
	Solution(ctx context.Context, a Attempt) (Hint, error)
}

// FormatNumber renders n without trailing zeros.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
