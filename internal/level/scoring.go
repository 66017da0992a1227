package level

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// AnswerTolerance is the exclusive bound on |submitted - correct|.
	AnswerTolerance = 0.01

	// FirstTryPoints is multiplied by the streak multiplier for a correct
	// answer with no prior misses on the question.
	FirstTryPoints = 10

	// RetryPoints is awarded for a correct answer after a miss.
	RetryPoints = 5
)

// ErrInvalidAnswer is returned for blank or non-numeric input.
var ErrInvalidAnswer = errors.New("answer is not a number")

// Multiplier returns the streak bonus for the given run of first-try
// correct answers.
func Multiplier(consecutive int) int {
	return 1 + consecutive/2
}

// Matches reports whether submitted is within tolerance of correct.
func Matches(submitted, correct float64) bool {
	return math.Abs(submitted-correct) < AnswerTolerance
}

// ParseAnswer reads a player's answer. Decimals and simple fractions such
// as "3/4" are accepted.
func ParseAnswer(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrInvalidAnswer
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := parseFinite(num)
		if err != nil {
			return 0, err
		}
		d, err := parseFinite(den)
		if err != nil || d == 0 {
			return 0, ErrInvalidAnswer
		}
		return n / d, nil
	}
	return parseFinite(s)
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAnswer
	}
	return v, nil
}
