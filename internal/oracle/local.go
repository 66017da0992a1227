package oracle

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
)

// Local is an offline Oracle that builds arithmetic word problems from
// templates. Output is deterministic for a given seed.
type Local struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocal creates a Local oracle seeded with seed.
func NewLocal(seed uint64) *Local {
	return &Local{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

var (
	localNames = []string{"Pip", "Luna", "Milo", "Zara", "Tobi", "Nia", "Oscar", "Ivy"}
	localItems = []string{"acorns", "shiny stones", "berries", "stars", "shells", "coins", "feathers", "gems"}
)

// maxLocalTries bounds attempts to avoid an already-asked text.
const maxLocalTries = 32

func (l *Local) Question(ctx context.Context, req QuestionRequest) (Question, error) {
	gen, ok := localGenerators[topicKey(req.Topic)]
	if !ok {
		return Question{}, fmt.Errorf("%w: no offline problems for topic %q", ErrInvalidResponse, req.Topic)
	}
	level := max(req.Level, 1)

	l.mu.Lock()
	defer l.mu.Unlock()

	var q Question
	for range maxLocalTries {
		if err := ctx.Err(); err != nil {
			return Question{}, err
		}
		q = gen(l.rng, level)
		q.Text = setting(req.Theme) + q.Text
		if !slices.Contains(req.Exclude, q.Text) {
			break
		}
	}
	return q, nil
}

func (l *Local) TextHint(_ context.Context, a Attempt) (string, error) {
	direction := "a little too small"
	if a.UserAnswer > a.Correct {
		direction = "a little too big"
	}
	return fmt.Sprintf("Good try! Your answer %s is %s. Read the problem again, find the numbers it gives you, and think about which operation joins them.",
		FormatNumber(a.UserAnswer), direction), nil
}

func (l *Local) Solution(_ context.Context, a Attempt) (Hint, error) {
	answer := FormatNumber(a.Correct)
	return Hint{
		Text: fmt.Sprintf("Great effort! You said %s. Let's work it out step by step: pick out the numbers in the story, decide what the question asks, then do one step at a time. The answer is %s.",
			FormatNumber(a.UserAnswer), answer),
		Visual: fmt.Sprintf(`<svg viewBox="0 0 300 150" xmlns="http://www.w3.org/2000/svg"><rect x="10" y="10" width="280" height="130" rx="20" fill="#FDE68A"/><text x="150" y="90" font-family="Arial" font-size="40" fill="#1D4ED8" text-anchor="middle">= %s</text></svg>`, answer),
	}, nil
}

func topicKey(topic string) string {
	t := strings.ToLower(topic)
	if i := strings.IndexAny(t, " ("); i >= 0 {
		t = t[:i]
	}
	return t
}

func setting(theme string) string {
	if theme == "" {
		return ""
	}
	return "In " + theme + ", "
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

// between returns a value in [lo, hi].
func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

var localGenerators = map[string]func(r *rand.Rand, level int) Question{
	"addition": func(r *rand.Rand, level int) Question {
		hi := 5 + level*10
		a, b := between(r, 1, hi), between(r, 1, hi)
		name, item := pick(r, localNames), pick(r, localItems)
		return Question{
			Text:   fmt.Sprintf("%s collects %d %s in the morning and %d more in the afternoon. How many %s does %s have now?", name, a, item, b, item, name),
			Answer: float64(a + b),
		}
	},
	"subtraction": func(r *rand.Rand, level int) Question {
		hi := 5 + level*10
		a := between(r, 2, hi)
		b := between(r, 1, a)
		name, item := pick(r, localNames), pick(r, localItems)
		return Question{
			Text:   fmt.Sprintf("%s has %d %s and gives away %d. How many %s are left?", name, a, item, b, item),
			Answer: float64(a - b),
		}
	},
	"multiplication": func(r *rand.Rand, level int) Question {
		a := between(r, 2, 2+level/2)
		b := between(r, 2, 5+level)
		item := pick(r, localItems)
		return Question{
			Text:   fmt.Sprintf("There are %d baskets with %d %s in each basket. How many %s are there altogether?", a, b, item, item),
			Answer: float64(a * b),
		}
	},
	"division": func(r *rand.Rand, level int) Question {
		d := between(r, 2, 2+level/3)
		q := between(r, 1, 5+level)
		item := pick(r, localItems)
		return Question{
			Text:   fmt.Sprintf("%d %s are shared equally among %d friends. How many %s does each friend get?", d*q, item, d, item),
			Answer: float64(q),
		}
	},
	"fractions": func(r *rand.Rand, level int) Question {
		den := between(r, 2, 2+level/5)
		num := between(r, 1, den-1)
		n := den * between(r, 1, 3+level/3)
		item := pick(r, localItems)
		return Question{
			Text:   fmt.Sprintf("There are %d %s and %d/%d of them are blue. How many blue %s are there?", n, item, num, den, item),
			Answer: float64(n * num / den),
		}
	},
	"geometry": func(r *rand.Rand, level int) Question {
		w, h := between(r, 2, 3+level), between(r, 2, 3+level)
		if r.IntN(2) == 0 {
			return Question{
				Text:   fmt.Sprintf("A rectangular landing pad is %d meters long and %d meters wide. What is its area in square meters?", w, h),
				Answer: float64(w * h),
			}
		}
		return Question{
			Text:   fmt.Sprintf("A rectangular fence is %d meters long and %d meters wide. What is its perimeter in meters?", w, h),
			Answer: float64(2 * (w + h)),
		}
	},
}
