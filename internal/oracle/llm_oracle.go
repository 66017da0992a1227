package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/mathquest/internal/llm"
)

// LLMConfig controls request sizes for the LLM-backed oracle.
type LLMConfig struct {
	QuestionMaxTokens int
	HintMaxTokens     int
	SolutionMaxTokens int
	Temperature       float64
}

// DefaultLLMConfig returns the request settings used by the game.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		QuestionMaxTokens: 512,
		HintMaxTokens:     256,
		SolutionMaxTokens: 2048,
		Temperature:       0.9,
	}
}

// LLM implements Oracle on top of an llm.Provider.
type LLM struct {
	provider llm.Provider
	config   LLMConfig
}

// NewLLM creates an LLM oracle.
func NewLLM(provider llm.Provider, cfg LLMConfig) *LLM {
	return &LLM{provider: provider, config: cfg}
}

func (o *LLM) Question(ctx context.Context, req QuestionRequest) (Question, error) {
	ctx = llm.WithPurpose(ctx, "question")

	resp, err := o.provider.Generate(ctx,
		o.request(questionSystemPrompt, buildQuestionMessage(req), QuestionSchema, o.config.QuestionMaxTokens))
	if err != nil {
		return Question{}, mapProviderError("generate question", err)
	}

	var q Question
	if err := json.Unmarshal(resp.Content, &q); err != nil {
		return Question{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return Question{}, fmt.Errorf("%w: empty question text", ErrInvalidResponse)
	}
	if math.IsNaN(q.Answer) || math.IsInf(q.Answer, 0) {
		return Question{}, fmt.Errorf("%w: answer is not a finite number", ErrInvalidResponse)
	}
	return q, nil
}

func (o *LLM) TextHint(ctx context.Context, a Attempt) (string, error) {
	ctx = llm.WithPurpose(ctx, "hint")

	resp, err := o.provider.Generate(ctx,
		o.request(hintSystemPrompt, buildAttemptMessage(a), nil, o.config.HintMaxTokens))
	if err != nil {
		if llm.IsRateLimit(err) {
			return "", mapProviderError("generate hint", err)
		}
		return HintFallbackText, nil
	}

	if text := resp.Text(); text != "" {
		return text, nil
	}
	return HintFallbackText, nil
}

func (o *LLM) Solution(ctx context.Context, a Attempt) (Hint, error) {
	ctx = llm.WithPurpose(ctx, "solution")

	resp, err := o.provider.Generate(ctx,
		o.request(solutionSystemPrompt, buildAttemptMessage(a), SolutionSchema, o.config.SolutionMaxTokens))
	if err != nil {
		if llm.IsRateLimit(err) {
			return Hint{}, mapProviderError("generate solution", err)
		}
		return SolutionFallback(a.Correct), nil
	}

	var h Hint
	if err := json.Unmarshal(resp.Content, &h); err != nil || strings.TrimSpace(h.Text) == "" {
		return SolutionFallback(a.Correct), nil
	}
	return h, nil
}

func (o *LLM) request(system, user string, schema *llm.Schema, maxTokens int) llm.Request {
	req := llm.Prompt(system, user)
	req.Schema = schema
	req.MaxTokens = maxTokens
	req.Temperature = o.config.Temperature
	return req
}

// mapProviderError attaches the oracle sentinel matching a provider error.
func mapProviderError(op string, err error) error {
	switch {
	case llm.IsRateLimit(err):
		return fmt.Errorf("%s: %w: %w", op, ErrRateLimited, err)
	case llm.IsMalformed(err):
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidResponse, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
