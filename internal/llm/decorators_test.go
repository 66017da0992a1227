package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/mathquest/internal/store"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"questionText":"q","answer":1}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 7},
	})
	p := WithLogging(mock, "gemini", repo)

	ctx := WithSessionID(WithPurpose(context.Background(), "question"), "run-1")
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Provider != "gemini" || ev.Model != "mock" || ev.Purpose != "question" || ev.SessionID != "run-1" {
		t.Errorf("unexpected event identity: %+v", ev)
	}
	if !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 7 {
		t.Errorf("unexpected event metrics: %+v", ev)
	}
	if ev.ResponseBody != `{"questionText":"q","answer":1}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
}

func TestLogging_RecordsFailureAndIgnoresRepoErrors(t *testing.T) {
	repo := &recordingRepo{err: errors.New("db locked")}
	p := WithLogging(NewMockProvider(MockResponse{Err: &ErrRateLimit{}}), "openai", repo)

	_, err := p.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("unexpected events: %+v", repo.events)
	}
	if repo.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", repo.events[0].Purpose)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	mock := NewMockProvider()
	if WithRateLimit(mock, 0) != Provider(mock) {
		t.Fatal("zero rate should return the provider unchanged")
	}
}

func TestRateLimit_WaitHonorsContext(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRateLimit(mock, 1)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first request should pass the burst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("second request should wait past the deadline")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call to reach the provider, got %d", mock.CallCount())
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestTimeout_MapsToUnavailable(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestTimeout_ParentCancelPassesThrough(t *testing.T) {
	p := WithTimeout(slowProvider{}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewProvider_ValidatesConfig(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "gemini"}, &recordingRepo{})
	if err == nil {
		t.Fatal("expected missing key error")
	}
	_, err = NewProvider(context.Background(), Config{Provider: "offline"}, &recordingRepo{})
	if err == nil {
		t.Fatal("offline has no LLM backend")
	}
}

func TestNewProvider_OpenAIChain(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{
		Provider:          "openai",
		OpenAI:            OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"},
		RequestsPerMinute: 30,
		Timeout:           time.Second,
	}, &recordingRepo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RateLimitProvider); !ok {
		t.Fatalf("outermost decorator = %T, want *RateLimitProvider", p)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Errorf("model = %q", p.ModelID())
	}
}
