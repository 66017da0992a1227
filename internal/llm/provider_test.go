package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"questionText":"first","answer":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockJSON(map[string]any{"questionText": "second", "answer": 2}),
	)

	resp, err := mock.Generate(context.Background(), Prompt("sys", "one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 10 || resp.StopReason != "end" || resp.Model != "mock" {
		t.Fatalf("unexpected response %+v", resp)
	}

	resp, err = mock.Generate(context.Background(), Prompt("sys", "two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var q struct {
		QuestionText string `json:"questionText"`
	}
	if err := json.Unmarshal(resp.Content, &q); err != nil || q.QuestionText != "second" {
		t.Fatalf("second response = %s (%v)", resp.Content, err)
	}
	if mock.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", mock.Pending())
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %v", err)
	}

	mock.AddResponse(MockResponse{Content: json.RawMessage(`"refilled"`)})
	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil || resp.Text() != "refilled" {
		t.Fatalf("after AddResponse: %v, %v", resp, err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"Count the shields again."`)})
	mock.Generate(context.Background(), Prompt("be kind", "hint please"))

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	call := mock.Calls[0]
	if call.System != "be kind" || call.Messages[0].Role != RoleUser || call.Messages[0].Content != "hint please" {
		t.Fatalf("unexpected recorded request %+v", call)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"questionText":"no answer"}`)})

	req := Prompt("sys", "question")
	req.Schema = wordProblemSchema()
	_, err := mock.Generate(context.Background(), req)
	if !IsMalformed(err) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"  Try adding the tens first. "`, "Try adding the tens first."},
		{`plain text reply`, "plain text reply"},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		r := &Response{Content: json.RawMessage(tt.raw)}
		if got := r.Text(); got != tt.want {
			t.Errorf("Text(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestErrorClassifiers(t *testing.T) {
	rl := fmt.Errorf("question: %w", &ErrRateLimit{Err: errors.New("429")})
	if !IsRateLimit(rl) || IsMalformed(rl) {
		t.Error("wrapped rate limit misclassified")
	}
	if !IsMalformed(&ErrMaxTokensExceeded{}) || !IsMalformed(&ErrInvalidResponse{Err: errors.New("x")}) {
		t.Error("truncation and schema errors should be malformed")
	}
	if IsRateLimit(&ErrProviderUnavailable{}) || IsMalformed(&ErrProviderUnavailable{}) {
		t.Error("unavailable is neither rate limit nor malformed")
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	ctx = WithPurpose(ctx, "solution")
	if p := PurposeFrom(ctx); p != "solution" {
		t.Fatalf("expected 'solution', got %q", p)
	}
}
