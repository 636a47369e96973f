package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/windoze95/recipefinder-api/internal/config"
)

type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	lastReq  CompletionRequest
	complete func(ctx context.Context, req CompletionRequest) (string, error)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	f.mu.Unlock()
	return f.complete(ctx, req)
}

func newTestSearcher(t *testing.T, p CompletionProvider, timeout time.Duration) *SemanticSearcher {
	t.Helper()
	s, err := NewSemanticSearcher(p, config.DefaultSemanticSearchPrompt, SemanticOptions{
		Model:       "test-model",
		Temperature: 0.7,
		MaxTokens:   2000,
		Timeout:     timeout,
	})
	if err != nil {
		t.Fatalf("NewSemanticSearcher: %v", err)
	}
	return s
}

func TestSemanticSearcher_Search(t *testing.T) {
	p := &fakeProvider{complete: func(ctx context.Context, req CompletionRequest) (string, error) {
		return `[{"id":"1"}]`, nil
	}}
	s := newTestSearcher(t, p, time.Second)

	got, err := s.Search(context.Background(), "  spicy vegan dinner ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `[{"id":"1"}]` {
		t.Errorf("Search() = %q, want raw provider text", got)
	}

	req := p.lastReq
	if !strings.Contains(req.User, "spicy vegan dinner") {
		t.Errorf("user prompt %q does not contain the query", req.User)
	}
	if !strings.Contains(req.System, "JSON") {
		t.Errorf("system prompt should demand JSON output")
	}
	if req.Model != "test-model" || req.Temperature != 0.7 || req.MaxTokens != 2000 || !req.JSONResponse {
		t.Errorf("unexpected request parameters: %+v", req)
	}
}

func TestSemanticSearcher_EmptyQuery(t *testing.T) {
	p := &fakeProvider{complete: func(ctx context.Context, req CompletionRequest) (string, error) {
		return "[]", nil
	}}
	s := newTestSearcher(t, p, time.Second)

	_, err := s.Search(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times, want 0", p.calls)
	}
}

func TestSemanticSearcher_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name     string
		complete func(ctx context.Context, req CompletionRequest) (string, error)
	}{
		{"provider error", func(ctx context.Context, req CompletionRequest) (string, error) {
			return "", errors.New("connection refused")
		}},
		{"empty content", func(ctx context.Context, req CompletionRequest) (string, error) {
			return "  \n", nil
		}},
		{"timeout", func(ctx context.Context, req CompletionRequest) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSearcher(t, &fakeProvider{complete: tt.complete}, 20*time.Millisecond)

			_, err := s.Search(context.Background(), "soup")
			var upstream *UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("err = %v, want *UpstreamError", err)
			}
			if upstream.Provider != "fake" {
				t.Errorf("Provider = %q, want fake", upstream.Provider)
			}
		})
	}
}

func TestSemanticSearcher_TimeoutIsReported(t *testing.T) {
	p := &fakeProvider{complete: func(ctx context.Context, req CompletionRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	s := newTestSearcher(t, p, 10*time.Millisecond)

	_, err := s.Search(context.Background(), "soup")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want wrapped DeadlineExceeded", err)
	}
}

func TestNewSemanticSearcher_BadTemplate(t *testing.T) {
	_, err := NewSemanticSearcher(&fakeProvider{}, config.PromptPair{
		System: "ok",
		User:   "{{.Missing}}",
	}, SemanticOptions{})
	if err == nil {
		t.Error("expected error for template referencing unknown key")
	}
}
