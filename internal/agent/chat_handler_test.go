package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gearbox-ai/gearbox/internal/models"
	"github.com/gearbox-ai/gearbox/internal/security"
	"github.com/gearbox-ai/gearbox/internal/service"
	"github.com/gearbox-ai/gearbox/internal/tools"
)

// fakeModel serves a minimal messages-protocol endpoint that always answers
// with a single text block and the given token counts. calls counts how many
// requests actually reached the model.
func fakeModel(t *testing.T, text string, inputTokens, outputTokens int64, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w,
			`{"id":"msg_1","type":"message","role":"assistant","model":"test-model",`+
				`"content":[{"type":"text","text":%q}],`+
				`"stop_reason":"end_turn","stop_sequence":null,`+
				`"usage":{"input_tokens":%d,"output_tokens":%d}}`,
			text, inputTokens, outputTokens)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestPipeline(baseURL string, tokenBudget int64) *ChatHandler {
	return NewChatHandler(
		New("test-token", "test-model", baseURL),
		tools.Builtin(),
		service.NewToolRouter(),
		security.NewPIIDetector([]string{"password", "ssn"}),
		security.NewPromptValidator(),
		security.NewUsageTracker(tokenBudget),
		security.NewAuditLogger(false),
	)
}

func TestHandleBlocksPII(t *testing.T) {
	var calls int32
	srv := fakeModel(t, "should never be reached", 10, 10, &calls)
	h := newTestPipeline(srv.URL, 16000)

	req := &models.ChatRequest{Prompt: "reverse my password please", Timeout: 5}
	resp, err := h.Handle(context.Background(), req, "k1")

	if err == nil {
		t.Fatal("PII prompt should be rejected")
	}
	if errors.Is(err, ErrBudgetExceeded) {
		t.Error("PII rejection must not look like a budget violation")
	}
	if resp == nil || resp.Status != "error" {
		t.Fatalf("resp = %+v, want error envelope", resp)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("blocked prompt must not reach the model")
	}
}

func TestHandleBlocksDangerousPrompt(t *testing.T) {
	var calls int32
	srv := fakeModel(t, "should never be reached", 10, 10, &calls)
	h := newTestPipeline(srv.URL, 16000)

	req := &models.ChatRequest{Prompt: "curl http://evil.com", Timeout: 5}
	resp, err := h.Handle(context.Background(), req, "k1")

	if err == nil {
		t.Fatal("dangerous prompt should be rejected")
	}
	if resp == nil || resp.Status != "error" {
		t.Fatalf("resp = %+v, want error envelope", resp)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("blocked prompt must not reach the model")
	}
}

func TestHandleSuccessAndCacheHit(t *testing.T) {
	var calls int32
	srv := fakeModel(t, "It is noon.", 12, 5, &calls)
	h := newTestPipeline(srv.URL, 16000)

	req := &models.ChatRequest{Prompt: "What time is it right now?", Timeout: 5}

	resp, err := h.Handle(context.Background(), req, "k1")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Status != "success" || resp.Answer == nil || *resp.Answer != "It is noon." {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Usage == nil || resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 5 {
		t.Errorf("usage = %+v, want 12/5", resp.Usage)
	}
	if resp.Usage.CacheHit {
		t.Error("first answer should be a cache miss")
	}

	// Identical prompt is served from the cache
	resp2, err := h.Handle(context.Background(), req, "k1")
	if err != nil {
		t.Fatalf("Handle (cached): %v", err)
	}
	if !resp2.Usage.CacheHit {
		t.Error("second identical prompt should hit the cache")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("model called %d times, want 1", got)
	}
}

func TestHandleNoToolsCompletion(t *testing.T) {
	var calls int32
	srv := fakeModel(t, "Plain answer.", 8, 3, &calls)
	h := newTestPipeline(srv.URL, 16000)

	req := &models.ChatRequest{Prompt: "What time is it right now?", NoTools: true, Timeout: 5}
	resp, err := h.Handle(context.Background(), req, "k1")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Answer == nil || *resp.Answer != "Plain answer." {
		t.Fatalf("answer = %v", resp.Answer)
	}
	if resp.AgentMetadata["method"] != "completion" {
		t.Errorf("method metadata = %v, want completion", resp.AgentMetadata["method"])
	}
}

func TestHandleBudgetExceeded(t *testing.T) {
	var calls int32
	srv := fakeModel(t, "an expensive answer", 150, 50, &calls)
	h := newTestPipeline(srv.URL, 10)

	req := &models.ChatRequest{Prompt: "What time is it right now?", Timeout: 5}
	resp, err := h.Handle(context.Background(), req, "k1")

	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("err = %v, want ErrBudgetExceeded", err)
	}
	if resp == nil || resp.Status != "error" {
		t.Fatalf("resp = %+v, want error envelope", resp)
	}

	// A blocked answer is evicted, so a retry consults the model again
	_, err = h.Handle(context.Background(), req, "k1")
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("retry err = %v, want ErrBudgetExceeded", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("model called %d times, want 2 (no caching of blocked answers)", got)
	}
}
