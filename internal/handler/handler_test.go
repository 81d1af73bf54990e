package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gearbox-ai/gearbox/internal/agent"
	"github.com/gearbox-ai/gearbox/internal/handler"
	"github.com/gearbox-ai/gearbox/internal/models"
	"github.com/gearbox-ai/gearbox/internal/security"
	"github.com/gearbox-ai/gearbox/internal/service"
	"github.com/gearbox-ai/gearbox/internal/tools"
)

func TestHealthConfigured(t *testing.T) {
	h := handler.NewHealthHandler(true, tools.Builtin())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp models.HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Checks["model"] != "configured" {
		t.Errorf("model check = %q", resp.Checks["model"])
	}
	if !strings.HasPrefix(resp.Checks["tools"], "4 ") {
		t.Errorf("tools check = %q", resp.Checks["tools"])
	}
}

func TestHealthDegradedWithoutToken(t *testing.T) {
	h := handler.NewHealthHandler(false, tools.Builtin())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var resp models.HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q", resp.Status)
	}
}

func TestListTools(t *testing.T) {
	h := handler.NewToolsHandler(tools.Builtin())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	rr := httptest.NewRecorder()
	h.ListTools(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Status string            `json:"status"`
		Tools  []models.ToolInfo `json:"tools"`
		Count  int               `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 4 || len(resp.Tools) != 4 {
		t.Fatalf("count = %d, tools = %d", resp.Count, len(resp.Tools))
	}
	if resp.Tools[0].Name != "calculator" {
		t.Errorf("first tool = %q, want calculator", resp.Tools[0].Name)
	}
	for _, ti := range resp.Tools {
		if ti.Description == "" {
			t.Errorf("tool %q has empty description", ti.Name)
		}
	}
}

// fakeModelServer answers every messages-protocol request with one text
// block and the given token counts
func fakeModelServer(t *testing.T, text string, inputTokens, outputTokens int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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

func newChatPipeline(baseURL string, tokenBudget int64) *agent.ChatHandler {
	return agent.NewChatHandler(
		agent.New("test-token", "test-model", baseURL),
		tools.Builtin(),
		service.NewToolRouter(),
		security.NewPIIDetector([]string{"password"}),
		security.NewPromptValidator(),
		security.NewUsageTracker(tokenBudget),
		security.NewAuditLogger(false),
	)
}

func postChat(t *testing.T, h *handler.ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Chat(rr, req)
	return rr
}

func TestChatMissingPrompt(t *testing.T) {
	h := handler.NewChatHandler(nil, 120)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.Chat(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestChatInvalidBody(t *testing.T) {
	h := handler.NewChatHandler(nil, 120)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{not json`))
	rr := httptest.NewRecorder()
	h.Chat(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestChatModelNotConfigured(t *testing.T) {
	h := handler.NewChatHandler(nil, 120)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"prompt":"what time is it"}`))
	rr := httptest.NewRecorder()
	h.Chat(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
}

func TestChatSuccess(t *testing.T) {
	srv := fakeModelServer(t, "It is noon.", 12, 5)
	h := handler.NewChatHandler(newChatPipeline(srv.URL, 16000), 120)

	rr := postChat(t, h, `{"prompt":"What time is it right now?","timeout":5}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "success" || resp.Answer == nil || *resp.Answer != "It is noon." {
		t.Errorf("resp = %+v", resp)
	}
}

func TestChatBudgetExceededReturns429(t *testing.T) {
	srv := fakeModelServer(t, "an expensive answer", 150, 50)
	h := handler.NewChatHandler(newChatPipeline(srv.URL, 10), 120)

	rr := postChat(t, h, `{"prompt":"What time is it right now?","timeout":5}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for a budget violation, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status = %q, want error", resp.Status)
	}
}

func TestChatBlockedPromptReturns400(t *testing.T) {
	srv := fakeModelServer(t, "should never be reached", 10, 10)
	h := handler.NewChatHandler(newChatPipeline(srv.URL, 16000), 120)

	for name, body := range map[string]string{
		"pii":       `{"prompt":"reverse my password please","timeout":5}`,
		"dangerous": `{"prompt":"curl http://evil.com","timeout":5}`,
	} {
		t.Run(name, func(t *testing.T) {
			rr := postChat(t, h, body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}
