package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gearbox-ai/gearbox/internal/models"
	"github.com/gearbox-ai/gearbox/internal/security"
	"github.com/gearbox-ai/gearbox/internal/service"
	"github.com/gearbox-ai/gearbox/internal/tools"
	"github.com/rs/zerolog/log"
)

// ErrBudgetExceeded marks a run whose token consumption blew the per-request
// budget. The HTTP layer maps it to 429.
var ErrBudgetExceeded = errors.New("token budget exceeded")

// SystemPrompt mirrors the assistant persona used by the demo
const SystemPrompt = "You are a professional and succinct assistant. " +
	"Use your tools to answer questions accurately. " +
	"Keep responses brief and to the point. " +
	"Always respond in plain text. Never use LaTeX or markdown formatting."

// ChatHandler orchestrates the prompt → agent → answer pipeline
type ChatHandler struct {
	agent        *Agent
	registry     *tools.Registry
	router       *service.ToolRouter
	piiDetector  *security.PIIDetector
	promptVal    *security.PromptValidator
	usageTracker *security.UsageTracker
	auditLogger  *security.AuditLogger
	cache        *answerCache
}

// NewChatHandler creates a handler with all validation components wired in
func NewChatHandler(
	agent *Agent,
	registry *tools.Registry,
	router *service.ToolRouter,
	piiDetector *security.PIIDetector,
	promptVal *security.PromptValidator,
	usageTracker *security.UsageTracker,
	auditLogger *security.AuditLogger,
) *ChatHandler {
	return &ChatHandler{
		agent:        agent,
		registry:     registry,
		router:       router,
		piiDetector:  piiDetector,
		promptVal:    promptVal,
		usageTracker: usageTracker,
		auditLogger:  auditLogger,
		cache:        newAnswerCache(),
	}
}

// Handle processes one chat request
func (h *ChatHandler) Handle(ctx context.Context, req *models.ChatRequest, apiKey string) (*models.ChatResponse, error) {
	start := time.Now()
	metadata := map[string]interface{}{
		"model":  h.agent.Model(),
		"method": "agent",
	}
	if req.NoTools {
		metadata["method"] = "completion"
	}

	// 1. PII detection
	if kw := h.piiDetector.Detect(req.Prompt); kw != "" {
		metadata["pii_check"] = "blocked: " + kw
		return &models.ChatResponse{
			Status:        "error",
			Prompt:        req.Prompt,
			AgentMetadata: metadata,
		}, fmt.Errorf("PII detected in prompt: %s", kw)
	}
	metadata["pii_check"] = "passed"

	// 2. Prompt validation
	vr := h.promptVal.Validate(req.Prompt)
	if !vr.Valid {
		metadata["prompt_validation"] = "blocked: " + vr.Message
		return &models.ChatResponse{
			Status:        "error",
			Prompt:        req.Prompt,
			AgentMetadata: metadata,
		}, fmt.Errorf("prompt validation failed: %s", vr.Message)
	}
	metadata["prompt_validation"] = "passed"

	// 3. Tool-route hint (informational only; the model picks the tool)
	routing := h.router.Route(req.Prompt)
	metadata["expected_tool"] = routing.Tool
	metadata["routing_confidence"] = routing.Confidence
	metadata["routing_reasoning"] = routing.Reasoning

	// 4. Run agent (or bare completion) with identical prompts deduplicated
	// and memoized
	cacheHit := true
	outcome, err := h.cache.do(cacheKey(req), func() (cachedAnswer, error) {
		cacheHit = false
		agentCtx, cancel := context.WithTimeout(ctx, time.Duration(req.Timeout)*time.Second)
		defer cancel()

		if req.NoTools {
			text, usage, err := h.agent.Complete(agentCtx, SystemPrompt, req.Prompt)
			if err != nil {
				return cachedAnswer{}, err
			}
			return cachedAnswer{text: text, usage: usage}, nil
		}

		res, err := h.agent.Run(agentCtx, SystemPrompt, req.Prompt, h.registry.List())
		if err != nil {
			return cachedAnswer{}, err
		}
		text := res.Text
		if text == "" && res.LastToolResult != "" {
			log.Debug().Msg("model returned no final text, using last tool result")
			text = res.LastToolResult
		}
		return cachedAnswer{text: text, toolsUsed: res.ToolsUsed, usage: res.Usage}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("agent run: %w", err)
	}
	metadata["tools_used"] = outcome.toolsUsed
	metadata["cache"] = "miss"
	if cacheHit {
		metadata["cache"] = "hit"
	}

	execTimeMs := time.Since(start).Milliseconds()

	// 5. Token budget check (fresh runs only; cached answers cost nothing)
	metadata["token_budget"] = "n/a"
	if !cacheHit {
		if ok, errMsg := h.usageTracker.CheckLimits(outcome.usage.InputTokens, outcome.usage.OutputTokens, apiKey); !ok {
			metadata["token_budget"] = "blocked: " + errMsg
			h.cache.invalidate(cacheKey(req))
			h.auditLogger.LogAgentRequest(req.Prompt, apiKey, outcome.toolsUsed, false, execTimeMs)
			return &models.ChatResponse{
				Status:        "error",
				Prompt:        req.Prompt,
				AgentMetadata: metadata,
			}, fmt.Errorf("%w: %s", ErrBudgetExceeded, errMsg)
		}
		h.usageTracker.LogUsage(req.Prompt, outcome.usage.InputTokens, outcome.usage.OutputTokens, apiKey, execTimeMs)
		metadata["token_budget"] = "ok"
	}

	// 6. Audit log
	h.auditLogger.LogAgentRequest(req.Prompt, apiKey, outcome.toolsUsed, true, execTimeMs)

	answer := outcome.text
	return &models.ChatResponse{
		Status: "success",
		Prompt: req.Prompt,
		Answer: &answer,
		Usage: &models.UsageMetadata{
			InputTokens:     outcome.usage.InputTokens,
			OutputTokens:    outcome.usage.OutputTokens,
			ExecutionTimeMs: execTimeMs,
			CacheHit:        cacheHit,
		},
		AgentMetadata: metadata,
	}, nil
}

func cacheKey(req *models.ChatRequest) string {
	if req.NoTools {
		return "completion\x00" + req.Prompt
	}
	return "agent\x00" + req.Prompt
}
