package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gearbox-ai/gearbox/internal/agent"
	"github.com/gearbox-ai/gearbox/internal/models"
)

// ChatHandler handles POST /api/v1/chat
type ChatHandler struct {
	pipeline       *agent.ChatHandler
	defaultTimeout int // seconds, applied when the request omits one
}

func NewChatHandler(pipeline *agent.ChatHandler, defaultTimeout int) *ChatHandler {
	return &ChatHandler{pipeline: pipeline, defaultTimeout: defaultTimeout}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.Normalize(h.defaultTimeout)

	if req.Prompt == "" {
		models.WriteError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	if h.pipeline == nil {
		models.WriteError(w, http.StatusServiceUnavailable, "model is not configured")
		return
	}

	apiKey := r.Header.Get("X-API-Key")

	resp, err := h.pipeline.Handle(r.Context(), &req, apiKey)
	if err != nil {
		switch {
		case errors.Is(err, agent.ErrBudgetExceeded):
			models.WriteJSON(w, http.StatusTooManyRequests, resp)
		case resp != nil:
			// blocked by PII detection or prompt validation
			models.WriteJSON(w, http.StatusBadRequest, resp)
		default:
			models.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	models.WriteJSON(w, http.StatusOK, resp)
}
