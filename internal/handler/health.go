package handler

import (
	"fmt"
	"net/http"

	"github.com/gearbox-ai/gearbox/internal/models"
	"github.com/gearbox-ai/gearbox/internal/tools"
)

const version = "1.0.0"

// HealthHandler handles GET /health
type HealthHandler struct {
	modelConfigured bool
	registry        *tools.Registry
}

func NewHealthHandler(modelConfigured bool, registry *tools.Registry) *HealthHandler {
	return &HealthHandler{modelConfigured: modelConfigured, registry: registry}
}

// Health reports server status and dependency configuration. The model
// endpoint is not pinged; a health probe must not spend tokens.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	if h.modelConfigured {
		checks["model"] = "configured"
	} else {
		checks["model"] = "disabled: GITHUB_TOKEN not set"
		overallStatus = "degraded"
	}

	if h.registry != nil {
		checks["tools"] = fmt.Sprintf("%d registered", len(h.registry.List()))
	} else {
		checks["tools"] = "none registered"
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version,
		Checks:  checks,
	})
}
