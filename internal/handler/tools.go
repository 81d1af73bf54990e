package handler

import (
	"net/http"

	"github.com/gearbox-ai/gearbox/internal/models"
	"github.com/gearbox-ai/gearbox/internal/tools"
)

// ToolsHandler handles tool listing endpoints
type ToolsHandler struct {
	registry *tools.Registry
}

func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

// ListTools handles GET /api/v1/tools
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	list := h.registry.List()
	infos := make([]models.ToolInfo, len(list))
	for i, t := range list {
		infos[i] = models.ToolInfo{Name: t.Name, Description: t.Description}
	}
	models.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"tools":  infos,
		"count":  len(infos),
	})
}
