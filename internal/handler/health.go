package handler

import (
	"net/http"

	"github.com/datatalk/datatalk/internal/models"
)

const serviceName = "datatalk"

// HealthHandler handles GET /api/health
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Service: serviceName,
	})
}
