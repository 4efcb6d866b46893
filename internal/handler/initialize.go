package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/datatalk/datatalk/internal/agent"
	"github.com/datatalk/datatalk/internal/models"
)

// InitializeHandler handles POST /api/initialize
type InitializeHandler struct {
	bot *agent.Chatbot
}

func NewInitializeHandler(bot *agent.Chatbot) *InitializeHandler {
	return &InitializeHandler{bot: bot}
}

// Initialize applies any supplied configuration overrides, discovers the
// available tables (auto-selecting the first when none is configured), and
// resolves or creates the data agent.
func (h *InitializeHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req models.InitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Config != nil {
		h.bot.ApplyOverrides(*req.Config)
	}

	tables := h.bot.DiscoverTables(r.Context())
	h.bot.SelectDefaultTable(tables)

	name, err := h.bot.EnsureAgent(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("agent initialization failed")
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	snap := h.bot.Snapshot()
	models.WriteJSON(w, http.StatusOK, models.InitializeResponse{
		Success:         true,
		AgentName:       name,
		Message:         "data agent initialized successfully",
		AvailableTables: tables,
		Config: models.ActiveConfig{
			ProjectID: snap.ProjectID,
			Location:  snap.Location,
			DatasetID: snap.DatasetID,
			TableID:   snap.TableID,
		},
	})
}
