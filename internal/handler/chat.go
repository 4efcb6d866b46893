package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/datatalk/datatalk/internal/agent"
	"github.com/datatalk/datatalk/internal/models"
)

// ChatHandler handles POST /api/chat
type ChatHandler struct {
	bot *agent.Chatbot
}

func NewChatHandler(bot *agent.Chatbot) *ChatHandler {
	return &ChatHandler{bot: bot}
}

// Chat validates the request, applies any configuration overrides, and
// runs one stateless chat call. A blank message is rejected before
// anything touches the backend.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		models.WriteError(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	if req.Config != nil {
		h.bot.ApplyOverrides(*req.Config)
	}

	resp, err := h.bot.Chat(r.Context(), req.Message, req.History)
	if err != nil {
		log.Error().Err(err).Msg("chat call failed")
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	models.WriteJSON(w, http.StatusOK, models.ChatEnvelope{
		Success:  true,
		Response: resp,
	})
}
