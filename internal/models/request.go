package models

// Conversation roles accepted in chat history. "model" is an alias some
// frontends send for assistant turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleModel     = "model"
)

// Turn is one prior exchange in the conversation history. History is
// supplied per request and never persisted server-side.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConfigOverride carries optional per-request configuration supplied by the
// frontend. Empty fields leave the current setting untouched.
type ConfigOverride struct {
	ProjectID      string `json:"project_id,omitempty"`
	Location       string `json:"location,omitempty"`
	DatasetID      string `json:"dataset_id,omitempty"`
	TableID        string `json:"table_id,omitempty"`
	DataDictionary string `json:"data_dictionary,omitempty"`
}

// ChatRequest for POST /api/chat
type ChatRequest struct {
	Message string          `json:"message"`
	History []Turn          `json:"history,omitempty"`
	Config  *ConfigOverride `json:"config,omitempty"`
}

// InitializeRequest for POST /api/initialize
type InitializeRequest struct {
	Config *ConfigOverride `json:"config,omitempty"`
}
