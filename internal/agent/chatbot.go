package agent

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"cloud.google.com/go/geminidataanalytics/apiv1beta/geminidataanalyticspb"
	"github.com/rs/zerolog/log"

	"github.com/datatalk/datatalk/internal/chat"
	"github.com/datatalk/datatalk/internal/models"
)

// chatCallTimeout bounds one whole streamed chat call, first chunk to last.
const chatCallTimeout = 300 * time.Second

// Chatbot owns the process-wide analytics configuration and the cached
// data agent name, and runs stateless chat calls against the backend.
//
// Settings may be overridden by incoming requests; all access goes through
// the mutex, and each call works on a snapshot so a concurrent override
// cannot change a call mid-flight. Overriding any field that feeds the
// agent spec drops the cached agent name, forcing the next call to resolve
// against the new configuration.
type Chatbot struct {
	mu        sync.RWMutex
	settings  Settings
	agentName string

	resolver *Resolver
	chatSvc  ChatService
	catalog  TableCatalog // nil when BigQuery discovery is unavailable
}

func NewChatbot(settings Settings, resolver *Resolver, chatSvc ChatService, catalog TableCatalog) *Chatbot {
	return &Chatbot{
		settings: settings,
		resolver: resolver,
		chatSvc:  chatSvc,
		catalog:  catalog,
	}
}

// Snapshot returns the configuration currently in effect.
func (c *Chatbot) Snapshot() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// ApplyOverrides folds non-empty override fields into the settings. Any
// change to a field the agent spec depends on invalidates the cached agent
// name.
func (c *Chatbot) ApplyOverrides(o models.ConfigOverride) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	apply := func(dst *string, v string) {
		if v != "" && v != *dst {
			*dst = v
			changed = true
		}
	}
	apply(&c.settings.ProjectID, o.ProjectID)
	apply(&c.settings.Location, o.Location)
	apply(&c.settings.DatasetID, o.DatasetID)
	apply(&c.settings.TableID, o.TableID)
	apply(&c.settings.DataDictionary, o.DataDictionary)

	if changed && c.agentName != "" {
		log.Info().Str("agent", c.agentName).Msg("configuration changed, dropping cached agent")
		c.agentName = ""
	}
}

// SelectDefaultTable picks the first discovered table when none is
// configured yet.
func (c *Chatbot) SelectDefaultTable(tables []string) {
	if len(tables) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settings.TableID == "" {
		c.settings.TableID = tables[0]
	}
}

// DiscoverTables lists the table ids in the configured dataset, falling
// back to the fixed demo set when the catalog is unavailable or the call
// fails.
func (c *Chatbot) DiscoverTables(ctx context.Context) []string {
	snap := c.Snapshot()
	if c.catalog == nil {
		log.Warn().Msg("table catalog unavailable, using fallback tables")
		return slices.Clone(defaultTableIDs)
	}

	tables, err := c.catalog.ListTables(ctx, snap.DatasetID)
	if err != nil {
		log.Error().Err(err).Str("dataset", snap.DatasetID).
			Msg("failed to list tables, using fallback tables")
		return slices.Clone(defaultTableIDs)
	}
	log.Info().Int("count", len(tables)).Str("dataset", snap.DatasetID).Msg("discovered tables")
	return tables
}

// EnsureAgent resolves or creates the data agent for the current settings
// and caches its name for the remainder of the process.
func (c *Chatbot) EnsureAgent(ctx context.Context) (string, error) {
	return c.ensureAgent(ctx, c.Snapshot())
}

func (c *Chatbot) ensureAgent(ctx context.Context, snap Settings) (string, error) {
	c.mu.RLock()
	name := c.agentName
	c.mu.RUnlock()
	if name != "" {
		return name, nil
	}

	name, err := c.resolver.ResolveOrCreate(ctx, snap)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.agentName = name
	c.mu.Unlock()
	return name, nil
}

// Chat runs one stateless chat call: the agent is ensured, the history and
// new message become the request conversation, and the streamed reply is
// accumulated into the response. Errors anywhere discard the partial
// result.
func (c *Chatbot) Chat(ctx context.Context, message string, history []models.Turn) (*models.ChatResponse, error) {
	snap := c.Snapshot()

	name, err := c.ensureAgent(ctx, snap)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, chatCallTimeout)
	defer cancel()

	preview := message
	if len(preview) > 100 {
		preview = preview[:100]
	}
	log.Info().Str("agent", name).Str("message", preview).Msg("sending chat request")

	stream, err := c.chatSvc.Chat(cctx, &geminidataanalyticspb.ChatRequest{
		Parent:   fmt.Sprintf("projects/%s/locations/%s", snap.ProjectID, snap.Location),
		Messages: chat.BuildConversation(history, message),
		ContextProvider: &geminidataanalyticspb.ChatRequest_DataAgentContext{
			DataAgentContext: &geminidataanalyticspb.DataAgentContext{
				DataAgent: name,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return chat.Accumulate(stream)
}
