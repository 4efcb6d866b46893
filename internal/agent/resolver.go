// Package agent resolves the backend data agent and orchestrates chat
// calls against it.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/geminidataanalytics/apiv1beta/geminidataanalyticspb"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/datatalk/datatalk/internal/chat"
)

// AgentService is the slice of the Gemini Data Analytics agent API the
// resolver needs.
type AgentService interface {
	GetAgent(ctx context.Context, name string) (*geminidataanalyticspb.DataAgent, error)
	CreateAgent(ctx context.Context, parent, agentID string, agent *geminidataanalyticspb.DataAgent) (*geminidataanalyticspb.DataAgent, error)
}

// ChatService issues streamed chat calls.
type ChatService interface {
	Chat(ctx context.Context, req *geminidataanalyticspb.ChatRequest) (chat.ReplyStream, error)
}

// TableCatalog lists table ids in a dataset.
type TableCatalog interface {
	ListTables(ctx context.Context, datasetID string) ([]string, error)
}

const (
	// agentIDPrefix seeds synthesized agent ids when none is configured.
	agentIDPrefix = "sales-agent"

	// agentCreateTimeout bounds the wait on the creation operation.
	agentCreateTimeout = 120 * time.Second
)

// defaultTableIDs is the demo table set bound to the agent when no table
// is configured and discovery yields nothing.
var defaultTableIDs = []string{
	"salestable",
	"campaigns_table",
	"accountstable",
	"eur_currency_table",
	"campaigns_stats_table",
}

const baseInstruction = `You are a helpful senior data analyst assistant.
Analyze data from BigQuery tables and provide clear, accurate insights.
The current year is 2025 unless the question names another year.
Do not write follow-up questions or explicitly reveal the dataset id.
IMPORTANT FIELD DEFINITIONS:
- Use 'net_value' for revenue and spend calculations (the finalized amount) when it fits; the data may use other names.
- Use 'conversion_value' only when specifically asked about conversion values.
- 'conversion_date' is the primary date field for time-based analysis.

When presenting data, do not say JSON, do not announce a chart, and do not draw tables with dashes.
Focus on key metrics and provide actionable insights.
Always use the same field for the same type of question to ensure consistency.`

// Settings is the configuration snapshot a resolve or chat call operates
// on. Passing it explicitly keeps each call independent of concurrent
// configuration changes.
type Settings struct {
	ProjectID      string
	Location       string
	DatasetID      string
	TableID        string // single id or comma-delimited list
	AgentID        string
	DataDictionary string
}

// tableIDs splits the configured table id(s), falling back to the demo set.
func (s Settings) tableIDs() []string {
	var ids []string
	for _, id := range strings.Split(s.TableID, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ids = defaultTableIDs
	}
	return ids
}

// Resolver idempotently resolves or creates the named data agent.
// Concurrent resolutions of the same name share one creation call.
type Resolver struct {
	agents AgentService
	sf     singleflight.Group
}

func NewResolver(agents AgentService) *Resolver {
	return &Resolver{agents: agents}
}

// ResolveOrCreate returns the fully-qualified name of the data agent for
// the given settings, creating it when the lookup misses. An empty agent
// id synthesizes one from a fixed prefix and the current time. Creation
// failure, including the bounded-wait timeout, propagates to the caller;
// a not-found lookup is the expected miss and not an error.
func (r *Resolver) ResolveOrCreate(ctx context.Context, s Settings) (string, error) {
	agentID := s.AgentID
	if agentID == "" {
		agentID = fmt.Sprintf("%s-%d", agentIDPrefix, time.Now().Unix())
	}
	parent := fmt.Sprintf("projects/%s/locations/%s", s.ProjectID, s.Location)
	name := fmt.Sprintf("%s/dataAgents/%s", parent, agentID)

	existing, err := r.agents.GetAgent(ctx, name)
	if err == nil {
		log.Info().Str("agent", name).Msg("data agent already exists, using it")
		return existing.GetName(), nil
	}
	if status.Code(err) != codes.NotFound {
		log.Warn().Err(err).Str("agent", name).Msg("data agent lookup failed, attempting creation")
	} else {
		log.Info().Str("agent", name).Msg("data agent not found, creating")
	}

	v, err, _ := r.sf.Do(name, func() (any, error) {
		cctx, cancel := context.WithTimeout(ctx, agentCreateTimeout)
		defer cancel()

		created, err := r.agents.CreateAgent(cctx, parent, agentID, buildAgent(s))
		if err != nil {
			return nil, err
		}
		log.Info().Str("agent", created.GetName()).Msg("data agent created")
		return created.GetName(), nil
	})
	if err != nil {
		return "", fmt.Errorf("resolve data agent %q: %w", name, err)
	}
	return v.(string), nil
}

// buildAgent assembles the data agent spec: the BigQuery table reference
// set and the published context carrying the analyst instruction.
func buildAgent(s Settings) *geminidataanalyticspb.DataAgent {
	ids := s.tableIDs()
	refs := make([]*geminidataanalyticspb.BigQueryTableReference, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, &geminidataanalyticspb.BigQueryTableReference{
			ProjectId: s.ProjectID,
			DatasetId: s.DatasetID,
			TableId:   id,
		})
		log.Info().
			Str("table", fmt.Sprintf("%s.%s.%s", s.ProjectID, s.DatasetID, id)).
			Msg("added table reference")
	}

	instruction := baseInstruction
	if s.DataDictionary != "" {
		instruction += fmt.Sprintf(
			"\n\nIMPORTANT FIELD DEFINITIONS:\n%s\n\nAlways use these field definitions consistently for the same types of questions.",
			s.DataDictionary,
		)
	}

	return &geminidataanalyticspb.DataAgent{
		Type: &geminidataanalyticspb.DataAgent_DataAnalyticsAgent{
			DataAnalyticsAgent: &geminidataanalyticspb.DataAnalyticsAgent{
				PublishedContext: &geminidataanalyticspb.Context{
					SystemInstruction: instruction,
					DatasourceReferences: &geminidataanalyticspb.DatasourceReferences{
						References: &geminidataanalyticspb.DatasourceReferences_Bq{
							Bq: &geminidataanalyticspb.BigQueryTableReferences{
								TableReferences: refs,
							},
						},
					},
				},
			},
		},
	}
}
