// Package service wraps the Google Cloud SDK clients this adapter talks
// to: the Gemini Data Analytics agent and chat services, and the BigQuery
// dataset catalog.
package service

import (
	"context"
	"errors"
	"fmt"

	dataanalytics "cloud.google.com/go/geminidataanalytics/apiv1beta"
	"cloud.google.com/go/geminidataanalytics/apiv1beta/geminidataanalyticspb"
	"google.golang.org/api/option"

	"github.com/datatalk/datatalk/internal/chat"
)

// AnalyticsService wraps the Gemini Data Analytics SDK clients: the agent
// service for resolving and creating data agents, and the chat service for
// streamed conversations.
type AnalyticsService struct {
	chatClient  *dataanalytics.DataChatClient
	agentClient *dataanalytics.DataAgentClient
}

// NewAnalyticsService creates the underlying SDK clients, authenticating
// with the given service account file or, when empty, application default
// credentials.
func NewAnalyticsService(ctx context.Context, credentialsFile string) (*AnalyticsService, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	chatClient, err := dataanalytics.NewDataChatClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("data chat client: %w", err)
	}
	agentClient, err := dataanalytics.NewDataAgentClient(ctx, opts...)
	if err != nil {
		chatClient.Close()
		return nil, fmt.Errorf("data agent client: %w", err)
	}

	return &AnalyticsService{
		chatClient:  chatClient,
		agentClient: agentClient,
	}, nil
}

// Close releases both SDK clients.
func (s *AnalyticsService) Close() error {
	return errors.Join(s.chatClient.Close(), s.agentClient.Close())
}

// GetAgent looks up a data agent by its fully-qualified resource name.
func (s *AnalyticsService) GetAgent(ctx context.Context, name string) (*geminidataanalyticspb.DataAgent, error) {
	return s.agentClient.GetDataAgent(ctx, &geminidataanalyticspb.GetDataAgentRequest{Name: name})
}

// CreateAgent issues an agent creation call and blocks until the
// long-running operation completes. The caller bounds the wait through ctx.
func (s *AnalyticsService) CreateAgent(ctx context.Context, parent, agentID string, agent *geminidataanalyticspb.DataAgent) (*geminidataanalyticspb.DataAgent, error) {
	op, err := s.agentClient.CreateDataAgent(ctx, &geminidataanalyticspb.CreateDataAgentRequest{
		Parent:      parent,
		DataAgentId: agentID,
		DataAgent:   agent,
	})
	if err != nil {
		return nil, fmt.Errorf("create data agent: %w", err)
	}
	created, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for data agent creation: %w", err)
	}
	return created, nil
}

// Chat issues a streamed chat call and returns the reply stream.
func (s *AnalyticsService) Chat(ctx context.Context, req *geminidataanalyticspb.ChatRequest) (chat.ReplyStream, error) {
	stream, err := s.chatClient.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat call: %w", err)
	}
	return stream, nil
}
