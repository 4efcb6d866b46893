package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/geminidataanalytics/apiv1beta/geminidataanalyticspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/datatalk/datatalk/internal/agent"
	"github.com/datatalk/datatalk/internal/chat"
	"github.com/datatalk/datatalk/internal/handler"
	"github.com/datatalk/datatalk/internal/models"
)

// ─── Fakes ───────────────────────────────────────────────────────────────

type fakeAgentService struct {
	agents  map[string]*geminidataanalyticspb.DataAgent
	creates int
}

func newFakeAgentService() *fakeAgentService {
	return &fakeAgentService{agents: map[string]*geminidataanalyticspb.DataAgent{}}
}

func (f *fakeAgentService) GetAgent(ctx context.Context, name string) (*geminidataanalyticspb.DataAgent, error) {
	if a, ok := f.agents[name]; ok {
		return a, nil
	}
	return nil, status.Error(codes.NotFound, "data agent not found")
}

func (f *fakeAgentService) CreateAgent(ctx context.Context, parent, agentID string, spec *geminidataanalyticspb.DataAgent) (*geminidataanalyticspb.DataAgent, error) {
	f.creates++
	created := &geminidataanalyticspb.DataAgent{Name: parent + "/dataAgents/" + agentID}
	f.agents[created.Name] = created
	return created, nil
}

type fakeStream struct {
	msgs []*geminidataanalyticspb.Message
	idx  int
}

func (s *fakeStream) Recv() (*geminidataanalyticspb.Message, error) {
	if s.idx < len(s.msgs) {
		m := s.msgs[s.idx]
		s.idx++
		return m, nil
	}
	return nil, io.EOF
}

type fakeChatService struct {
	calls int
	msgs  []*geminidataanalyticspb.Message
}

func (f *fakeChatService) Chat(ctx context.Context, req *geminidataanalyticspb.ChatRequest) (chat.ReplyStream, error) {
	f.calls++
	return &fakeStream{msgs: f.msgs}, nil
}

func textMsg(parts ...string) *geminidataanalyticspb.Message {
	return &geminidataanalyticspb.Message{
		Kind: &geminidataanalyticspb.Message_SystemMessage{
			SystemMessage: &geminidataanalyticspb.SystemMessage{
				Kind: &geminidataanalyticspb.SystemMessage_Text{
					Text: &geminidataanalyticspb.TextMessage{Parts: parts},
				},
			},
		},
	}
}

func newTestChatbot(agents *fakeAgentService, chatSvc *fakeChatService) *agent.Chatbot {
	settings := agent.Settings{
		ProjectID: "proj",
		Location:  "global",
		DatasetID: "sales",
		TableID:   "orders",
		AgentID:   "analyst",
	}
	return agent.NewChatbot(settings, agent.NewResolver(agents), chatSvc, nil)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

// ─── Health ──────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)

	handler.NewHealthHandler().Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" || body["service"] != "datatalk" {
		t.Errorf("body = %v", body)
	}
}

// ─── Chat ────────────────────────────────────────────────────────────────

func TestChatBlankMessageRejected(t *testing.T) {
	for _, message := range []string{"", "   ", "\n\t "} {
		chatSvc := &fakeChatService{}
		agents := newFakeAgentService()
		h := handler.NewChatHandler(newTestChatbot(agents, chatSvc))

		payload, _ := json.Marshal(models.ChatRequest{Message: message})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(string(payload)))

		h.Chat(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("message %q: status = %d, want 400", message, rec.Code)
		}
		body := decodeBody(t, rec)
		if body["success"] != false || body["error"] == "" {
			t.Errorf("message %q: body = %v", message, body)
		}
		if chatSvc.calls != 0 || agents.creates != 0 {
			t.Errorf("message %q: backend touched (chat=%d creates=%d)", message, chatSvc.calls, agents.creates)
		}
	}
}

func TestChatInvalidBodyRejected(t *testing.T) {
	h := handler.NewChatHandler(newTestChatbot(newFakeAgentService(), &fakeChatService{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))

	h.Chat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatSuccess(t *testing.T) {
	chatSvc := &fakeChatService{msgs: []*geminidataanalyticspb.Message{
		textMsg("Widgets lead in revenue."),
	}}
	h := handler.NewChatHandler(newTestChatbot(newFakeAgentService(), chatSvc))

	payload, _ := json.Marshal(models.ChatRequest{
		Message: "Which product leads?",
		History: []models.Turn{{Role: models.RoleUser, Content: "hi"}},
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(string(payload)))

	h.Chat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var env models.ChatEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success {
		t.Error("success = false")
	}
	if env.Response == nil || env.Response.Text != "Widgets lead in revenue." {
		t.Errorf("response = %+v", env.Response)
	}
	if chatSvc.calls != 1 {
		t.Errorf("chat calls = %d, want 1", chatSvc.calls)
	}
}

func TestChatConfigOverrideApplied(t *testing.T) {
	bot := newTestChatbot(newFakeAgentService(), &fakeChatService{})
	h := handler.NewChatHandler(bot)

	payload, _ := json.Marshal(models.ChatRequest{
		Message: "hi",
		Config:  &models.ConfigOverride{DatasetID: "marketing"},
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(string(payload)))

	h.Chat(rec, req)

	if got := bot.Snapshot().DatasetID; got != "marketing" {
		t.Errorf("DatasetID = %q, want %q", got, "marketing")
	}
}

// ─── Initialize ──────────────────────────────────────────────────────────

func TestInitialize(t *testing.T) {
	agents := newFakeAgentService()
	bot := newTestChatbot(agents, &fakeChatService{})
	h := handler.NewInitializeHandler(bot)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/initialize", strings.NewReader("{}"))

	h.Initialize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp models.InitializeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.AgentName != "projects/proj/locations/global/dataAgents/analyst" {
		t.Errorf("AgentName = %q", resp.AgentName)
	}
	if agents.creates != 1 {
		t.Errorf("creates = %d, want 1", agents.creates)
	}
	if resp.Config.DatasetID != "sales" {
		t.Errorf("Config = %+v", resp.Config)
	}
}

func TestInitializeEmptyBody(t *testing.T) {
	h := handler.NewInitializeHandler(newTestChatbot(newFakeAgentService(), &fakeChatService{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/initialize", strings.NewReader(""))

	h.Initialize(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 on empty body", rec.Code)
	}
}
