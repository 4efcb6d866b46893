package chat

import (
	"cloud.google.com/go/geminidataanalytics/apiv1beta/geminidataanalyticspb"

	"github.com/datatalk/datatalk/internal/models"
)

// BuildConversation maps the caller-supplied history plus the new user
// message into the ordered message sequence the chat service expects. User
// turns become user messages, assistant (or "model") turns become system
// text messages with the content as their sole part, and unrecognized
// roles are dropped. The new message is always last.
func BuildConversation(history []models.Turn, message string) []*geminidataanalyticspb.Message {
	msgs := make([]*geminidataanalyticspb.Message, 0, len(history)+1)
	for _, turn := range history {
		switch turn.Role {
		case models.RoleUser:
			msgs = append(msgs, userMessage(turn.Content))
		case models.RoleAssistant, models.RoleModel:
			msgs = append(msgs, assistantMessage(turn.Content))
		}
	}
	return append(msgs, userMessage(message))
}

func userMessage(text string) *geminidataanalyticspb.Message {
	return &geminidataanalyticspb.Message{
		Kind: &geminidataanalyticspb.Message_UserMessage{
			UserMessage: &geminidataanalyticspb.UserMessage{
				Kind: &geminidataanalyticspb.UserMessage_Text{Text: text},
			},
		},
	}
}

func assistantMessage(text string) *geminidataanalyticspb.Message {
	return &geminidataanalyticspb.Message{
		Kind: &geminidataanalyticspb.Message_SystemMessage{
			SystemMessage: &geminidataanalyticspb.SystemMessage{
				Kind: &geminidataanalyticspb.SystemMessage_Text{
					Text: &geminidataanalyticspb.TextMessage{Parts: []string{text}},
				},
			},
		},
	}
}
