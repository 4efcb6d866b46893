package chat

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/geminidataanalytics/apiv1beta/geminidataanalyticspb"
	"github.com/rs/zerolog/log"

	"github.com/datatalk/datatalk/internal/models"
)

// ReplyStream is the ordered sequence of reply messages produced by a chat
// call. The Gemini Data Analytics chat stream satisfies it directly.
type ReplyStream interface {
	Recv() (*geminidataanalyticspb.Message, error)
}

// Accumulate consumes a reply stream in arrival order and folds it into a
// ChatResponse: text payloads append to the response text, data results are
// extracted and formatted into tables, generated SQL is collected, and
// chart payloads are discarded. Table extraction failures skip the chunk;
// a stream error discards the partial accumulation and propagates.
func Accumulate(stream ReplyStream) (*models.ChatResponse, error) {
	resp := &models.ChatResponse{
		Tables:     []*models.FormattedTable{},
		SQLQueries: []string{},
	}
	var text strings.Builder

	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("chat stream: %w", err)
		}

		chunk := DecodeChunk(msg)
		if chunk.Chart {
			log.Debug().Msg("skipping chart reply, chart rendering is disabled")
			continue
		}
		if chunk.HasText {
			text.WriteString(chunk.Text)
		}
		if chunk.Result != nil {
			if table := ExtractTable(chunk.Result); table != nil {
				resp.Tables = append(resp.Tables, FormatTable(table))
			}
		}
		if chunk.HasSQL {
			resp.SQLQueries = append(resp.SQLQueries, chunk.GeneratedSQL)
		}
	}

	resp.Text = CleanText(text.String())
	log.Debug().
		Int("tables", len(resp.Tables)).
		Int("sql_queries", len(resp.SQLQueries)).
		Int("text_len", len(resp.Text)).
		Msg("chat reply accumulated")
	return resp, nil
}
