package chat

import (
	"strings"

	"cloud.google.com/go/geminidataanalytics/apiv1beta/geminidataanalyticspb"
)

// ReplyChunk is the decoded form of one streamed reply message. The proto
// payload is inspected exactly once, here at the boundary; downstream logic
// works against these typed fields instead of probing the message.
type ReplyChunk struct {
	// Text is the joined text parts of a text payload; HasText
	// distinguishes an empty text payload from no text at all.
	Text    string
	HasText bool

	// HasSchema marks a schema payload without row data. Reserved, the
	// accumulator currently ignores it.
	HasSchema bool

	// Result holds nested tabular data when the chunk carried any.
	Result *geminidataanalyticspb.DataResult

	// GeneratedSQL is the query the backend produced for a data payload.
	GeneratedSQL string
	HasSQL       bool

	// Chart marks chunks carrying chart payloads, including chunks whose
	// text form merely mentions chart content. Chart rendering is disabled
	// in this deployment so these chunks are skipped wholesale.
	Chart bool
}

// DecodeChunk translates a streamed reply message into a ReplyChunk.
// Messages without a system payload decode to the zero chunk. The chart
// text-sniff applies only to unrecognized payloads: a text, schema, data
// or SQL chunk that happens to mention charts keeps its decoded kind and
// is never re-classified as a chart.
func DecodeChunk(m *geminidataanalyticspb.Message) ReplyChunk {
	var c ReplyChunk
	sys := m.GetSystemMessage()
	if sys == nil {
		return c
	}

	switch k := sys.GetKind().(type) {
	case *geminidataanalyticspb.SystemMessage_Text:
		c.HasText = true
		c.Text = strings.Join(k.Text.GetParts(), "")
	case *geminidataanalyticspb.SystemMessage_Schema:
		c.HasSchema = true
	case *geminidataanalyticspb.SystemMessage_Data:
		switch d := k.Data.GetKind().(type) {
		case *geminidataanalyticspb.DataMessage_Result:
			c.Result = d.Result
		case *geminidataanalyticspb.DataMessage_GeneratedSql:
			c.HasSQL = true
			c.GeneratedSQL = d.GeneratedSql
		}
	case *geminidataanalyticspb.SystemMessage_Chart:
		c.Chart = true
	}

	// Chart payloads can also arrive in message kinds the switch above does
	// not recognize; sniff those by their text form.
	recognized := c.HasText || c.HasSchema || c.HasSQL || c.Result != nil
	if !c.Chart && !recognized && strings.Contains(strings.ToLower(sys.String()), "chart") {
		c.Chart = true
	}

	return c
}
