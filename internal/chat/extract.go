package chat

import (
	"fmt"

	"cloud.google.com/go/geminidataanalytics/apiv1beta/geminidataanalyticspb"
	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/proto"

	"github.com/datatalk/datatalk/internal/models"
)

// ExtractTable pulls a NormalizedTable out of a streamed tabular result.
// The backend does not guarantee a uniform payload shape, so two strategies
// are tried in order: reading schema and rows directly off a typed data
// result, then a generic message-to-map conversion probed for the same
// schema/data layout. A nil return means no tabular data was present;
// extraction never fails the caller.
func ExtractTable(result proto.Message) *models.NormalizedTable {
	if dr, ok := result.(*geminidataanalyticspb.DataResult); ok && dr != nil {
		if t := extractDirect(dr); t != nil {
			return t
		}
	}
	if t := extractConverted(result); t != nil {
		return t
	}
	log.Warn().Msg("data result matched no known table shape, skipping")
	return nil
}

// extractDirect reads the declared schema fields and parallel row structs
// straight off the proto result.
func extractDirect(result *geminidataanalyticspb.DataResult) *models.NormalizedTable {
	schema := result.GetSchema()
	if schema == nil || len(schema.GetFields()) == 0 {
		return nil
	}

	columns := make([]string, 0, len(schema.GetFields()))
	for _, field := range schema.GetFields() {
		name := field.GetName()
		if name == "" {
			name = field.String()
		}
		columns = append(columns, name)
	}

	data := result.GetData()
	rows := make([]map[string]any, 0, len(data))
	for _, rowStruct := range data {
		rowData := NormalizeStruct(rowStruct)
		row := make(map[string]any, len(columns))
		for _, col := range columns {
			if v, ok := rowData[col]; ok {
				row[col] = v
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}

	log.Debug().Int("rows", len(rows)).Int("columns", len(columns)).
		Msg("extracted table via direct schema access")
	return &models.NormalizedTable{Columns: columns, Rows: rows}
}

// extractConverted normalizes the whole result into a plain map and probes
// it for a schema.fields list alongside a data row list.
func extractConverted(result proto.Message) *models.NormalizedTable {
	converted, ok := NormalizeMessage(result).(map[string]any)
	if !ok {
		return nil
	}
	schema, ok := converted["schema"].(map[string]any)
	if !ok {
		return nil
	}
	fields, ok := schema["fields"].([]any)
	if !ok {
		return nil
	}
	data, ok := converted["data"].([]any)
	if !ok {
		return nil
	}

	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		name := ""
		if fm, isMap := field.(map[string]any); isMap {
			name, _ = fm["name"].(string)
		}
		if name == "" {
			name = fmt.Sprint(field)
		}
		columns = append(columns, name)
	}

	rows := make([]map[string]any, 0, len(data))
	for _, rowData := range data {
		rm, isMap := rowData.(map[string]any)
		if !isMap {
			continue
		}
		row := make(map[string]any, len(columns))
		for _, col := range columns {
			if v, ok := rm[col]; ok {
				row[col] = v
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}

	log.Debug().Int("rows", len(rows)).Int("columns", len(columns)).
		Msg("extracted table via generic conversion")
	return &models.NormalizedTable{Columns: columns, Rows: rows}
}
