package chat_test

import (
	"reflect"
	"testing"

	"cloud.google.com/go/geminidataanalytics/apiv1beta/geminidataanalyticspb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/datatalk/datatalk/internal/chat"
)

func TestExtractTableDirect(t *testing.T) {
	result := &geminidataanalyticspb.DataResult{
		Schema: &geminidataanalyticspb.Schema{
			Fields: []*geminidataanalyticspb.Field{
				{Name: "region"},
				{Name: "total"},
				{Name: "note"},
			},
		},
		Data: []*structpb.Struct{
			mustStruct(t, map[string]any{"region": "EMEA", "total": 1200.0, "note": "ok"}),
			mustStruct(t, map[string]any{"region": "APAC", "total": 87.5}),
		},
	}

	table := chat.ExtractTable(result)
	if table == nil {
		t.Fatal("ExtractTable() = nil, want table")
	}

	wantColumns := []string{"region", "total", "note"}
	if !reflect.DeepEqual(table.Columns, wantColumns) {
		t.Errorf("Columns = %v, want %v", table.Columns, wantColumns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}

	// Every row holds exactly the declared columns; absent values are nil.
	for i, row := range table.Rows {
		if len(row) != len(wantColumns) {
			t.Errorf("row %d has %d keys, want %d", i, len(row), len(wantColumns))
		}
	}
	if table.Rows[0]["total"] != 1200.0 {
		t.Errorf("Rows[0][total] = %v, want 1200", table.Rows[0]["total"])
	}
	if v, ok := table.Rows[1]["note"]; !ok || v != nil {
		t.Errorf("Rows[1][note] = %v (present=%v), want explicit nil", v, ok)
	}
}

func TestExtractTableConverted(t *testing.T) {
	// A generic struct payload carrying the schema/data layout but not
	// typed as a DataResult exercises the conversion strategy.
	raw := mustStruct(t, map[string]any{
		"schema": map[string]any{
			"fields": []any{
				map[string]any{"name": "city"},
				map[string]any{"name": "count"},
			},
		},
		"data": []any{
			map[string]any{"city": "Berlin", "count": 3.0},
			map[string]any{"city": "Oslo"},
		},
	})

	table := chat.ExtractTable(raw)
	if table == nil {
		t.Fatal("ExtractTable() = nil, want table")
	}
	if !reflect.DeepEqual(table.Columns, []string{"city", "count"}) {
		t.Errorf("Columns = %v", table.Columns)
	}
	if table.Rows[0]["count"] != 3.0 {
		t.Errorf("Rows[0][count] = %v, want 3", table.Rows[0]["count"])
	}
	if v, ok := table.Rows[1]["count"]; !ok || v != nil {
		t.Errorf("Rows[1][count] = %v (present=%v), want explicit nil", v, ok)
	}
}

func TestExtractTableNoShape(t *testing.T) {
	cases := []struct {
		name string
		in   *geminidataanalyticspb.DataResult
	}{
		{"empty result", &geminidataanalyticspb.DataResult{}},
		{"schema without fields", &geminidataanalyticspb.DataResult{
			Schema: &geminidataanalyticspb.Schema{},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if table := chat.ExtractTable(tc.in); table != nil {
				t.Errorf("ExtractTable() = %#v, want nil", table)
			}
		})
	}
}

func TestExtractTableDuplicateColumns(t *testing.T) {
	// Duplicate column names are kept as declared; row projection is
	// last-write-wins per key.
	result := &geminidataanalyticspb.DataResult{
		Schema: &geminidataanalyticspb.Schema{
			Fields: []*geminidataanalyticspb.Field{
				{Name: "value"},
				{Name: "value"},
			},
		},
		Data: []*structpb.Struct{
			mustStruct(t, map[string]any{"value": 7.0}),
		},
	}

	table := chat.ExtractTable(result)
	if table == nil {
		t.Fatal("ExtractTable() = nil, want table")
	}
	if !reflect.DeepEqual(table.Columns, []string{"value", "value"}) {
		t.Errorf("Columns = %v, want duplicate preserved", table.Columns)
	}
	if len(table.Rows[0]) != 1 {
		t.Errorf("row has %d keys, want 1 (map collapses duplicates)", len(table.Rows[0]))
	}
}

func TestExtractTableUnnamedField(t *testing.T) {
	result := &geminidataanalyticspb.DataResult{
		Schema: &geminidataanalyticspb.Schema{
			Fields: []*geminidataanalyticspb.Field{
				{Name: "region"},
				{Type: "STRING"},
			},
		},
		Data: []*structpb.Struct{},
	}

	table := chat.ExtractTable(result)
	if table == nil {
		t.Fatal("ExtractTable() = nil, want table")
	}
	if len(table.Columns) != 2 {
		t.Fatalf("len(Columns) = %d, want 2", len(table.Columns))
	}
	if table.Columns[1] == "" {
		t.Error("unnamed field should fall back to its string form, got empty")
	}
}
