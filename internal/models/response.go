package models

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NormalizedTable is the uniform column/row shape produced by table
// extraction. Every row map contains exactly the keys in Columns; values
// absent from the source are nil. Column names are kept as declared, even
// when duplicated; row maps are last-write-wins in that case.
type NormalizedTable struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// TableMetadata describes a formatted table for rendering.
type TableMetadata struct {
	TotalRows    int               `json:"total_rows"`
	TotalColumns int               `json:"total_columns"`
	Truncated    bool              `json:"truncated"`
	DisplayRows  []map[string]any  `json:"display_rows"`
	ColumnTypes  map[string]string `json:"column_types"`
}

// FormattedTable is a NormalizedTable with display formatting applied to
// numeric cells and rendering metadata attached.
type FormattedTable struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	Metadata TableMetadata    `json:"metadata"`
}

// ChatResponse is the accumulated result of one streamed chat call.
type ChatResponse struct {
	Text       string            `json:"text"`
	Tables     []*FormattedTable `json:"tables"`
	SQLQueries []string          `json:"sql_queries"`
}

// ChatEnvelope wraps a successful POST /api/chat result.
type ChatEnvelope struct {
	Success  bool          `json:"success"`
	Response *ChatResponse `json:"response"`
}

// ActiveConfig echoes the configuration in effect after /api/initialize.
type ActiveConfig struct {
	ProjectID string `json:"project_id"`
	Location  string `json:"location"`
	DatasetID string `json:"dataset_id"`
	TableID   string `json:"table_id"`
}

// InitializeResponse is returned by POST /api/initialize on success.
type InitializeResponse struct {
	Success         bool         `json:"success"`
	AgentName       string       `json:"agent_name"`
	Message         string       `json:"message"`
	AvailableTables []string     `json:"available_tables,omitempty"`
	Config          ActiveConfig `json:"config"`
}
