package chat

import (
	"math"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/datatalk/datatalk/internal/models"
)

// Column types reported in table metadata.
const (
	ColumnNumeric = "numeric"
	ColumnText    = "text"
)

// maxDisplayRows caps the preview rows attached to table metadata.
const maxDisplayRows = 100

// integralFloat bounds the range in which a float can safely be rendered as
// a grouped integer. Beyond it the int64 conversion would corrupt the value.
const integralFloat = float64(1 << 53)

// FormatTable applies display formatting to a normalized table and attaches
// rendering metadata. A column is numeric when any row carries a non-nil
// int or float in it; numeric cells are rendered with thousands separators,
// and floats that are mathematically integral lose their decimal point.
// The input table is never mutated; formatting works on a copy.
func FormatTable(t *models.NormalizedTable) *models.FormattedTable {
	if t == nil {
		return nil
	}

	columnTypes := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		columnTypes[col] = ColumnText
		for _, row := range t.Rows {
			if isNumeric(row[col]) {
				columnTypes[col] = ColumnNumeric
				break
			}
		}
	}

	formatted := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		cp := make(map[string]any, len(row))
		for k, v := range row {
			cp[k] = v
		}
		formatted[i] = cp
	}

	for _, row := range formatted {
		for _, col := range t.Columns {
			if columnTypes[col] != ColumnNumeric || row[col] == nil {
				continue
			}
			row[col] = formatNumber(row[col])
		}
	}

	display := formatted
	if len(display) > maxDisplayRows {
		display = display[:maxDisplayRows]
	}

	return &models.FormattedTable{
		Columns: slices.Clone(t.Columns),
		Rows:    formatted,
		Metadata: models.TableMetadata{
			TotalRows:    len(t.Rows),
			TotalColumns: len(t.Columns),
			Truncated:    len(t.Rows) > maxDisplayRows,
			DisplayRows:  display,
			ColumnTypes:  columnTypes,
		},
	}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	default:
		return false
	}
}

// formatNumber renders a numeric cell for display. Non-numeric values pass
// through unchanged so formatting can never lose data.
func formatNumber(v any) any {
	switch n := v.(type) {
	case int:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < integralFloat {
			return humanize.Comma(int64(n))
		}
		return humanize.FormatFloat("#,###.##", n)
	default:
		return v
	}
}
