package output

import (
	"fmt"
	"strings"

	"github.com/rodaine/table"
	"github.com/segmentio/encoding/json"

	"github.com/lcalzada-xor/auditlens/pkg/models"
)

// FormatHistory renders history records as a table, or as a JSON array when
// format is json.
func FormatHistory(records []models.HistoryRecord, format string) string {
	if format == FormatJSON {
		if records == nil {
			records = []models.HistoryRecord{}
		}
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Sprintf("{\"error\":\"failed to marshal history: %v\"}", err)
		}
		return string(out)
	}

	if len(records) == 0 {
		return "No scans recorded yet.\n"
	}

	var sb strings.Builder
	tbl := table.New("#", "URL", "Score", "Grade", "Date").WithWriter(&sb)
	if format == FormatHuman {
		tbl.WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return titleStyle.Render(fmt.Sprintf(format, vals...))
		})
	}
	for i, r := range records {
		tbl.AddRow(i+1, r.URL, r.Score, r.Grade, formatDate(r.Date))
	}
	tbl.Print()
	return sb.String()
}
