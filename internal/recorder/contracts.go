package recorder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/pdf-analyst/internal/common"
)

// Row is one analysis result as written to the spreadsheet.
type Row struct {
	DocumentName string
	Result       string
}

// Values returns the cells in column order.
func (r Row) Values() []any {
	return []any{r.DocumentName, r.Result}
}

// Receipt describes where a row landed.
type Receipt struct {
	SpreadsheetID   string
	SpreadsheetName string
	SheetTitle      string
	Created         bool
	UpdatedRange    string
}

// Recorder appends rows to a named spreadsheet, creating it when missing.
// Rows are never deduplicated.
type Recorder interface {
	Record(ctx context.Context, spreadsheetName string, row Row) (Receipt, error)
}

// New builds the recorder selected by cfg.Backend.
func New(cfg common.RecorderConfig, logger *slog.Logger) (Recorder, error) {
	switch cfg.Backend {
	case common.RecorderSheets, "":
		return NewSheetsRecorder(ServiceAccountConnector(cfg.CredentialsFile), logger), nil
	case common.RecorderWorkbook:
		return NewWorkbookRecorder(cfg.WorkbookDir, logger), nil
	default:
		return nil, common.NewConfigurationError(fmt.Sprintf("unknown recorder backend %q", cfg.Backend), nil)
	}
}
