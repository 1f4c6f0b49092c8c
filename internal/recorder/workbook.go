package recorder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/pdf-analyst/internal/common"
)

// WorkbookRecorder appends rows to local .xlsx files, one per spreadsheet
// name, inside dir.
type WorkbookRecorder struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewWorkbookRecorder(dir string, logger *slog.Logger) *WorkbookRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "."
	}
	return &WorkbookRecorder{dir: dir, logger: logger}
}

var _ Recorder = (*WorkbookRecorder)(nil)

// Path returns the workbook file used for spreadsheetName.
func (w *WorkbookRecorder) Path(spreadsheetName string) string {
	return filepath.Join(w.dir, workbookFileName(spreadsheetName))
}

func (w *WorkbookRecorder) Record(ctx context.Context, spreadsheetName string, row Row) (Receipt, error) {
	start := time.Now()
	path := w.Path(spreadsheetName)
	receipt := Receipt{SpreadsheetID: path, SpreadsheetName: spreadsheetName}

	if err := ctx.Err(); err != nil {
		return receipt, common.NewRecordingError("record row", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, created, err := openOrCreate(path)
	if err != nil {
		w.logger.Error("recorder.workbook.open_failed", "path", path, "error", err)
		return receipt, common.NewRecordingError("open workbook", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			w.logger.Warn("recorder.workbook.close_error", "path", path, "error", err)
		}
	}()

	sheet := f.GetSheetList()[0]
	rows, err := f.GetRows(sheet)
	if err != nil {
		return receipt, common.NewRecordingError("read workbook rows", err)
	}
	next := len(rows) + 1
	cell, _ := excelize.CoordinatesToCellName(1, next)
	values := row.Values()
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return receipt, common.NewRecordingError("write row", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return receipt, common.NewRecordingError("create workbook dir", err)
	}
	if err := f.SaveAs(path); err != nil {
		w.logger.Error("recorder.workbook.save_failed", "path", path, "error", err)
		return receipt, common.NewRecordingError("save workbook", err)
	}

	last, _ := excelize.CoordinatesToCellName(len(values), next)
	receipt.SheetTitle = sheet
	receipt.Created = created
	receipt.UpdatedRange = fmt.Sprintf("%s!%s:%s", sheet, cell, last)

	w.logger.Info("recorder.workbook.ok",
		"path", path,
		"row", next,
		"created", created,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return receipt, nil
}

func openOrCreate(path string) (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, err
}

// workbookFileName turns a spreadsheet title into a safe file name.
func workbookFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "spreadsheet"
	}
	return name + ".xlsx"
}
