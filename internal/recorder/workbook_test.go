package recorder

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/pdf-analyst/internal/common"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	return rows
}

func TestWorkbookRecorder_CreatesThenAppends(t *testing.T) {
	dir := t.TempDir()
	rec := NewWorkbookRecorder(dir, nil)

	first, err := rec.Record(context.Background(), "PDF Analysis", Row{DocumentName: "a.pdf", Result: "Summary A"})
	require.NoError(t, err)
	second, err := rec.Record(context.Background(), "PDF Analysis", Row{DocumentName: "b.pdf", Result: "Summary B"})
	require.NoError(t, err)
	_, err = rec.Record(context.Background(), "PDF Analysis", Row{DocumentName: "b.pdf", Result: "Summary B"})
	require.NoError(t, err)

	path := filepath.Join(dir, "PDF Analysis.xlsx")
	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, path, first.SpreadsheetID)
	assert.Equal(t, "Sheet1!A2:B2", second.UpdatedRange)
	assert.Equal(t, [][]string{
		{"a.pdf", "Summary A"},
		{"b.pdf", "Summary B"},
		{"b.pdf", "Summary B"},
	}, readRows(t, path))
}

func TestWorkbookRecorder_SeparateNamesSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	rec := NewWorkbookRecorder(dir, slog.Default())

	_, err := rec.Record(context.Background(), "one", Row{DocumentName: "a.pdf", Result: "r1"})
	require.NoError(t, err)
	_, err = rec.Record(context.Background(), "two", Row{DocumentName: "b.pdf", Result: "r2"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"a.pdf", "r1"}}, readRows(t, filepath.Join(dir, "one.xlsx")))
	assert.Equal(t, [][]string{{"b.pdf", "r2"}}, readRows(t, filepath.Join(dir, "two.xlsx")))
}

func TestWorkbookRecorder_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWorkbookRecorder(t.TempDir(), nil).Record(ctx, "x", Row{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRecording))
}

func TestWorkbookFileName(t *testing.T) {
	tests := map[string]string{
		"PDF Analysis": "PDF Analysis.xlsx",
		"a/b\\c":       "a_b_c.xlsx",
		"  ..  ":       "spreadsheet.xlsx",
		"":             "spreadsheet.xlsx",
		"Q3: results?": "Q3_ results_.xlsx",
		"../escape":    "_escape.xlsx",
	}
	for in, want := range tests {
		assert.Equal(t, want, workbookFileName(in), in)
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	r, err := New(common.RecorderConfig{Backend: common.RecorderWorkbook, WorkbookDir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &WorkbookRecorder{}, r)

	r, err = New(common.RecorderConfig{Backend: common.RecorderSheets, CredentialsFile: "credentials.json"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SheetsRecorder{}, r)

	_, err = New(common.RecorderConfig{Backend: "csv"}, nil)
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}
