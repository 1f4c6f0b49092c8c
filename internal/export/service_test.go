package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/pdf-analyst/internal/recorder"
)

func openRows(t *testing.T, data []byte) (string, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetList()[0]
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return sheet, rows
}

func TestExportResultsXLSX(t *testing.T) {
	svc := NewService(nil)

	data, err := svc.ExportResultsXLSX(context.Background(), []recorder.Row{
		{DocumentName: "a.pdf", Result: "Summary:\n- one"},
		{DocumentName: "b.pdf", Result: "Summary B"},
	})

	require.NoError(t, err)
	sheet, rows := openRows(t, data)
	assert.Equal(t, SheetName, sheet)
	assert.Equal(t, [][]string{
		{"Document", "Result"},
		{"a.pdf", "Summary:\n- one"},
		{"b.pdf", "Summary B"},
	}, rows)
}

func TestExportResultsXLSX_Empty(t *testing.T) {
	data, err := NewService(nil).ExportResultsXLSX(context.Background(), nil)

	require.NoError(t, err)
	_, rows := openRows(t, data)
	assert.Equal(t, [][]string{{"Document", "Result"}}, rows)
}

func TestExportResultsXLSX_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(nil).ExportResultsXLSX(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
