package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/joseph-ayodele/pdf-analyst/internal/common"
)

// fakeGoogle serves the handful of Drive and Sheets endpoints the recorder uses.
type fakeGoogle struct {
	mu          sync.Mutex
	existing    map[string]string // title -> id
	titles      map[string]string // id -> first sheet title
	appended    map[string][][]any
	queries     []string
	creates     int
	appendRange string
	appendOpts  [2]string
	failAppend  int
}

func newFakeGoogle() *fakeGoogle {
	return &fakeGoogle{
		existing: map[string]string{},
		titles:   map[string]string{},
		appended: map[string][][]any{},
	}
}

func (g *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/drive/v3/files":
		q := r.URL.Query().Get("q")
		g.queries = append(g.queries, q)
		files := []map[string]string{}
		for title, id := range g.existing {
			if strings.Contains(q, "name = '"+escapeQuery(title)+"'") {
				files = append(files, map[string]string{"id": id, "name": title})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"files": files})

	case r.Method == http.MethodPost && r.URL.Path == "/v4/spreadsheets":
		var body struct {
			Properties struct{ Title string } `json:"properties"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.creates++
		id := "created-" + body.Properties.Title
		g.existing[body.Properties.Title] = id
		g.titles[id] = "Sheet1"
		_ = json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": id,
			"properties":    map[string]any{"title": body.Properties.Title},
			"sheets":        []any{map[string]any{"properties": map[string]any{"sheetId": 0, "title": "Sheet1"}}},
		})

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		if g.failAppend != 0 {
			w.WriteHeader(g.failAppend)
			_, _ = io.WriteString(w, `{"error":{"message":"`+http.StatusText(g.failAppend)+`"}}`)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
		id, rng, _ := strings.Cut(rest, "/values/")
		g.appendRange = strings.TrimSuffix(rng, ":append")
		g.appendOpts = [2]string{r.URL.Query().Get("valueInputOption"), r.URL.Query().Get("insertDataOption")}
		var vr struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&vr)
		g.appended[id] = append(g.appended[id], vr.Values...)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": id,
			"updates":       map[string]any{"updatedRange": g.appendRange},
		})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/"):
		id := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
		title, ok := g.titles[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":404,"message":"not found"}}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": id,
			"sheets":        []any{map[string]any{"properties": map[string]any{"sheetId": 0, "title": title}}},
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func connectorFor(t *testing.T, g *fakeGoogle) Connector {
	t.Helper()
	srv := httptest.NewServer(g)
	t.Cleanup(srv.Close)
	return func(ctx context.Context) (*Services, error) {
		sh, err := NewServices(ctx, option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/"))
		if err != nil {
			return nil, err
		}
		dr, err := NewServices(ctx, option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/drive/v3/"))
		if err != nil {
			return nil, err
		}
		return &Services{Sheets: sh.Sheets, Drive: dr.Drive}, nil
	}
}

func TestSheetsRecorder_AppendsToExistingSpreadsheet(t *testing.T) {
	g := newFakeGoogle()
	g.existing["PDF Analysis"] = "ss-1"
	g.titles["ss-1"] = "Página1"
	rec := NewSheetsRecorder(connectorFor(t, g), nil)

	receipt, err := rec.Record(context.Background(), "PDF Analysis", Row{DocumentName: "a.pdf", Result: "Summary A"})

	require.NoError(t, err)
	assert.Equal(t, "ss-1", receipt.SpreadsheetID)
	assert.Equal(t, "Página1", receipt.SheetTitle)
	assert.False(t, receipt.Created)
	assert.Equal(t, 0, g.creates)
	assert.Equal(t, "'Página1'!A1", g.appendRange)
	assert.Equal(t, [2]string{"RAW", "INSERT_ROWS"}, g.appendOpts)
	assert.Equal(t, [][]any{{"a.pdf", "Summary A"}}, g.appended["ss-1"])
	require.Len(t, g.queries, 1)
	assert.Contains(t, g.queries[0], "mimeType = 'application/vnd.google-apps.spreadsheet'")
	assert.Contains(t, g.queries[0], "trashed = false")
}

func TestSheetsRecorder_CreatesMissingSpreadsheetOnce(t *testing.T) {
	g := newFakeGoogle()
	rec := NewSheetsRecorder(connectorFor(t, g), nil)

	first, err := rec.Record(context.Background(), "Reports", Row{DocumentName: "a.pdf", Result: "one"})
	require.NoError(t, err)
	second, err := rec.Record(context.Background(), "Reports", Row{DocumentName: "a.pdf", Result: "one"})
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.SpreadsheetID, second.SpreadsheetID)
	assert.Equal(t, 1, g.creates)
	assert.Equal(t, [][]any{{"a.pdf", "one"}, {"a.pdf", "one"}}, g.appended[first.SpreadsheetID], "duplicates are kept")
}

func TestSheetsRecorder_NameWithQuote(t *testing.T) {
	g := newFakeGoogle()
	g.existing["Bob's files"] = "ss-q"
	g.titles["ss-q"] = "Sheet1"
	rec := NewSheetsRecorder(connectorFor(t, g), nil)

	receipt, err := rec.Record(context.Background(), "Bob's files", Row{DocumentName: "x.pdf", Result: "r"})

	require.NoError(t, err)
	assert.Equal(t, "ss-q", receipt.SpreadsheetID)
	assert.Contains(t, g.queries[0], `name = 'Bob\'s files'`)
}

func TestSheetsRecorder_AppendFailure(t *testing.T) {
	g := newFakeGoogle()
	g.failAppend = http.StatusForbidden
	rec := NewSheetsRecorder(connectorFor(t, g), nil)

	_, err := rec.Record(context.Background(), "Reports", Row{DocumentName: "a.pdf", Result: "one"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRecording))
}

func TestSheetsRecorder_UnauthorizedIsAuthenticationError(t *testing.T) {
	g := newFakeGoogle()
	g.failAppend = http.StatusUnauthorized
	rec := NewSheetsRecorder(connectorFor(t, g), nil)

	_, err := rec.Record(context.Background(), "Reports", Row{DocumentName: "a.pdf", Result: "one"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAuthentication))
}

func TestServiceAccountConnector_MissingFile(t *testing.T) {
	rec := NewSheetsRecorder(ServiceAccountConnector(filepath.Join(t.TempDir(), "credentials.json")), nil)

	_, err := rec.Record(context.Background(), "Reports", Row{DocumentName: "a.pdf", Result: "one"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAuthentication))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestServiceAccountConnector_InvalidKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := ServiceAccountConnector(path)(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAuthentication))
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'Sheet1'", quoteSheet("Sheet1"))
	assert.Equal(t, "'Bob''s'", quoteSheet("Bob's"))
}
