package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/joseph-ayodele/pdf-analyst/internal/common"
)

// Scopes requested for the service account.
var Scopes = []string{sheets.SpreadsheetsScope, drive.DriveScope}

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Services bundles the two Google APIs the recorder talks to.
type Services struct {
	Sheets *sheets.Service
	Drive  *drive.Service
}

// Connector authenticates and returns ready API clients.
type Connector func(ctx context.Context) (*Services, error)

// ServiceAccountConnector reads a service-account JSON key from file on every
// call, so a replaced key file is picked up without a restart.
func ServiceAccountConnector(file string) Connector {
	return func(ctx context.Context) (*Services, error) {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, common.NewAuthenticationError(fmt.Sprintf("read service account key %s", file), err)
		}
		creds, err := google.CredentialsFromJSON(ctx, raw, Scopes...)
		if err != nil {
			return nil, common.NewAuthenticationError("parse service account key", err)
		}
		return NewServices(ctx, option.WithCredentials(creds))
	}
}

// NewServices builds both API clients with the same client options.
func NewServices(ctx context.Context, opts ...option.ClientOption) (*Services, error) {
	sh, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, common.NewAuthenticationError("create sheets client", err)
	}
	dr, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, common.NewAuthenticationError("create drive client", err)
	}
	return &Services{Sheets: sh, Drive: dr}, nil
}

// SheetsRecorder appends rows to Google Sheets spreadsheets found by title.
type SheetsRecorder struct {
	connect Connector
	logger  *slog.Logger
}

func NewSheetsRecorder(connect Connector, logger *slog.Logger) *SheetsRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetsRecorder{connect: connect, logger: logger}
}

var _ Recorder = (*SheetsRecorder)(nil)

func (r *SheetsRecorder) Record(ctx context.Context, spreadsheetName string, row Row) (Receipt, error) {
	start := time.Now()
	receipt := Receipt{SpreadsheetName: spreadsheetName}

	svc, err := r.connect(ctx)
	if err != nil {
		r.logger.Error("recorder.sheets.auth_failed", "error", err)
		return receipt, err
	}

	id, title, created, err := r.open(ctx, svc, spreadsheetName)
	if err != nil {
		return receipt, err
	}
	receipt.SpreadsheetID, receipt.SheetTitle, receipt.Created = id, title, created

	vr := &sheets.ValueRange{Values: [][]any{row.Values()}}
	resp, err := svc.Sheets.Spreadsheets.Values.
		Append(id, quoteSheet(title)+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		r.logger.Error("recorder.sheets.append_failed", "spreadsheet_id", id, "error", err)
		return receipt, classify("append row", err)
	}
	if resp.Updates != nil {
		receipt.UpdatedRange = resp.Updates.UpdatedRange
	}

	r.logger.Info("recorder.sheets.ok",
		"spreadsheet_id", id,
		"sheet", title,
		"created", created,
		"range", receipt.UpdatedRange,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return receipt, nil
}

// open finds the spreadsheet by exact title or creates it, and returns the
// title of its first sheet.
func (r *SheetsRecorder) open(ctx context.Context, svc *Services, name string) (id, title string, created bool, err error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), spreadsheetMimeType)
	list, err := svc.Drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		r.logger.Error("recorder.sheets.lookup_failed", "name", name, "error", err)
		return "", "", false, classify("look up spreadsheet", err)
	}

	if len(list.Files) > 0 {
		id = list.Files[0].Id
		ss, err := svc.Sheets.Spreadsheets.Get(id).Fields("sheets.properties").Context(ctx).Do()
		if err != nil {
			r.logger.Error("recorder.sheets.get_failed", "spreadsheet_id", id, "error", err)
			return "", "", false, classify("read spreadsheet", err)
		}
		title, err = firstSheetTitle(ss)
		return id, title, false, err
	}

	ss, err := svc.Sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: name},
	}).Context(ctx).Do()
	if err != nil {
		r.logger.Error("recorder.sheets.create_failed", "name", name, "error", err)
		return "", "", false, classify("create spreadsheet", err)
	}
	r.logger.Info("recorder.sheets.created", "name", name, "spreadsheet_id", ss.SpreadsheetId)
	title, err = firstSheetTitle(ss)
	return ss.SpreadsheetId, title, true, err
}

func firstSheetTitle(ss *sheets.Spreadsheet) (string, error) {
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", common.NewRecordingError("spreadsheet has no sheets", nil)
	}
	return ss.Sheets[0].Properties.Title, nil
}

// classify maps credential rejections to AuthenticationError and everything
// else to RecordingError.
func classify(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized {
		return common.NewAuthenticationError(op, err)
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return common.NewAuthenticationError(op, err)
	}
	return common.NewRecordingError(op, err)
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// quoteSheet quotes a sheet title for A1 notation.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
