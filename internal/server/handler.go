// Package server is the web surface: one HTML page per session plus the
// form endpoints that drive the session controller.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-analyst/constants"
	"github.com/joseph-ayodele/pdf-analyst/internal/common"
	"github.com/joseph-ayodele/pdf-analyst/internal/export"
	"github.com/joseph-ayodele/pdf-analyst/internal/session"
)

const (
	sessionCookieName = "pdfanalyst_session"
	maxUploadBytes    = 200 << 20
	multipartMemory   = 32 << 20
)

// Handler serves the page and applies form posts to the caller's session.
type Handler struct {
	store    *MemoryStore
	ctrl     *session.Controller
	exporter *export.Service
	info     Info
	csrf     *csrfSigner
	logger   *slog.Logger
}

func NewHandler(store *MemoryStore, ctrl *session.Controller, exporter *export.Service, info Info, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, ctrl: ctrl, exporter: exporter, info: info, csrf: newCSRFSigner(), logger: logger}
}

// sessionID returns the caller's session id, issuing a cookie when missing.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Page renders the session page.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	token := h.csrf.Token(sid)
	st := h.store.Get(sid)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := renderPage(r.Context(), w, buildPageView(st, h.info, token)); err != nil {
		h.logger.Error("server.render_failed", "req_id", common.RequestIDFromContext(r.Context()), "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// eventBuilder turns a parsed form post into a controller event.
type eventBuilder func(r *http.Request) (session.Event, error)

// dispatch validates the post, applies the event and redirects back to the page.
func (h *Handler) dispatch(action session.Action, build eventBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r); err != nil {
			h.logger.Warn("server.form_invalid", "action", string(action), "error", err)
			http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
			return
		}
		if r.MultipartForm != nil {
			defer func() { _ = r.MultipartForm.RemoveAll() }()
		}
		sid := h.sessionID(w, r)
		if !h.csrf.Verify(r, sid) {
			h.logger.Warn("server.csrf_rejected", "action", string(action), "req_id", common.RequestIDFromContext(r.Context()))
			http.Error(w, "invalid CSRF token", http.StatusForbidden)
			return
		}

		ev, err := build(r)
		if err != nil {
			h.logger.Warn("server.event_invalid", "action", string(action), "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ev.Action = action

		ctx := common.WithSessionID(r.Context(), sid)
		h.store.Update(sid, action, func(st session.State) session.State {
			return h.ctrl.Dispatch(ctx, st, ev)
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}

// Settings applies the sidebar and instruction inputs.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	h.dispatch(session.ActionConfigure, func(r *http.Request) (session.Event, error) {
		return session.Event{Inputs: session.Inputs{
			CredentialsRaw:     r.PostFormValue("credentials"),
			SelectedCredential: r.PostFormValue("credential"),
			FastMode:           r.PostFormValue("fast_mode") != "",
			Prompt:             r.PostFormValue("prompt"),
			SpreadsheetName:    r.PostFormValue("spreadsheet_name"),
		}}, nil
	})(w, r)
}

// Upload reads every file of the "files" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	h.dispatch(session.ActionUpload, func(r *http.Request) (session.Event, error) {
		var ev session.Event
		if r.MultipartForm == nil {
			return ev, fmt.Errorf("expected multipart form")
		}
		for _, fh := range r.MultipartForm.File["files"] {
			ev.Uploads = append(ev.Uploads, readUpload(fh.Filename, func() (io.ReadCloser, error) { return fh.Open() }))
		}
		return ev, nil
	})(w, r)
}

// readUpload loads one file part. A failure stays with that file so the
// rest of the upload still goes through.
func readUpload(name string, open func() (io.ReadCloser, error)) session.Upload {
	u := session.Upload{Name: name}
	f, err := open()
	if err != nil {
		u.Err = fmt.Errorf("open %s: %w", name, err)
		return u
	}
	defer f.Close()
	if u.Data, err = io.ReadAll(f); err != nil {
		u.Data, u.Err = nil, fmt.Errorf("read %s: %w", name, err)
	}
	return u
}

// DocumentAction handles process, save and remove for the {id} path value.
func (h *Handler) DocumentAction(action session.Action) http.HandlerFunc {
	return h.dispatch(action, func(r *http.Request) (session.Event, error) {
		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			return session.Event{}, fmt.Errorf("document id is required")
		}
		return session.Event{DocumentID: id}, nil
	})
}

// Reset clears the session's documents.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.dispatch(session.ActionReset, func(*http.Request) (session.Event, error) {
		return session.Event{}, nil
	})(w, r)
}

// Export streams the session's results as an XLSX workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	st := h.store.Get(sid)

	data, err := h.exporter.ExportResultsXLSX(r.Context(), st.Results())
	if err != nil {
		h.logger.Error("server.export_failed", "req_id", common.RequestIDFromContext(r.Context()), "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	name := strings.TrimSpace(st.Inputs.SpreadsheetName)
	if name == "" {
		name = constants.DefaultSpreadsheetName
	}
	w.Header().Set("Content-Type", constants.XLSXContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name + ".xlsx"}))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("server.export_write_failed", "error", err)
	}
}

// Health reports liveness as JSON.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
