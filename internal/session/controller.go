package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-analyst/constants"
	"github.com/joseph-ayodele/pdf-analyst/internal/common"
	"github.com/joseph-ayodele/pdf-analyst/internal/extract"
	"github.com/joseph-ayodele/pdf-analyst/internal/llm"
	"github.com/joseph-ayodele/pdf-analyst/internal/recorder"
)

// Action names a user interaction.
type Action string

const (
	ActionConfigure Action = "configure"
	ActionUpload    Action = "upload"
	ActionProcess   Action = "process"
	ActionSave      Action = "save"
	ActionRemove    Action = "remove"
	ActionReset     Action = "reset"
)

// Upload is one file received from the uploader.
type Upload struct {
	Name string
	Data []byte
	Err  error // set when the uploaded file could not be read
}

// Event is one dispatched interaction. Only the fields relevant to Action
// are read.
type Event struct {
	Action     Action
	Inputs     Inputs   // configure
	Uploads    []Upload // upload
	DocumentID string   // process, save, remove
}

type handler func(ctx context.Context, st State, ev Event) State

// Controller applies events to session state. It holds no state itself and
// is safe for concurrent use.
type Controller struct {
	extractor extract.TextExtractor
	completer llm.Completer
	recorder  recorder.Recorder
	pageLimit int
	logger    *slog.Logger
	newID     func() string
	handlers  map[Action]handler
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Extractor extract.TextExtractor
	Completer llm.Completer
	Recorder  recorder.Recorder
	PageLimit int
}

func NewController(deps Deps, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		extractor: deps.Extractor,
		completer: deps.Completer,
		recorder:  deps.Recorder,
		pageLimit: deps.PageLimit,
		logger:    logger,
		newID:     uuid.NewString,
	}
	c.handlers = map[Action]handler{
		ActionConfigure: c.configure,
		ActionUpload:    c.upload,
		ActionProcess:   c.process,
		ActionSave:      c.save,
		ActionRemove:    c.remove,
		ActionReset:     c.reset,
	}
	return c
}

// NewState returns an empty session with the given inputs.
func (c *Controller) NewState(inputs Inputs) State {
	return State{Inputs: inputs}
}

// needsCredentials lists the actions refused while no API key is entered.
func needsCredentials(a Action) bool {
	switch a {
	case ActionConfigure, ActionReset, ActionRemove:
		return false
	}
	return true
}

// Dispatch applies ev to a copy of st and returns the copy. st itself is
// never modified.
func (c *Controller) Dispatch(ctx context.Context, st State, ev Event) State {
	start := time.Now()
	next := st.Clone()
	next.Notice = Notice{}
	next.Busy = ""

	log := c.logger.With("action", string(ev.Action), "session_id", common.SessionIDFromContext(ctx))

	h, ok := c.handlers[ev.Action]
	if !ok {
		log.Warn("session.dispatch.unknown_action")
		next.Notice = errorNotice(common.NewConfigurationError(fmt.Sprintf("unknown action %q", ev.Action), nil))
		return next
	}
	if needsCredentials(ev.Action) && !next.HasCredentials() {
		log.Info("session.dispatch.no_credentials")
		next.Notice = errorNotice(common.NewConfigurationError("enter at least one OpenAI API key to continue", nil))
		return next
	}

	next = h(ctx, next, ev)
	log.Info("session.dispatch.ok",
		"documents", len(next.Documents),
		"notice", next.Notice.Text,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return next
}

func errorNotice(err error) Notice {
	return Notice{Level: NoticeError, Text: common.UserMessage(err)}
}

func (c *Controller) configure(ctx context.Context, st State, ev Event) State {
	st.Inputs = ev.Inputs
	if !st.HasCredentials() {
		return st
	}
	reread := 0
	for i, doc := range st.Documents {
		if doc.FastRead == st.Inputs.FastMode {
			continue
		}
		st.Documents[i] = c.extractDocument(ctx, doc, st.Inputs.FastMode)
		reread++
	}
	if reread > 0 {
		st.Notice = Notice{Level: NoticeInfo, Text: fmt.Sprintf("Reading mode changed: %d document(s) re-read.", reread)}
	}
	return st
}

func (c *Controller) upload(ctx context.Context, st State, ev Event) State {
	if len(ev.Uploads) == 0 {
		st.Notice = Notice{Level: NoticeInfo, Text: "No files selected."}
		return st
	}
	var skipped []string
	for _, u := range ev.Uploads {
		if !constants.IsAllowedFile(u.Name) {
			skipped = append(skipped, u.Name)
			continue
		}
		doc := Document{
			ID:    c.newID(),
			Name:  u.Name,
			Data:  u.Data,
			Stage: constants.StageUploaded,
		}
		if u.Err != nil {
			c.logger.Warn("session.upload.unreadable", "document", u.Name, "error", u.Err)
			doc.Stage = constants.StageExtractFailed
			doc.FastRead = st.Inputs.FastMode
			doc.Message = common.UserMessage(common.NewExtractionError("the uploaded file could not be read", u.Err))
			st.Documents = append(st.Documents, doc)
			continue
		}
		st.Documents = append(st.Documents, c.extractDocument(ctx, doc, st.Inputs.FastMode))
	}
	if len(skipped) > 0 {
		st.Notice = errorNotice(common.NewConfigurationError("only PDF files are accepted, skipped "+strings.Join(skipped, ", "), nil))
	}
	return st
}

// extractDocument (re)reads doc's text and drops anything derived from an
// earlier read.
func (c *Controller) extractDocument(ctx context.Context, doc Document, fast bool) Document {
	doc.Text, doc.Preview, doc.Result, doc.Message, doc.SavedRange = "", "", "", "", ""
	doc.Pages, doc.TotalPages = 0, 0
	doc.FastRead = fast

	res, err := c.extractor.Extract(ctx, doc.Data, extract.Options{FastMode: fast, PageLimit: c.pageLimit})
	if err == nil && strings.TrimSpace(res.Text) == "" {
		err = common.NewExtractionError("no text could be extracted", nil)
	}
	if err != nil {
		c.logger.Warn("session.extract.failed", "document", doc.Name, "error", err)
		doc.Stage = constants.StageExtractFailed
		doc.Message = common.UserMessage(err)
		doc.TotalPages = res.TotalPages
		return doc
	}
	doc.Text = res.Text
	doc.Preview = Preview(res.Text)
	doc.Pages, doc.TotalPages = res.Pages, res.TotalPages
	doc.Stage = constants.StageTextReady
	return doc
}

// Preview returns the first PreviewRunes runes of text.
func Preview(text string) string {
	n := 0
	for i := range text {
		if n == constants.PreviewRunes {
			return text[:i]
		}
		n++
	}
	return text
}

func (c *Controller) process(ctx context.Context, st State, ev Event) State {
	doc, i, ok := st.Document(ev.DocumentID)
	if !ok {
		st.Notice = Notice{Level: NoticeError, Text: "Document not found."}
		return st
	}
	if !doc.Stage.HasText() {
		st.Notice = Notice{Level: NoticeError, Text: fmt.Sprintf("%s has no extracted text to analyze.", doc.Name)}
		return st
	}

	out, err := c.completer.Complete(ctx, llm.CompletionRequest{
		APIKey:      st.ActiveCredential(),
		SourceText:  doc.Text,
		Instruction: st.Inputs.Prompt,
	})
	if err == nil && strings.TrimSpace(out) == "" {
		err = common.NewRequestError("the model returned an empty response", nil)
	}
	doc.SavedRange = ""
	if err != nil {
		c.logger.Warn("session.process.failed", "document", doc.Name, "error", err)
		doc.Stage = constants.StageProcessFailed
		doc.Result = ""
		doc.Message = common.UserMessage(err)
	} else {
		doc.Stage = constants.StageResultReady
		doc.Result = out
		doc.Message = ""
	}
	st.Documents[i] = doc
	return st
}

func (c *Controller) save(ctx context.Context, st State, ev Event) State {
	doc, i, ok := st.Document(ev.DocumentID)
	if !ok {
		st.Notice = Notice{Level: NoticeError, Text: "Document not found."}
		return st
	}
	if !doc.Stage.HasResult() {
		st.Notice = Notice{Level: NoticeError, Text: fmt.Sprintf("%s has no result to save yet.", doc.Name)}
		return st
	}
	name := strings.TrimSpace(st.Inputs.SpreadsheetName)
	if name == "" {
		st.Notice = errorNotice(common.NewConfigurationError("spreadsheet name is required", nil))
		return st
	}

	receipt, err := c.recorder.Record(ctx, name, recorder.Row{DocumentName: doc.Name, Result: doc.Result})
	if err != nil {
		c.logger.Warn("session.save.failed", "document", doc.Name, "spreadsheet", name, "error", err)
		doc.Stage = constants.StageSaveFailed
		doc.Message = common.UserMessage(err)
	} else {
		doc.Stage = constants.StageSaved
		doc.Message = ""
		doc.SavedRange = receipt.UpdatedRange
	}
	st.Documents[i] = doc
	return st
}

func (c *Controller) remove(_ context.Context, st State, ev Event) State {
	_, i, ok := st.Document(ev.DocumentID)
	if !ok {
		st.Notice = Notice{Level: NoticeError, Text: "Document not found."}
		return st
	}
	st.Documents = append(st.Documents[:i:i], st.Documents[i+1:]...)
	return st
}

func (c *Controller) reset(_ context.Context, st State, _ Event) State {
	return c.NewState(st.Inputs)
}
