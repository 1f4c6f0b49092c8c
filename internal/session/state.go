package session

import (
	"slices"

	"github.com/joseph-ayodele/pdf-analyst/constants"
	"github.com/joseph-ayodele/pdf-analyst/internal/recorder"
)

// Inputs are the values the user edits in the sidebar and main form.
type Inputs struct {
	CredentialsRaw     string
	SelectedCredential string
	FastMode           bool
	Prompt             string
	SpreadsheetName    string
}

// DefaultInputs returns the inputs of a fresh session.
func DefaultInputs() Inputs {
	return Inputs{
		FastMode:        true,
		Prompt:          constants.DefaultPrompt,
		SpreadsheetName: constants.DefaultSpreadsheetName,
	}
}

// Document is one uploaded PDF and everything derived from it.
type Document struct {
	ID         string
	Name       string
	Data       []byte // never modified after upload
	Text       string
	Preview    string
	Pages      int
	TotalPages int
	FastRead   bool // reading mode of the last extraction
	Result     string
	Stage      constants.Stage
	Message    string // last failure, empty when the stage succeeded
	SavedRange string
}

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a page-level message shown above the documents.
type Notice struct {
	Level NoticeLevel
	Text  string
}

func (n Notice) IsZero() bool { return n.Text == "" }

// State is everything rendered for one session. Values are treated as
// immutable: Dispatch always returns a fresh copy.
type State struct {
	Inputs    Inputs
	Documents []Document
	Notice    Notice
	Busy      Action // set by the store while an action runs
}

// Clone returns a copy that shares no mutable slices with s. Document data
// bytes are shared since nothing writes to them.
func (s State) Clone() State {
	s.Documents = slices.Clone(s.Documents)
	return s
}

// Credentials returns the parsed key list.
func (s State) Credentials() []string {
	return ParseCredentials(s.Inputs.CredentialsRaw)
}

// HasCredentials reports whether at least one key was entered.
func (s State) HasCredentials() bool {
	return len(s.Credentials()) > 0
}

// ActiveCredential is the key used for completion calls.
func (s State) ActiveCredential() string {
	return SelectCredential(s.Credentials(), s.Inputs.SelectedCredential)
}

// Document looks up a document by id.
func (s State) Document(id string) (Document, int, bool) {
	for i, d := range s.Documents {
		if d.ID == id {
			return d, i, true
		}
	}
	return Document{}, -1, false
}

// Results returns a row per document that has a result, in upload order.
func (s State) Results() []recorder.Row {
	var rows []recorder.Row
	for _, d := range s.Documents {
		if d.Stage.HasResult() {
			rows = append(rows, recorder.Row{DocumentName: d.Name, Result: d.Result})
		}
	}
	return rows
}
