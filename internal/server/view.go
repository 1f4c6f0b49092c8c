package server

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/joseph-ayodele/pdf-analyst/constants"
	"github.com/joseph-ayodele/pdf-analyst/internal/session"
)

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Info is static deployment detail shown on the page.
type Info struct {
	Model     string
	Backend   string
	PageLimit int
	Version   string
}

type credentialOption struct {
	Value    string
	Label    string
	Selected bool
}

type documentView struct {
	ID         string
	Name       string
	Stage      string
	StageLabel string
	Failed     bool
	Preview    string
	Pages      int
	TotalPages int
	Result     string
	ResultHTML template.HTML
	Message    string
	SavedRange string
	CanProcess bool
	CanSave    bool
	Reprocess  bool
}

type pageView struct {
	CSRFToken      string
	Info           Info
	Inputs         session.Inputs
	Credentials    []credentialOption
	HasCredentials bool
	Notice         session.Notice
	Busy           string
	Documents      []documentView
	HasResults     bool
}

var stageLabels = map[constants.Stage]string{
	constants.StageUploaded:      "Uploaded",
	constants.StageTextReady:     "Text ready",
	constants.StageExtractFailed: "Extraction failed",
	constants.StageResultReady:   "Result ready",
	constants.StageProcessFailed: "Analysis failed",
	constants.StageSaved:         "Saved",
	constants.StageSaveFailed:    "Save failed",
}

var busyLabels = map[session.Action]string{
	session.ActionUpload:    "Reading uploaded PDFs…",
	session.ActionProcess:   "Analyzing with the model…",
	session.ActionSave:      "Saving to spreadsheet…",
	session.ActionConfigure: "Applying settings…",
}

func buildPageView(st session.State, info Info, csrf string) pageView {
	keys := st.Credentials()
	active := st.ActiveCredential()
	opts := make([]credentialOption, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, credentialOption{Value: k, Label: session.MaskCredential(k), Selected: k == active})
	}

	docs := make([]documentView, 0, len(st.Documents))
	for _, d := range st.Documents {
		docs = append(docs, documentView{
			ID:         d.ID,
			Name:       d.Name,
			Stage:      string(d.Stage),
			StageLabel: stageLabels[d.Stage],
			Failed:     d.Message != "",
			Preview:    d.Preview,
			Pages:      d.Pages,
			TotalPages: d.TotalPages,
			Result:     d.Result,
			ResultHTML: RenderMarkdown(d.Result),
			Message:    d.Message,
			SavedRange: d.SavedRange,
			CanProcess: d.Stage.HasText(),
			CanSave:    d.Stage.HasResult(),
			Reprocess:  d.Stage != constants.StageTextReady,
		})
	}

	return pageView{
		CSRFToken:      csrf,
		Info:           info,
		Inputs:         st.Inputs,
		Credentials:    opts,
		HasCredentials: len(keys) > 0,
		Notice:         st.Notice,
		Busy:           busyLabels[st.Busy],
		Documents:      docs,
		HasResults:     len(st.Results()) > 0,
	}
}

// pageComponent adapts the html/template page to a templ.Component.
func pageComponent(v pageView) templ.Component {
	return templ.FromGoHTML(pageTemplate, v)
}

func renderPage(ctx context.Context, w io.Writer, v pageView) error {
	return pageComponent(v).Render(ctx, w)
}
