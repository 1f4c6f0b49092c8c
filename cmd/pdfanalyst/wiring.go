package main

import (
	"log/slog"

	"github.com/joseph-ayodele/pdf-analyst/internal/common"
	"github.com/joseph-ayodele/pdf-analyst/internal/extract"
	"github.com/joseph-ayodele/pdf-analyst/internal/llm/openai"
	"github.com/joseph-ayodele/pdf-analyst/internal/recorder"
	"github.com/joseph-ayodele/pdf-analyst/internal/session"
)

// newController wires the extractor, completion client and recorder.
func newController(cfg *common.Config, logger *slog.Logger) (*session.Controller, error) {
	rec, err := recorder.New(cfg.Recorder, logger)
	if err != nil {
		return nil, err
	}
	client := openai.NewClient(openai.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)

	return session.NewController(session.Deps{
		Extractor: extract.NewPDFExtractor(logger),
		Completer: client,
		Recorder:  rec,
		PageLimit: cfg.Extract.PageLimit,
	}, logger), nil
}

// initialInputs are the inputs of a fresh session.
func initialInputs(cfg *common.Config) session.Inputs {
	in := session.DefaultInputs()
	in.CredentialsRaw = cfg.LLM.APIKeys
	if cfg.UI.Prompt != "" {
		in.Prompt = cfg.UI.Prompt
	}
	if cfg.UI.SpreadsheetName != "" {
		in.SpreadsheetName = cfg.UI.SpreadsheetName
	}
	return in
}
