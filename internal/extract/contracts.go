package extract

import (
	"context"
	"time"
)

// TextExtractor turns a PDF byte stream into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, opts Options) (Result, error)
}

// Options selects how much of the document is read.
type Options struct {
	FastMode  bool
	PageLimit int // used only when FastMode is set; <= 0 means the default (5)
}

type Result struct {
	Text       string
	Pages      int // pages actually read
	TotalPages int
	Duration   time.Duration
}
