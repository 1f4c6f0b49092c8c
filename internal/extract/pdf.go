package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/pdf-analyst/constants"
	"github.com/joseph-ayodele/pdf-analyst/internal/common"
)

// pageSource is the slice of a parsed PDF the extractor needs. Pages are 1-based.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

type PDFExtractor struct {
	open   func(data []byte) (pageSource, error)
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{open: openPDF, logger: logger}
}

// PagesToRead returns how many leading pages to read out of total.
func PagesToRead(total int, opts Options) int {
	if !opts.FastMode {
		return total
	}
	limit := opts.PageLimit
	if limit <= 0 {
		limit = constants.DefaultPageLimit
	}
	return min(limit, total)
}

// Extract reads the leading pages selected by opts and joins their text with
// a single space, in page order. Parser panics surface as extraction errors.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte, opts Options) (res Result, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extract.pdf.panic", "panic", r, "bytes", len(data))
			res = Result{}
			err = common.NewExtractionError("malformed PDF", fmt.Errorf("%v", r))
		}
	}()

	if len(data) == 0 {
		return Result{}, common.NewExtractionError("empty document", nil)
	}

	src, err := e.open(data)
	if err != nil {
		e.logger.Warn("extract.pdf.open_error", "bytes", len(data), "error", err)
		return Result{}, common.NewExtractionError("cannot open PDF", err)
	}

	total := src.NumPage()
	n := PagesToRead(total, opts)
	texts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, common.NewExtractionError("extraction cancelled", err)
		}
		txt, err := src.PageText(i)
		if err != nil {
			e.logger.Warn("extract.pdf.page_error", "page", i, "error", err)
			return Result{}, common.NewExtractionError(fmt.Sprintf("cannot read page %d", i), err)
		}
		texts = append(texts, txt)
	}

	res = Result{
		Text:       strings.Join(texts, " "),
		Pages:      n,
		TotalPages: total,
		Duration:   time.Since(start),
	}
	e.logger.Info("extract.pdf.ok",
		"pages", res.Pages,
		"total_pages", res.TotalPages,
		"fast_mode", opts.FastMode,
		"text_len", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

type ledongthucSource struct {
	r *pdf.Reader
}

func openPDF(data []byte) (pageSource, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New("no PDF reader")
	}
	return ledongthucSource{r: r}, nil
}

func (s ledongthucSource) NumPage() int { return s.r.NumPage() }

func (s ledongthucSource) PageText(i int) (string, error) {
	p := s.r.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
