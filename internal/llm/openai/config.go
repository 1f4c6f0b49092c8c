package openai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/pdf-analyst/constants"
)

// Config for the OpenAI client. The API key is not part of it: each call
// carries the session's active credential.
type Config struct {
	BaseURL string        // default https://api.openai.com/v1
	Model   string        // default gpt-4, fixed for the life of the client
	Timeout time.Duration // 0 keeps the transport default (no client timeout)
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = constants.DefaultModel
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}
