package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-analyst/internal/common"
	"github.com/joseph-ayodele/pdf-analyst/internal/llm"
)

var _ llm.Completer = (*Client)(nil)

// Complete implements llm.Completer with a single, non-streaming
// chat/completions call. The first choice's message content is returned
// untouched.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", common.NewConfigurationError("no API key selected", nil)
	}

	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	start := time.Now()

	c.log.Info("llm.complete.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(req.SourceText),
		"instruction_len", len(req.Instruction),
	)

	body := llm.BuildChatRequest(c.cfg.Model, req)
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + req.APIKey}

	raw, err := llm.PostJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.complete.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		var se *llm.StatusError
		if errors.As(err, &se) {
			return "", common.NewRequestError(fmt.Sprintf("completion endpoint returned status %d", se.Status), err)
		}
		return "", common.NewRequestError("completion endpoint unreachable", err)
	}

	if err := llm.ValidateJSONAgainstSchema(llm.BuildCompletionEnvelopeSchema(), raw); err != nil {
		c.log.Error("llm.complete.schema_validation_failed",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewRequestError("malformed completion response", err)
	}

	var cc llm.ChatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.complete.decode_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewRequestError("decode completion response", err)
	}
	content := cc.Choices[0].Message.Content

	c.log.Info("llm.complete.ok",
		"req_id", rid,
		"result_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
