package llm

import "context"

// CompletionRequest carries one analysis call. APIKey is the session's
// active credential.
type CompletionRequest struct {
	APIKey      string
	SourceText  string
	Instruction string
}

// Completer is the interface the session controller depends on.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ChatMessage is one entry of a chat/completions "messages" array.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat/completions request body.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the part of the chat/completions response we read.
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
