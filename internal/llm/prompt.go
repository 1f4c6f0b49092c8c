package llm

// SystemPrompt is sent as the first message of every request.
const SystemPrompt = "You are an assistant specialized in text analysis."

// SourceHeader introduces the document text inside the user message.
const SourceHeader = "Texto do PDF:\n"

// BuildUserPrompt places the instruction before the document text. The text
// is not truncated.
func BuildUserPrompt(instruction, sourceText string) string {
	return instruction + "\n\n" + SourceHeader + sourceText
}

// BuildChatRequest returns the two-message (system, user) request body.
func BuildChatRequest(model string, req CompletionRequest) ChatRequest {
	return ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: BuildUserPrompt(req.Instruction, req.SourceText)},
		},
	}
}
