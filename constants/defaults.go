package constants

// Defaults shown in the session inputs and used when configuration is silent.
const (
	DefaultPageLimit       = 5
	DefaultPrompt          = "summarize clearly and objectively"
	DefaultSpreadsheetName = "PDF Analysis"
	DefaultModel           = "gpt-4"
	DefaultBaseURL         = "https://api.openai.com/v1"

	// PreviewRunes caps the extracted text rendered on the page. The full
	// text is still sent to the completion endpoint.
	PreviewRunes = 5000
)
