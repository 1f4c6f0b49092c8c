package constants

// Stage is the lifecycle position of one uploaded document.
type Stage string

// Stable values; templates switch on these exact strings.
const (
	StageUploaded      Stage = "UPLOADED"       // transient, before extraction runs
	StageTextReady     Stage = "TEXT_READY"     // text extracted, waiting for "process"
	StageExtractFailed Stage = "EXTRACT_FAILED" // terminal
	StageResultReady   Stage = "RESULT_READY"   // completion returned, waiting for "save"
	StageProcessFailed Stage = "PROCESS_FAILED" // completion failed
	StageSaved         Stage = "SAVED"          // row appended
	StageSaveFailed    Stage = "SAVE_FAILED"    // append failed
)

// HasText reports whether extraction succeeded for a document in this stage.
func (s Stage) HasText() bool {
	return s != StageUploaded && s != StageExtractFailed
}

// HasResult reports whether a completion result is attached in this stage.
func (s Stage) HasResult() bool {
	return s == StageResultReady || s == StageSaved || s == StageSaveFailed
}
