package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(newTestViper())

	assert.Equal(t, "127.0.0.1:8501", cfg.Server.ListenAddr)
	assert.Equal(t, 5*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4", cfg.LLM.Model)
	assert.Equal(t, time.Duration(0), cfg.LLM.Timeout)
	assert.Equal(t, 5, cfg.Extract.PageLimit)
	assert.Equal(t, "summarize clearly and objectively", cfg.UI.Prompt)
	assert.Equal(t, "PDF Analysis", cfg.UI.SpreadsheetName)
	assert.Equal(t, RecorderSheets, cfg.Recorder.Backend)
	assert.Equal(t, "credentials.json", cfg.Recorder.CredentialsFile)
	assert.Empty(t, cfg.GRPC.HealthAddr)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PDFANALYST_OPENAI_MODEL", "gpt-4o")
	t.Setenv("PDFANALYST_OPENAI_API_KEYS", "k1, k2")
	t.Setenv("PDFANALYST_EXTRACT_PAGE_LIMIT", "3")
	t.Setenv("PDFANALYST_RECORDER_BACKEND", "Workbook")
	t.Setenv("PDFANALYST_SERVER_WRITE_TIMEOUT", "90s")

	cfg := LoadConfig(newTestViper())

	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "k1, k2", cfg.LLM.APIKeys)
	assert.Equal(t, 3, cfg.Extract.PageLimit)
	assert.Equal(t, RecorderWorkbook, cfg.Recorder.Backend)
	assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidate_UnknownBackend(t *testing.T) {
	v := newTestViper()
	v.Set("recorder.backend", "csv")

	err := LoadConfig(v).Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "recorder.backend")
}

func TestValidate_MissingCredentialsFile(t *testing.T) {
	v := newTestViper()
	v.Set("recorder.credentials_file", " ")

	err := LoadConfig(v).Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "recorder.credentials_file")
}

func TestValidate_PageLimitMustBePositive(t *testing.T) {
	for _, limit := range []int{0, -3} {
		t.Run(fmt.Sprint(limit), func(t *testing.T) {
			v := newTestViper()
			v.Set("extract.page_limit", limit)

			err := LoadConfig(v).Validate()

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			assert.Contains(t, err.Error(), "extract.page_limit must be a positive integer")
		})
	}
}

func TestUserMessage(t *testing.T) {
	cause := errors.New("boom")
	err := NewRecordingError("could not append row", cause)

	assert.True(t, errors.Is(err, ErrRecording))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "could not append row: recording failed: boom", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "", UserMessage(nil))
}
