package common

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/joseph-ayodele/pdf-analyst/constants"
)

// EnvPrefix namespaces environment overrides, e.g. PDFANALYST_OPENAI_MODEL.
const EnvPrefix = "PDFANALYST"

// Recorder backends.
const (
	RecorderSheets   = "sheets"
	RecorderWorkbook = "workbook"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	GRPC     GRPCConfig
	LLM      LLMConfig
	Extract  ExtractConfig
	UI       UIConfig
	Recorder RecorderConfig
	Log      LogConfig
}

// ServerConfig holds web server configuration
type ServerConfig struct {
	ListenAddr   string
	WriteTimeout time.Duration
}

// GRPCConfig holds the optional health endpoint address; empty disables it.
type GRPCConfig struct {
	HealthAddr string
}

// LLMConfig holds completion endpoint configuration
type LLMConfig struct {
	BaseURL string
	Model   string
	APIKeys string // comma separated, prefills the credential field
	Timeout time.Duration
}

// ExtractConfig holds PDF extraction configuration
type ExtractConfig struct {
	PageLimit int
}

// UIConfig holds the session input defaults
type UIConfig struct {
	Prompt          string
	SpreadsheetName string
}

// RecorderConfig holds spreadsheet recorder configuration
type RecorderConfig struct {
	Backend         string
	CredentialsFile string
	WorkbookDir     string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// SetDefaults registers every key with its default so env overrides resolve.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", "127.0.0.1:8501")
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("grpc.health_addr", "")
	v.SetDefault("openai.base_url", constants.DefaultBaseURL)
	v.SetDefault("openai.model", constants.DefaultModel)
	v.SetDefault("openai.api_keys", "")
	v.SetDefault("openai.timeout", time.Duration(0))
	v.SetDefault("extract.page_limit", constants.DefaultPageLimit)
	v.SetDefault("ui.prompt", constants.DefaultPrompt)
	v.SetDefault("ui.spreadsheet_name", constants.DefaultSpreadsheetName)
	v.SetDefault("recorder.backend", RecorderSheets)
	v.SetDefault("recorder.credentials_file", "credentials.json")
	v.SetDefault("recorder.workbook_dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindEnv maps PDFANALYST_SECTION_KEY variables onto section.key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadConfig reads configuration from v (file, env and defaults already merged)
func LoadConfig(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:   v.GetString("server.listen_addr"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		GRPC: GRPCConfig{
			HealthAddr: v.GetString("grpc.health_addr"),
		},
		LLM: LLMConfig{
			BaseURL: v.GetString("openai.base_url"),
			Model:   v.GetString("openai.model"),
			APIKeys: v.GetString("openai.api_keys"),
			Timeout: v.GetDuration("openai.timeout"),
		},
		Extract: ExtractConfig{
			PageLimit: v.GetInt("extract.page_limit"),
		},
		UI: UIConfig{
			Prompt:          v.GetString("ui.prompt"),
			SpreadsheetName: v.GetString("ui.spreadsheet_name"),
		},
		Recorder: RecorderConfig{
			Backend:         strings.ToLower(strings.TrimSpace(v.GetString("recorder.backend"))),
			CredentialsFile: v.GetString("recorder.credentials_file"),
			WorkbookDir:     v.GetString("recorder.workbook_dir"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}

// Validate performs presence and range checks on the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("server.listen_addr", c.Server.ListenAddr, Required).
		Field("openai.base_url", c.LLM.BaseURL, Required).
		Field("openai.model", c.LLM.Model, Required).
		Field("extract.page_limit", c.Extract.PageLimit, Positive).
		Field("recorder.backend", c.Recorder.Backend, Required, OneOf(RecorderSheets, RecorderWorkbook))

	switch c.Recorder.Backend {
	case RecorderSheets:
		v.Field("recorder.credentials_file", c.Recorder.CredentialsFile, Required)
	case RecorderWorkbook:
		v.Field("recorder.workbook_dir", c.Recorder.WorkbookDir, Required)
	}
	return ValidateAndReturnError(v)
}
