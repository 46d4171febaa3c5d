package config

import (
	"time"

	"github.com/spf13/afero"
)

// Environment identifies the deployment stage the application runs in.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

// EarlyStoppingMethod controls how an agent stops once it hits its limits.
type EarlyStoppingMethod string

const (
	// EarlyStoppingForce returns a fixed message when limits are reached.
	EarlyStoppingForce EarlyStoppingMethod = "force"
	// EarlyStoppingGenerate asks the model for one final answer.
	EarlyStoppingGenerate EarlyStoppingMethod = "generate"
)

// LogLevel is the application log level name.
type LogLevel string

const (
	LogLevelDebug    LogLevel = "DEBUG"
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
)

// Config is the resolved application configuration. It is validated once in Load
// and must be treated as read-only afterwards.
type Config struct {
	Name        string      `yaml:"name"        env:"APP_NAME"        validate:"required"`
	Version     string      `yaml:"version"     env:"APP_VERSION"     validate:"required"`
	Debug       bool        `yaml:"debug"       env:"APP_DEBUG"`
	Environment Environment `yaml:"environment" env:"APP_ENVIRONMENT" validate:"oneof=development staging production"`

	GoogleAPIKey Secret `yaml:"google_api_key" env:"GOOGLE_API_KEY"`
	OpenAIAPIKey Secret `yaml:"openai_api_key" env:"OPENAI_API_KEY"`

	Gemini   GeminiSettings   `yaml:"gemini"`
	Mistral  MistralSettings  `yaml:"mistral"`
	Agent    AgentSettings    `yaml:"agent"`
	Data     DataSettings     `yaml:"data"`
	Logging  LoggingSettings  `yaml:"logging"`
	Security SecuritySettings `yaml:"security"`
	Server   ServerSettings   `yaml:"server"`

	fs      afero.Fs
	sources map[string]Source
}

// GeminiSettings configures the Google Gemini backend.
type GeminiSettings struct {
	Model           string  `yaml:"model"             env:"GEMINI_MODEL"             validate:"required"`
	Temperature     float64 `yaml:"temperature"       env:"GEMINI_TEMPERATURE"       validate:"gte=0,lte=2"`
	MaxOutputTokens int     `yaml:"max_output_tokens" env:"GEMINI_MAX_OUTPUT_TOKENS" validate:"gt=0"`
	MaxRetries      int     `yaml:"max_retries"       env:"GEMINI_MAX_RETRIES"       validate:"gte=0"`
	// RequestTimeout is expressed in seconds.
	RequestTimeout int `yaml:"request_timeout" env:"GEMINI_REQUEST_TIMEOUT" validate:"gt=0"`
}

// MistralSettings configures the locally hosted Mistral model served by Ollama.
type MistralSettings struct {
	Model       string  `yaml:"model"       env:"MISTRAL_MODEL"       validate:"required"`
	BaseURL     string  `yaml:"base_url"    env:"MISTRAL_BASE_URL"    validate:"required,url"`
	Temperature float64 `yaml:"temperature" env:"MISTRAL_TEMPERATURE" validate:"gte=0,lte=2"`
}

// AgentSettings bounds a single agent run.
type AgentSettings struct {
	MaxIterations int `yaml:"max_iterations" env:"AGENT_MAX_ITERATIONS" validate:"gt=0"`
	// MaxExecutionTime is expressed in seconds.
	MaxExecutionTime    int                 `yaml:"max_execution_time"    env:"AGENT_MAX_EXECUTION_TIME"    validate:"gt=0"`
	EarlyStoppingMethod EarlyStoppingMethod `yaml:"early_stopping_method" env:"AGENT_EARLY_STOPPING_METHOD" validate:"oneof=force generate"`
}

// DataSettings bounds CSV processing and names the output directories.
type DataSettings struct {
	MaxCSVSizeMB                int    `yaml:"max_csv_size_mb"                env:"DATA_MAX_CSV_SIZE_MB"                validate:"gt=0"`
	ChartDetectionWindowSeconds int    `yaml:"chart_detection_window_seconds" env:"DATA_CHART_DETECTION_WINDOW_SECONDS" validate:"gt=0"`
	ChartsDir                   string `yaml:"charts_dir"                     env:"DATA_CHARTS_DIR"                     validate:"required"`
	ReportsDir                  string `yaml:"reports_dir"                    env:"DATA_REPORTS_DIR"                    validate:"required"`
	ChunkSize                   int    `yaml:"chunk_size"                     env:"DATA_CHUNK_SIZE"                     validate:"gt=0"`
}

// LoggingSettings is the logging policy.
type LoggingSettings struct {
	Level         LogLevel `yaml:"level"          env:"LOGGING_LEVEL"          validate:"oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	RetentionDays int      `yaml:"retention_days" env:"LOGGING_RETENTION_DAYS" validate:"gt=0"`
	MaxSizeMB     int      `yaml:"max_size_mb"    env:"LOGGING_MAX_SIZE_MB"    validate:"gt=0"`
}

// SecuritySettings holds session and upload limits.
type SecuritySettings struct {
	SessionTimeoutMinutes int `yaml:"session_timeout_minutes" env:"SECURITY_SESSION_TIMEOUT_MINUTES" validate:"gt=0"`
	MaxUploadSizeMB       int `yaml:"max_upload_size_mb"      env:"SECURITY_MAX_UPLOAD_SIZE_MB"      validate:"gt=0"`
}

// ServerSettings configures the HTTP settings API.
type ServerSettings struct {
	Port                string        `yaml:"port"                  env:"PORT"                         validate:"required"`
	ReadHeaderTimeout   time.Duration `yaml:"read_header_timeout"   env:"SERVER_READ_HEADER_TIMEOUT"   validate:"gt=0"`
	WriteTimeout        time.Duration `yaml:"write_timeout"         env:"SERVER_WRITE_TIMEOUT"         validate:"gt=0"`
	IdleTimeout         time.Duration `yaml:"idle_timeout"          env:"SERVER_IDLE_TIMEOUT"          validate:"gt=0"`
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period" env:"SERVER_SHUTDOWN_GRACE_PERIOD" validate:"gt=0"`
	RequestLogging      bool          `yaml:"request_logging"       env:"SERVER_REQUEST_LOGGING"`
	RateLimitRPS        float64       `yaml:"rate_limit_rps"        env:"RATE_LIMIT_RPS"               validate:"gte=0"`
	RateLimitBurst      int           `yaml:"rate_limit_burst"      env:"RATE_LIMIT_BURST"             validate:"gte=0"`
}

// Default returns the compiled-in defaults.
func Default() Config {
	return Config{
		Name:        "CSVEDA",
		Version:     "1.0.0",
		Debug:       false,
		Environment: EnvironmentDevelopment,
		Gemini: GeminiSettings{
			Model:           "gemini-2.5-flash",
			Temperature:     0.1,
			MaxOutputTokens: 8192,
			MaxRetries:      3,
			RequestTimeout:  60,
		},
		Mistral: MistralSettings{
			Model:       "mistral:latest",
			BaseURL:     "http://localhost:11434",
			Temperature: 0.1,
		},
		Agent: AgentSettings{
			MaxIterations:       15,
			MaxExecutionTime:    120,
			EarlyStoppingMethod: EarlyStoppingForce,
		},
		Data: DataSettings{
			MaxCSVSizeMB:                100,
			ChartDetectionWindowSeconds: 120,
			ChartsDir:                   "charts",
			ReportsDir:                  "reports",
			ChunkSize:                   10000,
		},
		Logging: LoggingSettings{
			Level:         LogLevelInfo,
			RetentionDays: 30,
			MaxSizeMB:     10,
		},
		Security: SecuritySettings{
			SessionTimeoutMinutes: 60,
			MaxUploadSizeMB:       200,
		},
		Server: ServerSettings{
			Port:                "8080",
			ReadHeaderTimeout:   5 * time.Second,
			WriteTimeout:        15 * time.Second,
			IdleTimeout:         60 * time.Second,
			ShutdownGracePeriod: 10 * time.Second,
			RequestLogging:      true,
			RateLimitRPS:        25,
			RateLimitBurst:      50,
		},
	}
}

// Source returns the layer that supplied the value of key.
func (c *Config) Source(key string) Source {
	if src, ok := c.sources[normalizeKey(key)]; ok {
		return src
	}
	return SourceDefault
}
