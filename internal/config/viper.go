package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every configuration environment variable, e.g. EDI835_LOG_LEVEL.
const EnvPrefix = "EDI835"

// Parquet compression codecs accepted by parquet.compression.
const (
	CompressionSnappy = "snappy"
	CompressionZstd   = "zstd"
	CompressionNone   = "none"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	X12 struct {
		SegmentTerminator  string `mapstructure:"segment_terminator" yaml:"segment_terminator"`
		ElementSeparator   string `mapstructure:"element_separator" yaml:"element_separator"`
		ComponentSeparator string `mapstructure:"component_separator" yaml:"component_separator"`
		DetectDelimiters   bool   `mapstructure:"detect_delimiters" yaml:"detect_delimiters"`
	} `mapstructure:"x12" yaml:"x12"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		DateFormat     string `mapstructure:"date_format" yaml:"date_format"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	Codes struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"codes" yaml:"codes"`

	Parquet struct {
		Compression string `mapstructure:"compression" yaml:"compression"`
	} `mapstructure:"parquet" yaml:"parquet"`

	Postgres struct {
		URL       string `mapstructure:"url" yaml:"-"`
		Table     string `mapstructure:"table" yaml:"table"`
		BatchSize int    `mapstructure:"batch_size" yaml:"batch_size"`
	} `mapstructure:"postgres" yaml:"postgres"`
}

// InitializeConfig loads the configuration from the standard locations.
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads defaults, then configFile (or config.yaml from $HOME/.edi835-csv,
// .edi835-csv and the working directory when configFile is empty), then the environment.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.edi835-csv")
		v.AddConfigPath(".edi835-csv")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.BindEnv("postgres.url", EnvPrefix+"_POSTGRES_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("x12.segment_terminator", "~")
	v.SetDefault("x12.element_separator", "*")
	v.SetDefault("x12.component_separator", ":")
	v.SetDefault("x12.detect_delimiters", true)

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.date_format", "2006-01-02")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("codes.file", "")

	v.SetDefault("parquet.compression", CompressionSnappy)

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.table", "service_lines")
	v.SetDefault("postgres.batch_size", 1000)
}

// Validate checks the configuration after command-line overrides have been applied.
func (c *Config) Validate() error {
	if err := validateConfig(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	delimiters := map[string]string{
		"x12.segment_terminator":  config.X12.SegmentTerminator,
		"x12.element_separator":   config.X12.ElementSeparator,
		"x12.component_separator": config.X12.ComponentSeparator,
	}
	for key, value := range delimiters {
		if len([]rune(value)) != 1 {
			return fmt.Errorf("%s must be a single character, got: %q", key, value)
		}
	}
	if config.X12.SegmentTerminator == config.X12.ElementSeparator ||
		config.X12.SegmentTerminator == config.X12.ComponentSeparator ||
		config.X12.ElementSeparator == config.X12.ComponentSeparator {
		return fmt.Errorf("x12 delimiters must be distinct")
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	switch config.Parquet.Compression {
	case CompressionSnappy, CompressionZstd, CompressionNone:
	default:
		return fmt.Errorf("invalid parquet compression: %s (must be snappy, zstd or none)", config.Parquet.Compression)
	}

	if config.Postgres.BatchSize < 1 {
		return fmt.Errorf("postgres.batch_size must be positive, got: %d", config.Postgres.BatchSize)
	}
	if !identifierPattern.MatchString(config.Postgres.Table) {
		return fmt.Errorf("postgres.table is not a valid identifier: %q", config.Postgres.Table)
	}

	return nil
}

// ConfigureLoggingFromConfig configures a logrus logger from the log section.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
