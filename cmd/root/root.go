// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/edi835-csv/internal/config"
	"fjacquet/edi835-csv/internal/container"
	"fjacquet/edi835-csv/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

// ConfigFlags override values of the loaded configuration when set.
type ConfigFlags struct {
	ConfigFile   string
	LogLevel     string
	LogFormat    string
	CSVDelimiter string
}

var (
	// Log is the shared logger until the container is built
	Log = logging.NewLogrusAdapter("info", logging.FormatText)

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "edi835-csv",
		Short: "A CLI tool to convert X12 835 remittance files to CSV.",
		Long: `edi835-csv is a CLI tool that decodes X12 835 health care claim payment
files and flattens them to one CSV record per service line.
It can also write Parquet, load service lines into PostgreSQL and
manage the code tables used to describe adjustment and remark codes.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to edi835-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initializeApp,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
		},
		SilenceUsage: true,
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// Overrides holds the configuration flags
	Overrides = ConfigFlags{}

	// AppConfig is the configuration loaded by the last command run
	AppConfig *config.Config

	// AppContainer is built from AppConfig before every command
	AppContainer *container.Container

	initOnce sync.Once
)

// Init initializes the root command and all flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
		flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
		flags.BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before conversion")

		flags.StringVar(&Overrides.ConfigFile, "config", "", "Config file (default searches $HOME/.edi835-csv/config.yaml)")
		flags.StringVar(&Overrides.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
		flags.StringVar(&Overrides.LogFormat, "log-format", "", "Log format (text, json)")
		flags.StringVar(&Overrides.CSVDelimiter, "csv-delimiter", "", "CSV delimiter character")
	})
}

func initializeApp(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	var cfg *config.Config
	var err error
	if Overrides.ConfigFile == "" {
		cfg, err = config.InitializeConfig()
	} else {
		cfg, err = config.LoadConfig(Overrides.ConfigFile)
	}
	if err != nil {
		return err
	}
	ApplyOverrides(cfg, Overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// ApplyOverrides copies the non-empty flag values onto cfg.
func ApplyOverrides(cfg *config.Config, flags ConfigFlags) {
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	if flags.CSVDelimiter != "" {
		cfg.CSV.Delimiter = flags.CSVDelimiter
	}
}

// GetContainer returns the application container, nil before a command ran.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, nil before a command ran.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogger returns the container's logger, or the bootstrap logger when there is none.
func GetLogger() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return Log
}
