package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/edi835-csv/cmd/batch"
	"fjacquet/edi835-csv/cmd/codes"
	"fjacquet/edi835-csv/cmd/convert"
	"fjacquet/edi835-csv/cmd/load"
	"fjacquet/edi835-csv/cmd/root"
	"fjacquet/edi835-csv/cmd/validate"
	"fjacquet/edi835-csv/internal/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Set the global log level before any logger is created
	configureLogLevelDirectly()

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(load.Cmd)
	root.Cmd.AddCommand(codes.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global logrus level from EDI835_LOG_LEVEL or LOG_LEVEL
func configureLogLevelDirectly() logrus.Level {
	logLevelStr := config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", config.GetEnv("LOG_LEVEL", "info"))

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
