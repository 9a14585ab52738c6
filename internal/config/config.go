// Package config loads the application configuration from defaults, an optional YAML file,
// a .env file and the environment.
package config

import (
	"os"
	"path/filepath"

	"fjacquet/edi835-csv/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from .env in the working directory, or its parent, when present.
// Variables already set in the environment win over the file.
func LoadEnv(logger logging.Logger) {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			logger.Debug("No .env file found, using environment variables")
			return
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.WithError(err).Warn("Error loading .env file", logging.F(logging.FieldFile, envFile))
		return
	}
	logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
}

// GetEnv retrieves an environment variable with a fallback value if not set.
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
