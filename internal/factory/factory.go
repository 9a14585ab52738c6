// Package factory selects the service line writer for an output format.
package factory

import (
	"fmt"
	"strings"

	"fjacquet/edi835-csv/internal/common"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"
	"fjacquet/edi835-csv/internal/parquetsink"
)

// Format defines the output formats available.
type Format string

const (
	CSV     Format = "csv"
	Parquet Format = "parquet"
)

// Formats lists every supported format.
var Formats = []Format{CSV, Parquet}

// Writer writes flattened service lines to a file.
type Writer interface {
	WriteLines(lines []models.ServiceLine, path string) error
	Extension() string
}

// Settings carries the per-format options.
type Settings struct {
	CSV         common.CSVOptions
	Compression string
}

// ParseFormat normalizes a --format value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// GetWriterWithLogger returns the writer for format.
func GetWriterWithLogger(format Format, settings Settings, logger logging.Logger) (Writer, error) {
	switch format {
	case CSV:
		return &csvWriter{options: settings.CSV, logger: logger}, nil
	case Parquet:
		if _, err := parquetsink.Codec(settings.Compression); err != nil {
			return nil, err
		}
		return &parquetWriter{compression: settings.Compression, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

type csvWriter struct {
	options common.CSVOptions
	logger  logging.Logger
}

func (w *csvWriter) WriteLines(lines []models.ServiceLine, path string) error {
	return common.WriteServiceLinesToFile(lines, path, w.options, w.logger)
}

func (w *csvWriter) Extension() string { return ".csv" }

type parquetWriter struct {
	compression string
	logger      logging.Logger
}

func (w *parquetWriter) WriteLines(lines []models.ServiceLine, path string) error {
	return parquetsink.WriteFile(path, lines, w.compression, w.logger)
}

func (w *parquetWriter) Extension() string { return ".parquet" }
