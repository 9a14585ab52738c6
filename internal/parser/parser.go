// Package parser defines the interfaces implemented by document parsers and the shared
// base they embed.
package parser

import (
	"context"
	"io"

	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"
	"fjacquet/edi835-csv/internal/transaction"
)

// Document is one decoded input together with the top-level segments that were skipped.
type Document struct {
	Transaction *transaction.TransactionSet
	Warnings    transaction.Warnings
}

// Parser reads a document from r. Decoding errors are returned unchanged so callers can
// inspect them with errors.As.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) (*Document, error)
}

// Validator reports whether a file looks like a document this parser accepts.
type Validator interface {
	ValidateFormat(file string) (bool, error)
}

// CSVConverter converts one input file to a CSV file.
type CSVConverter interface {
	ConvertToCSV(ctx context.Context, inputFile, outputFile string) error
}

// CSVWriter writes already flattened service lines.
type CSVWriter interface {
	WriteToCSV(lines []models.ServiceLine, csvFile string) error
}

// LoggerConfigurable accepts a replacement logger.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// BatchConverter converts every supported file of a directory.
type BatchConverter interface {
	BatchConvert(ctx context.Context, inputDir, outputDir string) (int, error)
}

// FullParser is implemented by parsers that support every operation.
type FullParser interface {
	Parser
	Validator
	CSVConverter
	CSVWriter
	LoggerConfigurable
	BatchConverter
}
