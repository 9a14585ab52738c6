package parser

import (
	"fjacquet/edi835-csv/internal/common"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"
)

// BaseParser holds the logger and CSV options shared by parser implementations.
// Parsers embed it:
//
//	type MyParser struct {
//		BaseParser
//		// parser-specific fields
//	}
type BaseParser struct {
	logger     logging.Logger
	csvOptions common.CSVOptions
}

// NewBaseParser creates a BaseParser. A nil logger is replaced by a default one.
func NewBaseParser(logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", logging.FormatText)
	}

	return BaseParser{
		logger:     logger,
		csvOptions: common.DefaultCSVOptions(),
	}
}

// SetLogger implements LoggerConfigurable. Nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// SetCSVOptions replaces the CSV output options.
func (b *BaseParser) SetCSVOptions(opts common.CSVOptions) {
	b.csvOptions = opts
}

// CSVOptions returns the CSV output options.
func (b *BaseParser) CSVOptions() common.CSVOptions {
	return b.csvOptions
}

// WriteToCSV writes service lines with the common CSV writer.
func (b *BaseParser) WriteToCSV(lines []models.ServiceLine, csvFile string) error {
	b.logger.Debug("Writing service lines using common writer",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(lines)))

	return common.WriteServiceLinesToFile(lines, csvFile, b.csvOptions, b.logger)
}
