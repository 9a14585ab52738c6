// Package remitparser reads X12 835 remittance files and converts them to service line
// output.
package remitparser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"fjacquet/edi835-csv/internal/fileutils"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/parser"
	"fjacquet/edi835-csv/internal/parsererror"
	"fjacquet/edi835-csv/internal/transaction"
	"fjacquet/edi835-csv/internal/x12"
)

// Extensions lists the file extensions picked up by BatchConvert.
var Extensions = []string{".835", ".edi", ".x12", ".txt"}

// headerProbeSize is how much of a file ValidateFormat reads.
const headerProbeSize = 4096

// Adapter implements parser.FullParser for 835 remittance documents.
type Adapter struct {
	parser.BaseParser
	options transaction.Options
}

// NewAdapter creates an adapter decoding with opts.
func NewAdapter(logger logging.Logger, opts transaction.Options) *Adapter {
	return &Adapter{
		BaseParser: parser.NewBaseParser(logger),
		options:    opts,
	}
}

// Options returns the decode options.
func (a *Adapter) Options() transaction.Options {
	return a.options
}

// Parse reads the whole document from r and decodes it. Every skipped top-level segment
// is logged as a warning.
func (a *Adapter) Parse(ctx context.Context, r io.Reader) (*parser.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ts, warnings, err := transaction.Decode(string(data), a.options)
	if err != nil {
		return nil, err
	}

	logger := a.GetLogger()
	for _, w := range warnings {
		logger.Warn("Skipped unrecognized top-level segment",
			logging.F(logging.FieldSegment, w.Index),
			logging.F(logging.FieldIdentifier, w.Identifier))
	}
	logger.Debug("Decoded transaction set",
		logging.F(logging.FieldClaims, len(ts.Claims)),
		logging.F(logging.FieldServices, ts.ServiceCount()),
		logging.F(logging.FieldWarnings, len(warnings)))

	return &parser.Document{Transaction: ts, Warnings: warnings}, nil
}

// ParseFile opens and parses one file.
func (a *Adapter) ParseFile(ctx context.Context, path string) (*parser.Document, error) {
	file, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			a.GetLogger().WithError(err).Warn("Failed to close input file",
				logging.F(logging.FieldFile, path))
		}
	}()

	doc, err := a.Parse(ctx, file)
	if err != nil {
		return nil, &parsererror.ParseError{Parser: "edi835", Field: "file", Value: path, Err: err}
	}
	return doc, nil
}

// ConvertToCSV parses inputFile and writes one CSV record per service line to outputFile.
func (a *Adapter) ConvertToCSV(ctx context.Context, inputFile, outputFile string) error {
	doc, err := a.ParseFile(ctx, inputFile)
	if err != nil {
		return err
	}

	lines, err := doc.Transaction.ServiceLines()
	if err != nil {
		return fmt.Errorf("error flattening %s: %w", inputFile, err)
	}

	return a.WriteToCSV(lines, outputFile)
}

// ValidateFormat reports whether file starts with an interchange header and announces an
// 835 transaction set.
func (a *Adapter) ValidateFormat(file string) (bool, error) {
	f, err := fileutils.OpenFile(file)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			a.GetLogger().WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, file))
		}
	}()

	buffer := make([]byte, headerProbeSize)
	n, err := io.ReadFull(bufio.NewReader(f), buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}

	valid := LooksLike835(string(buffer[:n]), a.options.Delimiters)
	a.GetLogger().Debug("Validated 835 format",
		logging.F(logging.FieldFile, file),
		logging.F("valid", valid))
	return valid, nil
}

// LooksLike835 checks the head of a document for an ISA header followed by an ST segment
// of transaction set 835.
func LooksLike835(head string, fallback x12.Delimiters) bool {
	trimmed := strings.TrimLeft(head, " \t\r\n")
	if !strings.HasPrefix(trimmed, "ISA") {
		return false
	}

	delimiters := fallback
	if detected, ok := x12.DetectDelimiters(trimmed); ok {
		delimiters = detected
	}

	for _, seg := range x12.Tokenize(trimmed, delimiters) {
		if seg.ID != "ST" {
			continue
		}
		code, ok := seg.Element(1)
		return ok && code == "835"
	}
	return false
}

// BatchConvert converts every supported file of inputDir to outputDir/<name>.csv. Files that
// fail validation or decoding are logged and skipped. It returns the number of files written.
func (a *Adapter) BatchConvert(ctx context.Context, inputDir, outputDir string) (int, error) {
	logger := a.GetLogger()

	files, err := fileutils.ListFilesWithExtensions(inputDir, Extensions...)
	if err != nil {
		return 0, fmt.Errorf("failed to read input directory: %w", err)
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return 0, err
	}
	if len(files) == 0 {
		logger.Warn("No supported files found in input directory",
			logging.F(logging.FieldFile, inputDir))
		return 0, nil
	}

	count := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		valid, err := a.ValidateFormat(file)
		if err != nil {
			logger.WithError(err).Warn("Error validating file format", logging.F(logging.FieldFile, file))
			continue
		}
		if !valid {
			logger.Debug("Skipping file that is not an 835", logging.F(logging.FieldFile, file))
			continue
		}

		outputFile := fileutils.OutputPath(file, outputDir, ".csv")
		if err := a.ConvertToCSV(ctx, file, outputFile); err != nil {
			logger.WithError(err).Error("Failed to convert file",
				logging.F(logging.FieldInputFile, file),
				logging.F(logging.FieldOutputFile, outputFile))
			continue
		}
		count++
	}

	logger.Info("Batch conversion finished",
		logging.F(logging.FieldCount, count),
		logging.F("total", len(files)))
	return count, nil
}
