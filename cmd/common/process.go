// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"

	"fjacquet/edi835-csv/internal/factory"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"
	"fjacquet/edi835-csv/internal/parser"
	"fjacquet/edi835-csv/internal/parsererror"
)

// FileParser validates and parses input files.
type FileParser interface {
	parser.Validator
	ParseFile(ctx context.Context, path string) (*parser.Document, error)
}

// ProcessFile parses inputFile with p, optionally validating it first, and writes its
// service lines to outputFile through writer. The decoded document and lines are returned
// so callers can write further outputs.
func ProcessFile(ctx context.Context, p FileParser, writer factory.Writer, inputFile, outputFile string, validate bool, log logging.Logger) (*parser.Document, []models.ServiceLine, error) {
	if validate {
		log.Info("Validating format...", logging.F(logging.FieldFile, inputFile))
		valid, err := p.ValidateFormat(inputFile)
		if err != nil {
			return nil, nil, &parsererror.ValidationError{FilePath: inputFile, Reason: err.Error()}
		}
		if !valid {
			return nil, nil, &parsererror.InvalidFormatError{
				FilePath:       inputFile,
				ExpectedFormat: "X12 835 (ISA header and ST*835)",
				Msg:            "not an 835 remittance",
			}
		}
		log.Info("Validation successful.")
	}

	doc, err := p.ParseFile(ctx, inputFile)
	if err != nil {
		return nil, nil, err
	}

	lines, err := doc.Transaction.ServiceLines()
	if err != nil {
		return nil, nil, fmt.Errorf("error flattening %s: %w", inputFile, err)
	}

	if err := writer.WriteLines(lines, outputFile); err != nil {
		return nil, nil, fmt.Errorf("error writing %s: %w", outputFile, err)
	}

	log.Info("Conversion completed successfully!",
		logging.F(logging.FieldInputFile, inputFile),
		logging.F(logging.FieldOutputFile, outputFile),
		logging.F(logging.FieldServices, len(lines)))
	return doc, lines, nil
}
