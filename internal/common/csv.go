// Package common provides the CSV writers shared by the parser adapter and the commands.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"fjacquet/edi835-csv/internal/dateutils"
	"fjacquet/edi835-csv/internal/fileutils"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// CSVOptions controls the CSV output format.
type CSVOptions struct {
	Delimiter      rune
	DateFormat     string
	IncludeHeaders bool
}

// DefaultCSVOptions returns comma-separated output with ISO dates and a header line.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', DateFormat: "2006-01-02", IncludeHeaders: true}
}

func newSafeWriter(w io.Writer, delimiter rune) *gocsv.SafeCSVWriter {
	csvWriter := csv.NewWriter(w)
	if delimiter != 0 {
		csvWriter.Comma = delimiter
	}
	return gocsv.NewSafeCSVWriter(csvWriter)
}

// WriteServiceLines writes one CSV record per service line. Lines carry different numbers
// of adjustments, references and remarks, so the header is the widest column set and
// missing cells are left empty.
func WriteServiceLines(w io.Writer, lines []models.ServiceLine, opts CSVOptions) error {
	writer := newSafeWriter(w, opts.Delimiter)
	header := models.ServiceLineHeader(lines)

	if opts.IncludeHeaders {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("error writing CSV header: %w", err)
		}
	}

	position := make(map[string]int, len(header))
	for i, name := range header {
		position[name] = i
	}

	for _, line := range lines {
		record := make([]string, len(header))
		for _, col := range line.Row() {
			record[position[col.Name]] = FormatValue(col.Value, opts.DateFormat)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteServiceLinesToFile writes service lines to csvFile, creating its directory.
func WriteServiceLinesToFile(lines []models.ServiceLine, csvFile string, opts CSVOptions, logger logging.Logger) error {
	logger.Info("Writing service lines to CSV file",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(lines)),
		logging.F(logging.FieldDelimiter, string(opts.Delimiter)))

	return writeFile(csvFile, logger, func(w io.Writer) error {
		return WriteServiceLines(w, lines, opts)
	})
}

// WriteClaimSummaries marshals one CSV record per claim.
func WriteClaimSummaries(w io.Writer, summaries []models.ClaimSummary, opts CSVOptions) error {
	writer := newSafeWriter(w, opts.Delimiter)
	if summaries == nil {
		summaries = []models.ClaimSummary{}
	}
	if opts.IncludeHeaders {
		return gocsv.MarshalCSV(summaries, writer)
	}
	return gocsv.MarshalCSVWithoutHeaders(summaries, writer)
}

// WriteClaimSummariesToFile writes claim summaries to csvFile, creating its directory.
func WriteClaimSummariesToFile(summaries []models.ClaimSummary, csvFile string, opts CSVOptions, logger logging.Logger) error {
	logger.Info("Writing claim summaries to CSV file",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(summaries)))

	return writeFile(csvFile, logger, func(w io.Writer) error {
		return WriteClaimSummaries(w, summaries, opts)
	})
}

func writeFile(path string, logger logging.Logger, write func(io.Writer) error) error {
	file, err := fileutils.CreateFile(path)
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := write(file); err != nil {
		logger.WithError(err).Error("Failed to write CSV data")
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// FormatValue renders a row value as a CSV cell. Absent values are empty.
func FormatValue(v any, dateFormat string) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case decimal.Decimal:
		return v.String()
	case time.Time:
		return dateutils.FormatDate(v, dateFormat)
	default:
		return fmt.Sprint(v)
	}
}
