// Package parquetsink writes flattened service lines to Parquet files.
package parquetsink

import (
	"fmt"
	"os"
	"time"

	"fjacquet/edi835-csv/internal/config"
	"fjacquet/edi835-csv/internal/dateutils"
	"fjacquet/edi835-csv/internal/fileutils"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/parquet-go/parquet-go/compress/zstd"
)


// AdjustmentRecord is one CAS adjustment nested in a ServiceLineRecord.
type AdjustmentRecord struct {
	Group  string  `parquet:"group"`
	Reason string  `parquet:"reason"`
	Amount float64 `parquet:"amount"`
}

// ReferenceRecord is one REF reference nested in a ServiceLineRecord.
type ReferenceRecord struct {
	Qualifier string `parquet:"qualifier"`
	Value     string `parquet:"value"`
}

// RemarkRecord is one LQ remark nested in a ServiceLineRecord.
type RemarkRecord struct {
	Qualifier string `parquet:"qualifier"`
	Code      string `parquet:"code"`
}

// ServiceLineRecord is the Parquet schema for one service line. Dates are ISO strings and
// absent values are null.
type ServiceLineRecord struct {
	Marker            string             `parquet:"marker"`
	Patient           *string            `parquet:"patient,optional"`
	Code              string             `parquet:"code"`
	Modifier          *string            `parquet:"modifier,optional"`
	AllowedUnits      *int32             `parquet:"allowed_units,optional"`
	BilledUnits       *int32             `parquet:"billed_units,optional"`
	TransactionDate   *string            `parquet:"transaction_date,optional"`
	ChargedAmount     float64            `parquet:"charged_amount"`
	AllowedAmount     *float64           `parquet:"allowed_amount,optional"`
	PaidAmount        float64            `parquet:"paid_amount"`
	Payer             string             `parquet:"payer"`
	StartDate         *string            `parquet:"start_date,optional"`
	EndDate           *string            `parquet:"end_date,optional"`
	RenderingProvider *string            `parquet:"rendering_provider,optional"`
	ClaimNumber       *string            `parquet:"claim_number,optional"`
	Adjustments       []AdjustmentRecord `parquet:"adjustments"`
	References        []ReferenceRecord  `parquet:"references"`
	Remarks           []RemarkRecord     `parquet:"remarks"`
}

// NewRecord converts a service line to its Parquet record.
func NewRecord(line models.ServiceLine) ServiceLineRecord {
	record := ServiceLineRecord{
		Marker:            line.Marker,
		Patient:           line.Patient,
		Code:              line.Code,
		Modifier:          line.Modifier,
		AllowedUnits:      int32Ptr(line.AllowedUnits),
		BilledUnits:       int32Ptr(line.BilledUnits),
		TransactionDate:   datePtr(line.TransactionDate),
		ChargedAmount:     line.ChargedAmount.InexactFloat64(),
		PaidAmount:        line.PaidAmount.InexactFloat64(),
		Payer:             line.Payer,
		StartDate:         datePtr(line.StartDate),
		EndDate:           datePtr(line.EndDate),
		RenderingProvider: line.RenderingProvider,
		ClaimNumber:       line.ClaimNumber,
	}
	if line.AllowedAmount != nil {
		allowed := line.AllowedAmount.InexactFloat64()
		record.AllowedAmount = &allowed
	}
	for _, a := range line.Adjustments {
		record.Adjustments = append(record.Adjustments, AdjustmentRecord{
			Group: a.Group, Reason: a.Reason, Amount: a.Amount.InexactFloat64(),
		})
	}
	for _, r := range line.References {
		record.References = append(record.References, ReferenceRecord{Qualifier: r.Qualifier, Value: r.Value})
	}
	for _, r := range line.Remarks {
		record.Remarks = append(record.Remarks, RemarkRecord{Qualifier: r.Qualifier, Code: r.Code})
	}
	return record
}

func int32Ptr(i *int) *int32 {
	if i == nil {
		return nil
	}
	v := int32(*i) // #nosec G115 -- unit counts are small
	return &v
}

func datePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := dateutils.ToISODate(*t)
	return &s
}

// Codec returns the compression codec for a parquet.compression setting.
func Codec(name string) (compress.Codec, error) {
	switch name {
	case config.CompressionSnappy, "":
		return &parquet.Snappy, nil
	case config.CompressionZstd:
		return &zstd.Codec{Level: zstd.SpeedDefault}, nil
	case config.CompressionNone:
		return &parquet.Uncompressed, nil
	default:
		return nil, fmt.Errorf("unknown parquet compression: %s", name)
	}
}

// Writer writes service line records to a Parquet file.
type Writer struct {
	file   *os.File
	writer *parquet.GenericWriter[ServiceLineRecord]
	count  int
}

// NewWriter creates filename and a Parquet writer using the named compression.
func NewWriter(filename, compression string) (*Writer, error) {
	codec, err := Codec(compression)
	if err != nil {
		return nil, err
	}

	file, err := fileutils.CreateFile(filename)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[ServiceLineRecord](file,
		parquet.Compression(codec),
		parquet.CreatedBy("edi835-csv", "1.0", ""),
	)

	return &Writer{file: file, writer: writer}, nil
}

// Write converts and writes a batch of service lines.
func (w *Writer) Write(lines []models.ServiceLine) (int, error) {
	records := make([]ServiceLineRecord, len(lines))
	for i, line := range lines {
		records[i] = NewRecord(line)
	}
	n, err := w.writer.Write(records)
	w.count += n
	if err != nil {
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	return n, nil
}

// Close flushes the final row group and closes the file.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the total number of rows written.
func (w *Writer) Count() int {
	return w.count
}

// WriteFile writes every service line to a new Parquet file.
func WriteFile(filename string, lines []models.ServiceLine, compression string, logger logging.Logger) error {
	logger.Info("Writing service lines to Parquet file",
		logging.F(logging.FieldFile, filename),
		logging.F(logging.FieldCount, len(lines)))

	w, err := NewWriter(filename, compression)
	if err != nil {
		return err
	}
	if _, err := w.Write(lines); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	logger.Debug("Parquet file closed",
		logging.F(logging.FieldFile, filename),
		logging.F(logging.FieldCount, w.Count()))
	return nil
}
