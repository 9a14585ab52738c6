package parquetsink

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/edi835-csv/internal/config"
	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testLines() []models.ServiceLine {
	date := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	allowed := decimal.RequireFromString("80.25")
	return []models.ServiceLine{
		{
			Marker:          "PCN001",
			Patient:         strPtr("DOE, JOHN"),
			Code:            "99213",
			BilledUnits:     intPtr(2),
			TransactionDate: &date,
			ChargedAmount:   decimal.RequireFromString("100"),
			AllowedAmount:   &allowed,
			PaidAmount:      decimal.RequireFromString("72.5"),
			Payer:           "ACME HEALTH",
			Adjustments: []models.AdjustmentDetail{
				{Group: "CO", Reason: "45", Amount: decimal.RequireFromString("19.75")},
			},
			References: []models.ReferenceDetail{{Qualifier: "6R", Value: "L1"}},
			Remarks:    []models.RemarkDetail{{Qualifier: "HE", Code: "N130"}},
		},
		{
			Marker:        "PCN002",
			Code:          "87070",
			ChargedAmount: decimal.RequireFromString("30"),
			PaidAmount:    decimal.Zero,
			Payer:         "ACME HEALTH",
		},
	}
}

func TestNewRecord(t *testing.T) {
	r := NewRecord(testLines()[0])

	assert.Equal(t, "PCN001", r.Marker)
	assert.Nil(t, r.AllowedUnits)
	require.NotNil(t, r.BilledUnits)
	assert.Equal(t, int32(2), *r.BilledUnits)
	require.NotNil(t, r.TransactionDate)
	assert.Equal(t, "2023-01-10", *r.TransactionDate)
	require.NotNil(t, r.AllowedAmount)
	assert.InDelta(t, 80.25, *r.AllowedAmount, 1e-9)
	assert.Nil(t, r.StartDate)
	require.Len(t, r.Adjustments, 1)
	assert.InDelta(t, 19.75, r.Adjustments[0].Amount, 1e-9)
}

func TestCodec(t *testing.T) {
	for _, name := range []string{config.CompressionSnappy, config.CompressionZstd, config.CompressionNone, ""} {
		codec, err := Codec(name)
		assert.NoError(t, err, name)
		assert.NotNil(t, codec, name)
	}
	_, err := Codec("lzma")
	assert.Error(t, err)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	for _, compression := range []string{config.CompressionSnappy, config.CompressionZstd, config.CompressionNone} {
		t.Run(compression, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "lines.parquet")
			require.NoError(t, WriteFile(path, testLines(), compression, logging.NewMockLogger()))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))

			records, err := parquet.ReadFile[ServiceLineRecord](path)
			require.NoError(t, err)
			require.Len(t, records, 2)

			assert.Equal(t, "PCN001", records[0].Marker)
			require.NotNil(t, records[0].Patient)
			assert.Equal(t, "DOE, JOHN", *records[0].Patient)
			assert.Equal(t, []AdjustmentRecord{{Group: "CO", Reason: "45", Amount: 19.75}}, records[0].Adjustments)
			assert.Equal(t, []RemarkRecord{{Qualifier: "HE", Code: "N130"}}, records[0].Remarks)

			assert.Equal(t, "PCN002", records[1].Marker)
			assert.Nil(t, records[1].Patient)
			assert.Nil(t, records[1].AllowedAmount)
			assert.Empty(t, records[1].Adjustments)
		})
	}
}

func TestWriter_Count(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.parquet")
	w, err := NewWriter(path, config.CompressionSnappy)
	require.NoError(t, err)

	n, err := w.Write(testLines())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = w.Write(testLines()[:1])
	require.NoError(t, err)
	assert.Equal(t, 3, w.Count())
	require.NoError(t, w.Close())

	records, err := parquet.ReadFile[ServiceLineRecord](path)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestNewWriter_UnknownCompression(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "x.parquet"), "brotli-9")
	assert.Error(t, err)
}
