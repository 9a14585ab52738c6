package common

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testLines() []models.ServiceLine {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	allowed := decimal.RequireFromString("80")
	return []models.ServiceLine{
		{
			Marker:        "PCN001",
			Patient:       strPtr("DOE, JOHN"),
			Code:          "99213",
			Modifier:      strPtr("25"),
			BilledUnits:   intPtr(1),
			ChargedAmount: decimal.RequireFromString("100"),
			AllowedAmount: &allowed,
			PaidAmount:    decimal.RequireFromString("72.5"),
			Payer:         "ACME HEALTH",
			StartDate:     &start,
			EndDate:       &start,
			Adjustments: []models.AdjustmentDetail{
				{Group: "CO", Reason: "45", Amount: decimal.RequireFromString("20")},
				{Group: "PR", Reason: "2", Amount: decimal.RequireFromString("7.5")},
			},
			Remarks: []models.RemarkDetail{{Qualifier: "HE", Code: "N130"}},
		},
		{
			Marker:        "PCN002",
			Code:          "87070",
			ChargedAmount: decimal.RequireFromString("30"),
			PaidAmount:    decimal.Zero,
			Payer:         "ACME HEALTH",
			References:    []models.ReferenceDetail{{Qualifier: "6R", Value: "LINE2"}},
		},
	}
}

func readRecords(t *testing.T, data string, delimiter rune) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(data))
	r.Comma = delimiter
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteServiceLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteServiceLines(&buf, testLines(), DefaultCSVOptions()))

	records := readRecords(t, buf.String(), ',')
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, models.ServiceLineColumns, header[:len(models.ServiceLineColumns)])
	assert.Equal(t, []string{
		"adj_0_group", "adj_0_code", "adj_0_amount",
		"adj_1_group", "adj_1_code", "adj_1_amount",
		"ref_0_qual", "ref_0_value",
		"rem_0_qual", "rem_0_code",
	}, header[len(models.ServiceLineColumns):])

	cell := func(record []string, name string) string {
		for i, h := range header {
			if h == name {
				return record[i]
			}
		}
		t.Fatalf("column %s not in header", name)
		return ""
	}

	first := records[1]
	assert.Len(t, first, len(header))
	assert.Equal(t, "PCN001", cell(first, models.ColumnMarker))
	assert.Equal(t, "DOE, JOHN", cell(first, models.ColumnPatient))
	assert.Equal(t, "25", cell(first, models.ColumnModifier))
	assert.Equal(t, "", cell(first, models.ColumnAllowedUnits))
	assert.Equal(t, "1", cell(first, models.ColumnBilledUnits))
	assert.Equal(t, "80", cell(first, models.ColumnAllowedAmount))
	assert.Equal(t, "72.5", cell(first, models.ColumnPaidAmount))
	assert.Equal(t, "2023-01-02", cell(first, models.ColumnStartDate))
	assert.Equal(t, "PR", cell(first, "adj_1_group"))
	assert.Equal(t, "7.5", cell(first, "adj_1_amount"))
	assert.Equal(t, "", cell(first, "ref_0_qual"))
	assert.Equal(t, "N130", cell(first, "rem_0_code"))

	second := records[2]
	assert.Len(t, second, len(header))
	assert.Equal(t, "", cell(second, models.ColumnPatient))
	assert.Equal(t, "", cell(second, "adj_0_group"))
	assert.Equal(t, "LINE2", cell(second, "ref_0_value"))
	assert.Equal(t, "0", cell(second, models.ColumnPaidAmount))
}

func TestWriteServiceLines_Options(t *testing.T) {
	opts := CSVOptions{Delimiter: ';', DateFormat: "02.01.2006", IncludeHeaders: false}

	var buf bytes.Buffer
	require.NoError(t, WriteServiceLines(&buf, testLines()[:1], opts))

	records := readRecords(t, buf.String(), ';')
	require.Len(t, records, 1)
	assert.Equal(t, "PCN001", records[0][0])
	assert.Contains(t, records[0], "02.01.2023")
}

func TestWriteServiceLines_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteServiceLines(&buf, nil, DefaultCSVOptions()))

	records := readRecords(t, buf.String(), ',')
	require.Len(t, records, 1)
	assert.Equal(t, models.ServiceLineColumns, records[0])
}

func TestWriteServiceLinesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lines.csv")
	logger := logging.NewMockLogger()

	require.NoError(t, WriteServiceLinesToFile(testLines(), path, DefaultCSVOptions(), logger))

	data, err := os.ReadFile(path) // #nosec G304 -- test file
	require.NoError(t, err)
	assert.Len(t, readRecords(t, string(data), ','), 3)
	assert.True(t, logger.HasEntry("INFO", "Writing service lines to CSV file"))
}

func TestWriteClaimSummaries(t *testing.T) {
	responsibility := decimal.RequireFromString("7.5")
	summaries := []models.ClaimSummary{
		{
			Marker:                "PCN001",
			ClaimNumber:           "CLM1",
			Status:                "processed as primary",
			Patient:               "DOE, JOHN",
			ChargedAmount:         decimal.RequireFromString("100"),
			PaidAmount:            decimal.RequireFromString("72.5"),
			PatientResponsibility: &responsibility,
			Services:              1,
			Payer:                 "ACME HEALTH",
		},
		{
			Marker:        "PCN002",
			Status:        "denied",
			ChargedAmount: decimal.RequireFromString("30"),
			PaidAmount:    decimal.Zero,
			Services:      2,
			Payer:         "ACME HEALTH",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteClaimSummaries(&buf, summaries, DefaultCSVOptions()))

	records := readRecords(t, buf.String(), ',')
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"marker", "claim_number", "status", "patient", "charged_amount", "paid_amount",
		"patient_responsibility", "services", "payer",
	}, records[0])
	assert.Equal(t, []string{
		"PCN001", "CLM1", "processed as primary", "DOE, JOHN", "100", "72.5", "7.5", "1", "ACME HEALTH",
	}, records[1])
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "2", records[2][7])
}

func TestWriteClaimSummariesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.csv")
	opts := DefaultCSVOptions()
	opts.IncludeHeaders = false

	require.NoError(t, WriteClaimSummariesToFile([]models.ClaimSummary{{Marker: "A", Payer: "P"}}, path, opts, logging.NewMockLogger()))

	data, err := os.ReadFile(path) // #nosec G304 -- test file
	require.NoError(t, err)
	records := readRecords(t, string(data), ',')
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0][0])
}

func TestFormatValue(t *testing.T) {
	date := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"decimal", decimal.RequireFromString("12.50"), "12.5"},
		{"date", date, "2023-12-31"},
		{"other", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value, ""))
		})
	}
}
