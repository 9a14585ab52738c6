package remitparser

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/parser"
	"fjacquet/edi835-csv/internal/parsererror"
	"fjacquet/edi835-csv/internal/transaction"
	"fjacquet/edi835-csv/internal/x12"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample835 = "ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *230105*1200*^*00501*000000001*0*P*:~\n" +
	"GS*HP*SENDER*RECEIVER*20230105*1200*1*X*005010X221A1~\n" +
	"ST*835*0001~\n" +
	"BPR*I*150*C*ACH*CCP*01*999999999*DA*123456*1512345678**01*999988880*DA*98765*20230110~\n" +
	"N1*PR*ACME HEALTH~\n" +
	"N1*PE*GENERAL CLINIC*XX*1234567890~\n" +
	"CLP*PCN001*1*200*150*20*12*CLAIM001~\n" +
	"NM1*QC*1*DOE*JANE~\n" +
	"SVC*HC:99213:25*120*90**1~\n" +
	"DTM*472*20230102~\n" +
	"CAS*CO*45*30~\n" +
	"SVC*HC:99214*80*60~\n" +
	"SE*10*0001~\n" +
	"GE*1*1~\n" +
	"IEA*1*000000001~\n"

func newTestAdapter() (*Adapter, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewAdapter(logger, transaction.DefaultOptions()), logger
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestAdapter_InterfaceCompliance(t *testing.T) {
	var _ parser.FullParser = &Adapter{}
}

func TestAdapter_Parse(t *testing.T) {
	adapter, logger := newTestAdapter()

	doc, err := adapter.Parse(context.Background(), strings.NewReader(sample835))
	require.NoError(t, err)
	require.Len(t, doc.Transaction.Claims, 1)
	assert.Equal(t, 2, doc.Transaction.ServiceCount())

	var skipped []string
	for _, w := range doc.Warnings {
		skipped = append(skipped, w.Identifier)
	}
	assert.Equal(t, []string{"GS", "ST", "SE", "GE", "IEA"}, skipped)

	warns := logger.EntriesByLevel("WARN")
	require.Len(t, warns, len(doc.Warnings))
	id, ok := warns[1].Field(logging.FieldIdentifier)
	require.True(t, ok)
	assert.Equal(t, "ST", id)
	index, ok := warns[1].Field(logging.FieldSegment)
	require.True(t, ok)
	assert.Equal(t, 2, index)
}

func TestAdapter_Parse_Errors(t *testing.T) {
	adapter, _ := newTestAdapter()

	t.Run("malformed segment", func(t *testing.T) {
		_, err := adapter.Parse(context.Background(), strings.NewReader("CLP*PCN1*1*abc*10~"))
		var malformed *parsererror.MalformedSegmentError
		assert.True(t, errors.As(err, &malformed))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := adapter.Parse(ctx, strings.NewReader(sample835))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAdapter_ConvertToCSV(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "remit.835", sample835)
	output := filepath.Join(dir, "out", "remit.csv")

	adapter, _ := newTestAdapter()
	require.NoError(t, adapter.ConvertToCSV(context.Background(), input, output))

	f, err := os.Open(output) // #nosec G304 -- test file
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "marker", records[0][0])
	assert.Equal(t, "PCN001", records[1][0])
	assert.Equal(t, "DOE, JANE", records[1][1])
	assert.Equal(t, "99213", records[1][2])
	assert.Equal(t, "25", records[1][3])
	assert.Equal(t, "99214", records[2][2])
}

func TestAdapter_ConvertToCSV_PayerMissing(t *testing.T) {
	dir := t.TempDir()
	text := strings.Replace(sample835, "N1*PR*ACME HEALTH~\n", "", 1)
	input := writeInput(t, dir, "nopayer.835", text)

	adapter, _ := newTestAdapter()
	err := adapter.ConvertToCSV(context.Background(), input, filepath.Join(dir, "out.csv"))

	var payerErr *parsererror.PayerResolutionError
	require.True(t, errors.As(err, &payerErr))
	assert.Empty(t, payerErr.Matches)
}

func TestAdapter_ValidateFormat(t *testing.T) {
	dir := t.TempDir()
	adapter, _ := newTestAdapter()

	valid, err := adapter.ValidateFormat(writeInput(t, dir, "ok.835", sample835))
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = adapter.ValidateFormat(writeInput(t, dir, "claim.837", strings.Replace(sample835, "ST*835", "ST*837", 1)))
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = adapter.ValidateFormat(writeInput(t, dir, "bare.txt", "CLP*PCN1*1*10*5~"))
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = adapter.ValidateFormat(filepath.Join(dir, "missing.835"))
	assert.Error(t, err)
}

func TestLooksLike835_AlternateDelimiters(t *testing.T) {
	alt := strings.NewReplacer("*", "|", ":", ">", "~\n", "\n").Replace(sample835)
	assert.True(t, LooksLike835("\n"+alt, x12.DefaultDelimiters()))
}

func TestAdapter_BatchConvert(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "csv")

	writeInput(t, inputDir, "a.835", sample835)
	writeInput(t, inputDir, "b.EDI", sample835)
	writeInput(t, inputDir, "not835.txt", "hello")
	writeInput(t, inputDir, "broken.835", strings.Replace(sample835, "CLP*PCN001*1*200", "CLP*PCN001*1*xx", 1))
	writeInput(t, inputDir, "readme.md", sample835)

	adapter, logger := newTestAdapter()
	count, err := adapter.BatchConvert(context.Background(), inputDir, outputDir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.FileExists(t, filepath.Join(outputDir, "a.csv"))
	assert.FileExists(t, filepath.Join(outputDir, "b.csv"))
	assert.NoFileExists(t, filepath.Join(outputDir, "not835.csv"))
	assert.True(t, logger.HasEntry("ERROR", "Failed to convert file"))
}

func TestAdapter_BatchConvert_EmptyAndMissing(t *testing.T) {
	adapter, logger := newTestAdapter()

	count, err := adapter.BatchConvert(context.Background(), t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, logger.HasEntry("WARN", "No supported files found in input directory"))

	_, err = adapter.BatchConvert(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir())
	assert.Error(t, err)
}
