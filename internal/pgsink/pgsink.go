// Package pgsink loads flattened service lines into PostgreSQL with COPY.
package pgsink

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	"fjacquet/edi835-csv/internal/logging"
	"fjacquet/edi835-csv/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DefaultBatchSize is the number of rows sent per COPY when none is configured.
const DefaultBatchSize = 1000

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Columns lists the columns filled by Load, in COPY order.
var Columns = []string{
	"run_id", "source_file", "line_number",
	"marker", "patient", "code", "modifier", "allowed_units", "billed_units",
	"transaction_date", "charged_amount", "allowed_amount", "paid_amount", "payer",
	"start_date", "end_date", "rendering_provider", "claim_number",
	"adjustments", "refs", "remarks",
}

const schemaTemplate = `CREATE TABLE IF NOT EXISTS %[1]s (
	id                 BIGSERIAL PRIMARY KEY,
	run_id             UUID NOT NULL,
	source_file        TEXT NOT NULL,
	line_number        INTEGER NOT NULL,
	marker             TEXT NOT NULL,
	patient            TEXT,
	code               TEXT NOT NULL,
	modifier           TEXT,
	allowed_units      INTEGER,
	billed_units       INTEGER,
	transaction_date   DATE,
	charged_amount     NUMERIC NOT NULL,
	allowed_amount     NUMERIC,
	paid_amount        NUMERIC NOT NULL,
	payer              TEXT NOT NULL,
	start_date         DATE,
	end_date           DATE,
	rendering_provider TEXT,
	claim_number       TEXT,
	adjustments        JSONB NOT NULL,
	refs               JSONB NOT NULL,
	remarks            JSONB NOT NULL,
	loaded_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (run_id);`

// Result describes one completed load.
type Result struct {
	RunID    uuid.UUID
	Rows     int64
	Duration time.Duration
}

// Loader copies service lines into one table.
type Loader struct {
	pool      *pgxpool.Pool
	table     string
	batchSize int
	logger    logging.Logger
}

// Connect opens and pings a connection pool.
func Connect(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// NewLoader returns a loader writing to table. A non-positive batch size uses DefaultBatchSize.
func NewLoader(pool *pgxpool.Pool, table string, batchSize int, logger logging.Logger) (*Loader, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", logging.FormatText)
	}
	return &Loader{pool: pool, table: table, batchSize: batchSize, logger: logger}, nil
}

// EnsureSchema creates the table and its run index when missing.
func (l *Loader) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(schemaTemplate,
		pgx.Identifier{l.table}.Sanitize(),
		pgx.Identifier{l.table + "_run_id_idx"}.Sanitize())
	if _, err := l.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", l.table, err)
	}
	return nil
}

// Load copies lines in batches inside one transaction and stamps them with a new run id.
// Either every line is loaded or none is.
func (l *Loader) Load(ctx context.Context, sourceFile string, lines []models.ServiceLine) (Result, error) {
	start := time.Now()
	result := Result{RunID: uuid.New()}
	logger := l.logger.WithFields(
		logging.F(logging.FieldRunID, result.RunID.String()),
		logging.F(logging.FieldTable, l.table))

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for offset := 0; offset < len(lines); offset += l.batchSize {
		end := min(offset+l.batchSize, len(lines))
		rows := make([][]any, 0, end-offset)
		for i := offset; i < end; i++ {
			values, err := Values(result.RunID, sourceFile, i+1, lines[i])
			if err != nil {
				return result, err
			}
			rows = append(rows, values)
		}

		copied, err := tx.CopyFrom(ctx, pgx.Identifier{l.table}, Columns, pgx.CopyFromRows(rows))
		if err != nil {
			return result, fmt.Errorf("copy %s: %w", l.table, err)
		}
		result.Rows += copied
		logger.Debug("Copied batch", logging.F(logging.FieldCount, copied))
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit: %w", err)
	}

	result.Duration = time.Since(start)
	logger.Info("Loaded service lines",
		logging.F(logging.FieldFile, sourceFile),
		logging.F(logging.FieldCount, result.Rows),
		logging.F(logging.FieldDuration, result.Duration.Milliseconds()))
	return result, nil
}

// Values maps a service line to COPY values in Columns order. Integers outside the
// int4 range are an error.
func Values(runID uuid.UUID, sourceFile string, lineNumber int, line models.ServiceLine) ([]any, error) {
	number, err := toInt4(&lineNumber, "line_number")
	if err != nil {
		return nil, err
	}
	allowedUnits, err := toInt4(line.AllowedUnits, "allowed_units")
	if err != nil {
		return nil, err
	}
	billedUnits, err := toInt4(line.BilledUnits, "billed_units")
	if err != nil {
		return nil, err
	}

	adjustments := line.Adjustments
	if adjustments == nil {
		adjustments = []models.AdjustmentDetail{}
	}
	references := line.References
	if references == nil {
		references = []models.ReferenceDetail{}
	}
	remarks := line.Remarks
	if remarks == nil {
		remarks = []models.RemarkDetail{}
	}

	return []any{
		pgtype.UUID{Bytes: runID, Valid: true},
		sourceFile,
		number.Int32,
		line.Marker,
		ptrToText(line.Patient),
		line.Code,
		ptrToText(line.Modifier),
		allowedUnits,
		billedUnits,
		ptrToDate(line.TransactionDate),
		decimalToNumeric(&line.ChargedAmount),
		decimalToNumeric(line.AllowedAmount),
		decimalToNumeric(&line.PaidAmount),
		line.Payer,
		ptrToDate(line.StartDate),
		ptrToDate(line.EndDate),
		ptrToText(line.RenderingProvider),
		ptrToText(line.ClaimNumber),
		adjustments,
		references,
		remarks,
	}, nil
}

func decimalToNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{Valid: false}
	}
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func ptrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func toInt4(i *int, column string) (pgtype.Int4, error) {
	if i == nil {
		return pgtype.Int4{Valid: false}, nil
	}
	if *i < math.MinInt32 || *i > math.MaxInt32 {
		return pgtype.Int4{}, fmt.Errorf("%s %d out of int4 range", column, *i)
	}
	return pgtype.Int4{Int32: int32(*i), Valid: true}, nil
}

func ptrToDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: *t, Valid: true}
}
