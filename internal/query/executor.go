package query

import (
	"context"
	"fmt"

	"github.com/fitask/fitask/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Row is one result row, keyed by column name.
type Row = map[string]any

// Executor runs a single parameterized, read-only statement.
// Statements must come from the static catalog, the history query builder,
// or the safety gate - never straight from free text.
type Executor interface {
	QueryRows(ctx context.Context, sql string, args ...any) ([]Row, error)
}

// PoolExecutor is the pgx implementation of Executor.
type PoolExecutor struct {
	db *pgxpool.Pool
}

func NewPoolExecutor(db *pgxpool.Pool) *PoolExecutor {
	return &PoolExecutor{
		db: db,
	}
}

func (e *PoolExecutor) QueryRows(ctx context.Context, sql string, args ...any) (_ []Row, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "executor.query")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("sql", sql))

	rows, err := e.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := make([]Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("row values: %w", err)
		}
		row := make(Row, len(fields))
		for i, field := range fields {
			row[string(field.Name)] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	span.SetAttributes(attribute.Int("rows", len(result)))
	return result, nil
}
