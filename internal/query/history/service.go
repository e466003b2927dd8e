package history

import (
	"context"
	"fmt"
	"time"

	"github.com/fitask/fitask/internal/query"
	"github.com/fitask/fitask/internal/query/answer"
	"github.com/fitask/fitask/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type Service struct {
	executor query.Executor
	identity *query.IdentityResolver
	now      func() time.Time
}

func NewService(executor query.Executor, identity *query.IdentityResolver) *Service {
	return &Service{
		executor: executor,
		identity: identity,
		now:      time.Now,
	}
}

type Result struct {
	Sentence string
	Raw      []query.Row
}

// Answer parses the request filters, builds the identity-scoped history
// statement and renders the summary sentence. Zero matching rows still
// produce a sentence, never an empty answer.
func (s *Service) Answer(ctx context.Context, identityToken string, req Request) (*Result, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "history.answer")
	defer span.End()

	userID, err := s.identity.Resolve(ctx, identityToken)
	if err != nil {
		return nil, err
	}

	filters := ParseFilters(req, s.now())
	span.SetAttributes(
		attribute.String("history.start_date", filters.StartDate),
		attribute.String("history.end_date", filters.EndDate),
		attribute.String("history.exercise_id", filters.ExerciseID),
		attribute.String("history.exercise_name", filters.ExerciseName),
	)

	sql, params := BuildWorkoutHistoryQuery(userID, filters)
	rows, err := s.executor.QueryRows(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("run workout history query: %w", err)
	}

	return &Result{
		Sentence: answer.FormatHistory(rows),
		Raw:      rows,
	}, nil
}
