package catalog

import (
	"context"
	"fmt"

	"github.com/fitask/fitask/internal/query"
	"github.com/fitask/fitask/internal/query/answer"
	"github.com/fitask/fitask/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type Service struct {
	executor query.Executor
	identity *query.IdentityResolver
}

func NewService(executor query.Executor, identity *query.IdentityResolver) *Service {
	return &Service{
		executor: executor,
		identity: identity,
	}
}

// Result is the structured answer for one catalog question.
type Result struct {
	Metric   Key
	Filters  map[string]any
	Count    int
	Sentence string
	Raw      []query.Row
}

// Answer runs the catalog entry for key, resolving the caller identity when
// the entry needs one. The identity token is an email when it contains "@"
// (and email lookup is enabled), otherwise it is used verbatim as the id.
func (s *Service) Answer(ctx context.Context, key Key, identityToken string) (*Result, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.answer")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.key", string(key)))

	entry := key.Entry()

	filters := map[string]any{}
	var params []any
	if entry.RequiresIdentity {
		userID, err := s.identity.Resolve(ctx, identityToken)
		if err != nil {
			return nil, err
		}
		filters["userId"] = userID
		params = append(params, userID)
	}

	rows, err := s.executor.QueryRows(ctx, entry.SQL, params...)
	if err != nil {
		return nil, fmt.Errorf("run catalog query %q: %w", key, err)
	}

	result := &Result{
		Metric:  key,
		Filters: filters,
		Raw:     rows,
	}
	switch key {
	case KeyWorkoutsCount, KeyExercisesCount:
		count, _ := answer.CountValue(rows)
		result.Count = count
		result.Sentence = answer.FormatCount(entry.Label, count)
	case KeyWorkoutsExercises:
		result.Count = len(rows)
		result.Sentence = answer.FormatCountWithList(entry.Label, exerciseItems(rows), len(rows))
	}

	return result, nil
}

// exerciseItems renders one list item per row: "Supino (Treino A, 3x10)".
func exerciseItems(rows []query.Row) []string {
	items := make([]string, 0, len(rows))
	for _, row := range rows {
		exercise, _ := row["exercise_name"].(string)
		if exercise == "" {
			continue
		}
		workout, _ := row["workout_name"].(string)

		sets, setsOk := intValue(row["sets"])
		reps, repsOk := intValue(row["reps"])
		switch {
		case workout != "" && setsOk && repsOk:
			items = append(items, fmt.Sprintf("%s (%s, %dx%d)", exercise, workout, sets, reps))
		case workout != "":
			items = append(items, fmt.Sprintf("%s (%s)", exercise, workout))
		default:
			items = append(items, exercise)
		}
	}
	return items
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
