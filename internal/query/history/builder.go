package history

import "fmt"

const baseQuery = `SELECT wd.id,
       wd.user_id,
       wd.workout_id,
       wd.done_at,
       w.name AS workout_name,
       COALESCE(
         json_agg(
           json_build_object(
             'id', e.id,
             'name', e.name,
             'sets', wde.sets,
             'reps', wde.reps,
             'weightKg', wde.weight_kg
           ) ORDER BY e.name
         ) FILTER (WHERE e.id IS NOT NULL),
         '[]'
       ) AS exercises
  FROM workout_dones wd
  JOIN workouts w ON w.id = wd.workout_id
  LEFT JOIN workout_done_exercises wde ON wde.workout_done_id = wd.id
  LEFT JOIN exercises e ON e.id = wde.exercise_id
 %s
 GROUP BY wd.id, w.name
 ORDER BY wd.done_at DESC`

const (
	existsByExerciseID = `EXISTS (
    SELECT 1
      FROM workout_done_exercises wde2
     WHERE wde2.workout_done_id = wd.id
       AND wde2.exercise_id = $%d
  )`
	existsByExerciseName = `EXISTS (
    SELECT 1
      FROM workout_done_exercises wde2
      JOIN exercises e2 ON e2.id = wde2.exercise_id
     WHERE wde2.workout_done_id = wd.id
       AND e2.name ILIKE $%d
  )`
)

// whereBuilder accumulates WHERE conditions and their bound parameters in
// lock-step. It is immutable: and returns a new builder, so a condition can
// never be added without its parameters (or vice versa), and placeholder
// indices always match parameter positions.
type whereBuilder struct {
	conditions []string
	params     []any
}

// and appends a condition. condFormat must contain one %d verb per value in
// args; the verbs are filled with the next sequential placeholder indices.
func (b whereBuilder) and(condFormat string, args ...any) whereBuilder {
	placeholders := make([]any, 0, len(args))
	for i := range args {
		placeholders = append(placeholders, len(b.params)+i+1)
	}

	next := whereBuilder{
		conditions: make([]string, 0, len(b.conditions)+1),
		params:     make([]any, 0, len(b.params)+len(args)),
	}
	next.conditions = append(next.conditions, b.conditions...)
	next.conditions = append(next.conditions, fmt.Sprintf(condFormat, placeholders...))
	next.params = append(next.params, b.params...)
	next.params = append(next.params, args...)
	return next
}

func (b whereBuilder) clause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	clause := "WHERE " + b.conditions[0]
	for _, condition := range b.conditions[1:] {
		clause += "\n   AND " + condition
	}
	return clause
}

// BuildWorkoutHistoryQuery assembles the history statement. The identity
// predicate always comes first and is never optional; date and exercise
// predicates follow when the FilterSet carries them. Values reach the
// statement only as bound parameters.
func BuildWorkoutHistoryQuery(identity any, filters FilterSet) (string, []any) {
	b := whereBuilder{}.and("wd.user_id = $%d", identity)

	if filters.StartDate != "" && filters.EndDate != "" {
		b = b.and("wd.done_at::date BETWEEN $%d AND $%d", filters.StartDate, filters.EndDate)
	}

	switch {
	case filters.ExerciseID != "":
		b = b.and(existsByExerciseID, filters.ExerciseID)
	case filters.ExerciseName != "":
		b = b.and(existsByExerciseName, "%"+filters.ExerciseName+"%")
	}

	return fmt.Sprintf(baseQuery, b.clause()), b.params
}
