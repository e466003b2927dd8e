// Package catalog answers structured workout questions from a fixed set of
// pre-vetted SQL templates. Free text never becomes SQL text here; a question
// only selects which template runs.
package catalog

import (
	"strings"

	"github.com/fitask/fitask/internal/query"
)

// Key enumerates the catalog. Adding a key means extending the switch in
// Entry, which the compiler then checks at every use site.
type Key string

const (
	KeyWorkoutsCount     Key = "workouts_count"
	KeyExercisesCount    Key = "exercises_count"
	KeyWorkoutsExercises Key = "workouts_exercises"
)

// Keys returns all catalog keys, used in the "unrecognized question" error.
func Keys() []Key {
	return []Key{KeyWorkoutsCount, KeyExercisesCount, KeyWorkoutsExercises}
}

type Entry struct {
	Key              Key
	RequiresIdentity bool
	SQL              string
	// Label is the Portuguese noun used in the answer sentence.
	Label string
}

// Entry returns the fixed template for a key. Only keys produced by Resolve
// reach this; anything else means a programming error, hence the panic.
func (k Key) Entry() Entry {
	switch k {
	case KeyWorkoutsCount:
		return Entry{
			Key:              KeyWorkoutsCount,
			RequiresIdentity: true,
			SQL:              `SELECT COUNT(*)::int AS count FROM workouts WHERE user_id = $1`,
			Label:            "treino",
		}
	case KeyExercisesCount:
		return Entry{
			Key:              KeyExercisesCount,
			RequiresIdentity: false,
			SQL:              `SELECT COUNT(*)::int AS count FROM exercises`,
			Label:            "exercício",
		}
	case KeyWorkoutsExercises:
		return Entry{
			Key:              KeyWorkoutsExercises,
			RequiresIdentity: true,
			SQL: `SELECT w.name AS workout_name,
       e.name AS exercise_name,
       we.sets,
       we.reps
  FROM workouts w
  JOIN workout_exercises we ON we.workout_id = w.id
  JOIN exercises e ON e.id = we.exercise_id
 WHERE w.user_id = $1
 ORDER BY w.name, e.name
 LIMIT 100`,
			Label: "exercício",
		}
	default:
		panic("unknown catalog key: " + string(k))
	}
}

// Resolve matches an explicit type tag or, failing that, infers the catalog
// key from the question text. An explicit tag matching a key always wins.
// Inference order matters: the combined listing is checked before the two
// count questions.
func Resolve(rawType, rawQuestion string) (Key, bool) {
	typeTag := strings.ToLower(strings.TrimSpace(rawType))
	for _, key := range Keys() {
		if typeTag == string(key) {
			return key, true
		}
	}

	question := query.NormalizeText(rawQuestion)
	if question == "" {
		return "", false
	}

	mentionsWorkout := strings.Contains(question, "treino") || strings.Contains(question, "workout")
	mentionsExercise := strings.Contains(question, "exercicio") || strings.Contains(question, "exercise")

	switch {
	case mentionsWorkout && mentionsExercise:
		return KeyWorkoutsExercises, true
	case mentionsExercise && mentionsDoing(question):
		// "quais exercícios eu fiz?" asks for the per-user listing, not
		// the global exercise count
		return KeyWorkoutsExercises, true
	case mentionsWorkout:
		return KeyWorkoutsCount, true
	case mentionsExercise:
		return KeyExercisesCount, true
	default:
		return "", false
	}
}

func mentionsDoing(question string) bool {
	for _, marker := range []string{"eu fiz", "eu faco", "que fiz", "que faco"} {
		if strings.Contains(question, marker) {
			return true
		}
	}
	return false
}
