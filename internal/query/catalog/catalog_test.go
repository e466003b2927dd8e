package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name     string
		typeTag  string
		question string
		wantKey  Key
		wantOk   bool
	}{
		{
			name:    "explicit type wins",
			typeTag: "exercises_count",
			// the question alone would infer workouts_count
			question: "quantos treinos eu fiz?",
			wantKey:  KeyExercisesCount,
			wantOk:   true,
		},
		{
			name:    "explicit type is case insensitive",
			typeTag: "Workouts_Count",
			wantKey: KeyWorkoutsCount,
			wantOk:  true,
		},
		{
			name:     "workout count question",
			question: "Quantos treinos eu fiz?",
			wantKey:  KeyWorkoutsCount,
			wantOk:   true,
		},
		{
			name:     "workout keyword in english",
			question: "how many workouts do I have?",
			wantKey:  KeyWorkoutsCount,
			wantOk:   true,
		},
		{
			name:     "exercise count question",
			question: "quantos exercicios tem no sistema?",
			wantKey:  KeyExercisesCount,
			wantOk:   true,
		},
		{
			name:     "workout plus exercise resolves to listing",
			question: "quais exercícios tem nos meus treinos?",
			wantKey:  KeyWorkoutsExercises,
			wantOk:   true,
		},
		{
			name:     "exercises the caller did resolves to listing",
			question: "quais exercícios eu fiz?",
			wantKey:  KeyWorkoutsExercises,
			wantOk:   true,
		},
		{
			name:     "bogus type falls back to question",
			typeTag:  "bogus",
			question: "quantos treinos eu fiz?",
			wantKey:  KeyWorkoutsCount,
			wantOk:   true,
		},
		{
			name:     "bogus type and unrelated question",
			typeTag:  "bogus",
			question: "...",
		},
		{
			name:     "unrelated question",
			question: "qual a previsão do tempo?",
		},
		{
			name: "empty input",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key, ok := Resolve(tc.typeTag, tc.question)
			require.Equal(t, tc.wantOk, ok)
			assert.Equal(t, tc.wantKey, key)
		})
	}
}

func TestEntry_allKeysCovered(t *testing.T) {
	for _, key := range Keys() {
		entry := key.Entry()
		assert.Equal(t, key, entry.Key)
		assert.NotEmpty(t, entry.SQL)
		assert.NotEmpty(t, entry.Label)
	}

	assert.Panics(t, func() {
		Key("bogus").Entry()
	})
}
