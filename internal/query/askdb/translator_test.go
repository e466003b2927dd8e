package askdb

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitask/fitask/internal/openai"
	"github.com/fitask/fitask/internal/query"
)

type fakeCompletionClient struct {
	content     string
	err         error
	gotSystem   string
	gotQuestion string
}

func (f *fakeCompletionClient) Complete(_ context.Context, systemPrompt, userText string) (string, error) {
	f.gotSystem = systemPrompt
	f.gotQuestion = userText
	return f.content, f.err
}

type fakeExecutor struct {
	rowsBySQL map[string][]query.Row
	err       error
	gotSQL    []string
}

func (f *fakeExecutor) QueryRows(_ context.Context, sql string, _ ...any) ([]query.Row, error) {
	f.gotSQL = append(f.gotSQL, sql)
	if f.err != nil {
		return nil, f.err
	}
	return f.rowsBySQL[sql], nil
}

func TestTranslator_Ask(t *testing.T) {
	client := &fakeCompletionClient{content: `{"sql":"SELECT COUNT(*)::int AS count FROM workouts;"}`}
	executor := &fakeExecutor{rowsBySQL: map[string][]query.Row{
		"SELECT COUNT(*)::int AS count FROM workouts LIMIT 100": {{"count": int32(5)}},
	}}
	translator := NewTranslator(client, executor)

	result, err := translator.Ask(context.Background(), "Quantos treinos existem?")
	require.NoError(t, err)

	// trailing semicolon stripped, limit appended, exact sql returned
	assert.Equal(t, "SELECT COUNT(*)::int AS count FROM workouts LIMIT 100", result.SQL)
	assert.Equal(t, []query.Row{{"count": int32(5)}}, result.Rows)

	assert.Equal(t, "Quantos treinos existem?", client.gotQuestion)
	assert.Contains(t, client.gotSystem, `{"sql":"..."}`)
	assert.Contains(t, client.gotSystem, "workout_exercises(workout_id, exercise_id, sets, reps)")
}

func TestTranslator_Ask_keepsExistingLimit(t *testing.T) {
	client := &fakeCompletionClient{content: `{"sql":"select name from exercises limit 5"}`}
	executor := &fakeExecutor{rowsBySQL: map[string][]query.Row{
		"select name from exercises limit 5": {},
	}}
	translator := NewTranslator(client, executor)

	result, err := translator.Ask(context.Background(), "quais exercicios tem?")
	require.NoError(t, err)
	assert.Equal(t, "select name from exercises limit 5", result.SQL)
}

func TestTranslator_Ask_missingAPIKey(t *testing.T) {
	translator := NewTranslator(nil, &fakeExecutor{})

	_, err := translator.Ask(context.Background(), "Quantos treinos existem?")
	assert.ErrorIs(t, err, query.ErrMissingAPIKey)
}

func TestTranslator_Ask_completionErrors(t *testing.T) {
	t.Run("quota error", func(t *testing.T) {
		client := &fakeCompletionClient{
			err: &openai.APIError{StatusCode: http.StatusTooManyRequests},
		}
		translator := NewTranslator(client, &fakeExecutor{})

		_, err := translator.Ask(context.Background(), "Quantos treinos existem?")
		assert.ErrorIs(t, err, query.ErrQuotaExceeded)
	})

	t.Run("insufficient quota code", func(t *testing.T) {
		client := &fakeCompletionClient{
			err: &openai.APIError{StatusCode: http.StatusForbidden, Code: "insufficient_quota"},
		}
		translator := NewTranslator(client, &fakeExecutor{})

		_, err := translator.Ask(context.Background(), "Quantos treinos existem?")
		assert.ErrorIs(t, err, query.ErrQuotaExceeded)
	})

	t.Run("transport error", func(t *testing.T) {
		client := &fakeCompletionClient{err: errors.New("connection refused")}
		translator := NewTranslator(client, &fakeExecutor{})

		_, err := translator.Ask(context.Background(), "Quantos treinos existem?")
		assert.ErrorIs(t, err, query.ErrUpstreamUnavailable)
	})
}

func TestTranslator_Ask_badModelOutput(t *testing.T) {
	client := &fakeCompletionClient{content: "SELECT * FROM users"}
	translator := NewTranslator(client, &fakeExecutor{})

	_, err := translator.Ask(context.Background(), "Quantos treinos existem?")
	assert.ErrorIs(t, err, query.ErrBadModelOutput)
}

func TestTranslator_Ask_unsafeStatements(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "forbidden keyword", content: `{"sql":"drop table users"}`},
		{name: "not a select", content: `{"sql":"update users set name = 'x'"}`},
		{name: "multiple statements", content: `{"sql":"select 1; drop table users;"}`},
		{name: "empty sql field", content: `{"sql":""}`},
		{name: "keyword smuggled into a select", content: `{"sql":"select * from users where name = 'drop'"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			executor := &fakeExecutor{}
			translator := NewTranslator(&fakeCompletionClient{content: tc.content}, executor)

			_, err := translator.Ask(context.Background(), "Quantos treinos existem?")
			assert.ErrorIs(t, err, query.ErrUnsafeStatement)
			assert.Empty(t, executor.gotSQL, "rejected statement must never execute")
		})
	}
}

func TestTranslator_Ask_ensureUserEmails(t *testing.T) {
	t.Run("user question without email column refetches", func(t *testing.T) {
		client := &fakeCompletionClient{content: `{"sql":"select * from users"}`}
		executor := &fakeExecutor{rowsBySQL: map[string][]query.Row{
			"select * from users LIMIT 100": {{"count": int32(3)}},
			userEmailsSQL: {
				{"email": "ana@mail.com"},
				{"email": "bia@mail.com"},
				{"email": "caio@mail.com"},
			},
		}}
		translator := NewTranslator(client, executor)

		result, err := translator.Ask(context.Background(), "Quantos usuários existem?")
		require.NoError(t, err)

		require.Len(t, executor.gotSQL, 2)
		assert.Equal(t, userEmailsSQL, executor.gotSQL[1])
		assert.Len(t, result.Rows, 3)
	})

	t.Run("rows with emails are kept as-is", func(t *testing.T) {
		client := &fakeCompletionClient{content: `{"sql":"select email from users"}`}
		executor := &fakeExecutor{rowsBySQL: map[string][]query.Row{
			"select email from users LIMIT 100": {{"email": "ana@mail.com"}},
		}}
		translator := NewTranslator(client, executor)

		result, err := translator.Ask(context.Background(), "Quais usuários existem?")
		require.NoError(t, err)

		require.Len(t, executor.gotSQL, 1)
		assert.Equal(t, []query.Row{{"email": "ana@mail.com"}}, result.Rows)
	})

	t.Run("non user question skips the refetch", func(t *testing.T) {
		client := &fakeCompletionClient{content: `{"sql":"select name from exercises"}`}
		executor := &fakeExecutor{rowsBySQL: map[string][]query.Row{
			"select name from exercises LIMIT 100": {{"name": "Supino"}},
		}}
		translator := NewTranslator(client, executor)

		_, err := translator.Ask(context.Background(), "Quais exercícios existem?")
		require.NoError(t, err)
		require.Len(t, executor.gotSQL, 1)
	})
}

func TestTranslator_Ask_executorError(t *testing.T) {
	client := &fakeCompletionClient{content: `{"sql":"select 1"}`}
	executor := &fakeExecutor{err: errors.New("connection refused")}
	translator := NewTranslator(client, executor)

	_, err := translator.Ask(context.Background(), "Quantos treinos existem?")
	assert.ErrorContains(t, err, "run generated query")
}
