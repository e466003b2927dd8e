package askdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitask/fitask/internal/openai"
	"github.com/fitask/fitask/internal/query"
	"github.com/fitask/fitask/internal/telemetry/metrics"
)

func newTestHandler(client completionClient, executor query.Executor) *Handler {
	return NewHandler(NewTranslator(client, executor), metrics.NewTestManager())
}

func doAskRequest(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask-db", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.HandleAsk(rr, req)
	return rr
}

func TestHandler_HandleAsk_usersEndToEnd(t *testing.T) {
	client := &fakeCompletionClient{content: `{"sql":"SELECT COUNT(*)::int AS count FROM users"}`}
	executor := &fakeExecutor{rowsBySQL: map[string][]query.Row{
		"SELECT COUNT(*)::int AS count FROM users LIMIT 100": {{"count": int32(3)}},
		userEmailsSQL: {
			{"email": "ana@mail.com"},
			{"email": "bia@mail.com"},
			{"email": "caio@mail.com"},
		},
	}}
	handler := newTestHandler(client, executor)

	rr := doAskRequest(t, handler, `{"question":"Quantos usuários existem?"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp askResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "SELECT COUNT(*)::int AS count FROM users LIMIT 100", resp.SQL)
	require.Len(t, resp.Data, 1)
	assert.Contains(t, resp.Data[0], "3 usuários")
	assert.Contains(t, resp.Data[0], "1. ana@mail.com")
	assert.Len(t, resp.Raw, 3)
}

func TestHandler_HandleAsk_errors(t *testing.T) {
	t.Run("missing question", func(t *testing.T) {
		handler := newTestHandler(&fakeCompletionClient{}, &fakeExecutor{})

		rr := doAskRequest(t, handler, `{"question":"  "}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := newTestHandler(&fakeCompletionClient{}, &fakeExecutor{})

		rr := doAskRequest(t, handler, `{"question"`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no api key configured", func(t *testing.T) {
		handler := NewHandler(NewTranslator(nil, &fakeExecutor{}), metrics.NewTestManager())

		rr := doAskRequest(t, handler, `{"question":"Quantos treinos existem?"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "OPENAI_API_KEY")
	})

	t.Run("quota exhausted maps to 429", func(t *testing.T) {
		client := &fakeCompletionClient{
			err: &openai.APIError{StatusCode: http.StatusTooManyRequests},
		}
		handler := newTestHandler(client, &fakeExecutor{})

		rr := doAskRequest(t, handler, `{"question":"Quantos treinos existem?"}`)
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	})

	t.Run("transport failure maps to 500", func(t *testing.T) {
		client := &fakeCompletionClient{
			err: &openai.APIError{StatusCode: http.StatusBadGateway},
		}
		handler := newTestHandler(client, &fakeExecutor{})

		rr := doAskRequest(t, handler, `{"question":"Quantos treinos existem?"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("bad model output maps to 400", func(t *testing.T) {
		client := &fakeCompletionClient{content: "not json"}
		handler := newTestHandler(client, &fakeExecutor{})

		rr := doAskRequest(t, handler, `{"question":"Quantos treinos existem?"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Resposta da IA inválida")
	})

	t.Run("unsafe sql maps to 400 without detail", func(t *testing.T) {
		client := &fakeCompletionClient{content: `{"sql":"drop table users"}`}
		handler := newTestHandler(client, &fakeExecutor{})

		rr := doAskRequest(t, handler, `{"question":"Quantos treinos existem?"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "SQL não permitido")
		assert.NotContains(t, rr.Body.String(), "drop")
	})

	t.Run("db failure maps to 500", func(t *testing.T) {
		client := &fakeCompletionClient{content: `{"sql":"select 1"}`}
		executor := &fakeExecutor{err: assert.AnError}
		handler := newTestHandler(client, executor)

		rr := doAskRequest(t, handler, `{"question":"Quantos treinos existem?"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "banco de dados")
	})
}
