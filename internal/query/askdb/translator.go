// Package askdb answers open natural-language questions by asking a language
// model for a single SELECT, gating it through the SQL safety checks and only
// then executing it. Model output is never trusted as-is.
package askdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fitask/fitask/internal/openai"
	"github.com/fitask/fitask/internal/query"
	"github.com/fitask/fitask/internal/query/answer"
	"github.com/fitask/fitask/internal/query/sqlsafe"
	"github.com/fitask/fitask/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const schemaDescription = `Tabelas:
- users(id, name, email, password_hash, birthdate, weight_kg, height_cm, created_at)
- exercises(id, name)
- workouts(id, user_id, name, total_calories, created_at)
- workout_exercises(workout_id, exercise_id, sets, reps)

Relacionamentos:
- workouts.user_id -> users.id
- workout_exercises.workout_id -> workouts.id
- workout_exercises.exercise_id -> exercises.id`

const systemPrompt = `Você gera apenas UMA consulta SQL para PostgreSQL baseada na pergunta do usuário.
Regras:
- Apenas SELECT.
- Não use INSERT/UPDATE/DELETE/DDL.
- Retorne SOMENTE JSON no formato: {"sql":"..."}.
- Montar uma resposta legível e amigável para o usuário com os dados de retorno da query feita.
- Se a pergunta for, por exemplo, "Quantos usuários existem?", retorne: Existem X usuários cadastrados.
- Se a pergunta for, por exemplo, "Quantos treinos tem esse usuário?", retorne: Existem X treinos cadastrados para esse usuário e o nome dos treinos.
- Se a pergunta for, por exemplo, "Quais exercícios esse usuário faz?" deve verificar todos os treinos do usuário e buscar todos os exercícios vinculados, retorne: São os seguintes exercícios: X, Y, Z.
- Se a pergunta for ambígua, use um SELECT simples.
- Sempre que fizer sentido, adicione LIMIT 100.

Schema:
` + schemaDescription

const userEmailsSQL = `SELECT email FROM users ORDER BY created_at LIMIT 100`

type completionClient interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

type Translator struct {
	// client is nil when no API credential is configured; every Ask then
	// fails with query.ErrMissingAPIKey.
	client   completionClient
	executor query.Executor
}

func NewTranslator(client completionClient, executor query.Executor) *Translator {
	return &Translator{
		client:   client,
		executor: executor,
	}
}

type Result struct {
	// SQL is the exact statement that was executed, returned to the caller
	// for auditability.
	SQL  string
	Rows []query.Row
}

type modelReply struct {
	SQL string `json:"sql"`
}

// Ask translates the question to SQL via the model, runs the safety gate and
// executes the surviving statement.
func (t *Translator) Ask(ctx context.Context, question string) (*Result, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "askdb.ask")
	defer span.End()

	if t.client == nil {
		return nil, query.ErrMissingAPIKey
	}

	content, err := t.client.Complete(ctx, systemPrompt, question)
	if err != nil {
		if openai.IsQuotaError(err) {
			return nil, fmt.Errorf("%w: %v", query.ErrQuotaExceeded, err)
		}
		return nil, fmt.Errorf("%w: %v", query.ErrUpstreamUnavailable, err)
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		log.Warnf("ask db: model reply is not the expected JSON: %s", err)
		return nil, query.ErrBadModelOutput
	}

	sql, err := sqlsafe.Normalize(reply.SQL)
	if err != nil {
		log.Warnf("ask db: model sql rejected: %s", err)
		return nil, query.ErrUnsafeStatement
	}
	if !sqlsafe.IsSafeSelect(sql) {
		log.Warnf("ask db: model sql rejected: not a safe select")
		return nil, query.ErrUnsafeStatement
	}
	sql = sqlsafe.EnsureLimit(sql, sqlsafe.DefaultLimit)
	span.SetAttributes(attribute.String("askdb.sql", sql))

	rows, err := t.executor.QueryRows(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("run generated query: %w", err)
	}

	rows, err = t.ensureUserEmails(ctx, question, rows)
	if err != nil {
		return nil, err
	}

	return &Result{SQL: sql, Rows: rows}, nil
}

// ensureUserEmails re-queries for user emails when a user question came back
// without an email column, so the answer can list the users it counted.
func (t *Translator) ensureUserEmails(ctx context.Context, question string, rows []query.Row) ([]query.Row, error) {
	if !mentionsUsers(question) || answer.HasEmails(rows) {
		return rows, nil
	}

	userRows, err := t.executor.QueryRows(ctx, userEmailsSQL)
	if err != nil {
		return nil, fmt.Errorf("fetch user emails: %w", err)
	}
	return userRows, nil
}

func mentionsUsers(question string) bool {
	return strings.Contains(query.NormalizeText(question), "usuario")
}
