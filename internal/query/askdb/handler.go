package askdb

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fitask/fitask/internal/query"
	"github.com/fitask/fitask/internal/query/answer"
	"github.com/fitask/fitask/internal/telemetry/metrics"
	"github.com/fitask/fitask/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	translator *Translator
	metrics    *metrics.Manager
}

func NewHandler(translator *Translator, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		translator: translator,
		metrics:    metricsManager,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	SQL  string      `json:"sql"`
	Data []string    `json:"data"`
	Raw  []query.Row `json:"raw"`
}

func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.countOutcome("invalid")
		pkg.SendJSONError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		h.countOutcome("invalid")
		pkg.SendJSONError(w, http.StatusBadRequest, "pergunta é obrigatória")
		return
	}

	result, err := h.translator.Ask(r.Context(), question)
	if err != nil {
		h.handleAskError(w, err)
		return
	}

	h.countOutcome("ok")
	resp, err := json.Marshal(askResponse{
		SQL:  result.SQL,
		Data: []string{answer.ForQuestion(question, result.Rows)},
		Raw:  result.Rows,
	})
	if err != nil {
		log.Errorf("marshal ask db response: %s", err)
		pkg.SendJSONError(w, http.StatusInternalServerError, "erro interno")
		return
	}
	pkg.WriteJSONResponseOK(w, string(resp))
}

func (h *Handler) handleAskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, query.ErrMissingAPIKey):
		h.countOutcome("unconfigured")
		pkg.SendJSONError(w, http.StatusInternalServerError, "OPENAI_API_KEY não configurada")
	case errors.Is(err, query.ErrQuotaExceeded):
		h.countOutcome("quota")
		pkg.SendJSONError(w, http.StatusTooManyRequests,
			"Cota da OpenAI esgotada. Verifique o plano/billing e tente novamente.")
	case errors.Is(err, query.ErrUpstreamUnavailable):
		h.countOutcome("upstream")
		log.Errorf("ask db: completion failed: %s", err)
		pkg.SendJSONError(w, http.StatusInternalServerError, "Falha ao consultar a OpenAI.")
	case errors.Is(err, query.ErrBadModelOutput):
		h.countOutcome("bad-model-output")
		pkg.SendJSONError(w, http.StatusBadRequest, "Resposta da IA inválida")
	case errors.Is(err, query.ErrUnsafeStatement):
		h.countOutcome("unsafe")
		if h.metrics != nil {
			h.metrics.CounterUnsafeStatements.Inc()
		}
		pkg.SendJSONError(w, http.StatusBadRequest, "SQL não permitido")
	default:
		h.countOutcome("error")
		log.Errorf("ask db failed: %s", err)
		pkg.SendJSONError(w, http.StatusInternalServerError, "falha ao consultar o banco de dados")
	}
}

func (h *Handler) countOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.CounterQuestions.WithLabelValues("ask-db", outcome).Inc()
	}
}
