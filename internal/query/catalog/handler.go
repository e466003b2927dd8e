package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fitask/fitask/internal/middleware"
	"github.com/fitask/fitask/internal/query"
	"github.com/fitask/fitask/internal/telemetry/metrics"
	"github.com/fitask/fitask/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

type questionRequest struct {
	Type     string `json:"type"`
	Question string `json:"question"`
}

type questionResponse struct {
	Metric  Key            `json:"metric"`
	Filters map[string]any `json:"filters"`
	Count   int            `json:"count"`
	Data    []string       `json:"data"`
	Raw     []query.Row    `json:"raw"`
}

func (h *Handler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.countOutcome("invalid")
		pkg.SendJSONError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	key, ok := Resolve(req.Type, req.Question)
	if !ok {
		h.countOutcome("unrecognized")
		pkg.SendJSONError(w, http.StatusBadRequest, unrecognizedTypeMessage())
		return
	}

	result, err := h.service.Answer(r.Context(), key, middleware.IdentityFromRequest(r))
	if err != nil {
		h.handleAnswerError(w, key, err)
		return
	}

	h.countOutcome("ok")
	resp, err := json.Marshal(questionResponse{
		Metric:  result.Metric,
		Filters: result.Filters,
		Count:   result.Count,
		Data:    []string{result.Sentence},
		Raw:     result.Raw,
	})
	if err != nil {
		log.Errorf("marshal workout question response: %s", err)
		pkg.SendJSONError(w, http.StatusInternalServerError, "erro interno")
		return
	}
	pkg.WriteJSONResponseOK(w, string(resp))
}

func (h *Handler) handleAnswerError(w http.ResponseWriter, key Key, err error) {
	switch {
	case errors.Is(err, query.ErrMissingIdentity):
		h.countOutcome("missing-identity")
		pkg.SendJSONError(w, http.StatusBadRequest, "identidade do usuário é obrigatória")
	case errors.Is(err, query.ErrUserNotFound):
		h.countOutcome("user-not-found")
		pkg.SendJSONError(w, http.StatusNotFound, "usuário não encontrado")
	default:
		h.countOutcome("error")
		log.Errorf("workout question [%s] failed: %s", key, err)
		pkg.SendJSONError(w, http.StatusInternalServerError, "falha ao consultar o banco de dados")
	}
}

func (h *Handler) countOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.CounterQuestions.WithLabelValues("workout-question", outcome).Inc()
	}
}

func unrecognizedTypeMessage() string {
	keys := Keys()
	quoted := make([]string, 0, len(keys))
	for _, key := range keys {
		quoted = append(quoted, fmt.Sprintf("'%s'", key))
	}
	return "Tipo de pergunta inválido. Use " + strings.Join(quoted, ", ") + "."
}
