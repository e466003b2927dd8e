package history

import (
	"encoding/json"
	"errors"
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

type historyResponse struct {
	Data []string    `json:"data"`
	Raw  []query.Row `json:"raw"`
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.countOutcome("invalid")
		pkg.SendJSONError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		h.countOutcome("invalid")
		pkg.SendJSONError(w, http.StatusBadRequest, "pergunta é obrigatória")
		return
	}

	result, err := h.service.Answer(r.Context(), middleware.IdentityFromRequest(r), req)
	if err != nil {
		h.handleAnswerError(w, err)
		return
	}

	h.countOutcome("ok")
	resp, err := json.Marshal(historyResponse{
		Data: []string{result.Sentence},
		Raw:  result.Raw,
	})
	if err != nil {
		log.Errorf("marshal workout history response: %s", err)
		pkg.SendJSONError(w, http.StatusInternalServerError, "erro interno")
		return
	}
	pkg.WriteJSONResponseOK(w, string(resp))
}

func (h *Handler) handleAnswerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, query.ErrMissingIdentity):
		h.countOutcome("missing-identity")
		pkg.SendJSONError(w, http.StatusBadRequest, "identidade do usuário é obrigatória")
	case errors.Is(err, query.ErrUserNotFound):
		h.countOutcome("user-not-found")
		pkg.SendJSONError(w, http.StatusNotFound, "usuário não encontrado")
	default:
		h.countOutcome("error")
		log.Errorf("workout history failed: %s", err)
		pkg.SendJSONError(w, http.StatusInternalServerError, "falha ao consultar o banco de dados")
	}
}

func (h *Handler) countOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.CounterQuestions.WithLabelValues("workout-history", outcome).Inc()
	}
}
