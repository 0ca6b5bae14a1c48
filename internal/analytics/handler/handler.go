// Package handler wires the analytics read surface and the reschedule write
// path onto the router. It stays thin: decode, delegate, encode.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"padoca/internal/analytics"
	id "padoca/pkg/domain"
	dErrors "padoca/pkg/domain-errors"
	"padoca/pkg/platform/httputil"
	"padoca/pkg/requestcontext"
)

// Handler wires analytics endpoints to the analytics service.
type Handler struct {
	service *analytics.Service
	logger  *slog.Logger
}

// New constructs an analytics handler with its dependencies.
func New(service *analytics.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts analytics endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/analytics/giro", h.handleGiro)
	r.Get("/analytics/production-needs", h.handleProductionNeeds)
	r.Get("/analytics/fleet-review", h.handleFleetReview)
	r.Get("/analytics/reschedules/summary", h.handleRescheduleSummary)
	r.Get("/analytics/clients/{clientID}/giro", h.handleClientGiro)
	r.Get("/analytics/clients/{clientID}/cadence", h.handleCadence)
	r.Get("/analytics/clients/{clientID}/confirmation", h.handleConfirmation)
	r.Get("/analytics/clients/{clientID}/performance", h.handlePerformance)
	r.Post("/deliveries/{clientID}/reschedule", h.handleReschedule)
}

func (h *Handler) handleGiro(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.GiroSnapshot(r.Context())
	if err != nil {
		h.logError(r, "giro snapshot failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleProductionNeeds(w http.ResponseWriter, r *http.Request) {
	needs, err := h.service.ProductionNeeds(r.Context())
	if err != nil {
		h.logError(r, "production needs failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, needs)
}

func (h *Handler) handleFleetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.FleetReview(r.Context())
	if err != nil {
		h.logError(r, "fleet review failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, review)
}

func (h *Handler) handleRescheduleSummary(w http.ResponseWriter, r *http.Request) {
	var clientIDs []id.ClientID
	for _, raw := range r.URL.Query()["client_id"] {
		clientID, err := id.ParseClientID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid client_id filter"))
			return
		}
		clientIDs = append(clientIDs, clientID)
	}

	summary, err := h.service.RescheduleSummary(r.Context(), clientIDs)
	if err != nil {
		h.logError(r, "reschedule summary failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleClientGiro(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	snapshot, err := h.service.ClientGiro(r.Context(), clientID)
	if err != nil {
		h.logError(r, "client giro failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleCadence(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	div, err := h.service.CadenceDivergence(r.Context(), clientID)
	if err != nil {
		h.logError(r, "cadence divergence failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, div)
}

func (h *Handler) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	score, err := h.service.ConfirmationScore(r.Context(), clientID)
	if err != nil {
		h.logError(r, "confirmation score failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, score)
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	status, err := h.service.PerformanceStatus(r.Context(), clientID)
	if err != nil {
		h.logError(r, "performance status failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

// rescheduleRequest carries the date move. Dates accept YYYY-MM-DD.
type rescheduleRequest struct {
	OriginalDate string `json:"original_date"`
	NewDate      string `json:"new_date"`
}

func (h *Handler) handleReschedule(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	originalDate, err := time.Parse("2006-01-02", req.OriginalDate)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "original_date must be YYYY-MM-DD"))
		return
	}
	newDate, err := time.Parse("2006-01-02", req.NewDate)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "new_date must be YYYY-MM-DD"))
		return
	}

	event, err := h.service.RecordReschedule(r.Context(), clientID, originalDate, newDate)
	if err != nil {
		h.logError(r, "record reschedule failed", err)
		httputil.WriteError(w, err)
		return
	}
	if event == nil {
		// Same-week move or replayed write: nothing was recorded.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) clientID(w http.ResponseWriter, r *http.Request) (id.ClientID, bool) {
	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "client id is required"))
		return "", false
	}
	return clientID, true
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	if h.logger == nil {
		return
	}
	h.logger.ErrorContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
}
