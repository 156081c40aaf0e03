package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/carewave/appointment-service/internal/api/handlers"
	"github.com/carewave/appointment-service/internal/domain"
	getAvailableSlots "github.com/carewave/appointment-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidProviderID = "некорректный идентификатор провайдера"
	msgInvalidDateRange  = "некорректный диапазон дат, ожидается YYYY-MM-DD"
	msgProviderNotFound  = "провайдер не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/time-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/time-slots - Invalid provider id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	req := &getAvailableSlots.Request{ProviderID: providerID}

	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := time.ParseInLocation(domain.DateFormat, v, time.UTC)
		if err != nil {
			h.logger.Warn("GET /providers/%d/time-slots - Invalid startDate %q", providerID, v)
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
		req.StartDate = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := time.ParseInLocation(domain.DateFormat, v, time.UTC)
		if err != nil {
			h.logger.Warn("GET /providers/%d/time-slots - Invalid endDate %q", providerID, v)
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
		req.EndDate = &t
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrProviderNotFound):
			h.logger.Warn("GET /providers/%d/time-slots - Provider not found", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDateRange), errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /providers/%d/time-slots - Invalid request: %v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		default:
			h.logger.Error("GET /providers/%d/time-slots - Failed to fetch slots: %v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/%d/time-slots - %d slots returned", providerID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
