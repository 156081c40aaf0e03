package set_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/carewave/appointment-service/internal/api/handlers"
	"github.com/carewave/appointment-service/internal/api/middleware"
	setAvailability "github.com/carewave/appointment-service/internal/usecase/set_availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidProviderID  = "некорректный идентификатор провайдера"
	msgNotAuthorized      = "нет прав на изменение расписания этого провайдера"
	msgProviderNotFound   = "провайдер не найден"
	msgInvalidSchedule    = "некорректное расписание доступности"
	msgUnauthenticated    = "требуется аутентификация"
)

type Handler struct {
	useCase SetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase SetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/providers/{providerId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /providers/{providerId}/availability - Invalid provider id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req SetAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /providers/%d/availability - Invalid request body: %v", providerID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(caller, providerID))
	if err != nil {
		switch {
		case errors.Is(err, setAvailability.ErrNotAuthorized):
			h.logger.Warn("POST /providers/%d/availability - Not authorized: caller=%d", providerID, caller.ID)
			handlers.RespondForbidden(w, msgNotAuthorized)

		case errors.Is(err, setAvailability.ErrProviderNotFound):
			h.logger.Warn("POST /providers/%d/availability - Provider not found", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, setAvailability.ErrInvalidSchedule), errors.Is(err, setAvailability.ErrInvalidInput):
			h.logger.Warn("POST /providers/%d/availability - Invalid schedule: %v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		default:
			h.logger.Error("POST /providers/%d/availability - Failed to set availability: %v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/%d/availability - Availability set: created=%d", providerID, result.SlotsCreated)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
