package reserve_appointment

import (
	"errors"
	"net/http"

	"github.com/carewave/appointment-service/internal/api/handlers"
	"github.com/carewave/appointment-service/internal/api/middleware"
	reserveAppointment "github.com/carewave/appointment-service/internal/usecase/reserve_appointment"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartTime     = "некорректное время начала, ожидается RFC3339"
	msgNotAuthorized        = "резервирование доступно только пациентам"
	msgTooSoon              = "резервировать можно не позднее чем за 24 часа до начала приема"
	msgSlotNotAvailable     = "слот недоступен"
	msgDuplicateReservation = "у вас уже есть слот на это время"
	msgUnauthenticated      = "требуется аутентификация"
)

type Handler struct {
	useCase ReserveAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ReserveAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/reserve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	var req ReserveAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/reserve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(caller)
	if err != nil {
		h.logger.Warn("POST /appointments/reserve - Invalid start time %q: %v", req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveAppointment.ErrNotAuthorized):
			h.logger.Warn("POST /appointments/reserve - Not authorized: caller=%d", caller.ID)
			handlers.RespondForbidden(w, msgNotAuthorized)

		case errors.Is(err, reserveAppointment.ErrTooSoon):
			h.logger.Warn("POST /appointments/reserve - Too soon: caller=%d, start=%s", caller.ID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooSoon)

		case errors.Is(err, reserveAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments/reserve - Slot not available: provider=%d, start=%s",
				req.ProviderID, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, reserveAppointment.ErrDuplicateReservation):
			h.logger.Warn("POST /appointments/reserve - Duplicate reservation: caller=%d, start=%s",
				caller.ID, req.StartTime)
			handlers.RespondConflict(w, msgDuplicateReservation)

		case errors.Is(err, reserveAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/reserve - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments/reserve - Failed to reserve: caller=%d, error=%v", caller.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/reserve - Slot reserved: slot_id=%d, caller=%d", result.SlotID, caller.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
