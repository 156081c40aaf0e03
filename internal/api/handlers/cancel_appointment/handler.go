package cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/carewave/appointment-service/internal/api/handlers"
	"github.com/carewave/appointment-service/internal/api/middleware"
	cancelAppointment "github.com/carewave/appointment-service/internal/usecase/cancel_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotAuthorized      = "нет прав на отмену этой записи"
	msgSlotNotFound       = "слот не найден"
	msgUnauthenticated    = "требуется аутентификация"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelAppointment.Request{
		Caller: caller,
		SlotID: req.SlotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelAppointment.ErrNotAuthorized):
			h.logger.Warn("POST /appointments/cancel - Not authorized: caller=%d, slot_id=%d", caller.ID, req.SlotID)
			handlers.RespondForbidden(w, msgNotAuthorized)

		case errors.Is(err, cancelAppointment.ErrSlotNotFound):
			h.logger.Warn("POST /appointments/cancel - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, cancelAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments/cancel - Failed to cancel: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/cancel - Appointment cancelled: slot_id=%d, caller=%d", result.SlotID, caller.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
