package confirm_reservation

import (
	"errors"
	"net/http"

	"github.com/carewave/appointment-service/internal/api/handlers"
	"github.com/carewave/appointment-service/internal/api/middleware"
	confirmReservation "github.com/carewave/appointment-service/internal/usecase/confirm_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotAuthorized      = "нет прав на подтверждение этой резервации"
	msgSlotNotFound       = "слот не найден"
	msgReservationExpired = "срок резервации истек"
	msgNotReserved        = "слот не зарезервирован"
	msgUnauthenticated    = "требуется аутентификация"
)

type Handler struct {
	useCase ConfirmReservationUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	var req ConfirmReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmReservation.Request{
		Caller: caller,
		SlotID: req.SlotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmReservation.ErrNotAuthorized):
			h.logger.Warn("POST /appointments/confirm - Not authorized: caller=%d, slot_id=%d", caller.ID, req.SlotID)
			handlers.RespondForbidden(w, msgNotAuthorized)

		case errors.Is(err, confirmReservation.ErrSlotNotFound):
			h.logger.Warn("POST /appointments/confirm - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, confirmReservation.ErrReservationExpired):
			h.logger.Warn("POST /appointments/confirm - Reservation expired: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgReservationExpired)

		case errors.Is(err, confirmReservation.ErrNotReserved):
			h.logger.Warn("POST /appointments/confirm - Slot not reserved: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgNotReserved)

		case errors.Is(err, confirmReservation.ErrInvalidInput):
			h.logger.Warn("POST /appointments/confirm - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments/confirm - Failed to confirm: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/confirm - Reservation confirmed: slot_id=%d, caller=%d", result.SlotID, caller.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
