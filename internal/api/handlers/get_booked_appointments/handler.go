package get_booked_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/carewave/appointment-service/internal/api/handlers"
	"github.com/carewave/appointment-service/internal/api/middleware"
	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/service/appointments"
	"github.com/carewave/appointment-service/internal/service/appointments/models"
)

const (
	msgInvalidProviderID = "некорректный идентификатор провайдера"
	msgInvalidDateRange  = "некорректный диапазон дат, ожидается YYYY-MM-DD"
	msgProviderNotFound  = "провайдер не найден"
	msgUnauthenticated   = "требуется аутентификация"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/booked-appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/booked-appointments - Invalid provider id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	req := &models.GetBookedAppointmentsRequest{
		Caller:     caller,
		ProviderID: providerID,
	}

	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := time.ParseInLocation(domain.DateFormat, v, time.UTC)
		if err != nil {
			h.logger.Warn("GET /providers/%d/booked-appointments - Invalid startDate %q", providerID, v)
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
		req.StartDate = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := time.ParseInLocation(domain.DateFormat, v, time.UTC)
		if err != nil {
			h.logger.Warn("GET /providers/%d/booked-appointments - Invalid endDate %q", providerID, v)
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
		req.EndDate = &t
	}

	result, err := h.service.GetBookedAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrProviderNotFound):
			h.logger.Warn("GET /providers/%d/booked-appointments - Provider not found", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /providers/%d/booked-appointments - Invalid request: %v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidProviderID)

		default:
			h.logger.Error("GET /providers/%d/booked-appointments - Failed to fetch appointments: %v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/%d/booked-appointments - %d appointments returned",
		providerID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
