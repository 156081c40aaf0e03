package get_providers

import (
	"errors"
	"net/http"

	"github.com/carewave/appointment-service/internal/api/handlers"
	"github.com/carewave/appointment-service/internal/api/middleware"
	"github.com/carewave/appointment-service/internal/service/appointments"
)

const (
	msgAccessDenied    = "справочник провайдеров доступен только администраторам"
	msgUnauthenticated = "требуется аутентификация"
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

// Handle GET /api/v1/providers
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	result, err := h.service.ListProviders(r.Context(), caller)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /providers - Access denied: caller=%d", caller.ID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /providers - Failed to list providers: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers - %d providers returned", len(result.Providers))
	handlers.RespondJSON(w, http.StatusOK, result)
}
