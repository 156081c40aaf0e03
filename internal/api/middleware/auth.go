package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/carewave/appointment-service/internal/api/handlers"
	"github.com/carewave/appointment-service/internal/domain"
)

type ctxKey int

const callerKey ctxKey = iota

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	msgUnauthorized = "требуется аутентификация"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает личность вызывающего из заголовков аутентифицирующего прокси
// Запросы без валидной пары заголовков отклоняются с 401
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("Auth: %s %s - missing or invalid %s header", r.Method, r.URL.Path, headerUserID)
				handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			role := domain.Role(r.Header.Get(headerUserRole))
			if !role.IsValid() {
				logger.Warn("Auth: %s %s - invalid %s header %q", r.Method, r.URL.Path, headerUserRole, r.Header.Get(headerUserRole))
				handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			caller := domain.Caller{ID: userID, Role: role}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// WithCaller кладет вызывающего в контекст запроса
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext извлекает вызывающего из контекста запроса
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	return caller, ok
}
