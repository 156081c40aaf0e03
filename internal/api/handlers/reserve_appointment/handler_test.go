package reserve_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewave/appointment-service/internal/api/middleware"
	"github.com/carewave/appointment-service/internal/domain"
	reserveAppointment "github.com/carewave/appointment-service/internal/usecase/reserve_appointment"
)

type fakeUseCase struct {
	req  *reserveAppointment.Request
	resp *reserveAppointment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *reserveAppointment.Request) (*reserveAppointment.Response, error) {
	f.req = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, uc *fakeUseCase, body string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/reserve", strings.NewReader(body))
	if authenticated {
		caller := domain.Caller{ID: 7, Role: domain.RolePatient}
		req = req.WithContext(middleware.WithCaller(req.Context(), caller))
	}

	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func TestReserveHandler_Success(t *testing.T) {
	until := time.Date(2026, 9, 7, 12, 30, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &reserveAppointment.Response{
		SlotID:        101,
		ProviderID:    42,
		StartTime:     time.Date(2026, 9, 9, 10, 0, 0, 0, time.UTC),
		ReservedUntil: until,
	}}

	rec := doRequest(t, uc, `{"providerId": 42, "startTime": "2026-09-09T10:00:00Z"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReserveAppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(101), resp.SlotID)
	assert.Equal(t, "2026-09-07T12:30:00Z", resp.ReservedUntil)

	// Caller из контекста прокинут в use case
	require.NotNil(t, uc.req)
	assert.Equal(t, int64(7), uc.req.Caller.ID)
	assert.Equal(t, int64(42), uc.req.ProviderID)
}

func TestReserveHandler_Unauthenticated(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, `{"providerId": 42, "startTime": "2026-09-09T10:00:00Z"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReserveHandler_MalformedBody(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, `{"providerId": `, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReserveHandler_UnknownField(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, `{"providerId": 42, "startTime": "2026-09-09T10:00:00Z", "extra": 1}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReserveHandler_BadStartTime(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, `{"providerId": 42, "startTime": "вчера"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReserveHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not authorized", reserveAppointment.ErrNotAuthorized, http.StatusForbidden},
		{"too soon", reserveAppointment.ErrTooSoon, http.StatusBadRequest},
		{"slot not available", reserveAppointment.ErrSlotNotAvailable, http.StatusConflict},
		{"duplicate reservation", reserveAppointment.ErrDuplicateReservation, http.StatusConflict},
		{"invalid input", reserveAppointment.ErrInvalidInput, http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{err: tt.err}
			rec := doRequest(t, uc, `{"providerId": 42, "startTime": "2026-09-09T10:00:00Z"}`, true)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
