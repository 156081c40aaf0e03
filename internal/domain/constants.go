package domain

// Slot generation constants
const (
	// SlotDurationMinutes fixed slot granularity; no variable-length slots
	SlotDurationMinutes = 15
)

// Default booking policy values
const (
	DefaultAdvanceNoticeHours  = 24 // minimum lead time before a slot can be reserved
	DefaultGracePeriodMinutes  = 30 // window to confirm a reservation before it lapses
	DefaultAvailabilityDays    = 7  // default read range when end date is omitted
	DefaultCacheTTLSeconds     = 3600
	DefaultReconcileLockTTLSec = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupiedStatuses список статусов занятых слотов
// Используется при выборке забронированных приёмов
var OccupiedStatuses = []SlotStatus{
	StatusReserved,
	StatusBooked,
}
