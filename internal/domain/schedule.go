package domain

// Schedule is the declarative availability document submitted by a provider.
// Recurring rules are expanded into concrete slots, exception dates fully
// replace the recurring output for that date, manual entries are added last
// and are strictly additive.
type Schedule struct {
	General     *GeneralSchedule  `json:"general_schedule,omitempty"`
	Exceptions  []DateException   `json:"exceptions,omitempty"`
	ManualSlots []ManualSlotEntry `json:"manual_appointment_slots,omitempty"`
}

// GeneralSchedule describes weekly recurring availability within a date range
type GeneralSchedule struct {
	StartDate string          `json:"start_date"` // YYYY-MM-DD
	EndDate   string          `json:"end_date"`   // YYYY-MM-DD
	Times     []RecurringRule `json:"times"`
}

// RecurringRule is one weekly rule: a weekday expression plus a daily time window.
// Days is either a single day code or an inclusive range over the alphabet
// M, T, W, Th, F, Sa, Su (e.g. "Th" or "M-F").
type RecurringRule struct {
	Days  string `json:"days"`
	Start string `json:"start"` // "09:00" or "9am"
	End   string `json:"end"`
}

// TimeRange is a start/end time-of-day pair within a single date
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DateException overrides recurring availability for one date.
// An empty Times list means the provider is unavailable that date.
type DateException struct {
	Date  string      `json:"date"` // YYYY-MM-DD
	Times []TimeRange `json:"times"`
}

// ManualSlotEntry adds ad-hoc availability on one date. Manual entries are
// not subject to exception suppression and may duplicate other slots.
type ManualSlotEntry struct {
	Date  string      `json:"date"` // YYYY-MM-DD
	Times []TimeRange `json:"times"`
}

// IsEmpty returns true if the schedule contains no rules at all
func (s *Schedule) IsEmpty() bool {
	return (s.General == nil || len(s.General.Times) == 0) &&
		len(s.Exceptions) == 0 && len(s.ManualSlots) == 0
}
