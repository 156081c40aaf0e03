package domain

import "time"

// SlotStatus represents the lifecycle status of an appointment slot
type SlotStatus string

const (
	// StatusAvailable slot is free and can be reserved
	StatusAvailable SlotStatus = "available"
	// StatusReserved slot is held by a patient awaiting confirmation
	StatusReserved SlotStatus = "reserved"
	// StatusBooked slot reservation has been confirmed
	StatusBooked SlotStatus = "booked"
)

// AppointmentSlot represents a persisted 15-minute appointment slot of a provider.
// Uniqueness invariant: no two slots of the same provider share a start time.
// Slots are never hard-deleted; cancellation returns them to StatusAvailable.
type AppointmentSlot struct {
	ID         int64
	ProviderID int64
	StartTime  time.Time
	EndTime    time.Time
	Status     SlotStatus

	// ClientID is set once a reservation is confirmed
	ClientID *int64
	// ReservedBy holds the patient who placed an unconfirmed reservation
	ReservedBy *int64
	// ReservedUntil is the expiry of an unconfirmed reservation
	ReservedUntil *time.Time
	Confirmed     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAvailable returns true if the slot can be reserved
func (s *AppointmentSlot) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// IsReservationExpired returns true if the slot holds an unconfirmed
// reservation whose grace period has passed. Expiry is a passive timestamp
// comparison; expired slots stay StatusReserved until a reclaim pass runs.
func (s *AppointmentSlot) IsReservationExpired(now time.Time) bool {
	return s.Status == StatusReserved && !s.Confirmed &&
		s.ReservedUntil != nil && s.ReservedUntil.Before(now)
}

// IsHeldBy returns true if userID placed the reservation or confirmed booking
func (s *AppointmentSlot) IsHeldBy(userID int64) bool {
	if s.ReservedBy != nil && *s.ReservedBy == userID {
		return true
	}
	if s.ClientID != nil && *s.ClientID == userID {
		return true
	}
	return false
}

// Day returns the UTC calendar date the slot starts on
func (s *AppointmentSlot) Day() time.Time {
	y, m, d := s.StartTime.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CandidateSlot is an ephemeral slot produced by schedule generation,
// not yet persisted. Always exactly SlotDurationMinutes wide.
type CandidateSlot struct {
	Start time.Time
	End   time.Time
}

// Day returns the UTC calendar date the candidate starts on
func (c CandidateSlot) Day() time.Time {
	y, m, d := c.Start.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
