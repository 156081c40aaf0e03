package set_availability

import (
	"fmt"

	"github.com/carewave/appointment-service/internal/domain"
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req *Request) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: provider id must be positive", ErrInvalidInput)
	}

	if req.Caller.ID <= 0 {
		return fmt.Errorf("%w: caller id must be positive", ErrInvalidInput)
	}

	if req.Schedule.IsEmpty() {
		return fmt.Errorf("%w: schedule must contain at least one rule", ErrInvalidInput)
	}

	if req.Schedule.General != nil {
		if req.Schedule.General.StartDate == "" || req.Schedule.General.EndDate == "" {
			return fmt.Errorf("%w: general schedule requires start_date and end_date", ErrInvalidInput)
		}
		for _, rule := range req.Schedule.General.Times {
			if rule.Days == "" || rule.Start == "" || rule.End == "" {
				return fmt.Errorf("%w: recurring rule requires days, start and end", ErrInvalidInput)
			}
		}
	}

	return nil
}

// authorize проверяет, что вызывающий - провайдер и меняет собственное расписание
func authorize(caller domain.Caller, providerID int64) error {
	if !caller.HasAnyRole(domain.RoleProvider) {
		return fmt.Errorf("%w: provider role required", ErrNotAuthorized)
	}
	if caller.ID != providerID {
		return fmt.Errorf("%w: cannot set availability for another provider", ErrNotAuthorized)
	}
	return nil
}
