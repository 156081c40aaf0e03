package set_availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
)

// roundUpToQuarter округляет время вверх до ближайшей четверти часа
func roundUpToQuarter(t time.Time) time.Time {
	rem := t.Minute() % domain.SlotDurationMinutes
	if rem == 0 {
		return t
	}
	return t.Add(time.Duration(domain.SlotDurationMinutes-rem) * time.Minute)
}

// expandRange нарезает интервал [start, end) на слоты по 15 минут
// Границы предварительно округляются вверх до четверти часа
func expandRange(day time.Time, startOfDay, endOfDay time.Duration) []domain.CandidateSlot {
	var out []domain.CandidateSlot

	start := roundUpToQuarter(day.Add(startOfDay))
	end := roundUpToQuarter(day.Add(endOfDay))

	for start.Before(end) {
		next := start.Add(time.Duration(domain.SlotDurationMinutes) * time.Minute)
		out = append(out, domain.CandidateSlot{Start: start, End: next})
		start = next
	}
	return out
}

// GenerateCandidates разворачивает расписание провайдера в отсортированный
// список 15-минутных слотов-кандидатов
//
// Порядок применения правил:
//  1. Недельное расписание генерирует слоты на каждую подходящую дату диапазона
//  2. Исключения полностью заменяют слоты своей даты (пустой список времени
//     означает отсутствие слотов в эту дату)
//  3. Ручные слоты добавляются поверх остальных правил
//
// Все времена трактуются как UTC. Дубликаты не схлопываются
func GenerateCandidates(schedule *domain.Schedule) ([]domain.CandidateSlot, error) {
	var candidates []domain.CandidateSlot

	if schedule.General != nil && len(schedule.General.Times) > 0 {
		startDate, err := time.ParseInLocation(domain.DateFormat, schedule.General.StartDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start_date %q", ErrInvalidSchedule, schedule.General.StartDate)
		}
		endDate, err := time.ParseInLocation(domain.DateFormat, schedule.General.EndDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end_date %q", ErrInvalidSchedule, schedule.General.EndDate)
		}
		if endDate.Before(startDate) {
			return nil, fmt.Errorf("%w: end_date before start_date", ErrInvalidSchedule)
		}

		for _, rule := range schedule.General.Times {
			days, err := parseDayCodes(rule.Days)
			if err != nil {
				return nil, err
			}
			startOfDay, err := parseTimeOfDay(rule.Start)
			if err != nil {
				return nil, err
			}
			endOfDay, err := parseTimeOfDay(rule.End)
			if err != nil {
				return nil, err
			}

			for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
				if !days[mondayWeekday(day.Weekday())] {
					continue
				}
				candidates = append(candidates, expandRange(day, startOfDay, endOfDay)...)
			}
		}
	}

	// Исключения замещают слоты своей даты целиком
	for _, exc := range schedule.Exceptions {
		day, err := time.ParseInLocation(domain.DateFormat, exc.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid exception date %q", ErrInvalidSchedule, exc.Date)
		}

		filtered := candidates[:0]
		for _, c := range candidates {
			if !sameDay(c.Start, day) {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered

		for _, tr := range exc.Times {
			startOfDay, err := parseTimeOfDay(tr.Start)
			if err != nil {
				return nil, err
			}
			endOfDay, err := parseTimeOfDay(tr.End)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, expandRange(day, startOfDay, endOfDay)...)
		}
	}

	// Ручные слоты только добавляют время, ничего не вытесняя
	for _, manual := range schedule.ManualSlots {
		day, err := time.ParseInLocation(domain.DateFormat, manual.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid manual slot date %q", ErrInvalidSchedule, manual.Date)
		}
		for _, tr := range manual.Times {
			startOfDay, err := parseTimeOfDay(tr.Start)
			if err != nil {
				return nil, err
			}
			endOfDay, err := parseTimeOfDay(tr.End)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, expandRange(day, startOfDay, endOfDay)...)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Start.Before(candidates[j].Start)
	})

	return candidates, nil
}

func sameDay(t, day time.Time) bool {
	y1, m1, d1 := t.UTC().Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
