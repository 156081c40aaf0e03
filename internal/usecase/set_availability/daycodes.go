package set_availability

import (
	"fmt"
	"strings"
	"time"
)

// dayIndex индексы дней недели, неделя начинается с понедельника
var dayIndex = map[string]int{
	"M":  0,
	"T":  1,
	"W":  2,
	"Th": 3,
	"F":  4,
	"Sa": 5,
	"Su": 6,
}

// mondayWeekday приводит time.Weekday (воскресенье=0) к индексу с понедельником=0
func mondayWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// parseDayCodes разбирает выражение дней: одиночный код ("W")
// или диапазон включительно ("M-F"). Неизвестный код и перевернутый
// диапазон считаются ошибкой
func parseDayCodes(expr string) (map[int]bool, error) {
	days := make(map[int]bool)

	if strings.Contains(expr, "-") {
		parts := strings.SplitN(expr, "-", 2)
		startIdx, ok := dayIndex[parts[0]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown day code %q", ErrInvalidSchedule, parts[0])
		}
		endIdx, ok := dayIndex[parts[1]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown day code %q", ErrInvalidSchedule, parts[1])
		}
		if startIdx > endIdx {
			return nil, fmt.Errorf("%w: reversed day range %q", ErrInvalidSchedule, expr)
		}
		for i := startIdx; i <= endIdx; i++ {
			days[i] = true
		}
		return days, nil
	}

	idx, ok := dayIndex[expr]
	if !ok {
		return nil, fmt.Errorf("%w: unknown day code %q", ErrInvalidSchedule, expr)
	}
	days[idx] = true
	return days, nil
}

// parseTimeOfDay разбирает время в формате "15:04" или "3pm" / "3:30pm"
func parseTimeOfDay(s string) (time.Duration, error) {
	formats := []string{"15:04", "3pm", "3:04pm", "3PM", "3:04PM"}
	for _, layout := range formats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
		}
	}
	return 0, fmt.Errorf("%w: unparseable time %q", ErrInvalidSchedule, s)
}
