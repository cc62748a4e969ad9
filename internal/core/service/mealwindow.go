package service

import (
	"time"

	"github.com/rl1809/cafeteria-service/internal/core/domain"
)

// EvaluateMealWindows classifies each slot's meal type against now.
// Pure: identical inputs always yield identical outputs, so callers may
// re-evaluate on every poll.
func EvaluateMealWindows(now time.Time, slots []domain.MenuSlot) map[domain.MealType]domain.MealWindowStatus {
	statuses := make(map[domain.MealType]domain.MealWindowStatus, len(slots))
	for _, slot := range slots {
		statuses[slot.MealType] = evaluateSlot(now, slot)
	}
	return statuses
}

func evaluateSlot(now time.Time, slot domain.MenuSlot) domain.MealWindowStatus {
	if slot.DayOfWeek != int(now.Weekday()) {
		return domain.MealWindowNotToday
	}

	start, ok := parseClock(slot.StartTime)
	if !ok {
		return domain.MealWindowNotScheduled
	}
	end, ok := parseClock(slot.EndTime)
	if !ok {
		return domain.MealWindowNotScheduled
	}

	current := now.Hour()*60 + now.Minute()
	switch {
	case current >= start && current <= end: // end is inclusive
		return domain.MealWindowActive
	case current < start:
		return domain.MealWindowUpcoming
	default:
		return domain.MealWindowClosed
	}
}

// parseClock converts "HH:MM" (or "HH:MM:SS" as TIME columns render) to
// minutes since midnight. Blank or unparsable values report false so the
// slot degrades to not-scheduled.
func parseClock(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, false
		}
	}
	return t.Hour()*60 + t.Minute(), true
}
