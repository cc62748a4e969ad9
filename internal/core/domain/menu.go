package domain

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealWindowStatus classifies a meal service relative to a point in time.
type MealWindowStatus string

const (
	MealWindowActive       MealWindowStatus = "active"
	MealWindowUpcoming     MealWindowStatus = "upcoming"
	MealWindowClosed       MealWindowStatus = "closed"
	MealWindowNotToday     MealWindowStatus = "not-today"
	MealWindowNotScheduled MealWindowStatus = "not-scheduled"
)

// MenuSlot is one (weekday, meal type) entry of the weekly schedule.
// DayOfWeek follows time.Weekday numbering, Sunday = 0. Times are
// "HH:MM" strings; blank means the slot has no service window recorded.
type MenuSlot struct {
	ID              string
	DayOfWeek       int
	MealType        MealType
	MenuDescription string
	StartTime       string
	EndTime         string
	IsActive        bool
}
