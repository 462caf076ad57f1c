package weekday

import "time"

// Weekday is a day of the week identified by its persisted code.
// Codes follow the Gregorian calendar convention with Sunday first:
// Sunday=1 through Saturday=7.
type Weekday uint8

const (
	Sunday    Weekday = 1
	Monday    Weekday = 2
	Tuesday   Weekday = 3
	Wednesday Weekday = 4
	Thursday  Weekday = 5
	Friday    Weekday = 6
	Saturday  Weekday = 7
)

// FromTime returns the weekday of t.
func FromTime(t time.Time) Weekday {
	return Weekday(uint8(t.Weekday()) + 1)
}

// All returns every weekday in display order, Monday first.
func All() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

func (w Weekday) String() string {
	switch w {
	case Sunday:
		return "Sunday"
	case Monday:
		return "Monday"
	case Tuesday:
		return "Tuesday"
	case Wednesday:
		return "Wednesday"
	case Thursday:
		return "Thursday"
	case Friday:
		return "Friday"
	case Saturday:
		return "Saturday"
	default:
		return "Unknown"
	}
}
