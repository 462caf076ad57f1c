package events

import "github.com/saulo-duarte/habit-tracker/weekday"

// Bus carries the app-wide signals that decouple the schedule and
// category picker flows from the tracker creation flow. Payloads are
// typed; components receive the bus by reference instead of going
// through a process-wide broadcast.
type Bus struct {
	// ScheduleChanged fires when a schedule selection is confirmed.
	ScheduleChanged *Signal[weekday.Set]
	// CategoryChanged fires with the newly chosen category title.
	CategoryChanged *Signal[string]
	// CategoriesChanged fires when the set of categories changes.
	CategoriesChanged *Signal[struct{}]
}

func NewBus() *Bus {
	return &Bus{
		ScheduleChanged:   NewSignal[weekday.Set](),
		CategoryChanged:   NewSignal[string](),
		CategoriesChanged: NewSignal[struct{}](),
	}
}
