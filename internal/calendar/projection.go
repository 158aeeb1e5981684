package calendar

// Marker describes one calendar day in the month view.
type Marker struct {
	Count    int  `json:"count"`
	Selected bool `json:"selected"`
}

// Markers derives the calendar marking map from a flat event list: one
// entry per ISO date that has events, plus the highlighted selected date
// (which is marked even when it has no events). Pure function.
func Markers(events []Event, selectedDate string) map[string]Marker {
	marks := make(map[string]Marker)
	for _, evt := range events {
		m := marks[evt.Date]
		m.Count++
		marks[evt.Date] = m
	}
	if selectedDate != "" {
		m := marks[selectedDate]
		m.Selected = true
		marks[selectedDate] = m
	}
	return marks
}

// NextUpcoming returns the chronologically nearest event on or after
// today. ISO dates compare correctly as strings, so no time parsing is
// needed here. Returns false when nothing is upcoming.
func NextUpcoming(events []Event, today string) (Event, bool) {
	var (
		best  Event
		found bool
	)
	for _, evt := range events {
		if evt.Date < today {
			continue
		}
		if !found || evt.Date < best.Date || (evt.Date == best.Date && evt.Title < best.Title) {
			best = evt
			found = true
		}
	}
	return best, found
}

// OnDate returns the events falling on the selected date, in input order.
func OnDate(events []Event, date string) []Event {
	var res []Event
	for _, evt := range events {
		if evt.Date == date {
			res = append(res, evt)
		}
	}
	return res
}
