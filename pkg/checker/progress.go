package checker

// Event is one progress notification.
type Event struct {
	Task        string
	Percentage  int // 0-100, meaningful when Determinate
	Determinate bool
	Done        bool
}

// Done is the last event of every check.
var Done = Event{Task: "Done", Percentage: 100, Determinate: true, Done: true}

// Indeterminate returns an event for work of unknown length.
func Indeterminate(task string) Event {
	return Event{Task: task}
}

// Determinate returns an event reporting pct percent completion.
func Determinate(task string, pct int) Event {
	return Event{Task: task, Percentage: min(max(pct, 0), 100), Determinate: true}
}

// ProgressFunc receives progress events. It is called from multiple
// goroutines and must be safe for concurrent use.
type ProgressFunc func(Event)

func (f ProgressFunc) emit(e Event) {
	if f != nil {
		f(e)
	}
}

// phase maps completed out of total onto the span [from, from+50].
func phase(from, completed, total int) int {
	if total <= 0 {
		return from + 50
	}
	return from + completed*50/total
}
