package domain

// LogEntry records one activity value for one user on one day.
// (Username, Date, Type) is the unique key; a write replaces Value.
// Type is an open set: pomodoro, meditation, steps, sudoku, memory, reaction...
type LogEntry struct {
	Username string
	Date     string // "2026-02-19"
	Type     string
	Value    float64
}
