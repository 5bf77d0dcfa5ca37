package types

import "time"

// CountEvent is published after a count submission reached the sheets.
type CountEvent struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	SubmittedBy string     `json:"submitted_by,omitempty"`
	Entries     []LogEntry `json:"entries"`
	LogWritten  bool       `json:"log_written"`
	Warning     string     `json:"warning,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}
