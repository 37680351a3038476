package models

import "time"

// Message is one turn of a tutoring conversation submitted for analysis.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Exposure is a single observed use of a tracked word. Quality is an
// optional explicit SM-2 score; when nil the scheduler derives one from the
// word's accumulated accuracy.
type Exposure struct {
	Word          string  `json:"word"`
	UsedCorrectly bool    `json:"used_correctly"`
	Speaker       Speaker `json:"speaker"`
	Quality       *int    `json:"quality,omitempty"`
	SessionID     string  `json:"session_id,omitempty"`
}

// ExposureLogEntry is the audit trail row written after an exposure has been
// applied, capturing the scheduling state the update produced.
type ExposureLogEntry struct {
	ID             int       `json:"id"`
	SessionID      string    `json:"session_id"`
	Word           string    `json:"word"`
	Speaker        Speaker   `json:"speaker"`
	UsedCorrectly  bool      `json:"used_correctly"`
	AppliedQuality int       `json:"applied_quality"`
	EaseFactor     float64   `json:"ease_factor"`
	IntervalDays   int       `json:"interval_days"`
	Repetitions    int       `json:"repetitions"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type TranscriptRequest struct {
	SessionID string    `json:"session_id,omitempty"`
	Messages  []Message `json:"messages"`
}

// WordUsage is one tracked-word occurrence the analyzer detected in a
// transcript. FoundForm preserves the surface form when it differs from the
// tracked base word.
type WordUsage struct {
	Word          string  `json:"word"`
	FoundForm     string  `json:"found_form,omitempty"`
	Speaker       Speaker `json:"speaker"`
	UsedCorrectly bool    `json:"used_correctly"`
	Quality       *int    `json:"quality,omitempty"`
}

// TranscriptReport summarizes an analysis pass: which usages were detected
// and queued, and which detected forms could not be resolved to a tracked
// word.
type TranscriptReport struct {
	SessionID  string      `json:"session_id"`
	Detected   []WordUsage `json:"detected"`
	Queued     int         `json:"queued"`
	Unresolved []string    `json:"unresolved,omitempty"`
}
