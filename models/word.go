package models

import (
	"strings"
	"time"
)

const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
	InitialInterval   = 1
)

// Speaker tags which side of the conversation produced a word exposure.
type Speaker string

const (
	SpeakerLearner Speaker = "learner"
	SpeakerTutor   Speaker = "tutor"
)

func (s Speaker) Valid() bool {
	return s == SpeakerLearner || s == SpeakerTutor
}

// WordRecord tracks one vocabulary word: presentation metadata, usage
// counters, and the spaced-repetition state that decides when the word
// resurfaces. Identity is the lowercased word text.
type WordRecord struct {
	Word              string    `json:"word"`
	PartOfSpeech      string    `json:"part_of_speech"`
	ExampleSentence   string    `json:"example_sentence"`
	DifficultyLevel   string    `json:"difficulty_level"`
	TimeLastSeen      time.Time `json:"time_last_seen"`
	CorrectUses       int       `json:"correct_uses"`
	TotalUses         int       `json:"total_uses"`
	UserCorrectUses   int       `json:"user_correct_uses"`
	UserTotalUses     int       `json:"user_total_uses"`
	SystemCorrectUses int       `json:"system_correct_uses"`
	SystemTotalUses   int       `json:"system_total_uses"`
	NextDue           time.Time `json:"next_due"`
	EaseFactor        float64   `json:"ease_factor"`
	Interval          int       `json:"interval_days"`
	Repetitions       int       `json:"repetitions"`
}

func NewWordRecord(word string) *WordRecord {
	return &WordRecord{
		Word:       strings.ToLower(strings.TrimSpace(word)),
		EaseFactor: InitialEaseFactor,
		Interval:   InitialInterval,
	}
}

func (w *WordRecord) Key() string {
	return strings.ToLower(w.Word)
}

func (w *WordRecord) Clone() *WordRecord {
	clone := *w
	return &clone
}

// Introduced reports whether the learner has encountered the word at least
// once.
func (w *WordRecord) Introduced() bool {
	return w.TotalUses > 0
}

func (w *WordRecord) Overdue(now time.Time) bool {
	return !w.NextDue.IsZero() && w.NextDue.Before(now)
}

func (w *WordRecord) Due(now time.Time) bool {
	return !w.NextDue.IsZero() && !w.NextDue.After(now)
}

// Accuracy is the aggregate correct-use ratio, zero for an unused word.
func (w *WordRecord) Accuracy() float64 {
	if w.TotalUses == 0 {
		return 0
	}
	return float64(w.CorrectUses) / float64(w.TotalUses)
}

// Reset returns every mutable field to its creation default. Word identity
// and presentation metadata survive.
func (w *WordRecord) Reset() {
	w.TimeLastSeen = time.Time{}
	w.CorrectUses = 0
	w.TotalUses = 0
	w.UserCorrectUses = 0
	w.UserTotalUses = 0
	w.SystemCorrectUses = 0
	w.SystemTotalUses = 0
	w.NextDue = time.Time{}
	w.EaseFactor = InitialEaseFactor
	w.Interval = InitialInterval
	w.Repetitions = 0
}

func (w *WordRecord) Summary() WordSummary {
	return WordSummary{
		Word:            w.Word,
		PartOfSpeech:    w.PartOfSpeech,
		ExampleSentence: w.ExampleSentence,
		DifficultyLevel: w.DifficultyLevel,
	}
}

// WordSummary is the presentation slice of a record handed to the tutor when
// introducing a word.
type WordSummary struct {
	Word            string `json:"word"`
	PartOfSpeech    string `json:"part_of_speech"`
	ExampleSentence string `json:"example_sentence"`
	DifficultyLevel string `json:"difficulty_level"`
}

// IntroductionResult carries the randomly chosen new words. NoneAvailable
// distinguishes an exhausted word list from a fetch failure.
type IntroductionResult struct {
	Words         []WordSummary `json:"words"`
	NoneAvailable bool          `json:"none_available"`
}

// ReviewResult carries review candidates in priority order, most urgent
// first. NoneAvailable means nothing has been introduced yet.
type ReviewResult struct {
	Words         []*WordRecord `json:"words"`
	NoneAvailable bool          `json:"none_available"`
}

type CreateWordRequest struct {
	Word            string `json:"word"`
	PartOfSpeech    string `json:"part_of_speech"`
	ExampleSentence string `json:"example_sentence"`
	DifficultyLevel string `json:"difficulty_level"`
}
