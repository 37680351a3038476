package srs

import (
	"errors"
	"math"
	"testing"
	"time"

	"vocabtutor/models"
)

func TestUpdate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		easeFactor      float64
		interval        int
		repetitions     int
		quality         int
		wantEaseFactor  float64
		wantInterval    int
		wantRepetitions int
	}{
		{
			name:       "first successful recall",
			easeFactor: 2.5, interval: 1, repetitions: 0, quality: 4,
			wantEaseFactor: 2.5, wantInterval: 1, wantRepetitions: 1,
		},
		{
			name:       "second successful recall",
			easeFactor: 2.5, interval: 1, repetitions: 1, quality: 5,
			wantEaseFactor: 2.6, wantInterval: 6, wantRepetitions: 2,
		},
		{
			name:       "third recall multiplies by the updated ease",
			easeFactor: 2.5, interval: 6, repetitions: 2, quality: 5,
			wantEaseFactor: 2.6, wantInterval: 16, wantRepetitions: 3,
		},
		{
			name:       "hesitant pass still advances the ladder",
			easeFactor: 2.5, interval: 1, repetitions: 1, quality: 3,
			wantEaseFactor: 2.36, wantInterval: 6, wantRepetitions: 2,
		},
		{
			name:       "failed recall restarts the ladder and keeps the ease penalty",
			easeFactor: 2.5, interval: 30, repetitions: 5, quality: 1,
			wantEaseFactor: 1.96, wantInterval: 1, wantRepetitions: 0,
		},
		{
			name:       "blackout cannot push ease below the floor",
			easeFactor: 1.3, interval: 6, repetitions: 2, quality: 0,
			wantEaseFactor: 1.3, wantInterval: 1, wantRepetitions: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.NewWordRecord("ephemeral")
			record.EaseFactor = tt.easeFactor
			record.Interval = tt.interval
			record.Repetitions = tt.repetitions

			if err := Update(record, tt.quality, now); err != nil {
				t.Fatalf("Update() error = %v", err)
			}

			if math.Abs(record.EaseFactor-tt.wantEaseFactor) > 1e-9 {
				t.Errorf("EaseFactor = %v, want %v", record.EaseFactor, tt.wantEaseFactor)
			}
			if record.Interval != tt.wantInterval {
				t.Errorf("Interval = %d, want %d", record.Interval, tt.wantInterval)
			}
			if record.Repetitions != tt.wantRepetitions {
				t.Errorf("Repetitions = %d, want %d", record.Repetitions, tt.wantRepetitions)
			}

			wantDue := now.Add(time.Duration(tt.wantInterval) * 24 * time.Hour)
			if !record.NextDue.Equal(wantDue) {
				t.Errorf("NextDue = %v, want %v", record.NextDue, wantDue)
			}
			if !record.TimeLastSeen.Equal(now) {
				t.Errorf("TimeLastSeen = %v, want %v", record.TimeLastSeen, now)
			}
		})
	}
}

func TestUpdateRejectsOutOfRangeQuality(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, quality := range []int{-1, 6, 42} {
		record := models.NewWordRecord("ephemeral")
		record.Repetitions = 3
		record.Interval = 12
		before := *record

		err := Update(record, quality, now)
		if !errors.Is(err, ErrInvalidQuality) {
			t.Fatalf("Update(quality=%d) error = %v, want ErrInvalidQuality", quality, err)
		}
		if *record != before {
			t.Errorf("Update(quality=%d) mutated the record", quality)
		}
	}
}

func TestUpdateSuccessiveRecalls(t *testing.T) {
	record := models.NewWordRecord("obscure")
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	if err := Update(record, 4, start); err != nil {
		t.Fatalf("first Update() error = %v", err)
	}
	if record.Repetitions != 1 || record.Interval != 1 {
		t.Fatalf("after first recall: repetitions = %d, interval = %d, want 1, 1", record.Repetitions, record.Interval)
	}
	if !record.NextDue.Equal(start.Add(24 * time.Hour)) {
		t.Errorf("after first recall: NextDue = %v, want %v", record.NextDue, start.Add(24*time.Hour))
	}

	next := start.Add(26 * time.Hour)
	if err := Update(record, 5, next); err != nil {
		t.Fatalf("second Update() error = %v", err)
	}
	if record.Repetitions != 2 || record.Interval != 6 {
		t.Errorf("after second recall: repetitions = %d, interval = %d, want 2, 6", record.Repetitions, record.Interval)
	}
	if math.Abs(record.EaseFactor-2.6) > 1e-9 {
		t.Errorf("after second recall: EaseFactor = %v, want 2.6", record.EaseFactor)
	}
}

func TestDeriveQuality(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{name: "never used", correct: 0, total: 0, want: 0},
		{name: "perfect record", correct: 4, total: 4, want: 5},
		{name: "nine of ten", correct: 9, total: 10, want: 4},
		{name: "seven of ten", correct: 7, total: 10, want: 3},
		{name: "just under strong", correct: 89, total: 100, want: 3},
		{name: "half right", correct: 5, total: 10, want: 2},
		{name: "three of ten", correct: 3, total: 10, want: 1},
		{name: "mostly wrong", correct: 2, total: 10, want: 0},
		{name: "all wrong", correct: 0, total: 6, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveQuality(tt.correct, tt.total); got != tt.want {
				t.Errorf("DeriveQuality(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}

func BenchmarkUpdate(b *testing.B) {
	now := time.Now()
	record := models.NewWordRecord("ephemeral")

	for i := 0; i < b.N; i++ {
		_ = Update(record, i%6, now)
	}
}
