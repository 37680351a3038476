// Package srs implements the SM-2 spaced-repetition schedule that decides
// when a tracked word should resurface in conversation.
package srs

import (
	"errors"
	"fmt"
	"math"
	"time"

	"vocabtutor/models"
)

const (
	MinQuality = 0
	MaxQuality = 5

	// PassThreshold is the lowest quality that counts as a successful
	// recall. Anything below it restarts the repetition ladder.
	PassThreshold = 3
)

// ErrInvalidQuality is returned when a quality score falls outside the
// SM-2 range of 0 to 5.
var ErrInvalidQuality = errors.New("invalid quality score")

// Update applies one SM-2 step to the record: the ease factor moves first,
// then repetitions and interval, then the due date. A failed recall keeps
// its ease penalty even though the interval resets. The record is untouched
// when quality is out of range.
func Update(record *models.WordRecord, quality int, now time.Time) error {
	if quality < MinQuality || quality > MaxQuality {
		return fmt.Errorf("quality %d outside [%d, %d]: %w", quality, MinQuality, MaxQuality, ErrInvalidQuality)
	}

	record.EaseFactor = nextEaseFactor(record.EaseFactor, quality)

	if quality < PassThreshold {
		record.Repetitions = 0
		record.Interval = 1
	} else {
		record.Repetitions++
		switch record.Repetitions {
		case 1:
			record.Interval = 1
		case 2:
			record.Interval = 6
		default:
			record.Interval = int(math.Round(float64(record.Interval) * record.EaseFactor))
		}
	}

	record.NextDue = now.Add(time.Duration(record.Interval) * 24 * time.Hour)
	record.TimeLastSeen = now

	return nil
}

func nextEaseFactor(ef float64, quality int) float64 {
	q := float64(quality)
	ef += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if ef < models.MinEaseFactor {
		ef = models.MinEaseFactor
	}

	return ef
}

// DeriveQuality maps a word's lifetime accuracy onto the SM-2 scale, for
// exposures that arrive without an explicit score.
func DeriveQuality(correct, total int) int {
	if total == 0 {
		return 0
	}

	ratio := float64(correct) / float64(total)
	switch {
	case ratio >= 1.0:
		return 5
	case ratio >= 0.9:
		return 4
	case ratio >= 0.7:
		return 3
	case ratio >= 0.5:
		return 2
	case ratio >= 0.3:
		return 1
	default:
		return 0
	}
}
