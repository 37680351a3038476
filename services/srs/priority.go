package srs

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"vocabtutor/models"
)

const (
	PolicyDue      = "due"
	PolicyBalanced = "balanced"
)

// PriorityPolicy orders review candidates in place, most urgent first.
// Ranking reads scheduling state but never changes it.
type PriorityPolicy interface {
	Name() string
	Rank(words []*models.WordRecord, now time.Time)
}

func NewPolicy(name string) (PriorityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyDue, "":
		return DuePolicy{}, nil
	case PolicyBalanced:
		return BalancedPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown review policy %q", name)
	}
}

// DuePolicy ranks by due date alone: the longest-overdue word comes first,
// then words due soonest.
type DuePolicy struct{}

func (DuePolicy) Name() string { return PolicyDue }

func (DuePolicy) Rank(words []*models.WordRecord, now time.Time) {
	slices.SortStableFunc(words, func(a, b *models.WordRecord) int {
		if c := a.NextDue.Compare(b.NextDue); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
}

// BalancedPolicy mixes schedule pressure with accuracy so a struggling word
// can jump ahead of one that is merely overdue. Words the learner just saw
// are pushed back to keep a session varied.
type BalancedPolicy struct{}

func (BalancedPolicy) Name() string { return PolicyBalanced }

func (p BalancedPolicy) Rank(words []*models.WordRecord, now time.Time) {
	scores := make(map[string]float64, len(words))
	for _, word := range words {
		scores[word.Word] = p.score(word, now)
	}

	slices.SortStableFunc(words, func(a, b *models.WordRecord) int {
		sa, sb := scores[a.Word], scores[b.Word]
		if sa != sb {
			if sa > sb {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Word, b.Word)
	})
}

func (BalancedPolicy) score(word *models.WordRecord, now time.Time) float64 {
	var score float64

	if !word.NextDue.IsZero() {
		overdueHours := now.Sub(word.NextDue).Hours()
		if overdueHours > 0 {
			score += math.Min(overdueHours*10, 200)
		} else {
			// Not yet due: the further out, the lower the priority.
			score += overdueHours
		}
	}

	if !word.TimeLastSeen.IsZero() {
		hoursSinceSeen := now.Sub(word.TimeLastSeen).Hours()
		score += math.Min(hoursSinceSeen, 48)
		if hoursSinceSeen < 3 {
			score -= 30
		}
	}

	// Shaky words outrank well-known ones.
	score += 100 * (1 - word.Accuracy())

	// Young words need reinforcement before they fade.
	if word.TotalUses >= 1 && word.TotalUses <= 10 {
		score += 50
	}

	return score
}
