package services

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/samber/lo"

	"vocabtutor/db"
	"vocabtutor/models"
	"vocabtutor/services/srs"
)

// LearningService drives the learner's progression: it hands out new words,
// ranks review candidates, and applies observed exposures to the schedule.
// A single mutex serializes the read-modify-write cycle so concurrent
// exposures to the same word cannot lose counter increments.
type LearningService struct {
	mu                sync.Mutex
	repo              db.WordRepository
	policy            srs.PriorityPolicy
	exposureLog       db.ExposureLogRepository
	introductionGrace time.Duration
}

// NewLearningService wires the scheduler to a word store. The exposure log
// may be nil, in which case no audit trail is written. introductionGrace is
// how long after introduction a word stays off the review radar.
func NewLearningService(repo db.WordRepository, policy srs.PriorityPolicy, exposureLog db.ExposureLogRepository, introductionGrace time.Duration) *LearningService {
	return &LearningService{
		repo:              repo,
		policy:            policy,
		exposureLog:       exposureLog,
		introductionGrace: introductionGrace,
	}
}

// IntroduceWords picks up to count unintroduced words at random and stamps
// them as just presented. Usage counters stay at zero until the learner
// actually engages, so repeating the call never inflates statistics.
func (s *LearningService) IntroduceWords(count int) (*models.IntroductionResult, error) {
	return s.introduceWordsAt(count, time.Now())
}

func (s *LearningService) introduceWordsAt(count int, now time.Time) (*models.IntroductionResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	words, err := s.repo.GetAllWords()
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}

	candidates := lo.Filter(words, func(word *models.WordRecord, _ int) bool {
		return !word.Introduced()
	})
	if len(candidates) == 0 {
		return &models.IntroductionResult{NoneAvailable: true}, nil
	}

	shuffleRecords(candidates)
	if count > len(candidates) {
		count = len(candidates)
	}

	result := &models.IntroductionResult{}
	for _, word := range candidates[:count] {
		word.TimeLastSeen = now
		word.NextDue = now.Add(s.introductionGrace)
		if err := s.repo.UpdateWord(word); err != nil {
			return nil, fmt.Errorf("failed to stamp introduced word %q: %w", word.Word, err)
		}
		result.Words = append(result.Words, word.Summary())
	}

	return result, nil
}

// GetReviewWords returns up to count introduced words, most urgent first
// according to the configured priority policy.
func (s *LearningService) GetReviewWords(count int) (*models.ReviewResult, error) {
	return s.reviewWordsAt(count, time.Now())
}

func (s *LearningService) reviewWordsAt(count int, now time.Time) (*models.ReviewResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	words, err := s.repo.GetAllWords()
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}

	candidates := lo.Filter(words, func(word *models.WordRecord, _ int) bool {
		return word.Introduced()
	})
	if len(candidates) == 0 {
		return &models.ReviewResult{NoneAvailable: true}, nil
	}

	s.policy.Rank(candidates, now)
	if count > len(candidates) {
		count = len(candidates)
	}

	return &models.ReviewResult{Words: candidates[:count]}, nil
}

// RecordExposure applies one observed use of a word: counters first, then
// the SM-2 schedule using either the explicit quality or one derived from
// the word's updated accuracy. An out-of-range explicit quality rejects the
// whole exposure before anything is touched.
func (s *LearningService) RecordExposure(exposure models.Exposure) (*models.WordRecord, error) {
	return s.recordExposureAt(exposure, time.Now())
}

func (s *LearningService) recordExposureAt(exposure models.Exposure, now time.Time) (*models.WordRecord, error) {
	if !exposure.Speaker.Valid() {
		return nil, fmt.Errorf("unknown speaker %q", exposure.Speaker)
	}
	if exposure.Quality != nil {
		if q := *exposure.Quality; q < srs.MinQuality || q > srs.MaxQuality {
			return nil, fmt.Errorf("quality %d outside [%d, %d]: %w", q, srs.MinQuality, srs.MaxQuality, srs.ErrInvalidQuality)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	word, err := s.repo.FindByWord(exposure.Word)
	if err != nil {
		return nil, err
	}

	word.TotalUses++
	if exposure.UsedCorrectly {
		word.CorrectUses++
	}
	switch exposure.Speaker {
	case models.SpeakerLearner:
		word.UserTotalUses++
		if exposure.UsedCorrectly {
			word.UserCorrectUses++
		}
	case models.SpeakerTutor:
		word.SystemTotalUses++
		if exposure.UsedCorrectly {
			word.SystemCorrectUses++
		}
	}

	quality := srs.DeriveQuality(word.CorrectUses, word.TotalUses)
	if exposure.Quality != nil {
		quality = *exposure.Quality
	}

	if err := srs.Update(word, quality, now); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateWord(word); err != nil {
		return nil, fmt.Errorf("failed to save exposure for %q: %w", word.Word, err)
	}

	s.logExposure(exposure, word, quality, now)

	return word, nil
}

// logExposure appends to the audit trail. Failures are logged and swallowed
// so a broken trail cannot make a caller retry an already-applied exposure.
func (s *LearningService) logExposure(exposure models.Exposure, word *models.WordRecord, quality int, now time.Time) {
	if s.exposureLog == nil {
		return
	}

	entry := &models.ExposureLogEntry{
		SessionID:      exposure.SessionID,
		Word:           word.Word,
		Speaker:        exposure.Speaker,
		UsedCorrectly:  exposure.UsedCorrectly,
		AppliedQuality: quality,
		EaseFactor:     word.EaseFactor,
		IntervalDays:   word.Interval,
		Repetitions:    word.Repetitions,
		RecordedAt:     now,
	}
	if err := s.exposureLog.AppendEntry(entry); err != nil {
		log.Printf("[ERROR] Failed to append exposure log entry for %q: %v", word.Word, err)
	}
}

func shuffleRecords(records []*models.WordRecord) {
	for i := len(records) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		records[i], records[j] = records[j], records[i]
	}
}
