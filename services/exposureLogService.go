package services

import (
	"fmt"

	"vocabtutor/db"
	"vocabtutor/models"
)

// ExposureLogService exposes the exposure audit trail for inspection.
type ExposureLogService struct {
	repo db.ExposureLogRepository
}

func NewExposureLogService(repo db.ExposureLogRepository) *ExposureLogService {
	return &ExposureLogService{repo: repo}
}

func (s *ExposureLogService) GetRecentEntries(limit int) ([]*models.ExposureLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	entries, err := s.repo.GetRecentEntries(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get exposure log: %w", err)
	}

	return entries, nil
}

func (s *ExposureLogService) GetEntriesByWord(word string) ([]*models.ExposureLogEntry, error) {
	entries, err := s.repo.GetEntriesByWord(word)
	if err != nil {
		return nil, fmt.Errorf("failed to get exposure log for %q: %w", word, err)
	}

	return entries, nil
}
