package services

import (
	"fmt"
	"log"
	"strings"

	"vocabtutor/db"
	"vocabtutor/models"
)

type MemoryService struct {
	repo db.MemoryRepository
}

func NewMemoryService(repo db.MemoryRepository) *MemoryService {
	return &MemoryService{repo: repo}
}

func (s *MemoryService) GetMemory() (*models.LearnerMemory, error) {
	log.Printf("[INFO] Starting get learner memory")

	memory, err := s.repo.GetMemory()
	if err != nil {
		log.Printf("[ERROR] Failed to get learner memory: %v", err)
		return nil, fmt.Errorf("failed to get learner memory: %w", err)
	}

	log.Printf("[INFO] Successfully retrieved learner memory with %d characters", len(memory.MemoryContent))
	return memory, nil
}

func (s *MemoryService) UpdateMemory(content string) error {
	log.Printf("[INFO] Starting update learner memory with %d characters", len(content))

	content = strings.TrimSpace(content)

	if err := s.repo.UpdateMemory(content); err != nil {
		log.Printf("[ERROR] Failed to update learner memory: %v", err)
		return fmt.Errorf("failed to update learner memory: %w", err)
	}

	log.Printf("[INFO] Successfully updated learner memory")
	return nil
}
