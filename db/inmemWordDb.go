package db

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"vocabtutor/models"
)

// InMemoryWordRepository keeps records in a map guarded by a RWMutex. It
// backs tests and throwaway runs where persistence is not wanted.
type InMemoryWordRepository struct {
	mu      sync.RWMutex
	records map[string]*models.WordRecord
}

func NewInMemoryWordRepository() *InMemoryWordRepository {
	return &InMemoryWordRepository{
		records: make(map[string]*models.WordRecord),
	}
}

func (r *InMemoryWordRepository) CreateWord(word *models.WordRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := word.Key()
	if _, exists := r.records[key]; exists {
		return fmt.Errorf("word %q already tracked", key)
	}

	record := word.Clone()
	record.Word = key
	r.records[key] = record

	return nil
}

func (r *InMemoryWordRepository) GetAllWords() ([]*models.WordRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*models.WordRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record.Clone())
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Word < records[j].Word
	})

	return records, nil
}

func (r *InMemoryWordRepository) FindByWord(word string) (*models.WordRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(word))
	record, exists := r.records[key]
	if !exists {
		return nil, fmt.Errorf("word %q: %w", key, ErrWordNotFound)
	}

	return record.Clone(), nil
}

func (r *InMemoryWordRepository) UpdateWord(word *models.WordRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := word.Key()
	if _, exists := r.records[key]; !exists {
		return fmt.Errorf("word %q: %w", key, ErrWordNotFound)
	}

	record := word.Clone()
	record.Word = key
	r.records[key] = record

	return nil
}
