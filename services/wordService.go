package services

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"vocabtutor/db"
	"vocabtutor/models"
)

// WordService covers the bookkeeping side of the word list: adding words,
// looking them up, and resetting learning state.
type WordService struct {
	repo db.WordRepository
}

func NewWordService(repo db.WordRepository) *WordService {
	return &WordService{repo: repo}
}

func (s *WordService) CreateWord(req models.CreateWordRequest) (*models.WordRecord, error) {
	record := models.NewWordRecord(req.Word)
	if record.Word == "" {
		return nil, fmt.Errorf("word text is required")
	}

	record.PartOfSpeech = strings.TrimSpace(req.PartOfSpeech)
	record.ExampleSentence = strings.TrimSpace(req.ExampleSentence)
	record.DifficultyLevel = strings.TrimSpace(req.DifficultyLevel)

	if err := s.repo.CreateWord(record); err != nil {
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	return record, nil
}

func (s *WordService) GetWordByText(word string) (*models.WordRecord, error) {
	return s.repo.FindByWord(word)
}

func (s *WordService) GetAllWords() ([]*models.WordRecord, error) {
	return s.repo.GetAllWords()
}

// SearchWords filters the word list by a case-insensitive substring match
// on the word itself or its part of speech. An empty term returns all words.
func (s *WordService) SearchWords(term string) ([]*models.WordRecord, error) {
	words, err := s.repo.GetAllWords()
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}

	return lo.Filter(words, func(word *models.WordRecord, _ int) bool {
		return wordMatchesSearch(word, term)
	}), nil
}

// ResetWord wipes a word's counters and schedule back to the untouched
// state while keeping its metadata.
func (s *WordService) ResetWord(text string) (*models.WordRecord, error) {
	word, err := s.repo.FindByWord(text)
	if err != nil {
		return nil, err
	}

	word.Reset()
	if err := s.repo.UpdateWord(word); err != nil {
		return nil, fmt.Errorf("failed to reset word: %w", err)
	}

	return word, nil
}

func (s *WordService) ResetAllWords() (int, error) {
	words, err := s.repo.GetAllWords()
	if err != nil {
		return 0, fmt.Errorf("failed to get words: %w", err)
	}

	for _, word := range words {
		word.Reset()
		if err := s.repo.UpdateWord(word); err != nil {
			return 0, fmt.Errorf("failed to reset %q: %w", word.Word, err)
		}
	}

	return len(words), nil
}

func wordMatchesSearch(word *models.WordRecord, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	return strings.Contains(strings.ToLower(word.Word), term) ||
		strings.Contains(strings.ToLower(word.PartOfSpeech), term)
}
