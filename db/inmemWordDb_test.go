package db

import (
	"errors"
	"testing"

	"vocabtutor/models"
)

func TestInMemoryRepositoryFindIsCaseInsensitive(t *testing.T) {
	repo := NewInMemoryWordRepository()
	if err := repo.CreateWord(models.NewWordRecord("abate")); err != nil {
		t.Fatalf("CreateWord() error = %v", err)
	}

	got, err := repo.FindByWord("  ABate ")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	if got.Word != "abate" {
		t.Errorf("Word = %q, want %q", got.Word, "abate")
	}
}

func TestInMemoryRepositoryUnknownWord(t *testing.T) {
	repo := NewInMemoryWordRepository()

	if _, err := repo.FindByWord("mythical"); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("FindByWord() error = %v, want ErrWordNotFound", err)
	}
	if err := repo.UpdateWord(models.NewWordRecord("mythical")); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("UpdateWord() error = %v, want ErrWordNotFound", err)
	}
}

func TestInMemoryRepositoryDuplicateCreate(t *testing.T) {
	repo := NewInMemoryWordRepository()

	if err := repo.CreateWord(models.NewWordRecord("abate")); err != nil {
		t.Fatalf("CreateWord() error = %v", err)
	}
	if err := repo.CreateWord(models.NewWordRecord("Abate")); err == nil {
		t.Error("CreateWord() with an existing word succeeded, want error")
	}
}

func TestInMemoryRepositoryCloneIsolation(t *testing.T) {
	repo := NewInMemoryWordRepository()

	record := models.NewWordRecord("abate")
	if err := repo.CreateWord(record); err != nil {
		t.Fatalf("CreateWord() error = %v", err)
	}

	record.TotalUses = 50

	got, err := repo.FindByWord("abate")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	if got.TotalUses != 0 {
		t.Errorf("TotalUses = %d after mutating the created record, want 0", got.TotalUses)
	}

	got.CorrectUses = 9
	again, err := repo.FindByWord("abate")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	if again.CorrectUses != 0 {
		t.Errorf("CorrectUses = %d after mutating a returned record, want 0", again.CorrectUses)
	}
}

func TestInMemoryRepositoryGetAllWordsSorted(t *testing.T) {
	repo := NewInMemoryWordRepository()
	for _, word := range []string{"candid", "abate", "brisk"} {
		if err := repo.CreateWord(models.NewWordRecord(word)); err != nil {
			t.Fatalf("CreateWord(%q) error = %v", word, err)
		}
	}

	words, err := repo.GetAllWords()
	if err != nil {
		t.Fatalf("GetAllWords() error = %v", err)
	}

	want := []string{"abate", "brisk", "candid"}
	if len(words) != len(want) {
		t.Fatalf("GetAllWords() returned %d words, want %d", len(words), len(want))
	}
	for i, word := range words {
		if word.Word != want[i] {
			t.Errorf("words[%d] = %q, want %q", i, word.Word, want[i])
		}
	}
}
