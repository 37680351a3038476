package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vocabtutor/models"
)

func TestCSVRepositoryCreatesStatsFile(t *testing.T) {
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "word_stats.csv")

	if _, err := NewCSVWordRepository(statsPath, ""); err != nil {
		t.Fatalf("NewCSVWordRepository() error = %v", err)
	}

	content, err := os.ReadFile(statsPath)
	if err != nil {
		t.Fatalf("failed to read stats file: %v", err)
	}
	if got := strings.TrimSpace(string(content)); got != statsHeader {
		t.Errorf("stats file = %q, want bare header %q", got, statsHeader)
	}
}

func TestCSVRepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "word_stats.csv")
	vocabPath := filepath.Join(dir, "vocabulary.csv")

	repo, err := NewCSVWordRepository(statsPath, vocabPath)
	if err != nil {
		t.Fatalf("NewCSVWordRepository() error = %v", err)
	}

	record := models.NewWordRecord("Serendipity")
	record.PartOfSpeech = "noun"
	record.ExampleSentence = "Finding that cafe was pure serendipity."
	record.DifficultyLevel = "advanced"
	if err := repo.CreateWord(record); err != nil {
		t.Fatalf("CreateWord() error = %v", err)
	}

	seen := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	record.TimeLastSeen = seen
	record.NextDue = seen.Add(6 * 24 * time.Hour)
	record.CorrectUses = 7
	record.TotalUses = 10
	record.UserCorrectUses = 4
	record.UserTotalUses = 6
	record.SystemCorrectUses = 3
	record.SystemTotalUses = 4
	record.EaseFactor = 2.36
	record.Interval = 6
	record.Repetitions = 2
	if err := repo.UpdateWord(record); err != nil {
		t.Fatalf("UpdateWord() error = %v", err)
	}

	reopened, err := NewCSVWordRepository(statsPath, vocabPath)
	if err != nil {
		t.Fatalf("NewCSVWordRepository() reopen error = %v", err)
	}

	got, err := reopened.FindByWord("serendipity")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}

	if got.PartOfSpeech != "noun" || got.ExampleSentence != record.ExampleSentence || got.DifficultyLevel != "advanced" {
		t.Errorf("metadata = (%q, %q, %q), want values from before reopen", got.PartOfSpeech, got.ExampleSentence, got.DifficultyLevel)
	}
	if !got.TimeLastSeen.Equal(record.TimeLastSeen) {
		t.Errorf("TimeLastSeen = %v, want %v", got.TimeLastSeen, record.TimeLastSeen)
	}
	if !got.NextDue.Equal(record.NextDue) {
		t.Errorf("NextDue = %v, want %v", got.NextDue, record.NextDue)
	}
	if got.CorrectUses != 7 || got.TotalUses != 10 {
		t.Errorf("aggregate counters = %d/%d, want 7/10", got.CorrectUses, got.TotalUses)
	}
	if got.UserCorrectUses != 4 || got.UserTotalUses != 6 {
		t.Errorf("learner counters = %d/%d, want 4/6", got.UserCorrectUses, got.UserTotalUses)
	}
	if got.SystemCorrectUses != 3 || got.SystemTotalUses != 4 {
		t.Errorf("tutor counters = %d/%d, want 3/4", got.SystemCorrectUses, got.SystemTotalUses)
	}
	if got.EaseFactor != 2.36 {
		t.Errorf("EaseFactor = %v, want 2.36", got.EaseFactor)
	}
	if got.Interval != 6 || got.Repetitions != 2 {
		t.Errorf("schedule = interval %d reps %d, want 6 and 2", got.Interval, got.Repetitions)
	}
}

func TestCSVRepositoryWritesUnsetTimestampsEmpty(t *testing.T) {
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "word_stats.csv")

	repo, err := NewCSVWordRepository(statsPath, "")
	if err != nil {
		t.Fatalf("NewCSVWordRepository() error = %v", err)
	}
	if err := repo.CreateWord(models.NewWordRecord("abate")); err != nil {
		t.Fatalf("CreateWord() error = %v", err)
	}

	content, err := os.ReadFile(statsPath)
	if err != nil {
		t.Fatalf("failed to read stats file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("stats file has %d lines, want 2", len(lines))
	}

	fields := strings.Split(lines[1], ",")
	if len(fields) != 12 {
		t.Fatalf("stats row has %d fields, want 12", len(fields))
	}
	if fields[1] != "" || fields[8] != "" {
		t.Errorf("timestamp fields = (%q, %q), want both empty", fields[1], fields[8])
	}

	reopened, err := NewCSVWordRepository(statsPath, "")
	if err != nil {
		t.Fatalf("NewCSVWordRepository() reopen error = %v", err)
	}
	got, err := reopened.FindByWord("abate")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	if !got.TimeLastSeen.IsZero() || !got.NextDue.IsZero() {
		t.Errorf("timestamps = (%v, %v), want both zero", got.TimeLastSeen, got.NextDue)
	}
}

func TestCSVRepositoryReadsLegacyZeroTimestamps(t *testing.T) {
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "word_stats.csv")

	content := statsHeader + "\nabate,0,0,0,0,0,0,0,0,2.5,1,0\n"
	if err := os.WriteFile(statsPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to seed stats file: %v", err)
	}

	repo, err := NewCSVWordRepository(statsPath, "")
	if err != nil {
		t.Fatalf("NewCSVWordRepository() error = %v", err)
	}

	got, err := repo.FindByWord("abate")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	if !got.TimeLastSeen.IsZero() || !got.NextDue.IsZero() {
		t.Errorf("timestamps = (%v, %v), want both zero", got.TimeLastSeen, got.NextDue)
	}
}

func TestCSVRepositoryRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{
			name: "wrong field count",
			row:  "abate,,1,2",
		},
		{
			name: "non numeric counter",
			row:  "abate,,x,2,0,0,0,0,,2.5,1,0",
		},
		{
			name: "non numeric ease factor",
			row:  "abate,,1,2,0,0,0,0,,high,1,0",
		},
		{
			name: "non numeric timestamp",
			row:  "abate,later,1,2,0,0,0,0,,2.5,1,0",
		},
		{
			name: "empty word",
			row:  ",,1,2,0,0,0,0,,2.5,1,0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statsPath := filepath.Join(t.TempDir(), "word_stats.csv")
			content := statsHeader + "\n" + tt.row + "\n"
			if err := os.WriteFile(statsPath, []byte(content), 0o644); err != nil {
				t.Fatalf("failed to seed stats file: %v", err)
			}

			_, err := NewCSVWordRepository(statsPath, "")
			if err == nil {
				t.Fatal("NewCSVWordRepository() error = nil, want load failure")
			}
			if !errors.Is(err, ErrStoreUnavailable) {
				t.Errorf("error = %v, want ErrStoreUnavailable", err)
			}
		})
	}
}

func TestCSVRepositoryRejectsUnexpectedHeader(t *testing.T) {
	statsPath := filepath.Join(t.TempDir(), "word_stats.csv")
	if err := os.WriteFile(statsPath, []byte("word,streak\n"), 0o644); err != nil {
		t.Fatalf("failed to seed stats file: %v", err)
	}

	_, err := NewCSVWordRepository(statsPath, "")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("error = %v, want ErrStoreUnavailable", err)
	}
}

func TestCSVRepositoryVocabSeedsMetadata(t *testing.T) {
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "word_stats.csv")
	vocabPath := filepath.Join(dir, "vocabulary.csv")

	vocab := vocabHeader + "\nbrisk,adjective,A brisk walk cleared her head.,intermediate\n"
	if err := os.WriteFile(vocabPath, []byte(vocab), 0o644); err != nil {
		t.Fatalf("failed to seed vocabulary file: %v", err)
	}

	repo, err := NewCSVWordRepository(statsPath, vocabPath)
	if err != nil {
		t.Fatalf("NewCSVWordRepository() error = %v", err)
	}

	got, err := repo.FindByWord("brisk")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	if got.PartOfSpeech != "adjective" || got.DifficultyLevel != "intermediate" {
		t.Errorf("metadata = (%q, %q), want vocabulary values", got.PartOfSpeech, got.DifficultyLevel)
	}
	if got.TotalUses != 0 || got.EaseFactor != models.InitialEaseFactor {
		t.Errorf("seeded word has TotalUses %d EF %v, want untouched defaults", got.TotalUses, got.EaseFactor)
	}
}

func TestCSVRepositorySnapshot(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewCSVWordRepository(filepath.Join(dir, "word_stats.csv"), "")
	if err != nil {
		t.Fatalf("NewCSVWordRepository() error = %v", err)
	}
	if err := repo.CreateWord(models.NewWordRecord("abate")); err != nil {
		t.Fatalf("CreateWord() error = %v", err)
	}

	snapshotDir := filepath.Join(dir, "snapshots")
	path, err := repo.Snapshot(snapshotDir)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if filepath.Dir(path) != snapshotDir {
		t.Errorf("snapshot written to %s, want directory %s", path, snapshotDir)
	}
	if !strings.HasPrefix(filepath.Base(path), "word_stats_") {
		t.Errorf("snapshot name = %s, want word_stats_ prefix", filepath.Base(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if lines[0] != statsHeader || len(lines) != 2 {
		t.Errorf("snapshot has header %q and %d lines, want stats header and 2 lines", lines[0], len(lines))
	}
}

func TestCSVRepositoryCloneIsolation(t *testing.T) {
	repo, err := NewCSVWordRepository(filepath.Join(t.TempDir(), "word_stats.csv"), "")
	if err != nil {
		t.Fatalf("NewCSVWordRepository() error = %v", err)
	}
	if err := repo.CreateWord(models.NewWordRecord("abate")); err != nil {
		t.Fatalf("CreateWord() error = %v", err)
	}

	got, err := repo.FindByWord("abate")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	got.TotalUses = 99

	again, err := repo.FindByWord("abate")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	if again.TotalUses != 0 {
		t.Errorf("TotalUses = %d after mutating a returned record, want 0", again.TotalUses)
	}
}

func TestCSVRepositoryDuplicateCreate(t *testing.T) {
	repo, err := NewCSVWordRepository(filepath.Join(t.TempDir(), "word_stats.csv"), "")
	if err != nil {
		t.Fatalf("NewCSVWordRepository() error = %v", err)
	}

	if err := repo.CreateWord(models.NewWordRecord("abate")); err != nil {
		t.Fatalf("CreateWord() error = %v", err)
	}
	if err := repo.CreateWord(models.NewWordRecord("Abate")); err == nil {
		t.Error("CreateWord() with an existing word succeeded, want error")
	}
}
