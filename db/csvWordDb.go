package db

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"vocabtutor/models"
)

// statsHeader is the column layout of the stats file. Timestamps are epoch
// milliseconds; an empty field means the value was never set.
const statsHeader = "word,time_last_seen,correct_uses,total_uses,user_correct_uses,user_total_uses,system_correct_uses,system_total_uses,next_due,EF,interval,repetitions"

const vocabHeader = "word,part_of_speech,example_sentence,difficulty_level"

// CSVWordRepository keeps every record in memory and persists the full set
// to a stats CSV on each write. Word metadata lives in a companion
// vocabulary CSV so the stats file stays append-friendly for analysis.
type CSVWordRepository struct {
	statsPath string
	vocabPath string

	mu      sync.RWMutex
	records map[string]*models.WordRecord
}

func NewCSVWordRepository(statsPath, vocabPath string) (*CSVWordRepository, error) {
	r := &CSVWordRepository{
		statsPath: statsPath,
		vocabPath: vocabPath,
		records:   make(map[string]*models.WordRecord),
	}

	if err := os.MkdirAll(filepath.Dir(statsPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}

	if err := r.loadVocab(); err != nil {
		return nil, err
	}
	if err := r.loadStats(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *CSVWordRepository) CreateWord(word *models.WordRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := word.Key()
	if _, exists := r.records[key]; exists {
		return fmt.Errorf("word %q already tracked", key)
	}

	record := word.Clone()
	record.Word = key
	r.records[key] = record

	if err := r.saveVocabLocked(); err != nil {
		return err
	}
	return r.saveStatsLocked()
}

func (r *CSVWordRepository) GetAllWords() ([]*models.WordRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedClonesLocked(), nil
}

func (r *CSVWordRepository) FindByWord(word string) (*models.WordRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(word))
	record, exists := r.records[key]
	if !exists {
		return nil, fmt.Errorf("word %q: %w", key, ErrWordNotFound)
	}

	return record.Clone(), nil
}

func (r *CSVWordRepository) UpdateWord(word *models.WordRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := word.Key()
	if _, exists := r.records[key]; !exists {
		return fmt.Errorf("word %q: %w", key, ErrWordNotFound)
	}

	record := word.Clone()
	record.Word = key
	r.records[key] = record

	if err := r.saveVocabLocked(); err != nil {
		return err
	}
	return r.saveStatsLocked()
}

// Snapshot writes the current stats to a timestamped copy under dir and
// returns the path written.
func (r *CSVWordRepository) Snapshot(dir string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	name := fmt.Sprintf("word_stats_%s.csv", time.Now().UTC().Format("20060102T150405"))
	path := filepath.Join(dir, name)
	if err := writeCSVFile(path, statsHeader, statsRows(r.sortedClonesLocked())); err != nil {
		return "", err
	}

	return path, nil
}

func (r *CSVWordRepository) loadVocab() error {
	if r.vocabPath == "" {
		return nil
	}

	file, err := os.Open(r.vocabPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return fmt.Errorf("vocabulary file %s: %v: %w", r.vocabPath, err, ErrStoreUnavailable)
	}
	if len(rows) == 0 {
		return nil
	}
	if strings.Join(rows[0], ",") != vocabHeader {
		return fmt.Errorf("vocabulary file %s has unexpected header: %w", r.vocabPath, ErrStoreUnavailable)
	}

	for i, row := range rows[1:] {
		if len(row) != 4 {
			return fmt.Errorf("vocabulary file %s row %d has %d fields: %w", r.vocabPath, i+2, len(row), ErrStoreUnavailable)
		}

		record := models.NewWordRecord(row[0])
		record.PartOfSpeech = row[1]
		record.ExampleSentence = row[2]
		record.DifficultyLevel = row[3]
		r.records[record.Key()] = record
	}

	return nil
}

func (r *CSVWordRepository) loadStats() error {
	file, err := os.Open(r.statsPath)
	if os.IsNotExist(err) {
		return writeCSVFile(r.statsPath, statsHeader, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to open stats file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return fmt.Errorf("stats file %s: %v: %w", r.statsPath, err, ErrStoreUnavailable)
	}
	if len(rows) == 0 {
		return writeCSVFile(r.statsPath, statsHeader, nil)
	}
	if strings.Join(rows[0], ",") != statsHeader {
		return fmt.Errorf("stats file %s has unexpected header: %w", r.statsPath, ErrStoreUnavailable)
	}

	for i, row := range rows[1:] {
		record, err := parseStatsRow(row)
		if err != nil {
			return fmt.Errorf("stats file %s row %d: %v: %w", r.statsPath, i+2, err, ErrStoreUnavailable)
		}

		key := record.Key()
		if existing, ok := r.records[key]; ok {
			record.PartOfSpeech = existing.PartOfSpeech
			record.ExampleSentence = existing.ExampleSentence
			record.DifficultyLevel = existing.DifficultyLevel
		}
		r.records[key] = record
	}

	return nil
}

func (r *CSVWordRepository) saveStatsLocked() error {
	return writeCSVFile(r.statsPath, statsHeader, statsRows(r.sortedClonesLocked()))
}

func (r *CSVWordRepository) saveVocabLocked() error {
	if r.vocabPath == "" {
		return nil
	}

	var rows [][]string
	for _, record := range r.sortedClonesLocked() {
		rows = append(rows, []string{
			record.Word,
			record.PartOfSpeech,
			record.ExampleSentence,
			record.DifficultyLevel,
		})
	}

	return writeCSVFile(r.vocabPath, vocabHeader, rows)
}

func (r *CSVWordRepository) sortedClonesLocked() []*models.WordRecord {
	records := make([]*models.WordRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record.Clone())
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Word < records[j].Word
	})

	return records
}

func parseStatsRow(row []string) (*models.WordRecord, error) {
	if len(row) != 12 {
		return nil, fmt.Errorf("expected 12 fields, got %d", len(row))
	}

	record := models.NewWordRecord(row[0])
	if record.Word == "" {
		return nil, fmt.Errorf("empty word")
	}

	var err error
	if record.TimeLastSeen, err = parseEpochMillis(row[1]); err != nil {
		return nil, fmt.Errorf("time_last_seen: %v", err)
	}

	counters := []struct {
		name  string
		field string
		dest  *int
	}{
		{"correct_uses", row[2], &record.CorrectUses},
		{"total_uses", row[3], &record.TotalUses},
		{"user_correct_uses", row[4], &record.UserCorrectUses},
		{"user_total_uses", row[5], &record.UserTotalUses},
		{"system_correct_uses", row[6], &record.SystemCorrectUses},
		{"system_total_uses", row[7], &record.SystemTotalUses},
		{"interval", row[10], &record.Interval},
		{"repetitions", row[11], &record.Repetitions},
	}
	for _, c := range counters {
		if *c.dest, err = strconv.Atoi(c.field); err != nil {
			return nil, fmt.Errorf("%s: %v", c.name, err)
		}
	}

	if record.NextDue, err = parseEpochMillis(row[8]); err != nil {
		return nil, fmt.Errorf("next_due: %v", err)
	}
	if record.EaseFactor, err = strconv.ParseFloat(row[9], 64); err != nil {
		return nil, fmt.Errorf("EF: %v", err)
	}

	return record, nil
}

func statsRows(records []*models.WordRecord) [][]string {
	var rows [][]string
	for _, record := range records {
		rows = append(rows, []string{
			record.Word,
			formatEpochMillis(record.TimeLastSeen),
			strconv.Itoa(record.CorrectUses),
			strconv.Itoa(record.TotalUses),
			strconv.Itoa(record.UserCorrectUses),
			strconv.Itoa(record.UserTotalUses),
			strconv.Itoa(record.SystemCorrectUses),
			strconv.Itoa(record.SystemTotalUses),
			formatEpochMillis(record.NextDue),
			strconv.FormatFloat(record.EaseFactor, 'f', -1, 64),
			strconv.Itoa(record.Interval),
			strconv.Itoa(record.Repetitions),
		})
	}

	return rows
}

// parseEpochMillis reads an epoch-millisecond field. Empty means unset;
// literal zero is accepted for files written before empty became canonical.
func parseEpochMillis(field string) (time.Time, error) {
	if field == "" || field == "0" {
		return time.Time{}, nil
	}

	millis, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(millis), nil
}

func formatEpochMillis(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return strconv.FormatInt(t.UnixMilli(), 10)
}

// writeCSVFile writes header and rows to a temp file in the target
// directory, then renames it over path so readers never see a partial file.
func writeCSVFile(path, header string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(strings.Split(header, ",")); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
