package db

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"vocabtutor/models"
)

// ExposureLogRepository stores the audit trail of applied exposures.
type ExposureLogRepository interface {
	AppendEntry(entry *models.ExposureLogEntry) error
	GetRecentEntries(limit int) ([]*models.ExposureLogEntry, error)
	GetEntriesByWord(word string) ([]*models.ExposureLogEntry, error)
}

type PostgresExposureLogRepository struct {
	db *sql.DB
}

func NewPostgresExposureLogRepository(connStr string) (*PostgresExposureLogRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresExposureLogRepository{db: db}, nil
}

func (r *PostgresExposureLogRepository) AppendEntry(entry *models.ExposureLogEntry) error {
	query := `
		INSERT INTO vocab.exposure_log
			(session_id, word, speaker, used_correctly, applied_quality,
			 ease_factor, interval_days, repetitions, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRow(query,
		entry.SessionID,
		entry.Word,
		string(entry.Speaker),
		entry.UsedCorrectly,
		entry.AppliedQuality,
		entry.EaseFactor,
		entry.IntervalDays,
		entry.Repetitions,
		entry.RecordedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert exposure log entry: %w", err)
	}

	return nil
}

func (r *PostgresExposureLogRepository) GetRecentEntries(limit int) ([]*models.ExposureLogEntry, error) {
	query := `
		SELECT id, session_id, word, speaker, used_correctly, applied_quality,
			ease_factor, interval_days, repetitions, recorded_at
		FROM vocab.exposure_log
		ORDER BY recorded_at DESC, id DESC
		LIMIT $1`

	return r.queryEntries(query, limit)
}

func (r *PostgresExposureLogRepository) GetEntriesByWord(word string) ([]*models.ExposureLogEntry, error) {
	query := `
		SELECT id, session_id, word, speaker, used_correctly, applied_quality,
			ease_factor, interval_days, repetitions, recorded_at
		FROM vocab.exposure_log
		WHERE word = $1
		ORDER BY recorded_at DESC, id DESC`

	return r.queryEntries(query, strings.ToLower(strings.TrimSpace(word)))
}

func (r *PostgresExposureLogRepository) queryEntries(query string, args ...any) ([]*models.ExposureLogEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get exposure log entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ExposureLogEntry
	for rows.Next() {
		var entry models.ExposureLogEntry
		var speaker string
		err := rows.Scan(
			&entry.ID,
			&entry.SessionID,
			&entry.Word,
			&speaker,
			&entry.UsedCorrectly,
			&entry.AppliedQuality,
			&entry.EaseFactor,
			&entry.IntervalDays,
			&entry.Repetitions,
			&entry.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exposure log entry: %w", err)
		}
		entry.Speaker = models.Speaker(speaker)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exposure log entries: %w", err)
	}

	return entries, nil
}

func (r *PostgresExposureLogRepository) Close() error {
	return r.db.Close()
}

// InMemoryExposureLogRepository keeps the trail in a slice, newest last.
type InMemoryExposureLogRepository struct {
	mu      sync.RWMutex
	entries []*models.ExposureLogEntry
	nextID  int
}

func NewInMemoryExposureLogRepository() *InMemoryExposureLogRepository {
	return &InMemoryExposureLogRepository{nextID: 1}
}

func (r *InMemoryExposureLogRepository) AppendEntry(entry *models.ExposureLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++

	stored := *entry
	r.entries = append(r.entries, &stored)

	return nil
}

func (r *InMemoryExposureLogRepository) GetRecentEntries(limit int) ([]*models.ExposureLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*models.ExposureLogEntry
	for i := len(r.entries) - 1; i >= 0 && len(entries) < limit; i-- {
		entry := *r.entries[i]
		entries = append(entries, &entry)
	}

	return entries, nil
}

func (r *InMemoryExposureLogRepository) GetEntriesByWord(word string) ([]*models.ExposureLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(word))
	var entries []*models.ExposureLogEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].Word == key {
			entry := *r.entries[i]
			entries = append(entries, &entry)
		}
	}

	return entries, nil
}
