package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"vocabtutor/models"
)

var (
	// ErrWordNotFound is returned when a lookup or update targets a word
	// that is not under tracking.
	ErrWordNotFound = errors.New("word not found")

	// ErrStoreUnavailable is returned when the backing store cannot be
	// read or written, including a stats file that fails to parse.
	ErrStoreUnavailable = errors.New("word store unavailable")
)

// WordRepository is the persistence boundary for tracked vocabulary words.
// Implementations must hand out independent copies so callers can mutate
// records freely before writing them back.
type WordRepository interface {
	CreateWord(word *models.WordRecord) error
	GetAllWords() ([]*models.WordRecord, error)
	FindByWord(word string) (*models.WordRecord, error)
	UpdateWord(word *models.WordRecord) error
}

// Snapshotter is implemented by repositories that can dump their current
// state to a timestamped file for offline inspection.
type Snapshotter interface {
	Snapshot(dir string) (string, error)
}

type PostgresWordRepository struct {
	db *sql.DB
}

func NewPostgresWordRepository(connStr string) (*PostgresWordRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresWordRepository{db: db}, nil
}

const wordColumns = `word, part_of_speech, example_sentence, difficulty_level,
		time_last_seen, correct_uses, total_uses, user_correct_uses, user_total_uses,
		system_correct_uses, system_total_uses, next_due, ease_factor, interval_days, repetitions`

func (r *PostgresWordRepository) CreateWord(word *models.WordRecord) error {
	query := `
		INSERT INTO vocab.words (` + wordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(query,
		word.Key(),
		word.PartOfSpeech,
		word.ExampleSentence,
		word.DifficultyLevel,
		nullableTime(word.TimeLastSeen),
		word.CorrectUses,
		word.TotalUses,
		word.UserCorrectUses,
		word.UserTotalUses,
		word.SystemCorrectUses,
		word.SystemTotalUses,
		nullableTime(word.NextDue),
		word.EaseFactor,
		word.Interval,
		word.Repetitions,
	)
	if err != nil {
		return fmt.Errorf("failed to insert word: %w", err)
	}

	return nil
}

func (r *PostgresWordRepository) GetAllWords() ([]*models.WordRecord, error) {
	query := `SELECT ` + wordColumns + ` FROM vocab.words ORDER BY word`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	defer rows.Close()

	var words []*models.WordRecord
	for rows.Next() {
		word, err := scanWordRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate words: %w", err)
	}

	return words, nil
}

func (r *PostgresWordRepository) FindByWord(word string) (*models.WordRecord, error) {
	query := `SELECT ` + wordColumns + ` FROM vocab.words WHERE word = $1`

	key := strings.ToLower(strings.TrimSpace(word))
	record, err := scanWordRow(r.db.QueryRow(query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word %q: %w", key, ErrWordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}

	return record, nil
}

func (r *PostgresWordRepository) UpdateWord(word *models.WordRecord) error {
	query := `
		UPDATE vocab.words
		SET part_of_speech = $2, example_sentence = $3, difficulty_level = $4,
			time_last_seen = $5, correct_uses = $6, total_uses = $7,
			user_correct_uses = $8, user_total_uses = $9,
			system_correct_uses = $10, system_total_uses = $11,
			next_due = $12, ease_factor = $13, interval_days = $14, repetitions = $15
		WHERE word = $1`

	result, err := r.db.Exec(query,
		word.Key(),
		word.PartOfSpeech,
		word.ExampleSentence,
		word.DifficultyLevel,
		nullableTime(word.TimeLastSeen),
		word.CorrectUses,
		word.TotalUses,
		word.UserCorrectUses,
		word.UserTotalUses,
		word.SystemCorrectUses,
		word.SystemTotalUses,
		nullableTime(word.NextDue),
		word.EaseFactor,
		word.Interval,
		word.Repetitions,
	)
	if err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("word %q: %w", word.Key(), ErrWordNotFound)
	}

	return nil
}

func (r *PostgresWordRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWordRow(row rowScanner) (*models.WordRecord, error) {
	var word models.WordRecord
	var lastSeen, nextDue sql.NullTime

	err := row.Scan(
		&word.Word,
		&word.PartOfSpeech,
		&word.ExampleSentence,
		&word.DifficultyLevel,
		&lastSeen,
		&word.CorrectUses,
		&word.TotalUses,
		&word.UserCorrectUses,
		&word.UserTotalUses,
		&word.SystemCorrectUses,
		&word.SystemTotalUses,
		&nextDue,
		&word.EaseFactor,
		&word.Interval,
		&word.Repetitions,
	)
	if err != nil {
		return nil, err
	}

	if lastSeen.Valid {
		word.TimeLastSeen = lastSeen.Time
	}
	if nextDue.Valid {
		word.NextDue = nextDue.Time
	}

	return &word, nil
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
