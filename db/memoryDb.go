package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"vocabtutor/models"

	_ "github.com/lib/pq"
)

const LearnerMemoryID = "learner"

type MemoryRepository interface {
	GetMemory() (*models.LearnerMemory, error)
	UpdateMemory(content string) error
}

type PostgresMemoryRepository struct {
	db *sql.DB
}

func NewPostgresMemoryRepository(databaseURL string) (*PostgresMemoryRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresMemoryRepository{db: db}, nil
}

func (r *PostgresMemoryRepository) GetMemory() (*models.LearnerMemory, error) {
	query := `
		SELECT id, memory_content, created_at, updated_at
		FROM vocab.learner_memory
		WHERE id = $1`

	memory := &models.LearnerMemory{}
	row := r.db.QueryRow(query, LearnerMemoryID)

	err := row.Scan(&memory.ID, &memory.MemoryContent, &memory.CreatedAt, &memory.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			// Create the memory record if it doesn't exist
			return r.createMemory()
		}
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}

	return memory, nil
}

func (r *PostgresMemoryRepository) createMemory() (*models.LearnerMemory, error) {
	query := `
		INSERT INTO vocab.learner_memory (id, memory_content)
		VALUES ($1, '')
		RETURNING id, memory_content, created_at, updated_at`

	memory := &models.LearnerMemory{}
	row := r.db.QueryRow(query, LearnerMemoryID)

	err := row.Scan(&memory.ID, &memory.MemoryContent, &memory.CreatedAt, &memory.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}

	return memory, nil
}

func (r *PostgresMemoryRepository) UpdateMemory(content string) error {
	query := `
		UPDATE vocab.learner_memory
		SET memory_content = $1, updated_at = NOW()
		WHERE id = $2`

	result, err := r.db.Exec(query, content, LearnerMemoryID)
	if err != nil {
		return fmt.Errorf("failed to update memory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("memory record not found")
	}

	return nil
}

func (r *PostgresMemoryRepository) Close() error {
	return r.db.Close()
}

// FileMemoryRepository keeps the learner profile in a plain text file so the
// CSV backend needs no database at all.
type FileMemoryRepository struct {
	path string
	mu   sync.RWMutex
}

func NewFileMemoryRepository(path string) (*FileMemoryRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create memory directory: %w", err)
	}

	return &FileMemoryRepository{path: path}, nil
}

func (r *FileMemoryRepository) GetMemory() (*models.LearnerMemory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memory := &models.LearnerMemory{ID: LearnerMemoryID}

	content, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return memory, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read memory file: %w", err)
	}
	memory.MemoryContent = string(content)

	if info, err := os.Stat(r.path); err == nil {
		memory.CreatedAt = info.ModTime()
		memory.UpdatedAt = info.ModTime()
	}

	return memory, nil
}

func (r *FileMemoryRepository) UpdateMemory(content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.WriteFile(r.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write memory file: %w", err)
	}

	return nil
}

// InMemoryMemoryRepository holds the learner profile in process memory.
type InMemoryMemoryRepository struct {
	mu     sync.RWMutex
	memory models.LearnerMemory
}

func NewInMemoryMemoryRepository() *InMemoryMemoryRepository {
	return &InMemoryMemoryRepository{
		memory: models.LearnerMemory{ID: LearnerMemoryID},
	}
}

func (r *InMemoryMemoryRepository) GetMemory() (*models.LearnerMemory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memory := r.memory
	return &memory, nil
}

func (r *InMemoryMemoryRepository) UpdateMemory(content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if r.memory.CreatedAt.IsZero() {
		r.memory.CreatedAt = now
	}
	r.memory.MemoryContent = content
	r.memory.UpdatedAt = now

	return nil
}
