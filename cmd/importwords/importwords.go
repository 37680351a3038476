package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"vocabtutor/config"
	"vocabtutor/db"
	"vocabtutor/models"
	"vocabtutor/services"

	"github.com/xuri/excelize/v2"
)

func main() {
	filePath := flag.String("file", "", "Path to the vocabulary file (.xlsx or .csv)")
	sheetName := flag.String("sheet", "Sheet1", "Sheet to read when importing from Excel")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("[ERROR] -file is required")
	}

	log.Printf("[INFO] Starting vocabulary import from %s", *filePath)

	cfg := config.Load()

	repo, closeRepo := buildWordRepo(cfg)
	defer closeRepo()

	wordService := services.NewWordService(repo)

	rows, err := readRows(*filePath, *sheetName)
	if err != nil {
		log.Fatalf("[ERROR] Failed to read vocabulary file: %v", err)
	}

	var imported, skipped, failed int
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if cell(row, 0) == "" {
			continue
		}

		req := models.CreateWordRequest{
			Word:            cell(row, 0),
			PartOfSpeech:    cell(row, 1),
			ExampleSentence: cell(row, 2),
			DifficultyLevel: cell(row, 3),
		}

		if _, err := wordService.GetWordByText(req.Word); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, db.ErrWordNotFound) {
			log.Fatalf("[ERROR] Failed to check for existing word %q: %v", req.Word, err)
		}

		if _, err := wordService.CreateWord(req); err != nil {
			log.Printf("[ERROR] Row %d: %v", i+1, err)
			failed++
			continue
		}
		imported++
	}

	log.Printf("[INFO] Vocabulary import completed: %d imported, %d skipped, %d failed", imported, skipped, failed)
}

func buildWordRepo(cfg *config.Config) (db.WordRepository, func()) {
	switch cfg.StoreBackend {
	case "csv":
		repo, err := db.NewCSVWordRepository(cfg.StorePath, cfg.VocabPath)
		if err != nil {
			log.Fatalf("[ERROR] Failed to initialize word store: %v", err)
		}
		return repo, func() {}

	case "postgres":
		if cfg.DatabaseURL == "" {
			log.Fatal("[ERROR] DB_URL environment variable is required for the postgres backend")
		}
		repo, err := db.NewPostgresWordRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[ERROR] Failed to initialize word database: %v", err)
		}
		return repo, func() { repo.Close() }

	default:
		log.Fatalf("[ERROR] STORE_BACKEND %q cannot receive imports", cfg.StoreBackend)
		return nil, nil
	}
}

func readRows(path, sheet string) ([][]string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer f.Close()

		return f.GetRows(sheet)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	return reader.ReadAll()
}

func isHeaderRow(row []string) bool {
	return strings.EqualFold(cell(row, 0), "word")
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
