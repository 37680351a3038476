package services

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"vocabtutor/db"
)

// MaintenanceService runs the periodic chores: an hourly schedule summary
// in the log and a daily snapshot of the word stats for backends that
// support it.
type MaintenanceService struct {
	repo        db.WordRepository
	snapshotDir string
	scheduler   *gocron.Scheduler
}

func NewMaintenanceService(repo db.WordRepository, snapshotDir string) *MaintenanceService {
	return &MaintenanceService{
		repo:        repo,
		snapshotDir: snapshotDir,
		scheduler:   gocron.NewScheduler(time.UTC),
	}
}

func (s *MaintenanceService) Start() error {
	if _, err := s.scheduler.Every(1).Hour().Do(s.logScheduleSummary); err != nil {
		return fmt.Errorf("failed to schedule summary job: %w", err)
	}

	if _, ok := s.repo.(db.Snapshotter); ok {
		if _, err := s.scheduler.Every(1).Day().At("03:00").Do(s.snapshot); err != nil {
			return fmt.Errorf("failed to schedule snapshot job: %w", err)
		}
	}

	s.scheduler.StartAsync()
	log.Printf("[INFO] Maintenance scheduler started")

	return nil
}

func (s *MaintenanceService) Stop() {
	s.scheduler.Stop()
}

func (s *MaintenanceService) logScheduleSummary() {
	words, err := s.repo.GetAllWords()
	if err != nil {
		log.Printf("[ERROR] Schedule summary failed: %v", err)
		return
	}

	now := time.Now()
	var introduced, due int
	for _, word := range words {
		if !word.Introduced() {
			continue
		}
		introduced++
		if word.Due(now) {
			due++
		}
	}

	log.Printf("[INFO] Word schedule: %d tracked, %d introduced, %d due for review", len(words), introduced, due)
}

func (s *MaintenanceService) snapshot() {
	snapshotter, ok := s.repo.(db.Snapshotter)
	if !ok {
		return
	}

	path, err := snapshotter.Snapshot(s.snapshotDir)
	if err != nil {
		log.Printf("[ERROR] Stats snapshot failed: %v", err)
		return
	}

	log.Printf("[INFO] Wrote stats snapshot to %s", path)
}
