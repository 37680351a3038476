package services

import (
	"testing"

	"vocabtutor/models"
)

func TestExposureQueueAppliesInOrder(t *testing.T) {
	repo := seedRepo(t, models.NewWordRecord("abate"))
	service, logRepo := newTestLearningService(repo)

	queue := NewExposureQueue(service, 8)
	queue.Start()

	for i := 0; i < 3; i++ {
		if ok := queue.Enqueue(models.Exposure{
			Word:          "abate",
			UsedCorrectly: i != 1,
			Speaker:       models.SpeakerLearner,
			SessionID:     "session-q",
		}); !ok {
			t.Fatalf("Enqueue %d reported a full queue", i)
		}
	}

	queue.Stop()

	word, err := repo.FindByWord("abate")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	if word.TotalUses != 3 || word.CorrectUses != 2 {
		t.Errorf("counters = %d/%d, want 2/3", word.CorrectUses, word.TotalUses)
	}

	entries, err := logRepo.GetRecentEntries(10)
	if err != nil {
		t.Fatalf("GetRecentEntries() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("exposure log has %d entries, want 3", len(entries))
	}
}

func TestExposureQueueDropsWhenFull(t *testing.T) {
	service, _ := newTestLearningService(seedRepo(t, models.NewWordRecord("abate")))

	queue := NewExposureQueue(service, 1)
	exposure := models.Exposure{Word: "abate", UsedCorrectly: true, Speaker: models.SpeakerLearner}

	if !queue.Enqueue(exposure) {
		t.Fatal("first Enqueue should fit")
	}
	if queue.Enqueue(exposure) {
		t.Fatal("second Enqueue should report a full queue")
	}
	if queue.Len() != 1 {
		t.Errorf("Len() = %d, want 1", queue.Len())
	}
}

func TestExposureQueueStopDrains(t *testing.T) {
	repo := seedRepo(t, models.NewWordRecord("brisk"))
	service, _ := newTestLearningService(repo)

	queue := NewExposureQueue(service, 16)
	for i := 0; i < 10; i++ {
		queue.Enqueue(models.Exposure{Word: "brisk", UsedCorrectly: true, Speaker: models.SpeakerTutor})
	}

	queue.Start()
	queue.Stop()

	word, err := repo.FindByWord("brisk")
	if err != nil {
		t.Fatalf("FindByWord() error = %v", err)
	}
	if word.TotalUses != 10 {
		t.Errorf("TotalUses = %d after Stop, want 10", word.TotalUses)
	}
	if queue.Len() != 0 {
		t.Errorf("Len() = %d after Stop, want 0", queue.Len())
	}
}
