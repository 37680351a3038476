package services

import (
	"log"
	"sync"

	"vocabtutor/models"
)

const defaultQueueSize = 256

// ExposureQueue decouples transcript analysis from schedule updates: the
// analyzer enqueues detected exposures and a single worker applies them in
// arrival order, so conversation handling never waits on the word store.
type ExposureQueue struct {
	learning *LearningService
	queue    chan models.Exposure
	wg       sync.WaitGroup
	once     sync.Once
}

func NewExposureQueue(learning *LearningService, size int) *ExposureQueue {
	if size <= 0 {
		size = defaultQueueSize
	}

	return &ExposureQueue{
		learning: learning,
		queue:    make(chan models.Exposure, size),
	}
}

func (q *ExposureQueue) Start() {
	q.wg.Add(1)
	go q.run()
}

func (q *ExposureQueue) run() {
	defer q.wg.Done()

	for exposure := range q.queue {
		if _, err := q.learning.RecordExposure(exposure); err != nil {
			log.Printf("[ERROR] Failed to apply queued exposure for %q: %v", exposure.Word, err)
		}
	}
}

// Enqueue hands an exposure to the worker without blocking. It reports
// false when the queue is full and the exposure was dropped. Must not be
// called after Stop.
func (q *ExposureQueue) Enqueue(exposure models.Exposure) bool {
	select {
	case q.queue <- exposure:
		return true
	default:
		log.Printf("[WARN] Exposure queue full, dropping exposure for %q", exposure.Word)
		return false
	}
}

// Stop lets the worker drain everything already queued, then waits for it
// to exit.
func (q *ExposureQueue) Stop() {
	q.once.Do(func() {
		close(q.queue)
	})
	q.wg.Wait()
}

func (q *ExposureQueue) Len() int {
	return len(q.queue)
}
