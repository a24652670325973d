package service

import (
	"context"
	"sync"
	"time"

	"retail-analytics-service/internal/logger"
	"retail-analytics-service/internal/model"
	"retail-analytics-service/internal/repository"
)

// ObservationWorker accumulates observations and flushes them to the
// analytics store in batches.
type ObservationWorker interface {
	Enqueue(obs model.Observation)
	Shutdown()
}

type batchObservationWorker struct {
	repo          repository.ObservationRepository
	queue         chan model.Observation
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup
}

// NewBatchObservationWorker starts the background flush loop. Shutdown must
// be called to drain the queue before the process exits.
func NewBatchObservationWorker(repo repository.ObservationRepository, bufferSize, batchSize int, interval time.Duration) ObservationWorker {
	w := &batchObservationWorker{
		repo:          repo,
		queue:         make(chan model.Observation, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	w.wg.Add(1)
	go w.startLoop()
	return w
}

// Enqueue blocks when the buffer is full, applying backpressure to ingest.
func (w *batchObservationWorker) Enqueue(obs model.Observation) {
	w.queue <- obs
}

func (w *batchObservationWorker) Shutdown() {
	logger.Log.Info().Msg("observation worker shutting down, draining queue")
	close(w.queue)
	w.wg.Wait()
	logger.Log.Info().Msg("observation worker stopped")
}

func (w *batchObservationWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.Observation
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case obs, ok := <-w.queue:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}

			batch = append(batch, obs)
			if len(batch) >= w.batchSize {
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *batchObservationWorker) bulkInsert(batch []model.Observation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.InsertBatch(ctx, batch); err != nil {
		logger.Log.Error().Err(err).Int("size", len(batch)).Msg("bulk insert failed")
		return
	}
	logger.Log.Info().Int("size", len(batch)).Msg("observations flushed")
}
