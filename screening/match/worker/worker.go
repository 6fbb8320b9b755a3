package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/match"
	"github.com/Abraxas-365/sift/screening/match/matchsrv"
)

// MatchWorker consumes queued matching runs.
type MatchWorker struct {
	service *matchsrv.MatchService
	queue   match.JobQueue
	workers int
}

func NewMatchWorker(service *matchsrv.MatchService, queue match.JobQueue, workers int) *MatchWorker {
	if workers <= 0 {
		workers = 1
	}
	return &MatchWorker{
		service: service,
		queue:   queue,
		workers: workers,
	}
}

func (w *MatchWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d matching workers", w.workers)

	go w.moveDelayedJobs(ctx)

	for i := 0; i < w.workers; i++ {
		go w.processJobs(ctx, i)
	}
}

func (w *MatchWorker) processJobs(ctx context.Context, workerID int) {
	logx.Infof("Matching worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Matching worker %d stopping", workerID)
			return
		default:
			data, err := w.queue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				logx.Errorf("Matching worker %d dequeue error: %v", workerID, err)
				continue
			}

			// Nil data means the dequeue timed out with no jobs available.
			if len(data) == 0 {
				continue
			}

			var queueJob match.MatchingJob
			if err := json.Unmarshal(data, &queueJob); err != nil {
				logx.Errorf("Matching worker %d unmarshal error: %v (data: %s)", workerID, err, string(data))
				continue
			}

			logx.Infof("Matching worker %d processing run %s", workerID, queueJob.ID)
			if err := w.service.ProcessMatchingJob(ctx, &queueJob); err != nil {
				logx.Errorf("Matching worker %d run %s failed: %v", workerID, queueJob.ID, err)
			}
		}
	}
}

func (w *MatchWorker) moveDelayedJobs(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed matching runs: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed matching runs to ready queue", count)
			}
		}
	}
}
