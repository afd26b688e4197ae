package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

const (
	pendingBatchSize  = 10
	defaultStaleAfter = 15 * time.Minute
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(jobID uuid.UUID)
}

type WorkerOptions struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
	// StaleAfter returns processing jobs untouched for this long to the queue.
	StaleAfter time.Duration
}

type worker struct {
	jobRepo     repositories.AnalysisJobRepository
	storage     StorageService
	analyzer    Analyzer
	jobQueue    chan uuid.UUID
	concurrency int
	poll        time.Duration
	staleAfter  time.Duration
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	log         *zap.Logger
}

func NewWorker(
	jobRepo repositories.AnalysisJobRepository,
	storage StorageService,
	analyzer Analyzer,
	opts WorkerOptions,
	log *zap.Logger,
) Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Second
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = defaultStaleAfter
	}
	return &worker{
		jobRepo:     jobRepo,
		storage:     storage,
		analyzer:    analyzer,
		jobQueue:    make(chan uuid.UUID, opts.QueueSize),
		concurrency: opts.Concurrency,
		poll:        opts.PollInterval,
		staleAfter:  opts.StaleAfter,
		stopChan:    make(chan struct{}),
		log:         logger.OrNop(log).Named("worker"),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.log.Info("worker started", zap.Int("concurrency", w.concurrency), zap.Duration("poll_interval", w.poll))
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping worker")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.log.Info("worker stopped")
}

// EnqueueJob implements Worker. A full queue drops the job; the poller picks it up later.
func (w *worker) EnqueueJob(jobID uuid.UUID) {
	select {
	case <-w.stopChan:
		w.log.Warn("worker stopped, cannot enqueue job", zap.Stringer("job_id", jobID))
		return
	default:
	}

	select {
	case w.jobQueue <- jobID:
		w.log.Debug("job enqueued", zap.Stringer("job_id", jobID))
	default:
		w.log.Warn("job queue full, leaving job for the poller", zap.Stringer("job_id", jobID))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case jobID := <-w.jobQueue:
			if err := w.ProcessJob(ctx, jobID); err != nil {
				log.Error("failed to process job", zap.Stringer("job_id", jobID), zap.Error(err))
			}
		}
	}
}

// ProcessJob claims one queued job, analyzes its stored upload and persists the envelope.
func (w *worker) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	claimed, err := w.jobRepo.ClaimQueued(jobID)
	if err != nil {
		return err
	}
	if !claimed {
		w.log.Debug("job already claimed", zap.Stringer("job_id", jobID))
		return nil
	}

	job, err := w.jobRepo.FindByID(jobID)
	if err != nil {
		return err
	}

	data, err := w.storage.ReadFile(job.StoredFileName)
	if err != nil {
		if updErr := w.jobRepo.UpdateError(jobID, err.Error()); updErr != nil {
			return fmt.Errorf("%w (and failed to record error: %v)", err, updErr)
		}
		return err
	}

	result := w.analyzer.Analyze(ctx, models.DocumentBuffer{
		Data:        data,
		ContentType: job.ContentType,
		Filename:    job.OriginalFileName,
	})

	if err := w.jobRepo.UpdateResult(jobID, result); err != nil {
		return err
	}

	if err := w.storage.DeleteFile(job.StoredFileName); err != nil {
		w.log.Warn("failed to remove analyzed upload", zap.Stringer("job_id", jobID), zap.Error(err))
	}

	w.log.Info("job finished",
		zap.Stringer("job_id", jobID),
		zap.Bool("success", result.Success),
		zap.Int("overall_score", result.OverallScore))

	return nil
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.requeueStaleJobs()

			pendingJobs, err := w.jobRepo.FindPendingJobs(pendingBatchSize)
			if err != nil {
				w.log.Warn("failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pendingJobs) > 0 {
				w.log.Debug("found pending jobs", zap.Int("count", len(pendingJobs)))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}

// requeueStaleJobs recovers jobs left in processing by a worker that died mid-analysis.
func (w *worker) requeueStaleJobs() {
	requeued, err := w.jobRepo.RequeueStale(time.Now().Add(-w.staleAfter))
	if err != nil {
		w.log.Warn("failed to requeue stale jobs", zap.Error(err))
		return
	}
	if requeued > 0 {
		w.log.Info("requeued stale jobs", zap.Int64("count", requeued))
	}
}
