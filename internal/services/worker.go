package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ats-analyzer/internal/models"
)

var (
	ErrQueueFull     = errors.New("analysis queue is full")
	ErrWorkerStopped = errors.New("worker is stopped")
)

type AnalysisJob struct {
	SessionID uuid.UUID
	Request   models.AnalysisRequest
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(job AnalysisJob) error
}

type WorkerOptions struct {
	Concurrency   int
	QueueSize     int
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

type worker struct {
	sessions        SessionStore
	analyzerService AnalyzerService
	notifier        SessionNotifier
	jobQueue        chan AnalysisJob
	opts            WorkerOptions
	wg              sync.WaitGroup
	stopChan        chan struct{}
	stopOnce        sync.Once
}

func NewWorker(
	sessions SessionStore,
	analyzerService AnalyzerService,
	notifier SessionNotifier,
	opts WorkerOptions,
) Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if notifier == nil {
		notifier = NewNopNotifier()
	}
	return &worker{
		sessions:        sessions,
		analyzerService: analyzerService,
		notifier:        notifier,
		jobQueue:        make(chan AnalysisJob, opts.QueueSize),
		opts:            opts,
		stopChan:        make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.opts.Concurrency)

	for i := 0; i < w.opts.Concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.opts.SessionTTL > 0 && w.opts.SweepInterval > 0 {
		w.wg.Add(1)
		go w.sweepSessions()
	}

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker. It never blocks: a full queue is reported to
// the caller, which must release the session.
func (w *worker) EnqueueJob(job AnalysisJob) error {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job for session %s\n", job.SessionID)
		return ErrWorkerStopped
	default:
	}

	select {
	case w.jobQueue <- job:
		log.Printf("📥 %s job for session %s enqueued\n", job.Request.Mode, job.SessionID)
		return nil
	default:
		log.Printf("⚠️  Queue full, rejecting job for session %s\n", job.SessionID)
		return ErrQueueFull
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d context done\n", workerID)
			return
		case job := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing %s for session %s\n", workerID, job.Request.Mode, job.SessionID)
			w.process(ctx, job)
		}
	}
}

func (w *worker) process(ctx context.Context, job AnalysisJob) {
	session, err := w.sessions.Get(job.SessionID)
	if err != nil {
		log.Printf("⚠️  Session %s gone before its job ran: %v\n", job.SessionID, err)
		return
	}

	w.publish(job.SessionID, job.Request.Mode, models.SessionProcessing, "")

	result, err := w.analyzerService.Analyze(ctx, job.SessionID, job.Request)
	if err != nil {
		session.Fail(job.Request.Mode, err)
		w.publish(job.SessionID, job.Request.Mode, models.SessionFailed, err.Error())
		log.Printf("❌ Failed to process job for session %s: %v\n", job.SessionID, err)
		return
	}

	session.Complete(result)
	w.publish(job.SessionID, job.Request.Mode, models.SessionCompleted, "")
	log.Printf("✅ Completed %s job for session %s\n", job.Request.Mode, job.SessionID)
}

func (w *worker) publish(sessionID uuid.UUID, mode models.Mode, status models.SessionStatus, message string) {
	update := SessionUpdate{
		SessionID: sessionID.String(),
		Mode:      mode,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
	if err := w.notifier.Publish(sessionID, update); err != nil {
		log.Printf("⚠️  Failed to publish session update for %s: %v\n", sessionID, err)
	}
}

func (w *worker) sweepSessions() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.opts.SweepInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting idle session sweeper")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Idle session sweeper stopped")
			return
		case <-ticker.C:
			if removed := w.sessions.Sweep(w.opts.SessionTTL); removed > 0 {
				log.Printf("🧹 Removed %d idle sessions\n", removed)
			}
		}
	}
}
