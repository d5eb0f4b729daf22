package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-analyzer/internal/models"
)

func startWorker(t *testing.T, store SessionStore, gen GenerationClient, notifier SessionNotifier, opts WorkerOptions) Worker {
	t.Helper()
	w := NewWorker(store, NewAnalyzerService(newRecordingRunRepo(), gen, time.Second), notifier, opts)
	w.Start(context.Background())
	t.Cleanup(w.Stop)
	return w
}

func TestWorker_AppliesResultToSession(t *testing.T) {
	store := NewSessionStore()
	notifier := &recordingNotifier{}
	w := startWorker(t, store, &stubGenerator{response: cannedCompletion}, notifier, WorkerOptions{Concurrency: 2})

	s := readySession(t, store)
	req, err := s.Begin(models.ModeFullAnalysis)
	require.NoError(t, err)
	require.NoError(t, w.EnqueueJob(AnalysisJob{SessionID: s.ID, Request: req}))

	require.Eventually(t, func() bool {
		return s.Snapshot().Status == models.SessionCompleted
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 72, s.Snapshot().Analysis.MatchPercentage)
	assert.Eventually(t, func() bool {
		statuses := notifier.statuses()
		return len(statuses) == 2 && statuses[1] == models.SessionCompleted
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, models.SessionProcessing, notifier.statuses()[0])
}

func TestWorker_FailureLeavesPriorResult(t *testing.T) {
	store := NewSessionStore()
	w := startWorker(t, store, &stubGenerator{response: "Here: {invalid json"}, nil, WorkerOptions{Concurrency: 1})

	s := readySession(t, store)
	prior := &models.AnalysisResult{MatchPercentage: 55, Strengths: []string{"Go"}}
	s.Complete(&models.Result{Mode: models.ModeFullAnalysis, Analysis: prior})

	req, err := s.Begin(models.ModeFullAnalysis)
	require.NoError(t, err)
	require.NoError(t, w.EnqueueJob(AnalysisJob{SessionID: s.ID, Request: req}))

	require.Eventually(t, func() bool {
		return s.Snapshot().Status == models.SessionFailed
	}, 2*time.Second, 10*time.Millisecond)

	snap := s.Snapshot()
	assert.Same(t, prior, snap.Analysis)
	require.NotNil(t, snap.LastError)
	assert.Equal(t, "malformed_json", snap.LastError.Kind)
	assert.Equal(t, "Here: {invalid json", snap.LastError.RawOutput)
}

func TestWorker_TimeoutLeavesPriorResult(t *testing.T) {
	store := NewSessionStore()
	gen := &stubGenerator{block: make(chan struct{})}
	t.Cleanup(func() { close(gen.block) })

	w := NewWorker(store, NewAnalyzerService(newRecordingRunRepo(), gen, 50*time.Millisecond), nil, WorkerOptions{Concurrency: 1})
	w.Start(context.Background())
	t.Cleanup(w.Stop)

	s := readySession(t, store)
	prior := &models.AnalysisResult{MatchPercentage: 64, Strengths: []string{"Python"}}
	s.Complete(&models.Result{Mode: models.ModeFullAnalysis, Analysis: prior})

	req, err := s.Begin(models.ModeFullAnalysis)
	require.NoError(t, err)
	require.NoError(t, w.EnqueueJob(AnalysisJob{SessionID: s.ID, Request: req}))

	require.Eventually(t, func() bool {
		return s.Snapshot().Status == models.SessionFailed
	}, 2*time.Second, 10*time.Millisecond)

	snap := s.Snapshot()
	assert.Same(t, prior, snap.Analysis)
	require.NotNil(t, snap.LastError)
	assert.Equal(t, "timeout", snap.LastError.Kind)
	assert.Empty(t, snap.LastError.RawOutput)
}

func TestWorker_EnqueueRejections(t *testing.T) {
	t.Run("queue full", func(t *testing.T) {
		w := NewWorker(NewSessionStore(), nil, nil, WorkerOptions{QueueSize: 1})

		require.NoError(t, w.EnqueueJob(AnalysisJob{}))
		assert.ErrorIs(t, w.EnqueueJob(AnalysisJob{}), ErrQueueFull)
	})

	t.Run("stopped", func(t *testing.T) {
		w := NewWorker(NewSessionStore(), nil, nil, WorkerOptions{})
		w.Stop()

		assert.ErrorIs(t, w.EnqueueJob(AnalysisJob{}), ErrWorkerStopped)
	})
}

func TestWorker_SweepsIdleSessions(t *testing.T) {
	store := NewSessionStore()
	store.Create()
	startWorker(t, store, &stubGenerator{}, nil, WorkerOptions{
		SessionTTL:    10 * time.Millisecond,
		SweepInterval: 5 * time.Millisecond,
	})

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
