package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func queueJob(t *testing.T, repo *fakeJobRepo, storage StorageService, data []byte) uuid.UUID {
	t.Helper()

	stored, path, err := storage.SaveFile(data, "resume.pdf")
	require.NoError(t, err)

	job := &models.AnalysisJob{
		ID:               uuid.New(),
		OriginalFileName: "resume.pdf",
		StoredFileName:   stored,
		FilePath:         path,
		ContentType:      "application/pdf",
		Status:           models.StatusQueued,
	}
	require.NoError(t, repo.Create(job))
	return job.ID
}

func TestProcessJobStoresEnvelope(t *testing.T) {
	repo := newFakeJobRepo()
	storage := NewStorageService(t.TempDir())
	w := NewWorker(repo, storage, NewAnalysisOrchestrator(OrchestratorDeps{}, nil), WorkerOptions{}, nil).(*worker)

	id := queueJob(t, repo, storage, buildPDF(sampleResumeLine))

	require.NoError(t, w.ProcessJob(context.Background(), id))

	assert.Equal(t, models.StatusCompleted, repo.status(id))
	require.Contains(t, repo.results, id)
	assert.True(t, repo.results[id].Success)
	assert.Equal(t, "resume.pdf", repo.results[id].Filename)
}

func TestProcessJobRemovesUpload(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want models.JobStatus
	}{
		{name: "completed", data: buildPDF(sampleResumeLine), want: models.StatusCompleted},
		{name: "failed analysis", data: []byte("%PDF-1.4 garbage"), want: models.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeJobRepo()
			storage := NewStorageService(t.TempDir())
			w := NewWorker(repo, storage, NewAnalysisOrchestrator(OrchestratorDeps{}, nil), WorkerOptions{}, nil).(*worker)

			id := queueJob(t, repo, storage, tt.data)
			job, err := repo.FindByID(id)
			require.NoError(t, err)
			require.FileExists(t, job.FilePath)

			require.NoError(t, w.ProcessJob(context.Background(), id))

			assert.Equal(t, tt.want, repo.status(id))
			assert.NoFileExists(t, job.FilePath)
		})
	}
}

func TestProcessJobFailedAnalysis(t *testing.T) {
	repo := newFakeJobRepo()
	storage := NewStorageService(t.TempDir())
	w := NewWorker(repo, storage, NewAnalysisOrchestrator(OrchestratorDeps{}, nil), WorkerOptions{}, nil).(*worker)

	id := queueJob(t, repo, storage, []byte("%PDF-1.4 garbage"))

	require.NoError(t, w.ProcessJob(context.Background(), id))

	assert.Equal(t, models.StatusFailed, repo.status(id))
	assert.Equal(t, models.ErrorExtractionFailed, repo.results[id].ErrorCode)
}

func TestProcessJobSkipsClaimedJob(t *testing.T) {
	repo := newFakeJobRepo()
	storage := NewStorageService(t.TempDir())
	w := NewWorker(repo, storage, NewAnalysisOrchestrator(OrchestratorDeps{}, nil), WorkerOptions{}, nil).(*worker)

	id := queueJob(t, repo, storage, buildPDF(sampleResumeLine))
	claimed, err := repo.ClaimQueued(id)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, w.ProcessJob(context.Background(), id))

	assert.Equal(t, models.StatusProcessing, repo.status(id))
	assert.NotContains(t, repo.results, id)
}

func TestProcessJobMissingFile(t *testing.T) {
	repo := newFakeJobRepo()
	storage := NewStorageService(t.TempDir())
	w := NewWorker(repo, storage, NewAnalysisOrchestrator(OrchestratorDeps{}, nil), WorkerOptions{}, nil).(*worker)

	id := uuid.New()
	require.NoError(t, repo.Create(&models.AnalysisJob{ID: id, StoredFileName: "missing.pdf", Status: models.StatusQueued}))

	require.Error(t, w.ProcessJob(context.Background(), id))
	assert.Equal(t, models.StatusFailed, repo.status(id))
}

func TestWorkerPollsPendingJobs(t *testing.T) {
	repo := newFakeJobRepo()
	storage := NewStorageService(t.TempDir())
	w := NewWorker(repo, storage, NewAnalysisOrchestrator(OrchestratorDeps{}, nil), WorkerOptions{
		Concurrency:  2,
		PollInterval: 10 * time.Millisecond,
	}, nil)

	id := queueJob(t, repo, storage, buildPDF(sampleResumeLine))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return repo.status(id) == models.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerRequeuesStaleJobs(t *testing.T) {
	repo := newFakeJobRepo()
	storage := NewStorageService(t.TempDir())
	w := NewWorker(repo, storage, NewAnalysisOrchestrator(OrchestratorDeps{}, nil), WorkerOptions{
		PollInterval: 10 * time.Millisecond,
		StaleAfter:   time.Minute,
	}, nil)

	stale := queueJob(t, repo, storage, buildPDF(sampleResumeLine))
	fresh := queueJob(t, repo, storage, buildPDF(sampleResumeLine))
	for _, id := range []uuid.UUID{stale, fresh} {
		claimed, err := repo.ClaimQueued(id)
		require.NoError(t, err)
		require.True(t, claimed)
	}
	repo.mu.Lock()
	repo.jobs[stale].UpdatedAt = time.Now().Add(-time.Hour)
	repo.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return repo.status(stale) == models.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, models.StatusProcessing, repo.status(fresh))
}

func TestWorkerStopIsIdempotent(t *testing.T) {
	w := NewWorker(newFakeJobRepo(), NewStorageService(t.TempDir()), NewAnalysisOrchestrator(OrchestratorDeps{}, nil), WorkerOptions{}, nil)
	w.Start(context.Background())

	w.Stop()
	w.Stop()
	w.EnqueueJob(uuid.New())
}
