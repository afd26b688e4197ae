package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

// buildPDF returns a PDF with one uncompressed content stream and no xref table,
// so only the content-stream scan can read it.
func buildPDF(lines ...string) []byte {
	var body strings.Builder
	for _, line := range lines {
		escaped := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(line)
		fmt.Fprintf(&body, "BT /F1 12 Tf 72 720 Td (%s) Tj ET\n", escaped)
	}
	return []byte("%PDF-1.4\n" +
		"1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n" +
		"4 0 obj << /Length " + fmt.Sprint(body.Len()) + " >>\nstream\n" +
		body.String() +
		"endstream\nendobj\n%%EOF\n")
}

// buildIndexedPDF returns a well-formed single-page PDF with a font resource, an xref
// table and a trailer, so the PDF reader can open it.
func buildIndexedPDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 72 720 Td\n")
	for _, line := range lines {
		escaped := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(line)
		fmt.Fprintf(&content, "(%s) Tj 0 -14 Td\n", escaped)
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var out strings.Builder
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefAt := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefAt)

	return []byte(out.String())
}

func pdfDoc(lines ...string) models.DocumentBuffer {
	return models.DocumentBuffer{
		Data:        buildPDF(lines...),
		ContentType: "application/pdf",
		Filename:    "resume.pdf",
	}
}

type fakeGemini struct {
	text       string
	textErr    error
	embedding  []float32
	embedErr   error
	textCalls  int
	embedCalls int
}

func (f *fakeGemini) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	f.embedCalls++
	return f.embedding, f.embedErr
}

func (f *fakeGemini) GenerateText(_ context.Context, _ string, _ float32) (string, error) {
	f.textCalls++
	return f.text, f.textErr
}

func (f *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, _ int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}

type fakeIndex struct {
	matches []JobMatch
	err     error
}

func (f *fakeIndex) InitCollection(context.Context) error { return nil }

func (f *fakeIndex) UpsertJobPosting(context.Context, models.JobPosting, []float32) error { return nil }

func (f *fakeIndex) SearchJobPostings(_ context.Context, _ []float32, limit int) ([]JobMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.matches) > limit {
		return f.matches[:limit], nil
	}
	return f.matches, nil
}

type panickingProfiler struct{}

func (panickingProfiler) Name() string { return "panicking" }

func (panickingProfiler) AnalyzeProfile(context.Context, string) (models.Profile, error) {
	panic("boom")
}

type failingProfiler struct{}

func (failingProfiler) Name() string { return "failing" }

func (failingProfiler) AnalyzeProfile(context.Context, string) (models.Profile, error) {
	return models.Profile{}, fmt.Errorf("profile unavailable")
}

type fakeJobRepo struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]*models.AnalysisJob
	results map[uuid.UUID]*models.AnalysisResult
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:    make(map[uuid.UUID]*models.AnalysisJob),
		results: make(map[uuid.UUID]*models.AnalysisResult),
	}
}

func (r *fakeJobRepo) Create(job *models.AnalysisJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRepo) FindByID(id uuid.UUID) (*models.AnalysisJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *fakeJobRepo) ClaimQueued(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return false, repositories.ErrJobNotFound
	}
	if job.Status != models.StatusQueued {
		return false, nil
	}
	job.Status = models.StatusProcessing
	job.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeJobRepo) UpdateResult(id uuid.UUID, result *models.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	job.Status = models.StatusCompleted
	if !result.Success {
		job.Status = models.StatusFailed
	}
	r.results[id] = result
	return nil
}

func (r *fakeJobRepo) UpdateError(id uuid.UUID, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	job.Status = models.StatusFailed
	job.ErrorMessage = &msg
	return nil
}

func (r *fakeJobRepo) FindPendingJobs(limit int) ([]models.AnalysisJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AnalysisJob
	for _, job := range r.jobs {
		if job.Status == models.StatusQueued && len(out) < limit {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) RequeueStale(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var requeued int64
	for _, job := range r.jobs {
		if job.Status == models.StatusProcessing && job.UpdatedAt.Before(cutoff) {
			job.Status = models.StatusQueued
			job.UpdatedAt = time.Now()
			requeued++
		}
	}
	return requeued, nil
}

func (r *fakeJobRepo) status(id uuid.UUID) models.JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[id].Status
}
