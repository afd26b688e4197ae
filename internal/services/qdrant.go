package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	DocTypeJobPosting = "job_posting"

	embeddingSize = 768
)

// JobIndex stores job postings as vectors and finds the ones closest to a profile.
type JobIndex interface {
	InitCollection(ctx context.Context) error
	UpsertJobPosting(ctx context.Context, posting models.JobPosting, embedding []float32) error
	SearchJobPostings(ctx context.Context, queryEmbedding []float32, limit int) ([]JobMatch, error)
}

// JobMatch is a job posting hit with its cosine similarity.
type JobMatch struct {
	Posting models.JobPosting
	Score   float32
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, log *zap.Logger) (JobIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingSize,
		log:            logger.OrNop(log).Named("qdrant"),
	}, nil
}

// InitCollection implements JobIndex.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Debug("collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("collection created", zap.String("collection", q.collectionName))
	return nil
}

// UpsertJobPosting implements JobIndex. Points are keyed by title so re-ingesting replaces them.
func (q *qdrantService) UpsertJobPosting(ctx context.Context, posting models.JobPosting, embedding []float32) error {
	pointID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(posting.Title)))

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(pointID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"doc_type":     DocTypeJobPosting,
			"title":        posting.Title,
			"category":     posting.Category,
			"salary_range": posting.SalaryRange,
			"description":  posting.Description,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchJobPostings implements JobIndex.
func (q *qdrantService) SearchJobPostings(ctx context.Context, queryEmbedding []float32, limit int) ([]JobMatch, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("doc_type", DocTypeJobPosting),
		},
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	matches := make([]JobMatch, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		matches = append(matches, JobMatch{
			Score: point.Score,
			Posting: models.JobPosting{
				Title:       payloadString(payload, "title"),
				Category:    payloadString(payload, "category"),
				SalaryRange: payloadString(payload, "salary_range"),
				Description: payloadString(payload, "description"),
			},
		})
	}

	return matches, nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
		return s.StringValue
	}
	return ""
}
