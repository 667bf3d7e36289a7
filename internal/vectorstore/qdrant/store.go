// Package qdrant implements the vector store on a Qdrant collection.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/observability"
)

const (
	payloadDocument  = "document"
	payloadCreatedAt = "created_at"
)

// Config contains Qdrant connection settings.
type Config struct {
	Host       string `env:"QDRANT_HOST"       envDefault:"localhost"`
	Port       int    `env:"QDRANT_PORT"       envDefault:"6334"`
	APIKey     string `env:"QDRANT_API_KEY"`
	UseTLS     bool   `env:"QDRANT_USE_TLS"    envDefault:"false"`
	Collection string `env:"QDRANT_COLLECTION" envDefault:"semantic_cache"`
}

// PointsClient is the subset of *qdrant.Client used by the store.
type PointsClient interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Count(ctx context.Context, request *qdrant.CountPoints) (uint64, error)
}

// Compile-time interface checks.
var (
	_ domain.VectorStore = (*Store)(nil)
	_ PointsClient       = (*qdrant.Client)(nil)
)

// Store implements domain.VectorStore backed by a Qdrant collection.
type Store struct {
	client     PointsClient
	collection string
	dimension  int
	metric     domain.Metric
}

// NewClient opens a Qdrant gRPC client.
func NewClient(cfg Config) (*qdrant.Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return client, nil
}

// NewStore creates a store on the named collection. The collection is not
// touched until Reset is called.
func NewStore(client PointsClient, collection string, metric domain.Metric, dimension int) (*Store, error) {
	if client == nil {
		return nil, errors.New("qdrant client cannot be nil")
	}
	if collection == "" {
		return nil, errors.New("collection name cannot be empty")
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", dimension)
	}
	if _, err := qdrantDistance(metric); err != nil {
		return nil, err
	}

	return &Store{
		client:     client,
		collection: collection,
		dimension:  dimension,
		metric:     metric,
	}, nil
}

// Insert upserts a single point. Entry ids must be UUIDs, which NewEntryID guarantees.
func (s *Store) Insert(ctx context.Context, id string, embedding domain.Embedding, document string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if err := s.checkDimension(embedding); err != nil {
		return err
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectorsDense(embedding.Float32()),
				Payload: qdrant.NewValueMap(map[string]any{
					payloadDocument:  document,
					payloadCreatedAt: time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store qdrant point: %w", err)
	}

	observability.FromContext(ctx).Debug("point stored in qdrant",
		observability.String("collection", s.collection),
		observability.String("entry_id", id))
	return nil
}

// NearestNeighbors queries the collection and returns neighbors ordered by distance.
func (s *Store) NearestNeighbors(ctx context.Context, query domain.Embedding, k int) ([]domain.Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if err := s.checkDimension(query); err != nil {
		return nil, err
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQueryDense(query.Float32()),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search qdrant: %w", err)
	}

	neighbors := make([]domain.Neighbor, 0, len(points))
	for _, point := range points {
		neighbors = append(neighbors, s.toNeighbor(point))
	}
	return neighbors, nil
}

// Reset deletes the collection when present and recreates it empty.
func (s *Store) Reset(ctx context.Context) error {
	logger := observability.FromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check if collection %s exists: %w", s.collection, err)
	}

	if exists {
		if deleteErr := s.client.DeleteCollection(ctx, s.collection); deleteErr != nil {
			return fmt.Errorf("failed to delete collection %s: %w", s.collection, deleteErr)
		}
		logger.Info("deleted qdrant collection", observability.String("collection", s.collection))
	}

	distance, err := qdrantDistance(s.metric)
	if err != nil {
		return err
	}

	if createErr := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: distance,
		}),
	}); createErr != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, createErr)
	}

	logger.Info("created qdrant collection",
		observability.String("collection", s.collection),
		observability.Int("dimension", s.dimension))
	return nil
}

// Len returns the exact number of points in the collection.
func (s *Store) Len(ctx context.Context) (int, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count qdrant points: %w", err)
	}
	return int(count), nil
}

func (s *Store) checkDimension(embedding domain.Embedding) error {
	if embedding.Dimension() != s.dimension {
		return fmt.Errorf("%w: collection has %d, got %d",
			domain.ErrDimensionMismatch, s.dimension, embedding.Dimension())
	}
	return nil
}

// toNeighbor converts a scored point; Qdrant reports cosine as a similarity
// and Euclid as a distance.
func (s *Store) toNeighbor(point *qdrant.ScoredPoint) domain.Neighbor {
	distance := float64(point.GetScore())
	if s.metric == domain.MetricCosine {
		distance = 1 - distance
	}

	var document string
	if value, ok := point.GetPayload()[payloadDocument]; ok {
		document = value.GetStringValue()
	}

	return domain.Neighbor{
		ID:       point.GetId().GetUuid(),
		Distance: distance,
		Document: document,
	}
}

func qdrantDistance(metric domain.Metric) (qdrant.Distance, error) {
	switch metric {
	case domain.MetricEuclidean, "":
		return qdrant.Distance_Euclid, nil
	case domain.MetricCosine:
		return qdrant.Distance_Cosine, nil
	default:
		return qdrant.Distance_UnknownDistance, fmt.Errorf("unsupported distance metric: %q", string(metric))
	}
}
