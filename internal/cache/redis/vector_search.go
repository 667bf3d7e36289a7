package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/observability"
)

const (
	redisDialectVersion = 2
	bytesPerFloat32     = 4

	fieldEmbedding = "embedding"
	fieldDocument  = "document"
	fieldCreatedAt = "created_at"
	fieldScore     = "score"
)

// Config contains Redis vector store settings.
type Config struct {
	Addr      string `env:"REDIS_ADDR"       envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB"         envDefault:"0"`
	IndexName string `env:"REDIS_INDEX_NAME" envDefault:"semcache_idx"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"semcache:entry:"`
}

// Compile-time interface check.
var _ domain.VectorStore = (*VectorSearch)(nil)

// VectorSearch implements domain.VectorStore using a RediSearch FLAT vector index.
type VectorSearch struct {
	client             *redis.Client
	indexName          string
	keyPrefix          string
	embeddingDimension int
	metric             domain.Metric
}

// NewVectorSearch creates a new Redis vector search adapter. The index is not
// touched until Reset is called.
func NewVectorSearch(
	client *redis.Client,
	cfg Config,
	metric domain.Metric,
	embeddingDimension int,
) (*VectorSearch, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if cfg.IndexName == "" {
		return nil, errors.New("index name cannot be empty")
	}
	if embeddingDimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", embeddingDimension)
	}
	if _, err := redisDistanceMetric(metric); err != nil {
		return nil, err
	}

	return &VectorSearch{
		client:             client,
		indexName:          cfg.IndexName,
		keyPrefix:          cfg.KeyPrefix,
		embeddingDimension: embeddingDimension,
		metric:             metric,
	}, nil
}

// NewClient opens a Redis client from configuration.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// floatsToBytes converts float64 slice to binary byte representation.
func floatsToBytes(fs []float64) []byte {
	buf := make([]byte, len(fs)*bytesPerFloat32)

	for i, f := range fs {
		// Convert float64 to float32 for Redis compatibility
		f32 := float32(f)
		u := math.Float32bits(f32)
		binary.LittleEndian.PutUint32(buf[i*bytesPerFloat32:], u)
	}

	return buf
}

// NearestNeighbors runs a KNN query and returns results ordered by distance.
func (v *VectorSearch) NearestNeighbors(
	ctx context.Context,
	query domain.Embedding,
	k int,
) ([]domain.Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if err := v.checkDimension(query); err != nil {
		return nil, err
	}

	logger := observability.FromContext(ctx)
	logger.Debug("starting vector search",
		observability.String("index", v.indexName),
		observability.Int("embedding_dim", len(query)),
		observability.Int("k", k))

	knn := fmt.Sprintf("*=>[KNN %d @%s $vec AS %s]", k, fieldEmbedding, fieldScore)

	results, err := v.client.FTSearchWithArgs(ctx, v.indexName, knn,
		&redis.FTSearchOptions{
			Return: []redis.FTSearchReturn{
				{FieldName: fieldDocument},
				{FieldName: fieldCreatedAt},
				{FieldName: fieldScore},
			},
			SortBy: []redis.FTSearchSortBy{
				{FieldName: fieldScore, Asc: true},
			},
			DialectVersion: redisDialectVersion,
			Params: map[string]any{
				"vec": floatsToBytes(query),
			},
		},
	).Result()
	if err != nil {
		logger.Error("vector search failed",
			observability.Error(err))
		return nil, fmt.Errorf("search failed: %w", err)
	}

	logger.Debug("vector search completed",
		observability.Int("total_docs", results.Total),
		observability.Int("docs_returned", len(results.Docs)))

	return v.parseSearchResults(ctx, results), nil
}

// Insert stores a vector with its document as a hash covered by the index.
func (v *VectorSearch) Insert(
	ctx context.Context,
	id string,
	embedding domain.Embedding,
	document string,
) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if err := v.checkDimension(embedding); err != nil {
		return err
	}

	logger := observability.FromContext(ctx)
	key := v.keyPrefix + id

	if err := v.client.HSet(ctx, key,
		fieldEmbedding, floatsToBytes(embedding),
		fieldDocument, document,
		fieldCreatedAt, time.Now().Unix(),
	).Err(); err != nil {
		logger.Error("vector index failed",
			observability.Error(err),
			observability.String("key", key))
		return fmt.Errorf("failed to index: %w", err)
	}

	logger.Debug("vector indexed", observability.String("key", key))
	return nil
}

// Reset drops the index together with its documents when it exists and
// creates it again.
func (v *VectorSearch) Reset(ctx context.Context) error {
	logger := observability.FromContext(ctx)

	exists, err := v.indexExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		logger.Info("dropping redis search index",
			observability.String("index_name", v.indexName))

		if dropErr := v.client.FTDropIndexWithArgs(ctx, v.indexName,
			&redis.FTDropIndexOptions{DeleteDocs: true},
		).Err(); dropErr != nil {
			return fmt.Errorf("failed to drop index: %w", dropErr)
		}
	}

	return v.createIndex(ctx)
}

// Len returns the number of documents in the index.
func (v *VectorSearch) Len(ctx context.Context) (int, error) {
	info, err := v.client.FTInfo(ctx, v.indexName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read index info: %w", err)
	}
	return info.NumDocs, nil
}

func (v *VectorSearch) indexExists(ctx context.Context) (bool, error) {
	indexes, err := v.client.FT_List(ctx).Result()
	if err != nil {
		return false, fmt.Errorf("failed to list indexes: %w", err)
	}
	for _, name := range indexes {
		if name == v.indexName {
			return true, nil
		}
	}
	return false, nil
}

// createIndex creates the Redis search index.
func (v *VectorSearch) createIndex(ctx context.Context) error {
	logger := observability.FromContext(ctx)

	distanceMetric, err := redisDistanceMetric(v.metric)
	if err != nil {
		return err
	}

	logger.Info("creating redis search index",
		observability.String("index_name", v.indexName),
		observability.Int("embedding_dimension", v.embeddingDimension),
		observability.String("distance_metric", distanceMetric))

	_, err = v.client.FTCreate(ctx, v.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{v.keyPrefix},
		},
		&redis.FieldSchema{
			FieldName: fieldEmbedding,
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            v.embeddingDimension,
					DistanceMetric: distanceMetric,
				},
			},
		},
		&redis.FieldSchema{
			FieldName: fieldDocument,
			FieldType: redis.SearchFieldTypeText,
		},
		&redis.FieldSchema{
			FieldName: fieldCreatedAt,
			FieldType: redis.SearchFieldTypeNumeric,
			Sortable:  true,
		},
	).Result()
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	logger.Info("successfully created redis search index",
		observability.String("index_name", v.indexName))

	return nil
}

func (v *VectorSearch) checkDimension(embedding domain.Embedding) error {
	if embedding.Dimension() != v.embeddingDimension {
		return fmt.Errorf("%w: index has %d, got %d",
			domain.ErrDimensionMismatch, v.embeddingDimension, embedding.Dimension())
	}
	return nil
}

// parseSearchResults parses Redis FTSearchResult into domain neighbors.
func (v *VectorSearch) parseSearchResults(
	ctx context.Context,
	result redis.FTSearchResult,
) []domain.Neighbor {
	neighbors := make([]domain.Neighbor, 0, len(result.Docs))

	for _, doc := range result.Docs {
		if neighbor, ok := v.parseSearchResult(ctx, doc); ok {
			neighbors = append(neighbors, neighbor)
		}
	}

	return neighbors
}

// parseSearchResult parses a single Document into a domain neighbor.
func (v *VectorSearch) parseSearchResult(
	ctx context.Context,
	doc redis.Document,
) (domain.Neighbor, bool) {
	logger := observability.FromContext(ctx)

	// Extract score from fields (it's returned as "score" field, not doc.Score)
	scoreStr, scoreOk := doc.Fields[fieldScore]
	if !scoreOk {
		return domain.Neighbor{}, false
	}

	score, err := strconv.ParseFloat(scoreStr, 64)
	if err != nil {
		logger.Warn("unparseable score in search result",
			observability.String("key", doc.ID),
			observability.String("score", scoreStr))
		return domain.Neighbor{}, false
	}

	document, docOk := doc.Fields[fieldDocument]
	if !docOk {
		logger.Warn("document field not found in search result",
			observability.String("key", doc.ID))
		return domain.Neighbor{}, false
	}

	return domain.Neighbor{
		ID:       v.entryID(doc.ID),
		Distance: v.toDistance(score),
		Document: document,
	}, true
}

// toDistance converts a RediSearch score into the configured metric's scale.
// RediSearch reports L2 as the squared distance and COSINE as 1 - cos.
func (v *VectorSearch) toDistance(score float64) float64 {
	if v.metric == domain.MetricCosine {
		return score
	}
	if score < 0 {
		return 0
	}
	return math.Sqrt(score)
}

func (v *VectorSearch) entryID(key string) string {
	return strings.TrimPrefix(key, v.keyPrefix)
}

func redisDistanceMetric(metric domain.Metric) (string, error) {
	switch metric {
	case domain.MetricEuclidean, "":
		return "L2", nil
	case domain.MetricCosine:
		return "COSINE", nil
	default:
		return "", fmt.Errorf("unsupported distance metric: %q", string(metric))
	}
}
