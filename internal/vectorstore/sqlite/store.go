// Package sqlite implements the vector store on SQLite with the sqlite-vec
// extension. Embeddings live in a vec0 virtual table and documents in a
// companion table joined on the entry id.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/observability"
)

const memoryPath = ":memory:"

func init() {
	sqlite_vec.Auto()
}

// Config contains SQLite vector store settings.
type Config struct {
	Path string `env:"SQLITE_PATH" envDefault:":memory:"`
}

// Compile-time interface check.
var _ domain.VectorStore = (*Store)(nil)

// Store implements domain.VectorStore backed by sqlite-vec.
type Store struct {
	db        *sql.DB
	dimension int
	metric    domain.Metric
}

// NewStore opens the database at cfg.Path and creates the tables when missing.
func NewStore(cfg Config, metric domain.Metric, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", dimension)
	}
	if _, err := vecDistanceMetric(metric); err != nil {
		return nil, err
	}

	path := cfg.Path
	if path == "" {
		path = memoryPath
	}

	dsn := path
	if path != memoryPath {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// Every connection to :memory: gets its own database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	s := &Store{db: db, dimension: dimension, metric: metric}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating vector tables: %w", err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	distanceMetric, err := vecDistanceMetric(s.metric)
	if err != nil {
		return err
	}

	vecDDL := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS cache_vectors USING vec0(id TEXT PRIMARY KEY, embedding float[%d] distance_metric=%s)`,
		s.dimension, distanceMetric,
	)
	if _, err := s.db.ExecContext(ctx, vecDDL); err != nil {
		return fmt.Errorf("creating cache_vectors virtual table: %w", err)
	}

	const docDDL = `
CREATE TABLE IF NOT EXISTS cache_documents (
	id         TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, docDDL); err != nil {
		return fmt.Errorf("creating cache_documents table: %w", err)
	}

	return nil
}

// Insert stores the vector and its document in one transaction.
func (s *Store) Insert(ctx context.Context, id string, embedding domain.Embedding, document string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if err := s.checkDimension(embedding); err != nil {
		return err
	}

	blob, err := sqlite_vec.SerializeFloat32(embedding.Float32())
	if err != nil {
		return fmt.Errorf("serializing embedding: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cache_documents(id, document, created_at) VALUES (?, ?, ?)`,
		id, document, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("inserting document %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cache_vectors(id, embedding) VALUES (?, ?)`, id, blob,
	); err != nil {
		return fmt.Errorf("inserting vector %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}

	observability.FromContext(ctx).Debug("entry inserted into sqlite store",
		observability.String("entry_id", id))
	return nil
}

// NearestNeighbors runs a vec0 KNN query. Distances are in the metric's scale.
func (s *Store) NearestNeighbors(ctx context.Context, query domain.Embedding, k int) ([]domain.Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if err := s.checkDimension(query); err != nil {
		return nil, err
	}

	blob, err := sqlite_vec.SerializeFloat32(query.Float32())
	if err != nil {
		return nil, fmt.Errorf("serializing query vector: %w", err)
	}

	const q = `SELECT v.id, v.distance, COALESCE(d.document, '')
FROM cache_vectors v
LEFT JOIN cache_documents d ON d.id = v.id
WHERE v.embedding MATCH ? AND k = ?
ORDER BY v.distance`

	rows, err := s.db.QueryContext(ctx, q, blob, k)
	if err != nil {
		return nil, fmt.Errorf("searching vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	neighbors := make([]domain.Neighbor, 0, k)
	for rows.Next() {
		var n domain.Neighbor
		if err := rows.Scan(&n.ID, &n.Distance, &n.Document); err != nil {
			return nil, fmt.Errorf("scanning vector result: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vector results: %w", err)
	}

	return neighbors, nil
}

// Reset drops both tables and creates them again.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"cache_vectors", "cache_documents"} {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("dropping %s: %w", table, err)
		}
	}

	if err := s.migrate(ctx); err != nil {
		return err
	}

	observability.FromContext(ctx).Info("sqlite vector store reset",
		observability.Int("dimension", s.dimension),
		observability.String("metric", string(s.metric)))
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) checkDimension(embedding domain.Embedding) error {
	if embedding.Dimension() != s.dimension {
		return fmt.Errorf("%w: table has %d, got %d",
			domain.ErrDimensionMismatch, s.dimension, embedding.Dimension())
	}
	return nil
}

func vecDistanceMetric(metric domain.Metric) (string, error) {
	switch metric {
	case domain.MetricEuclidean, "":
		return "l2", nil
	case domain.MetricCosine:
		return "cosine", nil
	default:
		return "", fmt.Errorf("unsupported distance metric: %q", string(metric))
	}
}
