package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"photofind/internal/domain"
)

// PostgresStore is a record store backed by Postgres with the pgvector
// extension. It implements the optional NearestQuerier capability: the
// nearest record is found server-side with the cosine distance
// operator, index-backed when an HNSW/IVFFlat index exists, so
// retrieval never fetches the whole corpus.
type PostgresStore struct {
	pool      *pgxpool.Pool
	dimension int
}

// NewPostgresStore connects to the given DSN and ensures the photos
// table exists with the configured embedding dimension.
func NewPostgresStore(ctx context.Context, dsn string, dimension int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &PostgresStore{pool: pool, dimension: dimension}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS photos (
			id uuid PRIMARY KEY,
			filename text NOT NULL,
			url text NOT NULL,
			tags text[],
			upload_date timestamptz NOT NULL,
			create_date timestamptz,
			embedding vector(%d)
		)`, s.dimension))
	if err != nil {
		return fmt.Errorf("create photos table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, rec domain.PhotoRecord) error {
	var embedding any
	if len(rec.Embedding) > 0 {
		embedding = pgvector.NewVector(rec.Embedding)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO photos (id, filename, url, tags, upload_date, create_date, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Filename, rec.URL, rec.Tags, rec.UploadDate, rec.CreateDate, embedding,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, rec.ID)
		}
		return fmt.Errorf("%w: insert photo %s: %v", domain.ErrStore, rec.ID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (domain.PhotoRecord, error) {
	var (
		rec domain.PhotoRecord
		vec *pgvector.Vector
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, filename, url, tags, upload_date, create_date, embedding
		FROM photos WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Filename, &rec.URL, &rec.Tags, &rec.UploadDate, &rec.CreateDate, &vec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PhotoRecord{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
		}
		return domain.PhotoRecord{}, fmt.Errorf("get photo %s: %w", id, err)
	}
	if vec != nil {
		rec.Embedding = vec.Slice()
	}
	return rec, nil
}

func (s *PostgresStore) ScanEmbeddings(ctx context.Context, fn func(id string, embedding []float32) error) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, embedding FROM photos WHERE embedding IS NOT NULL ORDER BY id`)
	if err != nil {
		return fmt.Errorf("scan embeddings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  string
			vec pgvector.Vector
		)
		if err := rows.Scan(&id, &vec); err != nil {
			return fmt.Errorf("scan embedding row: %w", err)
		}
		if err := fn(id, vec.Slice()); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating embeddings: %w", err)
	}
	return nil
}

// Nearest returns the record whose embedding has minimum cosine
// distance to query. Score is 1 - distance, so higher is more similar,
// matching the orientation of the scan path without sharing its scale.
func (s *PostgresStore) Nearest(ctx context.Context, query []float32) (*domain.Match, error) {
	queryVec := pgvector.NewVector(query)

	var m domain.Match
	err := s.pool.QueryRow(ctx, `
		SELECT id, (1 - (embedding <=> $1)) AS score
		FROM photos
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT 1`, queryVec,
	).Scan(&m.PhotoID, &m.Score)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // empty corpus is a valid no-match, not an error
		}
		return nil, fmt.Errorf("nearest photo: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
