package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"photofind/internal/domain"
)

var bucketPhotos = []byte("photos")

// BoltStore is a single-file record store backed by BoltDB. It has no
// native nearest-neighbor operator, so retrieval over it falls back to
// an exhaustive scan. ScanEmbeddings enumerates records in byte order
// of their ids, which makes scan tie-breaking reproducible.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (creating if needed) the bolt database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPhotos)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create photos bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

type photoMeta struct {
	Filename   string     `json:"filename"`
	URL        string     `json:"url"`
	Tags       []string   `json:"tags,omitempty"`
	UploadDate time.Time  `json:"uploadDate"`
	CreateDate *time.Time `json:"create_date,omitempty"`
	Embedding  []float32  `json:"embedding,omitempty"`
}

func (s *BoltStore) Create(ctx context.Context, rec domain.PhotoRecord) error {
	meta := photoMeta{
		Filename:   rec.Filename,
		URL:        rec.URL,
		Tags:       rec.Tags,
		UploadDate: rec.UploadDate,
		CreateDate: rec.CreateDate,
		Embedding:  rec.Embedding,
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("%w: marshal record %s: %v", domain.ErrStore, rec.ID, err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketPhotos)
		if b.Get([]byte(rec.ID)) != nil {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, rec.ID)
		}
		return b.Put([]byte(rec.ID), data)
	})
	if err != nil {
		return err
	}
	return nil
}

func (s *BoltStore) Get(ctx context.Context, id string) (domain.PhotoRecord, error) {
	var rec domain.PhotoRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPhotos).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
		}
		var meta photoMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("unmarshal record %s: %w", id, err)
		}
		rec = domain.PhotoRecord{
			ID:         id,
			Filename:   meta.Filename,
			URL:        meta.URL,
			Tags:       meta.Tags,
			UploadDate: meta.UploadDate,
			CreateDate: meta.CreateDate,
			Embedding:  meta.Embedding,
		}
		return nil
	})
	if err != nil {
		return domain.PhotoRecord{}, err
	}
	return rec, nil
}

// embeddingOnly avoids decoding the full record during a scan.
type embeddingOnly struct {
	Embedding []float32 `json:"embedding"`
}

func (s *BoltStore) ScanEmbeddings(ctx context.Context, fn func(id string, embedding []float32) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPhotos).ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var stored embeddingOnly
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // skip corrupted entries
			}
			if len(stored.Embedding) == 0 {
				return nil // records without embeddings are never candidates
			}
			return fn(string(k), stored.Embedding)
		})
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
