package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"photofind/internal/adapter/fs"
	"photofind/internal/domain"
	"photofind/internal/port"
)

// ProgressFunc reports ingestion progress (processed out of total,
// current file path).
type ProgressFunc func(processed, total int, currentFile string)

// IngestUseCase orchestrates photo ingestion: per photo, blob upload,
// resize, embedding generation, and record creation as one logical
// unit. Invocations for different photos are independent: each owns
// its generated id and its temporary file, so callers may parallelize
// across photos without coordination.
type IngestUseCase struct {
	store    port.RecordStore
	blobs    port.BlobStore
	embedder port.Embedder
	resizer  port.Resizer
	walker   *fs.Walker
	logger   *slog.Logger

	tags         []string
	resizeFactor float64
	failFast     bool
}

// NewIngestUseCase creates an ingest use case. tags are applied to
// every ingested photo; resizeFactor bounds the embedding model input.
func NewIngestUseCase(
	store port.RecordStore,
	blobs port.BlobStore,
	embedder port.Embedder,
	resizer port.Resizer,
	walker *fs.Walker,
	logger *slog.Logger,
	tags []string,
	resizeFactor float64,
	failFast bool,
) *IngestUseCase {
	return &IngestUseCase{
		store:        store,
		blobs:        blobs,
		embedder:     embedder,
		resizer:      resizer,
		walker:       walker,
		logger:       logger,
		tags:         tags,
		resizeFactor: resizeFactor,
		failFast:     failFast,
	}
}

// IngestResult contains the results of an ingestion run.
type IngestResult struct {
	Records  []domain.PhotoRecord
	Failures []domain.IngestFailure
}

// Ingest walks root for source photos and ingests each one.
// Ingestion is best-effort per item: a failed photo is logged and
// recorded in Failures, and the batch continues, unless fail-fast is
// configured. Re-running over the same folder creates new records
// with new ids; callers needing dedup must track filenames externally.
func (u *IngestUseCase) Ingest(ctx context.Context, root string, progress ProgressFunc) (*IngestResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk folder: %w", err)
	}

	result := &IngestResult{}

	for i, file := range files {
		if progress != nil {
			progress(i, len(files), file.Path)
		}

		rec, err := u.ingestPhoto(ctx, file)
		if err != nil {
			u.logger.Error("photo ingestion failed", "path", file.Path, "error", err)
			result.Failures = append(result.Failures, domain.IngestFailure{Path: file.Path, Err: err})
			if u.failFast {
				return result, fmt.Errorf("ingesting %s: %w", file.Path, err)
			}
			continue
		}

		u.logger.Info("photo ingested",
			"photo_id", rec.ID, "filename", rec.Filename, "dimension", len(rec.Embedding))
		result.Records = append(result.Records, rec)
	}

	if progress != nil {
		progress(len(files), len(files), "")
	}

	return result, nil
}

// ingestPhoto runs the per-photo sequence. The blob upload completes
// before the record is written, so a record never references a
// missing blob; a blob whose later steps fail is left orphaned, which
// is a cleanup concern, not a correctness hazard (no record points at
// it).
func (u *IngestUseCase) ingestPhoto(ctx context.Context, file fs.FileInfo) (domain.PhotoRecord, error) {
	uploadDate := time.Now().UTC()
	createDate := creationDate(file)
	id := uuid.NewString()

	src, err := os.Open(file.Path)
	if err != nil {
		return domain.PhotoRecord{}, fmt.Errorf("%w: open source photo: %v", domain.ErrDecode, err)
	}

	key := id + blobExt(file.Path)
	url, err := u.blobs.Put(ctx, key, src)
	src.Close()
	if err != nil {
		return domain.PhotoRecord{}, fmt.Errorf("%w: blob upload: %v", domain.ErrStore, err)
	}

	embedding, err := u.embedResized(ctx, file.Path)
	if err != nil {
		return domain.PhotoRecord{}, err
	}

	rec := domain.PhotoRecord{
		ID:         id,
		Filename:   filepath.Base(file.Path),
		URL:        url,
		Tags:       u.tags,
		UploadDate: uploadDate,
		CreateDate: createDate,
		Embedding:  embedding,
	}

	if err := u.store.Create(ctx, rec); err != nil {
		return domain.PhotoRecord{}, fmt.Errorf("%w: record create: %v", domain.ErrStore, err)
	}

	return rec, nil
}

// embedResized produces a bounded-size working copy in a temporary
// file and embeds it. The temporary file is removed on every exit
// path.
func (u *IngestUseCase) embedResized(ctx context.Context, path string) ([]float32, error) {
	tmp, err := os.CreateTemp("", "photofind-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := u.resizer.Resize(path, tmpPath, u.resizeFactor); err != nil {
		return nil, err
	}

	embedding, err := u.embedder.EmbedImage(ctx, tmpPath)
	if err != nil {
		return nil, err
	}

	if want := u.embedder.Dimension(); want > 0 && len(embedding) != want {
		return nil, fmt.Errorf("%w: model returned dimension %d, expected %d",
			domain.ErrDimensionMismatch, len(embedding), want)
	}

	return embedding, nil
}

// creationDate derives the source-file creation time, best-effort.
// The walker stats every file, so a missing timestamp shows up as a
// zero mtime; that yields a nil create date, not an aborted ingestion.
func creationDate(file fs.FileInfo) *time.Time {
	if file.ModTime <= 0 {
		return nil
	}
	t := time.Unix(file.ModTime, 0).UTC()
	return &t
}

// blobExt preserves the source extension in the blob key; unknown
// extensions fall back to .jpg, matching the common corpus.
func blobExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ".jpg"
	}
	return ext
}
