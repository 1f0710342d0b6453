package domain

import "time"

// PhotoRecord is the stored metadata for one ingested photo.
// The ID is the join key between blob storage and the record store:
// the blob key and public URL are derived from it, never from the
// filename (filenames are not unique across a corpus).
type PhotoRecord struct {
	ID         string
	Filename   string
	URL        string
	Tags       []string
	UploadDate time.Time
	CreateDate *time.Time // source-file creation time; nil when unavailable
	Embedding  []float32
}

// Match is the result of a best-match query. Score is only comparable
// to other scores produced by the same retrieval method in the same
// call: the scan path yields cosine similarity in [-1, 1], the native
// path yields whatever monotonically-related scale the store uses.
type Match struct {
	PhotoID string  `json:"photo_id"`
	Score   float64 `json:"score"`
}
