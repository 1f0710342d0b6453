package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3 is a thread-safe in-memory S3 backend for testing.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte)}
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3_Put(t *testing.T) {
	mock := newMockS3()
	store := NewS3(mock, "photos", "", "")

	url, err := store.Put(context.Background(), "id-1.jpg", strings.NewReader("bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://photos.s3.amazonaws.com/id-1.jpg" {
		t.Errorf("unexpected URL: %s", url)
	}
	if string(mock.objects["id-1.jpg"]) != "bytes" {
		t.Errorf("object not stored: %v", mock.objects)
	}
}

func TestS3_PutWithPrefix(t *testing.T) {
	mock := newMockS3()
	store := NewS3(mock, "photos", "originals", "")

	url, err := store.Put(context.Background(), "id-2.jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mock.objects["originals/id-2.jpg"]; !ok {
		t.Errorf("expected prefixed key, got %v", mock.objects)
	}
	if !strings.HasSuffix(url, "originals/id-2.jpg") {
		t.Errorf("unexpected URL: %s", url)
	}
}

func TestS3_PutWithBaseURL(t *testing.T) {
	mock := newMockS3()
	store := NewS3(mock, "photos", "", "https://cdn.example.com")

	url, err := store.Put(context.Background(), "id-3.jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example.com/id-3.jpg" {
		t.Errorf("unexpected URL: %s", url)
	}
}

func TestS3_PutError(t *testing.T) {
	mock := newMockS3()
	mock.putErr = errors.New("access denied")
	store := NewS3(mock, "photos", "", "")

	if _, err := store.Put(context.Background(), "id.jpg", strings.NewReader("x")); err == nil {
		t.Error("expected upload error to propagate")
	}
}
