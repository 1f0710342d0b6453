package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"photofind/config"
	"photofind/internal/adapter/blob"
	"photofind/internal/adapter/embedding"
	"photofind/internal/adapter/store"
	"photofind/internal/port"
)

// newRecordStore builds the configured record store. The postgres
// backend carries the native nearest-neighbor capability; bolt does
// not, so queries over it scan.
func newRecordStore(ctx context.Context, cfg *config.Config) (port.RecordStore, error) {
	switch cfg.Store.Provider {
	case "postgres":
		dsn := os.Getenv(cfg.Store.DSNEnv)
		if dsn == "" {
			return nil, fmt.Errorf("postgres DSN not found in environment variable: %s", cfg.Store.DSNEnv)
		}
		return store.NewPostgresStore(ctx, dsn, cfg.Embedding.Dimension)
	case "bolt":
		return store.NewBoltStore(cfg.Store.Path)
	default:
		return nil, fmt.Errorf("unsupported store provider: %s", cfg.Store.Provider)
	}
}

// newBlobStore builds the configured blob store.
func newBlobStore(cfg *config.Config) (port.BlobStore, error) {
	switch cfg.Blob.Provider {
	case "s3":
		client := s3.New(s3.Options{
			Region: cfg.Blob.Region,
			BaseEndpoint: func() *string {
				if cfg.Blob.Endpoint == "" {
					return nil
				}
				return aws.String(cfg.Blob.Endpoint)
			}(),
			Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
					SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
					SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				}, nil
			}),
		})
		return blob.NewS3(client, cfg.Blob.Bucket, cfg.Blob.Prefix, cfg.Blob.BaseURL), nil
	case "local":
		return blob.NewLocal(cfg.Blob.Dir, cfg.Blob.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported blob provider: %s", cfg.Blob.Provider)
	}
}

// newEmbedder builds the configured embedder.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	ec := cfg.Embedding
	switch ec.Provider {
	case "jina":
		if ec.BaseURL != "" {
			return embedding.NewClipEmbedder(ec.APIKeyEnv, ec.Model, ec.BaseURL, ec.Dimension)
		}
		return embedding.NewJinaEmbedder(ec.APIKeyEnv, ec.Model, ec.Dimension)
	case "ollama":
		return embedding.NewOllamaEmbedder(ec.Model, ec.BaseURL, ec.Dimension)
	case "mock":
		return embedding.NewMockEmbedder(ec.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", ec.Provider)
	}
}
