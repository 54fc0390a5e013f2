package faqsource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

const maxObjectSize = 16 << 20 // 16 MiB

// ObjectConfig locates the FAQ document in S3-compatible storage.
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	Key       string
}

// objectGetter opens a stored object for reading.
type objectGetter interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// minioGetter adapts *minio.Client. minio defers request errors until the
// first read, so the object is stat'ed up front to report a missing key.
type minioGetter struct {
	client *minio.Client
}

func (g minioGetter) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := g.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// ObjectSource reads the FAQ document from an S3-compatible bucket (R2, MinIO, S3).
type ObjectSource struct {
	client  objectGetter
	bucket  string
	key     string
	format  Format
	maxSize int64
}

// NewObjectSource builds a minio client for cfg.
func NewObjectSource(cfg ObjectConfig) (*ObjectSource, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("object source requires bucket and key")
	}
	useSSL := !strings.HasPrefix(strings.ToLower(cfg.Endpoint), "http://")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return newObjectSource(minioGetter{client: client}, cfg.Bucket, cfg.Key), nil
}

func newObjectSource(client objectGetter, bucket, key string) *ObjectSource {
	return &ObjectSource{
		client:  client,
		bucket:  bucket,
		key:     key,
		format:  FormatFromPath(key),
		maxSize: maxObjectSize,
	}
}

// Load implements faq.Source.
func (s *ObjectSource) Load(ctx context.Context) ([]faq.Entry, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key)
	if err != nil {
		return nil, fmt.Errorf("get faq object: %w", err)
	}
	defer obj.Close()
	data, err := io.ReadAll(io.LimitReader(obj, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read faq object: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("faq object exceeds %d bytes", s.maxSize)
	}
	return Decode(data, s.format)
}

// Describe implements faq.Source.
func (s *ObjectSource) Describe() string {
	return fmt.Sprintf("s3:%s/%s", s.bucket, s.key)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ faq.Source = (*ObjectSource)(nil)
