package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
)

// S3Backend stores the snapshot as a single object in an S3-compatible
// bucket. Credentials come from the standard AWS resolution chain.
type S3Backend struct {
	client *s3.Client
	bucket string
	key    string

	logger *logger.Logger
}

func NewS3Backend(cfg config.S3Backend, log *logger.Logger) (*S3Backend, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 backend: bucket and key must be set")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 backend: error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO and friends do not support virtual-hosted bucket addressing
			o.UsePathStyle = true
		}
	})

	return &S3Backend{
		client: client,
		bucket: cfg.Bucket,
		key:    cfg.Key,
		logger: log,
	}, nil
}

// Download fetches the snapshot object into dest. A missing object or a
// missing bucket is reported as absence, not failure.
func (s *S3Backend) Download(ctx context.Context, dest string) (bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			s.logger.Debug().Str("func", "S3Backend.Download").Msg("no snapshot yet")
			return false, nil
		}
		return false, fmt.Errorf("s3 backend: error fetching snapshot: %w", err)
	}
	defer out.Body.Close()

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return false, fmt.Errorf("s3 backend: error creating destination file: %w", err)
	}

	if _, err = io.Copy(f, out.Body); err != nil {
		f.Close()
		return false, fmt.Errorf("s3 backend: error writing snapshot: %w", err)
	}
	if err = f.Close(); err != nil {
		return false, fmt.Errorf("s3 backend: error writing snapshot: %w", err)
	}

	return true, nil
}

// Upload publishes the file at src as the snapshot object.
func (s *S3Backend) Upload(ctx context.Context, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("s3 backend: error opening snapshot: %w", err)
	}
	defer f.Close()

	if _, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Body:   f,
	}); err != nil {
		return fmt.Errorf("s3 backend: error uploading snapshot: %w", err)
	}

	s.logger.Debug().Str("func", "S3Backend.Upload").Str("bucket", s.bucket).Str("key", s.key).Msg("snapshot uploaded")
	return nil
}
