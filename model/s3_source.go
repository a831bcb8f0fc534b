package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sethvargo/go-retry"
)

const (
	// DefaultS3MaxRetries bounds the number of retried GetObject calls.
	DefaultS3MaxRetries = 5

	// DefaultS3BaseDelay is the first Fibonacci backoff step.
	DefaultS3BaseDelay = 200 * time.Millisecond
)

// S3Config describes where an artifact lives in an S3 compatible bucket.
type S3Config struct {
	// Endpoint overrides the service endpoint, e.g. "http://127.0.0.1:9000" for minio.
	Endpoint string
	// Region, e.g. "us-east-1".
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
}

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source loads an artifact from object storage, retrying transient failures.
type S3Source struct {
	client     objectGetter
	bucket     string
	key        string
	maxRetries uint64
	baseDelay  time.Duration
}

// NewS3Source connects to the configured endpoint. Requests are signed with
// static credentials when an access key is given and sent anonymously
// otherwise.
func NewS3Source(cfg S3Config) (*S3Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 model source requires bucket and key")
	}

	client := s3.NewFromConfig(aws.Config{Region: cfg.Region}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.AccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		}
	})

	return &S3Source{
		client:     client,
		bucket:     cfg.Bucket,
		key:        cfg.Key,
		maxRetries: DefaultS3MaxRetries,
		baseDelay:  DefaultS3BaseDelay,
	}, nil
}

// Load fetches and validates the artifact. Missing objects and invalid
// artifacts fail immediately; everything else is retried with Fibonacci backoff.
func (s *S3Source) Load(ctx context.Context) (*Artifact, error) {
	var artifact *Artifact

	b := retry.WithMaxRetries(s.maxRetries, retry.NewFibonacci(s.baseDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key),
		})
		if err != nil {
			var noKey *types.NoSuchKey
			if errors.As(err, &noKey) {
				return err
			}
			slog.Warn("model fetch failed, retrying", "bucket", s.bucket, "key", s.key, "error", err)
			return retry.RetryableError(err)
		}
		defer out.Body.Close()

		a, err := Decode(out.Body)
		if err != nil {
			return err
		}
		artifact = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load model s3://%s/%s: %w", s.bucket, s.key, err)
	}

	return artifact, nil
}
