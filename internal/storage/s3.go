package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	goerrors "github.com/goliatone/go-errors"
)

// S3Store uploads media to an S3 compatible bucket (AWS or MinIO).
type S3Store struct {
	client *s3.Client
	bucket string
	// baseURL is the public prefix objects are served from
	baseURL string
}

var _ MediaStore = (*S3Store)(nil)

type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicBaseURL overrides the default https://bucket.s3.region URL,
	// which MinIO style deployments need.
	PublicBaseURL string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load S3 configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *S3Store) Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	key := objectKey(folder, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to upload media object").
			WithMetadata(map[string]any{"key": key})
	}

	return s.baseURL + "/" + key, nil
}
