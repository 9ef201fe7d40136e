package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// MediaStore uploads editor images to an S3-compatible bucket (the hosted
// backend's storage service speaks the S3 protocol). Uploads are best-effort
// from the authoring flow's perspective; a failed upload never blocks saving
// a post.
type MediaStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        zerolog.Logger
}

// NewMediaStore builds a client against the given S3-compatible endpoint
// using static credentials.
func NewMediaStore(accessKeyID, secretAccessKey, endpoint, bucket, publicBaseURL string, logger zerolog.Logger) (*MediaStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload stores the object under key and returns its public URL.
func (m *MediaStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url := fmt.Sprintf("%s/%s/%s", m.publicBaseURL, m.bucket, key)
	m.logger.Info().Str("key", key).Str("url", url).Msg("uploaded media object")
	return url, nil
}
