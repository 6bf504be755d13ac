package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// keyPrefix is the shared object namespace for generated sites.
const keyPrefix = "generated-websites"

// UploadResult describes where an uploaded document landed.
type UploadResult struct {
	Key        string
	WebsiteURL string
}

// Uploader persists a generated HTML document and hands back its hosting
// URLs. Implementations must be safe for concurrent use.
type Uploader interface {
	Upload(ctx context.Context, sessionID string, html []byte) (UploadResult, error)
	Presign(ctx context.Context, sessionID string, ttl time.Duration) (string, error)
}

// S3Store uploads generated sites to an S3 bucket and serves time-limited
// download links via presigned GET requests.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
}

// NewS3Store builds an S3Store using the ambient AWS credential chain.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		region:  region,
	}, nil
}

// SiteKey returns the object key for a session's index document.
func SiteKey(sessionID string) (string, error) {
	cleaned, err := sanitizeKey(sessionID)
	if err != nil {
		return "", err
	}
	return keyPrefix + "/" + cleaned + "/index.html", nil
}

// Upload writes the document and returns its public bucket URL.
func (s *S3Store) Upload(ctx context.Context, sessionID string, html []byte) (UploadResult, error) {
	key, err := SiteKey(sessionID)
	if err != nil {
		return UploadResult{}, err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(html),
		ContentType:  aws.String("text/html"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("storage: put object: %w", err)
	}
	return UploadResult{
		Key:        key,
		WebsiteURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
	}, nil
}

// Presign returns a time-limited download link for a previously uploaded
// session document.
func (s *S3Store) Presign(ctx context.Context, sessionID string, ttl time.Duration) (string, error) {
	key, err := SiteKey(sessionID)
	if err != nil {
		return "", err
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("storage: presign object: %w", err)
	}
	return req.URL, nil
}
