package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/windoze95/recipefinder-api/internal/config"
)

// Store keeps recipe images in a single S3 bucket.
type Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewStore creates a Store from the app config.
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.EnvVars.S3Bucket,
	}, nil
}

// newS3Client creates a new S3 client from the app config.
// When AWS access key and secret are provided, static credentials are used;
// otherwise the default credential chain is preserved (IAM role, instance
// profile, etc.) so ECS/EC2 task roles work without explicit keys.
func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.EnvVars.AWSRegion),
	}

	if cfg.EnvVars.AWSAccessKeyID != "" && cfg.EnvVars.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.EnvVars.AWSAccessKeyID,
			cfg.EnvVars.AWSSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// UploadImage uploads data under key and returns its location URL.
func (s *Store) UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	return result.Location, nil
}

// DeleteImage deletes the object behind imageURL. URLs outside the bucket
// are left alone.
func (s *Store) DeleteImage(ctx context.Context, imageURL string) error {
	key, ok := KeyFromURL(imageURL, s.bucket)
	if !ok {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %v", err)
	}

	return nil
}

// KeyFromURL extracts the object key from a virtual-hosted or path-style S3
// URL for bucket.
func KeyFromURL(imageURL, bucket string) (string, bool) {
	u, err := url.Parse(imageURL)
	if err != nil || bucket == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	path := strings.TrimPrefix(u.Path, "/")

	var key string
	switch {
	case strings.HasPrefix(host, bucket+".s3") && strings.HasSuffix(host, ".amazonaws.com"):
		key = path
	case strings.HasPrefix(host, "s3") && strings.HasSuffix(host, ".amazonaws.com") && strings.HasPrefix(path, bucket+"/"):
		key = strings.TrimPrefix(path, bucket+"/")
	default:
		return "", false
	}

	if key == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, true
}

// ImageKey returns the object key for an image uploaded by userID.
func ImageKey(userID, name, ext string) string {
	return fmt.Sprintf("uploads/%s/images/%s%s", userID, name, ext)
}
