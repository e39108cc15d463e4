package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/reelhub/reelhub/internal/config"
)

// S3Storage hands out presigned PUT URLs so clients upload straight to the bucket.
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	publicURL     string
	presignExpiry time.Duration
	now           func() time.Time
}

type S3Config struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Endpoint      string // Optional: for S3-compatible services
	PresignExpiry time.Duration
}

// PresignedUpload is a one-shot direct upload target.
type PresignedUpload struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
	Expire    int64  `json:"expire"`
}

// New creates an S3-compatible storage instance from app config
func New(ctx context.Context, c *cfg.Config) (*S3Storage, error) {
	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(ctx, S3Config{
		Region:        c.S3Region,
		Bucket:        c.S3Bucket,
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		Endpoint:      c.S3Endpoint,
		PresignExpiry: c.S3PresignExpiry,
	})
}

// NewS3Storage builds the clients without touching the network.
func NewS3Storage(ctx context.Context, c S3Config) (*S3Storage, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(c.Region))

	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if c.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
	if c.Endpoint != "" {
		publicURL = strings.TrimSuffix(c.Endpoint, "/") + "/" + c.Bucket
	}

	expiry := c.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &S3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        c.Bucket,
		publicURL:     publicURL,
		presignExpiry: expiry,
		now:           time.Now,
	}, nil
}

// EnsureBucket checks if bucket exists, creates it if not
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

// PresignUpload signs a PUT for key. The client must send the same Content-Type.
func (s *S3Storage) PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	expire := s.now().Add(s.presignExpiry)

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &PresignedUpload{
		URL:       req.URL,
		Key:       key,
		PublicURL: s.PublicURL(key),
		Expire:    expire.Unix(),
	}, nil
}

// PublicURL is where the object is served once uploaded.
func (s *S3Storage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}
