package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/menuhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3ImageStore implements ImageStore on any S3-compatible service (AWS S3, MinIO, RustFS)
type S3ImageStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
	maxSize   int64
	logger    *zap.Logger
}

// S3ImageStoreOption is a functional option for configuring S3ImageStore
type S3ImageStoreOption func(*S3ImageStore)

// WithLogger sets a custom logger for S3ImageStore
func WithLogger(logger *zap.Logger) S3ImageStoreOption {
	return func(s *S3ImageStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxSize sets the largest accepted upload
func WithMaxSize(n int64) S3ImageStoreOption {
	return func(s *S3ImageStore) {
		s.maxSize = n
	}
}

// NewS3ImageStore creates a new S3ImageStore from configuration
func NewS3ImageStore(cfg *infraconfig.StorageConfig, opts ...S3ImageStoreOption) (*S3ImageStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	var endpoint string
	if cfg.Endpoint != "" {
		endpoint = cfg.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" || strings.HasPrefix(publicURL, "/") {
		publicURL = defaultPublicURL(endpoint, cfg.Bucket, region, cfg.UsePathStyle)
	}

	store := &S3ImageStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		maxSize:   DefaultMaxImageSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// defaultPublicURL is the address objects are reachable at without a CDN in front
func defaultPublicURL(endpoint, bucket, region string, pathStyle bool) string {
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if pathStyle {
		return endpoint + "/" + bucket
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint + "/" + bucket
	}
	u.Host = bucket + "." + u.Host
	return u.String()
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3ImageStore) EnsureBucket(ctx context.Context) error {
	// Check if bucket exists
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		// Bucket exists
		return nil
	}

	// Check if error is because bucket doesn't exist
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		// Some other error
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	// Create bucket
	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Storage bucket created successfully", zap.String("bucket", s.bucket))
	return nil
}

// Put uploads the image and returns its public URL
func (s *S3ImageStore) Put(ctx context.Context, folder string, img Image) (string, error) {
	ext, err := ValidateImage(folder, img, s.maxSize)
	if err != nil {
		return "", err
	}
	key := objectKey(folder, ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentLength: aws.Int64(int64(len(img.Data))),
		ContentType:   aws.String(ContentType(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Uploaded image", zap.String("bucket", s.bucket), zap.String("key", key))
	return s.publicURL + "/" + key, nil
}

// Delete removes the object behind publicURL
func (s *S3ImageStore) Delete(ctx context.Context, publicURL string) error {
	key, ok := keyFromURL(s.publicURL, publicURL)
	if !ok {
		s.logger.Debug("Skipping delete of foreign image URL", zap.String("url", publicURL))
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PublicURL returns the URL prefix of stored objects
func (s *S3ImageStore) PublicURL() string {
	return s.publicURL
}

// GetBucket returns the bucket name
func (s *S3ImageStore) GetBucket() string {
	return s.bucket
}

var _ ImageStore = (*S3ImageStore)(nil)
