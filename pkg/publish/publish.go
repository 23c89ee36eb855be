// Package publish uploads finished renders to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/joho/godotenv"
)

// UploadTimeout bounds a single upload.
const UploadTimeout = 30 * time.Second

// Environment variables read by ConfigFromEnv.
const (
	EnvBucket    = "WHITTED_S3_BUCKET"
	EnvRegion    = "WHITTED_S3_REGION"
	EnvEndpoint  = "WHITTED_S3_ENDPOINT"
	EnvAccessKey = "WHITTED_S3_ACCESS_KEY"
	EnvSecretKey = "WHITTED_S3_SECRET_KEY"
	EnvPrefix    = "WHITTED_S3_PREFIX"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// ErrNoBucket is returned when no bucket is configured.
var ErrNoBucket = errors.New("no S3 bucket configured")

// Config describes where renders are uploaded.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // Empty for AWS; set for MinIO, R2 and friends
	AccessKey string
	SecretKey string
	Prefix    string // Key prefix, e.g. "renders/"
}

// ConfigFromEnv reads the configuration from the environment after loading
// any of envFiles that exist. Variables already set take precedence over the
// files.
func ConfigFromEnv(envFiles ...string) Config {
	var existing []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		_ = godotenv.Load(existing...)
	}

	return Config{
		Bucket:    os.Getenv(EnvBucket),
		Region:    getEnv(EnvRegion, DefaultRegion),
		Endpoint:  os.Getenv(EnvEndpoint),
		AccessKey: os.Getenv(EnvAccessKey),
		SecretKey: os.Getenv(EnvSecretKey),
		Prefix:    os.Getenv(EnvPrefix),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// Validate reports whether the configuration can be used.
func (c Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: set %s", ErrNoBucket, EnvBucket)
	}
	return nil
}

// Key returns the object key for name under the configured prefix.
func (c Config) Key(name string) string {
	return strings.TrimPrefix(path.Join(c.Prefix, name), "/")
}

// awsConfig builds the SDK configuration. Static credentials are used only
// when both keys are set, otherwise the SDK's default chain applies.
func (c Config) awsConfig() *aws.Config {
	cfg := &aws.Config{Region: aws.String(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(c.AccessKey, c.SecretKey, "")
	}
	if c.Endpoint != "" {
		cfg.Endpoint = aws.String(c.Endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	return cfg
}

// S3Publisher uploads objects to one bucket.
type S3Publisher struct {
	config Config
	client s3iface.S3API
}

// NewS3Publisher creates a publisher with an SDK session for cfg.
func NewS3Publisher(cfg Config) (*S3Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sess, err := session.NewSession(cfg.awsConfig())
	if err != nil {
		return nil, fmt.Errorf("create S3 session: %w", err)
	}
	return NewS3PublisherWithClient(cfg, s3.New(sess)), nil
}

// NewS3PublisherWithClient creates a publisher around an existing client.
func NewS3PublisherWithClient(cfg Config, client s3iface.S3API) *S3Publisher {
	return &S3Publisher{config: cfg, client: client}
}

// Publish uploads data as name and returns its s3:// location.
func (p *S3Publisher) Publish(ctx context.Context, name, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := p.config.Key(name)
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", p.config.Bucket, key), nil
}
