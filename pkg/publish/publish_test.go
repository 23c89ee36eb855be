package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected upload deadline")
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

// TestConfigKey verifies prefixes join cleanly.
func TestConfigKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "out.png"},
		{"renders", "renders/out.png"},
		{"renders/", "renders/out.png"},
		{"/a/b/", "a/b/out.png"},
	}
	for _, tt := range tests {
		if got := (Config{Prefix: tt.prefix}).Key("out.png"); got != tt.want {
			t.Errorf("Key with prefix %q = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

// TestConfigFromEnv verifies variables come from .env files and the
// environment wins over files.
func TestConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := EnvBucket + "=from-file\n" + EnvPrefix + "=renders\n" + EnvAccessKey + "=AKIA\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	for _, key := range []string{EnvBucket, EnvRegion, EnvEndpoint, EnvAccessKey, EnvSecretKey, EnvPrefix} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv(EnvEndpoint, "http://localhost:9000")
	t.Setenv(EnvPrefix, "override")

	cfg := ConfigFromEnv(envFile, filepath.Join(dir, "missing.env"))
	if cfg.Bucket != "from-file" {
		t.Errorf("Expected bucket from file, got %q", cfg.Bucket)
	}
	if cfg.Prefix != "override" {
		t.Errorf("Expected environment to win, got prefix %q", cfg.Prefix)
	}
	if cfg.Region != DefaultRegion {
		t.Errorf("Expected default region, got %q", cfg.Region)
	}
	if cfg.Endpoint != "http://localhost:9000" || cfg.AccessKey != "AKIA" {
		t.Errorf("Unexpected config %+v", cfg)
	}
}

// TestAWSConfig verifies custom endpoints switch to path-style addressing.
func TestAWSConfig(t *testing.T) {
	plain := Config{Region: "eu-west-1"}.awsConfig()
	if plain.Endpoint != nil || plain.Credentials != nil {
		t.Errorf("Expected SDK defaults without endpoint or keys")
	}

	custom := Config{Region: "auto", Endpoint: "http://minio:9000", AccessKey: "a", SecretKey: "s"}.awsConfig()
	if aws.StringValue(custom.Endpoint) != "http://minio:9000" || !aws.BoolValue(custom.S3ForcePathStyle) {
		t.Errorf("Expected path-style custom endpoint")
	}
	if custom.Credentials == nil {
		t.Errorf("Expected static credentials")
	}
}

// TestNewS3PublisherRequiresBucket verifies the bucket is mandatory.
func TestNewS3PublisherRequiresBucket(t *testing.T) {
	if _, err := NewS3Publisher(Config{}); !errors.Is(err, ErrNoBucket) {
		t.Errorf("Expected ErrNoBucket, got %v", err)
	}
}

// TestPublish verifies the uploaded object and returned location.
func TestPublish(t *testing.T) {
	fake := &fakeS3{}
	p := NewS3PublisherWithClient(Config{Bucket: "art", Prefix: "renders"}, fake)

	loc, err := p.Publish(context.Background(), "spheres.png", "image/png", []byte("png!"))
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if loc != "s3://art/renders/spheres.png" {
		t.Errorf("Unexpected location %q", loc)
	}
	if aws.StringValue(fake.input.Bucket) != "art" || aws.StringValue(fake.input.Key) != "renders/spheres.png" {
		t.Errorf("Unexpected target %s/%s", aws.StringValue(fake.input.Bucket), aws.StringValue(fake.input.Key))
	}
	if aws.StringValue(fake.input.ContentType) != "image/png" || aws.Int64Value(fake.input.ContentLength) != 4 {
		t.Errorf("Unexpected headers %v", fake.input)
	}
	if string(fake.body) != "png!" {
		t.Errorf("Unexpected body %q", fake.body)
	}

	fake.err = errors.New("denied")
	if _, err := p.Publish(context.Background(), "x.png", "image/png", nil); err == nil {
		t.Errorf("Expected upload error")
	}
}
