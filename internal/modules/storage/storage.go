package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appcfg "github.com/nitaidalal/blog-core/internal/config"
)

// Uploader stores blog cover images and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// New picks S3 when a bucket is configured, local disk otherwise.
func New(cfg *appcfg.AppConfig) (Uploader, error) {
	if strings.TrimSpace(cfg.S3.Bucket) != "" {
		return newS3Uploader(cfg.S3)
	}
	return newLocalUploader(cfg.Paths.Uploads)
}

func objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("covers/%s/%s%s", time.Now().Format("2006/01"), uuid.New().String(), ext)
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "image/jpeg"
	}
}

// s3Uploader stores images in an S3-compatible bucket.
type s3Uploader struct {
	client *s3.Client
	cfg    appcfg.S3Config
}

func newS3Uploader(cfg appcfg.S3Config) (*s3Uploader, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("s3 storage requires access_key_id and secret_access_key")
	}

	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Uploader{client: client, cfg: cfg}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := objectKey(file.Filename)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(contentTypeFor(file.Filename)),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return u.publicURL(key), nil
}

func (u *s3Uploader) publicURL(key string) string {
	if domain := strings.TrimRight(strings.TrimSpace(u.cfg.CustomDomain), "/"); domain != "" {
		return domain + "/" + key
	}
	if endpoint := strings.TrimRight(strings.TrimSpace(u.cfg.Endpoint), "/"); endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", endpoint, u.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}

// localUploader stores images under the uploads directory. The HTTP server
// serves that directory at /uploads, so the returned URL is root-relative.
type localUploader struct {
	dir string
}

func newLocalUploader(dir string) (*localUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &localUploader{dir: dir}, nil
}

func (u *localUploader) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	_ = ctx

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := objectKey(file.Filename)
	path := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create upload subdir: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return "/uploads/" + key, nil
}
