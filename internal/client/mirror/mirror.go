// Package mirror keeps a copy of every training archive in an S3-compatible
// bucket. The copy is uploaded through a presigned PUT URL, so the bucket
// credentials never travel with the archive request itself.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/netx"
)

const (
	archiveContentType = "application/zip"
	defaultExpires     = 15 * time.Minute
)

var ErrDisabled = errors.New("archive mirror is disabled")

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Expires   time.Duration
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

// Mirror stores archives and returns the object key.
type Mirror interface {
	Store(ctx context.Context, archive *models.TrainingArchive) (string, error)
}

type S3Mirror struct {
	cfg     Config
	presign *s3.PresignClient
	http    *http.Client
	now     func() time.Time
}

func NewS3Mirror(ctx context.Context, cfg Config, httpClient *http.Client) (*S3Mirror, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if cfg.Expires <= 0 {
		cfg.Expires = defaultExpires
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO and most self-hosted stores want path-style addressing.
			o.UsePathStyle = true
		}
	})

	return &S3Mirror{
		cfg:     cfg,
		presign: s3.NewPresignClient(client),
		http:    httpClient,
		now:     time.Now,
	}, nil
}

// StorageKey places an archive under a date-partitioned prefix.
func StorageKey(archiveName string, t time.Time) string {
	return fmt.Sprintf("trainings/%d/%02d/%02d/%s", t.Year(), t.Month(), t.Day(), archiveName)
}

// PresignPut returns a URL that accepts a single PUT of key.
func (m *S3Mirror) PresignPut(ctx context.Context, key string) (string, error) {
	req, err := presignPutObject(m.presign, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(archiveContentType),
	}, s3.WithPresignExpires(m.cfg.Expires))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}

func (m *S3Mirror) Store(ctx context.Context, archive *models.TrainingArchive) (string, error) {
	key := StorageKey(archive.Name, m.now().UTC())

	url, err := m.PresignPut(ctx, key)
	if err != nil {
		return "", err
	}
	if err := netx.UploadToPresignedURL(ctx, m.http, url, archiveContentType, archive.Data); err != nil {
		return "", fmt.Errorf("mirror %s: %w", archive.Name, err)
	}
	return key, nil
}
