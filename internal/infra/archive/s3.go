package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/wealth-crm/internal/config"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// S3API is the subset of the S3 client the archiver needs.
type S3API interface {
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver copies uploaded objects under an archive prefix in the same
// bucket and writes a manifest next to them.
type S3Archiver struct {
	client S3API
	bucket string
	prefix string
	now    func() time.Time
	logger *zap.Logger
}

func NewS3Client(cfg config.ArchiveConfig) *s3.Client {
	opts := s3.Options{
		Region: cfg.S3Region,
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func NewS3Archiver(client S3API, cfg config.ArchiveConfig, logger *zap.Logger) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: cfg.S3Bucket,
		prefix: cfg.S3Prefix,
		now:    time.Now,
		logger: logger,
	}
}

func (a *S3Archiver) ArchiveDocuments(ctx context.Context, dealID uint, docs []models.Document) (string, error) {
	at := a.now()
	dir := path.Join(a.prefix, "archive", folderName(dealID, at))

	for _, d := range docs {
		dst := path.Join(dir, fmt.Sprintf("%d-%s", d.ID, path.Base(d.FileName)))
		_, err := a.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(a.bucket),
			CopySource: aws.String(path.Join(a.bucket, d.StorageKey)),
			Key:        aws.String(dst),
		})
		if err != nil {
			return "", fmt.Errorf("copy document %d: %w", d.ID, err)
		}
	}

	body, err := buildManifest(dealID, docs, at)
	if err != nil {
		return "", fmt.Errorf("build manifest: %w", err)
	}
	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(path.Join(dir, "manifest.json")),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s/", a.bucket, dir)
	a.logger.Info("documents archived",
		zap.Uint("deal_id", dealID),
		zap.Int("documents", len(docs)),
		zap.String("location", location),
	)
	return location, nil
}
