package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ryanbbrown/ut-grades-dashboard/internal/config"
	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
)

// Uploader pushes processed tables to an S3-compatible bucket. An
// endpoint override covers R2 and MinIO alongside plain AWS.
type Uploader struct {
	logger *slog.Logger
	client *s3.Client
	bucket string
}

// NewUploader builds an uploader from the storage configuration.
func NewUploader(ctx context.Context, logger *slog.Logger, cfg config.StorageConfig) (*Uploader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid storage configuration", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to build S3 client configuration", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	return &Uploader{logger: logger, client: client, bucket: cfg.Bucket}, nil
}

// UploadProcessed uploads every CSV in the processed directory to the
// bucket root, keyed by file name.
func (u *Uploader) UploadProcessed(ctx context.Context, processedDir string) error {
	files, err := filepath.Glob(filepath.Join(processedDir, "*.csv"))
	if err != nil {
		return apperrors.NewStorageError("failed to list processed files", err)
	}
	if len(files) == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("processed CSV files in %s", processedDir))
	}

	for _, file := range files {
		if err := u.uploadFile(ctx, file); err != nil {
			return err
		}
	}

	u.logger.InfoContext(ctx, "processed data upload complete",
		slog.Int("file_count", len(files)),
		slog.String("bucket", u.bucket))

	return nil
}

func (u *Uploader) uploadFile(ctx context.Context, localPath string) error {
	key := filepath.Base(localPath)

	file, err := os.Open(localPath)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to open %s", localPath), err)
	}
	defer file.Close()

	u.logger.InfoContext(ctx, "uploading file",
		slog.String("key", key),
		slog.String("bucket", u.bucket))

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("failed to upload %s", key), err)
	}

	return nil
}
