package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"pdfchat_backend/config"
	"pdfchat_backend/pkg/logging"
	"pdfchat_backend/utils"
)

type Service struct {
	Client           *minio.Client
	Bucket           string
	Region           string
	StorageType      string
	FileKeyGenerator *utils.FileKeyGenerator
}

func InitStorageService(cfg *config.Config) (*Service, error) {
	var minioClient *minio.Client
	var err error

	// local MinIO vs S3
	switch cfg.StorageType {
	case "minio":
		minioClient, err = utils.CreateMinIOClient(cfg)
	case "s3":
		minioClient, err = utils.CreateS3Client(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
	if err != nil {
		logging.Logger.Error("fail InitStorageService", "error", err)
		return nil, err
	}

	keyGenerator := utils.NewFileKeyGenerator(utils.StrategyUserBased, "pdfs")
	ss := &Service{
		Client:           minioClient,
		Bucket:           cfg.BucketName,
		Region:           cfg.BucketRegion,
		StorageType:      cfg.StorageType,
		FileKeyGenerator: keyGenerator,
	}
	if err := ss.EnsureBucketExists(); err != nil {
		logging.Logger.Error("fail InitStorageService", "error", err)
		return nil, err
	}
	logging.Logger.Info("Storage service initialized",
		"type", cfg.StorageType,
		"bucket", cfg.BucketName,
		"region", cfg.BucketRegion,
	)

	return ss, nil
}

func (ss *Service) EnsureBucketExists() error {
	ctx := context.Background()
	exists, err := ss.Client.BucketExists(ctx, ss.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = ss.Client.MakeBucket(ctx, ss.Bucket, minio.MakeBucketOptions{
		Region: ss.Region,
	})
	if err != nil {
		if ss.StorageType == "s3" {
			logging.Logger.Warn("Could not create S3 bucket (might exist or no permission)",
				"bucket", ss.Bucket, "error", err)
			return nil
		}
		return err
	}
	logging.Logger.Info("Bucket created", "bucket", ss.Bucket)
	return nil
}

// Upload stores one file and returns the generated object key.
func (ss *Service) Upload(ctx context.Context, filename, userID string, data []byte, contentType string) (string, error) {
	fileKey := ss.FileKeyGenerator.GenerateFileKey(filename, userID)
	_, err := ss.Client.PutObject(ctx, ss.Bucket, fileKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to store object: %w", err)
	}
	return fileKey, nil
}

// GeneratePresignedGetDownload returns a short-lived URL the ingestion
// engine uses to fetch the file.
func (ss *Service) GeneratePresignedGetDownload(fileKey string, expiration time.Duration) (string, error) {
	if expiration <= 0 {
		return "", fmt.Errorf("expiration error")
	}
	presignedURL, err := ss.Client.PresignedGetObject(
		context.Background(),
		ss.Bucket,
		fileKey,
		expiration,
		nil,
	)
	if err != nil {
		logging.Logger.Error("fail GeneratePresignedGetDownload", "error", err)
		return "", err
	}
	return presignedURL.String(), nil
}

func (ss *Service) FileExists(fileKey string) (bool, error) {
	_, err := ss.Client.StatObject(context.Background(), ss.Bucket, fileKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (ss *Service) Remove(ctx context.Context, fileKey string) error {
	return ss.Client.RemoveObject(ctx, ss.Bucket, fileKey, minio.RemoveObjectOptions{})
}
