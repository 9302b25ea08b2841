package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PhotoService hands out presigned S3 URLs for profile photo upload and read
type PhotoService struct {
	Presigner *s3.PresignClient
	Bucket    string
	TTL       time.Duration
}

// NewPhotoService wires a presign client around an S3 client
func NewPhotoService(client *s3.Client, bucket string, ttl time.Duration) *PhotoService {
	return &PhotoService{
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
		TTL:       ttl,
	}
}

// GenerateUploadURL returns a presigned PUT URL and the object key the caller
// should store on the profile
func (ps *PhotoService) GenerateUploadURL(ctx context.Context, fileName, fileType string) (string, string, error) {
	if fileName == "" {
		return "", "", errors.New("fileName is required")
	}

	key := "profile-photos/" + time.Now().Format("20060102150405") + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(ps.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}

	presigned, err := ps.Presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(ps.TTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload for '%s': %w", key, err)
	}
	return presigned.URL, key, nil
}

// GenerateReadURL returns a presigned GET URL for a stored photo key
func (ps *PhotoService) GenerateReadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("key is required")
	}

	params := &s3.GetObjectInput{
		Bucket: aws.String(ps.Bucket),
		Key:    aws.String(key),
	}

	presigned, err := ps.Presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(ps.TTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign read for '%s': %w", key, err)
	}
	return presigned.URL, nil
}
