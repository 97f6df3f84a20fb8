package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/fitcoach/backend/config"
)

// ImageArchiver keeps a copy of an analyzed image and returns its location.
type ImageArchiver interface {
	Archive(ctx context.Context, task string, image []byte, mimeType string) (string, error)
}

// s3PutObjectAPI is the part of *s3.Client the archiver uses.
type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver stores analyzed images in an S3 bucket under
// analyses/<task>/<yyyy>/<mm>/<dd>/<uuid><ext>.
type S3Archiver struct {
	client s3PutObjectAPI
	bucket string
	now    func() time.Time
}

// NewS3Archiver creates an archiver from the shared S3 configuration.
func NewS3Archiver(cfg *config.S3Config) *S3Archiver {
	return &S3Archiver{client: cfg.Client, bucket: cfg.BucketName, now: time.Now}
}

// Archive uploads the image and returns its s3:// URI.
func (a *S3Archiver) Archive(ctx context.Context, task string, image []byte, mimeType string) (string, error) {
	key := fmt.Sprintf("analyses/%s/%s/%s%s", task, a.now().UTC().Format("2006/01/02"), uuid.New().String(), extensionFor(mimeType))

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/heic":
		return ".heic"
	}
	return ".bin"
}
