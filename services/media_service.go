package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const profilePicPrefix = "profile-pics/"
const presignExpiry = 5 * time.Minute

// MediaService hands out short-lived presigned S3 URLs for profile pictures.
// The client uploads directly to S3 and stores the returned key on the
// profile's profilePic field.
type MediaService struct {
	Presigner *s3.PresignClient
	Bucket    string
}

// NewMediaService builds a MediaService from the ambient AWS configuration.
func NewMediaService(ctx context.Context) (*MediaService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &MediaService{
		Presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		Bucket:    os.Getenv("S3_BUCKET_NAME"),
	}, nil
}

// ProfilePicUploadURL generates a presigned upload URL for uid's picture.
// Only image content types are accepted. Returns the URL and the object key.
func (ms *MediaService) ProfilePicUploadURL(ctx context.Context, uid, fileType string) (string, string, error) {
	if uid == "" {
		return "", "", fmt.Errorf("%w: uid is required", ErrInvalidArgument)
	}
	if !strings.HasPrefix(fileType, "image/") {
		return "", "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidArgument, fileType)
	}

	key := profilePicPrefix + uid + "-" + time.Now().UTC().Format("20060102150405")
	presigned, err := ms.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ms.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return presigned.URL, key, nil
}

// ProfilePicReadURL generates a presigned read URL for a stored picture key.
func (ms *MediaService) ProfilePicReadURL(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, profilePicPrefix) {
		return "", fmt.Errorf("%w: unknown object key", ErrInvalidArgument)
	}
	presigned, err := ms.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ms.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return presigned.URL, nil
}
