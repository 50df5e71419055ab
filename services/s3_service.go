package services

import (
	"context"
	"fmt"
	"time"

	"thriveup_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// mediaPrefixes maps an upload kind to its object-store folder.
var mediaPrefixes = map[string]string{
	models.MediaKindImage:      "images/",
	models.MediaKindVideo:      "videos/",
	models.MediaKindAudio:      "audio/",
	models.MediaKindDocument:   "documents/",
	models.MediaKindGroupImage: "groupImages/",
}

// S3Service issues presigned URLs so clients upload and read media
// directly against the bucket.
type S3Service struct {
	Client *s3.Client
	Bucket string
}

// InitializeS3Client initializes the S3 client
func InitializeS3Client(region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// GenerateUploadURL generates a presigned URL for uploading a file of
// the given media kind. Object names are UUID-prefixed so uploads
// never collide.
func (s *S3Service) GenerateUploadURL(kind, fileName, fileType string) (string, string, error) {
	prefix, ok := mediaPrefixes[kind]
	if !ok {
		return "", "", fmt.Errorf("unsupported media kind: %s", kind)
	}

	key := prefix + uuid.New().String() + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}

	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignPutObject(context.TODO(), params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", err
	}
	return presignedURL.URL, key, nil
}

// GenerateReadURL generates a presigned URL for reading a stored object
func (s *S3Service) GenerateReadURL(key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}

	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignGetObject(context.TODO(), params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}
