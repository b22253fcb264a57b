package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodshare/backend/config"
)

// ImageService stores recipe images submitted as base64 data URIs and
// returns the public URL kept on the recipe.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadBase64 decodes a "data:image/<ext>;base64,..." payload and uploads
// it to S3.
func (s *ImageService) UploadBase64(ctx context.Context, dataURI string) (string, error) {
	meta, encoded, found := strings.Cut(dataURI, ",")
	if !found || !strings.HasPrefix(meta, "data:image/") {
		return "", fmt.Errorf("invalid image data URI")
	}

	ext := strings.TrimPrefix(meta, "data:image/")
	ext = strings.TrimSuffix(ext, ";base64")
	if ext == "" || len(ext) > 4 {
		ext = "png"
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	return s.upload(ctx, data, fileName, "image/"+ext)
}

func (s *ImageService) upload(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName), nil
}
