package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Service uploads media to Amazon S3 (or compatible APIs).
type S3Service struct {
	client    *s3.Client
	uploader  *manager.Uploader
	region    string
	publicURL string
}

// NewS3Service builds an uploader. publicURL, when set, is the base under which
// uploaded keys are served (a CDN or path-style endpoint).
func NewS3Service(client *s3.Client, region, publicURL string) *S3Service {
	return &S3Service{
		client:    client,
		uploader:  manager.NewUploader(client),
		region:    region,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

func (s *S3Service) PutObject(ctx context.Context, key string, body io.Reader, opts UploadOptions) (string, error) {
	if opts.Bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}

	fullKey := objectKey(opts.KeyPrefix, key)
	if fullKey == "" {
		return "", fmt.Errorf("object key is required")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(opts.Bucket),
		Key:    aws.String(fullKey),
		Body:   body,
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", fullKey, err)
	}

	return s.objectURL(opts.Bucket, fullKey), nil
}

func (s *S3Service) objectURL(bucket, key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, key)
}

func objectKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	key = strings.TrimPrefix(key, "/")
	switch {
	case prefix == "":
		return key
	case key == "":
		return ""
	default:
		return prefix + "/" + key
	}
}

var _ Service = (*S3Service)(nil)
