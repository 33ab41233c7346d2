package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ImageArchive copies scanned label images to S3 so a scan keeps a durable
// image reference after the local upload is deleted.
type ImageArchive struct {
	client *s3.Client
	bucket string
	cfURL  string
	prefix string
}

func NewImageArchive(ctx context.Context, region, bucket, cloudFrontURL string) (*ImageArchive, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}
	return &ImageArchive{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		cfURL:  strings.TrimRight(cloudFrontURL, "/"),
		prefix: "scans",
	}, nil
}

// Archive uploads the file at path under scans/<userID>/ and returns its
// public URL (CloudFront when configured, the S3 virtual-host URL otherwise).
func (a *ImageArchive) Archive(ctx context.Context, userID uint, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%d/%s", a.prefix, userID, filepath.Base(path))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentTypeForExt(path)),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if a.cfURL != "" {
		return fmt.Sprintf("%s/%s", a.cfURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", a.bucket, key), nil
}
