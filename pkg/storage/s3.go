package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Storage fetches and publishes catalog documents stored as objects in
// an S3 bucket — the common deployment for an organization that version-
// controls its block catalog separately from the compiler binary.
type S3Storage struct {
	client *s3.Client
}

// NewS3Storage creates a new S3 storage backend using the AWS SDK's
// default credentials chain (env vars, config files, IAM roles).
func NewS3Storage(ctx context.Context) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Storage{
		client: s3.NewFromConfig(cfg),
	}, nil
}

// NewS3StorageWithClient creates a new S3 storage backend with a custom
// client, for testing or cross-account access configurations.
func NewS3StorageWithClient(client *s3.Client) *S3Storage {
	return &S3Storage{
		client: client,
	}
}

// parseS3URI parses s3://bucket/key/path into the bucket holding the
// catalog and the object key identifying it.
func parseS3URI(uri string) (bucket, key string, err error) {
	scheme, path, err := ParseURI(uri)
	if err != nil {
		return "", "", err
	}

	if scheme != "s3" {
		return "", "", fmt.Errorf("S3 storage only supports s3:// catalog URIs, got %s://", scheme)
	}

	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 1 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 catalog URI: missing bucket name")
	}

	bucket = parts[0]
	if len(parts) > 1 {
		key = parts[1]
	}

	if key == "" {
		return "", "", fmt.Errorf("invalid S3 catalog URI: missing object key")
	}

	return bucket, key, nil
}

// Get downloads the catalog document identified by uri.
func (s *S3Storage) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog object: %w", err)
	}

	return result.Body, nil
}

// Put uploads a catalog document to S3, e.g. from a CI job that publishes
// a newly-assembled block catalog.
func (s *S3Storage) Put(ctx context.Context, uri string, data io.Reader) error {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   data,
	})
	if err != nil {
		return fmt.Errorf("failed to put catalog object: %w", err)
	}

	return nil
}

// Delete removes a catalog document from S3, e.g. when retiring a
// deprecated catalog version.
func (s *S3Storage) Delete(ctx context.Context, uri string) error {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete catalog object: %w", err)
	}

	return nil
}

// Exists reports whether a catalog object is present at uri, without
// downloading it.
func (s *S3Storage) Exists(ctx context.Context, uri string) (bool, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return false, nil
			}
			if httpResp, ok := apiErr.(interface{ HTTPStatusCode() int }); ok {
				if httpResp.HTTPStatusCode() == http.StatusNotFound {
					return false, nil
				}
			}
		}

		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}

		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return false, nil
		}

		return false, fmt.Errorf("failed to check catalog object existence: %w", err)
	}

	return true, nil
}
