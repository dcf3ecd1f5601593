package artifacts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/hashicorp/go-hclog"
)

// S3Store uploads and downloads artifact files from an S3 bucket.
// Credentials are resolved by the SDK default chain.
type S3Store struct {
	bucket string
	sess   *session.Session
	logger hclog.Logger
}

// NewS3Store creates a store for the given bucket and region.
func NewS3Store(bucket, region string, logger hclog.Logger) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return &S3Store{bucket: bucket, sess: sess, logger: logger}, nil
}

// Upload streams the file at localPath to the bucket under key.
// Returns the resulting object location.
func (s *S3Store) Upload(localPath, key string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %q: %w", localPath, err)
	}
	defer f.Close()

	uploader := s3manager.NewUploader(s.sess)
	result, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %q to bucket %q: %w", key, s.bucket, err)
	}

	s.logger.Info("uploaded artifact", "bucket", s.bucket, "key", key, "location", result.Location)
	return result.Location, nil
}

// Download fetches the object under key into localPath, creating parent
// folders as needed.
func (s *S3Store) Download(key, localPath string) error {
	svc := s3.New(s.sess)
	result, err := svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey:
				return fmt.Errorf("object %q not found in bucket %q: %w", key, s.bucket, aerr)
			case s3.ErrCodeInvalidObjectState:
				return fmt.Errorf("object %q is not retrievable: %w", key, aerr)
			}
		}
		return fmt.Errorf("failed to fetch %q from bucket %q: %w", key, s.bucket, err)
	}
	defer result.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("error creating folder for %q: %w", localPath, err)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", localPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, result.Body); err != nil {
		return fmt.Errorf("failed to write object %q to %q: %w", key, localPath, err)
	}

	s.logger.Info("downloaded artifact", "bucket", s.bucket, "key", key, "path", localPath)
	return nil
}
