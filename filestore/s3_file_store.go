package filestore

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

// S3AvatarStore uploads avatars to an S3 bucket. When publicPrefix is set
// (a CDN distribution in front of the bucket) returned URLs use it,
// otherwise the upload location reported by S3 is returned as-is.
type S3AvatarStore struct {
	bucket       string
	publicPrefix string
	uploader     *s3manager.Uploader
}

func NewS3AvatarStore(region string, bucket string, publicPrefix string) (*S3AvatarStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to create AWS session")
	}

	return &S3AvatarStore{
		bucket:       bucket,
		publicPrefix: publicPrefix,
		uploader:     s3manager.NewUploader(sess),
	}, nil
}

func (s *S3AvatarStore) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	result, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		ACL:         aws.String("public-read"),
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", errors.Wrap(err, "fail to upload to S3")
	}

	if s.publicPrefix != "" {
		return strings.TrimSuffix(s.publicPrefix, "/") + "/" + key, nil
	}
	return result.Location, nil
}
