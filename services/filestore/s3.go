package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
)

// s3API is the subset of *s3.Client used by s3Store.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Store struct {
	client  s3API
	bucket  string
	baseURL string
}

var _ core.FileStore = (*s3Store)(nil)

// NewS3Store returns a FileStore writing to conf.S3Bucket.
// Objects are served from conf.S3BaseURL, or the bucket's public endpoint when unset.
func NewS3Store(ctx context.Context, conf core.StorageConfig) (core.FileStore, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(conf.S3Bucket, "s3Bucket"),
		vala.StringNotEmpty(conf.S3Region, "s3Region"),
		vala.StringNotEmpty(conf.S3AccessKey, "s3AccessKey"),
		vala.StringNotEmpty(conf.S3SecretKey, "s3SecretKey"),
	).Check(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(conf.S3Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.S3AccessKey, conf.S3SecretKey, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "loading aws config")
	}
	return newS3Store(s3.NewFromConfig(cfg), conf), nil
}

func newS3Store(client s3API, conf core.StorageConfig) *s3Store {
	baseURL := strings.TrimSuffix(conf.S3BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", conf.S3Bucket, conf.S3Region)
	}
	return &s3Store{client: client, bucket: conf.S3Bucket, baseURL: baseURL}
}

func (s *s3Store) Save(ctx context.Context, key string, up core.Upload) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          up.Content,
		ContentLength: aws.Int64(up.Size),
		ContentType:   aws.String(up.ContentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "uploading to s3")
	}
	return s.baseURL + "/" + key, nil
}

func (s *s3Store) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.baseURL+"/")
	if key == url {
		return errors.Errorf("%q is not in bucket %s", url, s.bucket)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "deleting from s3")
}
