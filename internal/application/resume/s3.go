package resume

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"hirepath/internal/application/models"
	"hirepath/internal/platform/config"
)

const (
	s3Scheme    = "s3://"
	s3KeyPrefix = "resumes/"
	pdfMIME     = "application/pdf"
)

// ObjectAPI is the subset of *s3.Client the store calls.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store writes resumes to one bucket under the resumes/ prefix. Refs have
// the form s3://bucket/resumes/<id>.pdf.
type S3Store struct {
	client ObjectAPI
	bucket string
}

func NewS3Store(client ObjectAPI, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// NewS3Client builds an S3 client from the resume config. Static credentials
// and a custom endpoint (MinIO, LocalStack) are optional.
func NewS3Client(ctx context.Context, cfg config.Resume) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *S3Store) Save(ctx context.Context, file models.Attachment) (string, error) {
	name, err := objectName()
	if err != nil {
		return "", fmt.Errorf("name resume: %w", err)
	}
	key := s3KeyPrefix + name
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Data),
		ContentType:   aws.String(pdfMIME),
		ContentLength: aws.Int64(file.Size()),
	})
	if err != nil {
		return "", fmt.Errorf("put resume object: %w", err)
	}
	return s3Scheme + s.bucket + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, s3Scheme+s.bucket+"/")
	if !ok || key == "" {
		return fmt.Errorf("delete resume: %q is not in bucket %q", ref, s.bucket)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete resume object: %w", err)
	}
	return nil
}
