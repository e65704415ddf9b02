package storage

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Storage implements Storage against an AWS S3 bucket. Credentials come
// from the default AWS credential chain.
type S3Storage struct {
	Config  Config
	Session *session.Session
}

// NewS3Storage creates a new S3Storage with a new aws.Session.
func NewS3Storage(config Config) *S3Storage {
	return &S3Storage{
		Config:  config,
		Session: session.Must(session.NewSession()),
	}
}

// NewS3StorageWithSession returns a new S3Storage with a given AWS Session.
func NewS3StorageWithSession(config Config, session *session.Session) *S3Storage {
	return &S3Storage{
		Config:  config,
		Session: session,
	}
}

func (s *S3Storage) Write(ctx context.Context, key string, body []byte) error {
	svc := s3.New(s.Session)

	poi := s3.PutObjectInput{
		Bucket: aws.String(s.Config.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}

	var err error
	for i := 0; i <= s.Config.MaxRetries; i++ {
		if _, err = svc.PutObjectWithContext(ctx, &poi); err == nil {
			return nil
		}
		time.Sleep(time.Duration(s.Config.RetryDelay) * time.Millisecond)
	}

	return err
}

func (s *S3Storage) Read(ctx context.Context, key string) ([]byte, error) {
	svc := s3.New(s.Session)

	goi := s3.GetObjectInput{
		Bucket: aws.String(s.Config.Bucket),
		Key:    aws.String(key),
	}

	var out *s3.GetObjectOutput
	var err error
	for i := 0; i <= s.Config.MaxRetries; i++ {
		out, err = svc.GetObjectWithContext(ctx, &goi)
		if err == nil {
			break
		}
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrNotFound
		}
		time.Sleep(time.Duration(s.Config.RetryDelay) * time.Millisecond)
	}
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (s *S3Storage) Remove(ctx context.Context, key string) error {
	svc := s3.New(s.Session)

	doi := s3.DeleteObjectInput{
		Bucket: aws.String(s.Config.Bucket),
		Key:    aws.String(key),
	}

	if _, err := svc.DeleteObjectWithContext(ctx, &doi); err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return ErrNotFound
		}
		return err
	}

	return nil
}

func (s *S3Storage) List(ctx context.Context, path string) ([]string, error) {
	svc := s3.New(s.Session)

	keys := []string{}
	loi := s3.ListObjectsV2Input{
		Bucket: aws.String(s.Config.Bucket),
		Prefix: aws.String(path),
	}

	err := svc.ListObjectsV2PagesWithContext(ctx, &loi,
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, obj := range page.Contents {
				keys = append(keys, aws.StringValue(obj.Key))
			}
			return true
		})
	if err != nil {
		return nil, err
	}

	return keys, nil
}
