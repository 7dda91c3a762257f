package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/docx"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// S3Config configures an S3Store. Region defaults to us-east-1.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// S3Store keeps documents as <prefix><id>.docx objects in a bucket.
type S3Store struct {
	client     *minio.Client
	bucketName string
	prefix     string
}

// NewS3Store validates cfg and creates the MinIO client. No request is made
// until the first document is opened.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{
		client:     client,
		bucketName: bucket,
		prefix:     strings.TrimSpace(cfg.Prefix),
	}, nil
}

// Open downloads and parses the document object.
func (s *S3Store) Open(ctx context.Context, id string) (*docx.Document, error) {
	key, err := s.objectKey(id)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapS3Error(id, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapS3Error(id, err)
	}
	return docx.Parse(data)
}

// Save uploads the serialized document, replacing the object.
func (s *S3Store) Save(ctx context.Context, id string, doc *docx.Document) error {
	key, err := s.objectKey(id)
	if err != nil {
		return err
	}
	data, err := doc.Bytes()
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: docxContentType,
	})
	return mapS3Error(id, err)
}

// Modified returns the object's LastModified time.
func (s *S3Store) Modified(ctx context.Context, id string) (time.Time, error) {
	key, err := s.objectKey(id)
	if err != nil {
		return time.Time{}, err
	}
	info, err := s.client.StatObject(ctx, s.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		return time.Time{}, mapS3Error(id, err)
	}
	return info.LastModified, nil
}

func (s *S3Store) objectKey(id string) (string, error) {
	id, err := normalizeID(id)
	if err != nil {
		return "", err
	}
	return s.prefix + id + DocumentExt, nil
}

func mapS3Error(id string, err error) error {
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return fmt.Errorf("%w: %s", ErrAccessDenied, id)
	default:
		return err
	}
}
