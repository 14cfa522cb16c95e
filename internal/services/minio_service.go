package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const pdfContentType = "application/pdf"

// DocumentStore keeps rendered invoices in a single object storage bucket.
type DocumentStore interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, objectName string) error
	ListOlderThan(ctx context.Context, prefix string, cutoff time.Time) ([]string, error)
	Ping(ctx context.Context) error
}

type minioDocumentStore struct {
	client *minio.Client
	bucket string
}

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
}

func NewMinioDocumentStore(client *minio.Client, bucket string) DocumentStore {
	return &minioDocumentStore{client: client, bucket: bucket}
}

// invoiceObjectName namespaces stored PDFs by owner.
func invoiceObjectName(userID string, billID uuid.UUID) string {
	return fmt.Sprintf("bills/%s/%s.pdf", userID, billID.String())
}

func (m *minioDocumentStore) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioDocumentStore) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioDocumentStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioDocumentStore) Delete(ctx context.Context, objectName string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
}

func (m *minioDocumentStore) ListOlderThan(ctx context.Context, prefix string, cutoff time.Time) ([]string, error) {
	var names []string
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, object.Err
		}
		if object.LastModified.Before(cutoff) {
			names = append(names, object.Key)
		}
	}
	return names, nil
}

func (m *minioDocumentStore) Ping(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("bucket %q does not exist", m.bucket)
	}
	return nil
}
