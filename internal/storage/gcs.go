package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ObjectStore is the GCS-backed file store for uploaded templates and
// generated documents.
type ObjectStore struct {
	client     *storage.Client
	bucketName string
}

type UploadResult struct {
	ObjectName string `json:"object_name"`
	PublicURL  string `json:"public_url"`
	Size       int64  `json:"size"`
}

func NewObjectStore(ctx context.Context, bucketName, credentialsPath string) (*ObjectStore, error) {
	var client *storage.Client
	var err error

	if credentialsPath != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsPath))
	} else {
		client, err = storage.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &ObjectStore{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (s *ObjectStore) Upload(ctx context.Context, reader io.Reader, objectName, contentType string) (*UploadResult, error) {
	obj := s.client.Bucket(s.bucketName).Object(objectName)
	writer := obj.NewWriter(ctx)

	if contentType != "" {
		writer.ContentType = contentType
	}

	size, err := io.Copy(writer, reader)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to copy data to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close GCS writer: %w", err)
	}

	return &UploadResult{
		ObjectName: objectName,
		PublicURL:  fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName),
		Size:       size,
	}, nil
}

func (s *ObjectStore) Delete(ctx context.Context, objectName string) error {
	return s.client.Bucket(s.bucketName).Object(objectName).Delete(ctx)
}

func (s *ObjectStore) Read(ctx context.Context, objectName string) (io.ReadCloser, error) {
	return s.client.Bucket(s.bucketName).Object(objectName).NewReader(ctx)
}

func (s *ObjectStore) SignedURL(objectName string, expiry time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	}
	return s.client.Bucket(s.bucketName).SignedURL(objectName, opts)
}

func (s *ObjectStore) Close() error {
	return s.client.Close()
}

// TemplateObjectName builds the bucket path for an uploaded template file.
func TemplateObjectName(ownerID, templateID, filename string) string {
	return fmt.Sprintf("templates/%s/%s/%d_%s", ownerID, templateID, time.Now().Unix(), filename)
}

// DocumentObjectName builds the bucket path for a generated document.
func DocumentObjectName(ownerID, documentID, filename string) string {
	return fmt.Sprintf("documents/%s/%s/%d_%s", ownerID, documentID, time.Now().Unix(), filename)
}
