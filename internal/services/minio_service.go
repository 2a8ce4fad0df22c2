package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefinitionStore keeps hierarchy definition documents in an object-store
// bucket so every environment seeds from the same source of truth.
type DefinitionStore interface {
	FetchDefinition(ctx context.Context, bucketName, objectName string) ([]byte, error)
	UploadDefinition(ctx context.Context, bucketName, objectName string, data []byte) error
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type minioDefinitionStore struct {
	client *minio.Client
}

func NewMinioDefinitionStore(endpoint, accessKey, secretKey string, useSSL bool) (DefinitionStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioDefinitionStore{client: client}, nil
}

func (m *minioDefinitionStore) FetchDefinition(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (m *minioDefinitionStore) UploadDefinition(ctx context.Context, bucketName, objectName string, data []byte) error {
	_, err := m.client.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

// PublishDefinition writes a hierarchy definition document to the bucket,
// creating the bucket first when needed. Seeding runs that treat a local file
// as the source of truth publish through here so other environments fetch the
// same document.
func PublishDefinition(ctx context.Context, store DefinitionStore, bucketName, objectName string, data []byte) error {
	if err := store.EnsureBucketExists(ctx, bucketName); err != nil {
		return fmt.Errorf("ensure bucket %q: %w", bucketName, err)
	}
	if err := store.UploadDefinition(ctx, bucketName, objectName, data); err != nil {
		return fmt.Errorf("upload definition %s/%s: %w", bucketName, objectName, err)
	}
	return nil
}

func (m *minioDefinitionStore) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}
