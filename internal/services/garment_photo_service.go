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

const garmentPhotoBucket = "garment-photos"

// GarmentPhotoService stores QC photos of individual garments in object
// storage, keyed by inventory item.
type GarmentPhotoService interface {
	UploadPhoto(ctx context.Context, itemID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
	GetPhotoURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	DeletePhoto(ctx context.Context, objectName string) error
	ListPhotos(ctx context.Context, itemID uuid.UUID) ([]string, error)
}

type garmentPhotoService struct {
	client *minio.Client
}

func NewGarmentPhotoService(endpoint, accessKey, secretKey string, useSSL bool) (GarmentPhotoService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	s := &garmentPhotoService{client: client}
	if err := s.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", garmentPhotoBucket, err)
	}
	return s, nil
}

func (s *garmentPhotoService) ensureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, garmentPhotoBucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, garmentPhotoBucket, minio.MakeBucketOptions{})
	}
	return nil
}

// UploadPhoto stores a photo under the item's prefix and returns the object
// name for later retrieval.
func (s *garmentPhotoService) UploadPhoto(ctx context.Context, itemID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	objectName := fmt.Sprintf("%s/%d.jpg", itemID, time.Now().UnixNano())
	_, err := s.client.PutObject(ctx, garmentPhotoBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload photo for item %s: %w", itemID, err)
	}
	return objectName, nil
}

func (s *garmentPhotoService) GetPhotoURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, garmentPhotoBucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (s *garmentPhotoService) DeletePhoto(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, garmentPhotoBucket, objectName, minio.RemoveObjectOptions{})
}

func (s *garmentPhotoService) ListPhotos(ctx context.Context, itemID uuid.UUID) ([]string, error) {
	var names []string
	for object := range s.client.ListObjects(ctx, garmentPhotoBucket, minio.ListObjectsOptions{
		Prefix:    itemID.String() + "/",
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, object.Err
		}
		names = append(names, object.Key)
	}
	return names, nil
}
