package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSService handles portfolio image uploads to Google Cloud Storage
type GCSService struct {
	client     *storage.Client
	bucketName string
	projectID  string
}

// NewGCSService creates a new Google Cloud Storage service
func NewGCSService(ctx context.Context, bucketName, projectID, credentialsPath string) (*GCSService, error) {
	var client *storage.Client
	var err error

	if credentialsPath != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsPath))
	} else {
		// Use default credentials (for GCE, Cloud Run, etc.)
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSService{
		client:     client,
		bucketName: bucketName,
		projectID:  projectID,
	}, nil
}

// Close closes the GCS client
func (s *GCSService) Close() error {
	return s.client.Close()
}

// UploadImage uploads a portfolio image to Google Cloud Storage
func (s *GCSService) UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, objectPath string) (string, error) {
	// Validate file size (10MB max)
	const maxFileSize = 10 * 1024 * 1024 // 10MB
	if header.Size > maxFileSize {
		return "", fmt.Errorf("file size %d exceeds maximum allowed size of %d bytes", header.Size, maxFileSize)
	}

	// Validate file type
	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowedExtensions := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}

	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file type %s not allowed. Allowed types: JPG, PNG, WEBP", ext)
	}

	// Create object writer
	obj := s.client.Bucket(s.bucketName).Object(objectPath)
	writer := obj.NewWriter(ctx)

	// Set content type
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	writer.ContentType = contentType

	// Copy file to GCS
	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	// Return the object URL (will use signed URL for access)
	return fmt.Sprintf("gs://%s/%s", s.bucketName, objectPath), nil
}

// GenerateSignedURL generates a signed URL for accessing a private file
func (s *GCSService) GenerateSignedURL(ctx context.Context, objectPath string, expiration time.Duration) (string, error) {
	// Remove gs:// prefix if present
	objectPath = strings.TrimPrefix(objectPath, fmt.Sprintf("gs://%s/", s.bucketName))

	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiration),
	}

	url, err := s.client.Bucket(s.bucketName).SignedURL(objectPath, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return url, nil
}

// DeleteFile deletes a file from Google Cloud Storage
func (s *GCSService) DeleteFile(ctx context.Context, objectPath string) error {
	// Remove gs:// prefix if present
	objectPath = strings.TrimPrefix(objectPath, fmt.Sprintf("gs://%s/", s.bucketName))

	obj := s.client.Bucket(s.bucketName).Object(objectPath)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// BuildPortfolioImagePath builds an object path for a portfolio image
func BuildPortfolioImagePath(itemID, label, filename string) string {
	ext := filepath.Ext(filename)
	timestamp := time.Now().Unix()

	// Sanitize the label ("before", "after", "kitchen deep clean")
	cleanLabel := strings.ToLower(strings.ReplaceAll(label, " ", "-"))

	return fmt.Sprintf("portfolio/%s/%s-%d%s", itemID, cleanLabel, timestamp, ext)
}
