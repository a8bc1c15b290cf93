package gcs

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// NewClient opens a Cloud Storage client. An empty credentialsFile falls
// back to application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// Uploader writes public images into one bucket.
type Uploader struct {
	client *storage.Client
	bucket string
}

func NewUploader(client *storage.Client, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// Upload stores the image under folder and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, contentType, folder string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	objectName := ObjectName(folder, contentType)
	log.Printf("[GCS] uploading %s to bucket %s", objectName, u.bucket)

	writer := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to copy image to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize GCS upload: %w", err)
	}
	return PublicURL(u.bucket, objectName), nil
}

// ObjectName builds a collision-free object path such as
// "parts/<uuid>_<nanos>.png".
func ObjectName(folder, contentType string) string {
	return fmt.Sprintf("%s/%s_%d.%s", strings.Trim(folder, "/"), uuid.NewString(), time.Now().UnixNano(), extension(contentType))
}

func PublicURL(bucket, objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectName)
}

func extension(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
