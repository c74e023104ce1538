package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/welcomedesk/userservice/config"
)

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Backend: "ftp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}

func TestNewMinioClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinioConfig
		want string
	}{
		{"endpoint", config.MinioConfig{}, "minio endpoint is required"},
		{"credentials", config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "k"}, "minio access key and secret key are required"},
		{"bucket", config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"}, "minio bucket is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMinioClient(tt.cfg)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestNewMinioClient(t *testing.T) {
	client, err := NewMinioClient(config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "mail-outbox",
	})
	require.NoError(t, err)
	assert.Equal(t, "mail-outbox", client.Bucket())
}

func TestNewGCSClientRequiresBucket(t *testing.T) {
	_, err := NewGCSClient(context.Background(), config.GCSConfig{})
	assert.EqualError(t, err, "gcs bucket is required")
}
