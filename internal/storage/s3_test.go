package storage

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanbbrown/ut-grades-dashboard/internal/config"
	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
)

func TestNewUploader_RejectsIncompleteConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{"empty", config.StorageConfig{}},
		{"no credentials", config.StorageConfig{Bucket: "grades"}},
		{"no bucket", config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUploader(context.Background(), slog.Default(), tt.cfg)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}
}

func TestNewUploader_ValidConfig(t *testing.T) {
	u, err := NewUploader(context.Background(), slog.Default(), config.StorageConfig{
		Bucket:          "grades",
		Region:          "auto",
		EndpointURL:     "http://127.0.0.1:9000",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "grades", u.bucket)
}

func TestUploadProcessed_NoFiles(t *testing.T) {
	u, err := NewUploader(context.Background(), slog.Default(), config.StorageConfig{
		Bucket:          "grades",
		Region:          "auto",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	err = u.UploadProcessed(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}
