//go:build integration

package storage

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgenius-ai/docgenius/internal/testutil"
)

func TestS3ClientIntegration_DocumentLifecycle(t *testing.T) {
	ctx := context.Background()

	minioContainer := testutil.NewMinIOContainer(ctx, t)
	defer minioContainer.Terminate(ctx)

	client, err := NewS3Client(ctx, S3ClientConfig{
		Endpoint:        minioContainer.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     minioContainer.AccessKey,
		SecretAccessKey: minioContainer.SecretKey,
		Bucket:          "test-documents",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	require.NoError(t, client.EnsureBucket(ctx))

	t.Run("EnsureBucket is idempotent", func(t *testing.T) {
		require.NoError(t, client.EnsureBucket(ctx))
	})

	key := "chat-123/report.pdf"
	content := []byte("extracted document bytes")

	t.Run("Put stores the document", func(t *testing.T) {
		require.NoError(t, client.Put(ctx, key, content, "application/pdf"))
	})

	t.Run("URL is the path-style object address", func(t *testing.T) {
		url := client.URL(key)
		assert.Equal(t, minioContainer.Endpoint()+"/test-documents/"+key, url)
	})

	t.Run("GenerateDownloadURL serves the stored bytes", func(t *testing.T) {
		downloadURL, err := client.GenerateDownloadURL(ctx, key)
		require.NoError(t, err)
		assert.Contains(t, downloadURL, minioContainer.Endpoint())

		httpClient := &http.Client{Timeout: 30 * time.Second}
		resp, err := httpClient.Get(downloadURL)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, content, body)
	})

	t.Run("Delete removes the document", func(t *testing.T) {
		require.NoError(t, client.Delete(ctx, key))

		downloadURL, err := client.GenerateDownloadURL(ctx, key)
		require.NoError(t, err)

		httpClient := &http.Client{Timeout: 30 * time.Second}
		resp, err := httpClient.Get(downloadURL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
