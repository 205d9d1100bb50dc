package filestore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/itsite/core"
)

func newUpload(content string) core.Upload {
	return core.Upload{
		Filename:    "receipt.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Content:     bytes.NewReader([]byte(content)),
	}
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := NewLocalStore("", "/uploads")
	assert.Error(t, err)

	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	url, err := store.Save(ctx, "receipts/a.pdf", newUpload("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/receipts/a.pdf", url)

	data, err := os.ReadFile(filepath.Join(dir, "receipts", "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	t.Run("keys are never overwritten", func(t *testing.T) {
		_, err := store.Save(ctx, "receipts/a.pdf", newUpload("other"))
		assert.Error(t, err)
	})

	t.Run("keys must stay inside dir", func(t *testing.T) {
		_, err := store.Save(ctx, "../escape.pdf", newUpload("x"))
		assert.Error(t, err)
		_, err = store.Save(ctx, "", newUpload("x"))
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, url))
		_, err := os.Stat(filepath.Join(dir, "receipts", "a.pdf"))
		assert.True(t, os.IsNotExist(err))

		// already gone
		assert.NoError(t, store.Delete(ctx, url))
		assert.Error(t, store.Delete(ctx, "https://elsewhere.test/a.pdf"))
	})
}

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3Store(ctx, core.StorageConfig{Backend: BackendS3})
	assert.Error(t, err)

	t.Run("default public url", func(t *testing.T) {
		client := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
		store := newS3Store(client, core.StorageConfig{S3Bucket: "bkt", S3Region: "eu-west-1"})

		url, err := store.Save(ctx, "projects/p.pdf", newUpload("%PDF"))
		require.NoError(t, err)
		assert.Equal(t, "https://bkt.s3.eu-west-1.amazonaws.com/projects/p.pdf", url)
		assert.Equal(t, []byte("%PDF"), client.objects["bkt/projects/p.pdf"])
		assert.Equal(t, "application/pdf", client.types["projects/p.pdf"])

		require.NoError(t, store.Delete(ctx, url))
		assert.Empty(t, client.objects)
	})

	t.Run("custom base url", func(t *testing.T) {
		client := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
		store := newS3Store(client, core.StorageConfig{S3Bucket: "bkt", S3Region: "eu-west-1", S3BaseURL: "https://cdn.test/"})

		url, err := store.Save(ctx, "receipts/r.png", newUpload("png"))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.test/receipts/r.png", url)
		assert.Error(t, store.Delete(ctx, "https://other.test/receipts/r.png"))
		assert.Len(t, client.objects, 1)
	})
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), core.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)

	store, err := New(context.Background(), core.StorageConfig{Backend: BackendLocal, LocalDir: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)
	assert.NotNil(t, store)
}
