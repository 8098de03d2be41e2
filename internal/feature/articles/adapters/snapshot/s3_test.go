package snapshot

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	PutObjectFunc func(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return m.PutObjectFunc(ctx, in, optFns...)
}

func TestKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "snapshots/u1/a1.html", Key("u1", "a1"))
}

func TestS3Store_Put(t *testing.T) {
	t.Parallel()

	var got *s3.PutObjectInput
	var body []byte
	store := NewS3StoreWithClient(&mockS3{PutObjectFunc: func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		got = in
		body, _ = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, nil
	}}, "archive")

	require.NoError(t, store.Put(context.Background(), "u1", "a1", []byte("<html></html>")))

	assert.Equal(t, "archive", aws.ToString(got.Bucket))
	assert.Equal(t, "snapshots/u1/a1.html", aws.ToString(got.Key))
	assert.Equal(t, "text/html; charset=utf-8", aws.ToString(got.ContentType))
	assert.Equal(t, "<html></html>", string(body))
}

func TestS3Store_PutError(t *testing.T) {
	t.Parallel()

	store := NewS3StoreWithClient(&mockS3{PutObjectFunc: func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("access denied")
	}}, "archive")

	err := store.Put(context.Background(), "u1", "a1", []byte("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

// TestNewS3Store_CustomEndpoint exercises the real client against a fake S3-compatible server.
func TestNewS3Store_CustomEndpoint(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Store(context.Background(), Config{
		Bucket:    "archive",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "u1", "a1", []byte("<html></html>")))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/archive/snapshots/u1/a1.html", gotPath)
}
