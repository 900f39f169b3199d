package media

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))
	return path
}

func newTestCloudinary(t *testing.T, baseURL string) *CloudinaryUploader {
	t.Helper()
	u, err := NewCloudinaryUploader(CloudinaryConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	u.now = func() time.Time { return time.Unix(1700000000, 0) }
	return u
}

func TestCloudinaryUploader_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1_1/demo/auto/upload", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))
		assert.Equal(t, sign(map[string]string{"timestamp": "1700000000"}, "secret"), r.FormValue("signature"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "avatar.png", header.Filename)
		assert.Equal(t, "png-bytes", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/a.png","url":"http://res.cloudinary.com/demo/a.png"}`))
	}))
	defer srv.Close()

	u := newTestCloudinary(t, srv.URL)
	url, err := u.Upload(context.Background(), writeTempImage(t))

	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/a.png", url)
}

func TestCloudinaryUploader_FallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"http://res.cloudinary.com/demo/a.png"}`))
	}))
	defer srv.Close()

	url, err := newTestCloudinary(t, srv.URL).Upload(context.Background(), writeTempImage(t))

	require.NoError(t, err)
	assert.Equal(t, "http://res.cloudinary.com/demo/a.png", url)
}

func TestCloudinaryUploader_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer srv.Close()

	_, err := newTestCloudinary(t, srv.URL).Upload(context.Background(), writeTempImage(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestCloudinaryUploader_MissingFile(t *testing.T) {
	u := newTestCloudinary(t, "http://127.0.0.1:0")

	_, err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = u.Upload(context.Background(), "")
	assert.Error(t, err)
}

func TestNewCloudinaryUploader_RequiresCredentials(t *testing.T) {
	_, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo"})
	assert.Error(t, err)
}

func TestSign_SortsParams(t *testing.T) {
	a := sign(map[string]string{"timestamp": "1", "folder": "x"}, "s")
	b := sign(map[string]string{"folder": "x", "timestamp": "1"}, "s")

	assert.Equal(t, a, b)
	assert.Len(t, a, 40)
}
