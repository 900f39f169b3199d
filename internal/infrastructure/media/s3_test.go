package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	putter := &fakePutter{}
	u := newS3Uploader(putter, S3Config{Bucket: "media-bucket", PublicBaseURL: "https://cdn.example.com/"})
	u.now = func() time.Time { return time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC) }

	url, err := u.Upload(context.Background(), writeTempImage(t))
	require.NoError(t, err)

	key := aws.ToString(putter.in.Key)
	assert.True(t, strings.HasPrefix(key, "media/2026/03/07/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, "media-bucket", aws.ToString(putter.in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(putter.in.ContentType))
	assert.Equal(t, "png-bytes", putter.body)
	assert.Equal(t, "https://cdn.example.com/"+key, url)
}

func TestS3Uploader_PutError(t *testing.T) {
	u := newS3Uploader(&fakePutter{err: errors.New("access denied")}, S3Config{Bucket: "b", PublicBaseURL: "https://cdn"})

	_, err := u.Upload(context.Background(), writeTempImage(t))
	assert.ErrorContains(t, err, "access denied")
}

func TestS3Uploader_MissingFile(t *testing.T) {
	putter := &fakePutter{}
	u := newS3Uploader(putter, S3Config{Bucket: "b", PublicBaseURL: "https://cdn"})

	_, err := u.Upload(context.Background(), "/does/not/exist.png")
	assert.Error(t, err)
	assert.Nil(t, putter.in)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "ftp"})
	assert.Error(t, err)
}

func TestNew_Cloudinary(t *testing.T) {
	u, err := New(context.Background(), Config{
		Provider:   ProviderCloudinary,
		Cloudinary: CloudinaryConfig{CloudName: "demo", APIKey: "k", APISecret: "s"},
	})
	require.NoError(t, err)
	assert.IsType(t, &CloudinaryUploader{}, u)
}
