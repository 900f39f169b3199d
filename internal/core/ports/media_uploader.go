package ports

import "context"

// MediaUploader pushes a local file to the media host and returns its public
// URL. Any error means the upload failed; removing the local file is up to
// the caller.
type MediaUploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
