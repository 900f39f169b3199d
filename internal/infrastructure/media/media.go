// Package media implements ports.MediaUploader against the supported media
// hosts.
package media

import (
	"context"
	"fmt"
	"time"

	"github.com/theatharvamuley10/backendPro/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// Config selects a provider and carries the settings of each.
type Config struct {
	Provider   string
	Cloudinary CloudinaryConfig
	S3         S3Config
}

// New builds the uploader for cfg.Provider.
func New(ctx context.Context, cfg Config) (ports.MediaUploader, error) {
	switch cfg.Provider {
	case ProviderCloudinary, "":
		u, err := NewCloudinaryUploader(cfg.Cloudinary)
		if err != nil {
			return nil, err
		}
		return u, nil
	case ProviderS3:
		u, err := NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, fmt.Errorf("media: unknown provider %q", cfg.Provider)
	}
}
