package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultCloudinaryURL = "https://api.cloudinary.com"

// CloudinaryConfig holds the account credentials for signed uploads.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	// BaseURL overrides the API host, mostly for tests.
	BaseURL string
	Timeout time.Duration
}

// CloudinaryUploader pushes local files to Cloudinary's upload API.
type CloudinaryUploader struct {
	client *resty.Client
	cfg    CloudinaryConfig
	now    func() time.Time
}

type cloudinaryResult struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

type cloudinaryError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewCloudinaryUploader(cfg CloudinaryConfig) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary: cloud name, api key and api secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCloudinaryURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &CloudinaryUploader{client: client, cfg: cfg, now: time.Now}, nil
}

// Upload sends the file at localPath with resource type auto and returns its
// HTTPS URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", errors.New("cloudinary: empty path")
	}

	timestamp := strconv.FormatInt(u.now().Unix(), 10)

	var result cloudinaryResult
	var apiErr cloudinaryError
	resp, err := u.client.R().
		SetContext(ctx).
		SetFile("file", localPath).
		SetFormData(map[string]string{
			"api_key":   u.cfg.APIKey,
			"timestamp": timestamp,
			"signature": sign(map[string]string{"timestamp": timestamp}, u.cfg.APISecret),
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v1_1/%s/auto/upload", u.cfg.CloudName))
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("cloudinary upload: %s", msg)
	}

	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	if result.URL != "" {
		return result.URL, nil
	}
	return "", errors.New("cloudinary upload: response carried no url")
}

// sign builds the SHA-1 request signature: the params sorted by name, joined
// as k=v with '&', followed by the API secret.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	b.WriteString(secret)

	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
