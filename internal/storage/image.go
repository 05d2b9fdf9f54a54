package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/apperror"
)

// MaxImageSize bounds decoded recipe images.
const MaxImageSize = 10 << 20

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is a decoded upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// ImageStore persists recipe images and returns the URL they are served from.
type ImageStore interface {
	Save(ctx context.Context, ownerID uint, img *Image) (string, error)
	Delete(ctx context.Context, url string) error
}

// DecodeDataURI parses a "data:image/png;base64,...." payload.
func DecodeDataURI(raw string) (*Image, error) {
	header, payload, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, apperror.Validation("image", "image must be a base64 data URI")
	}

	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext, ok := extensions[contentType]
	if !ok {
		return nil, apperror.Validation("image", fmt.Sprintf("unsupported image type %q", contentType))
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return nil, apperror.Validation("image", "image is too large")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperror.Validation("image", "image is not valid base64")
	}
	if len(data) == 0 {
		return nil, apperror.Validation("image", "image is empty")
	}

	return &Image{Data: data, ContentType: contentType, Ext: ext}, nil
}
