// Package media decodes inbound base64 images and stores them.
package media

import (
	"context"
	"encoding/base64"
	"strings"

	"foodgram/backend/internal/apperr"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DirRecipes = "recipes"
	DirAvatars = "avatars"
)

// Image is a decoded upload.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Store persists images and returns a public reference to them.
type Store interface {
	Save(ctx context.Context, dir string, img Image) (string, error)
	Delete(ctx context.Context, ref string) error
}

// DecodeDataURL decodes "data:image/png;base64,...". The content type is
// sniffed from the payload; the declared one only has to be an image type.
func DecodeDataURL(field, value string) (Image, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(value), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return Image{}, apperr.Validation(field, "image must be a base64 data URL")
	}
	declared := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if !strings.HasPrefix(declared, "image/") {
		return Image{}, apperr.Validation(field, "unsupported image type")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, apperr.Validation(field, "image is not valid base64")
	}
	if len(data) == 0 {
		return Image{}, apperr.Validation(field, "image required")
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return Image{}, apperr.Validation(field, "unsupported image type")
	}
	return Image{
		Data:        data,
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
	}, nil
}
