package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 4096
	DefaultMaxBytes     = 2 << 20
)

var (
	ErrTooLarge         = errors.New("image exceeds the size limit")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrDimensions       = errors.New("image dimensions exceed the limit")
)

// contentTypes maps image.DecodeConfig format names to MIME types.
var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

type Processor interface {
	Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error)
}

// Inspector validates uploads by decoding the image header. The declared
// content type is ignored; the format is sniffed from the bytes.
type Inspector struct {
	maxBytes int64
}

func NewInspector(maxBytes int64) *Inspector {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Inspector{maxBytes: maxBytes}
}

func (i *Inspector) Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error) {
	if upload.Reader == nil {
		return nil, errors.New("image reader is nil")
	}
	if upload.Size > i.maxBytes {
		return nil, ErrTooLarge
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, i.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > i.maxBytes {
		return nil, ErrTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, ErrUnsupportedImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxDimension || cfg.Height > maxDimension {
		return nil, ErrDimensions
	}

	return &Result{
		Bytes:       data,
		ContentType: contentType,
		Extension:   extensions[contentType],
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}
