package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/hireradar/hireradar-api/internal/media"
)

// prepareImageForUpload runs the upload through the processor and returns the
// bytes to store with their content type and file extension.
func prepareImageForUpload(ctx context.Context, processor media.Processor, upload media.Upload, maxDimension int) (io.Reader, int64, string, string, error) {
	if processor == nil {
		ext := strings.ToLower(filepath.Ext(upload.FileName))
		return upload.Reader, upload.Size, upload.ContentType, ext, nil
	}
	result, err := processor.Process(ctx, upload, maxDimension)
	if err != nil {
		return nil, 0, "", "", err
	}
	return bytes.NewReader(result.Bytes), int64(len(result.Bytes)), result.ContentType, result.Extension, nil
}
