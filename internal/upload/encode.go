package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/almaghboub/FixerUpper/pkg/utils"
)

// Validate checks the file before anything is read or sent.
func Validate(f File) error {
	if !utils.IsImageContentType(f.ContentType()) {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, f.ContentType())
	}
	if f.Size() > MaxFileSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, f.Size())
	}
	return nil
}

// Encode reads the whole file into a base64 data URI.
func Encode(ctx context.Context, f File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}
	defer rc.Close()

	uri, err := utils.EncodeDataURI(f.ContentType(), &ctxReader{ctx: ctx, r: rc})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}
	return uri, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
