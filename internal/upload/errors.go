package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/almaghboub/FixerUpper/internal/config"
)

// MaxFileSize is the largest file the pipeline will encode and send.
const MaxFileSize = config.MaxUploadSize

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrEncodingFailure = errors.New("encoding failed")
	ErrNetworkFailure  = errors.New("upload failed")
	ErrBusy            = errors.New("upload already in progress")
)

var (
	msgChooseImage = "Please choose an image file (JPEG, PNG, GIF, WEBP, HEIC or HEIF)."
	msgTooLarge    = fmt.Sprintf("The image is too large. The maximum size is %s.", humanize.IBytes(uint64(MaxFileSize)))
	msgFailed      = "Failed to upload the image. Please try again."
	msgBusy        = "An upload is already in progress."
	msgUploaded    = "The image was uploaded successfully."
)

// Message returns the user-facing description for an upload error.
func Message(err error) string {
	switch {
	case err == nil:
		return msgUploaded
	case errors.Is(err, ErrInvalidFileType):
		return msgChooseImage
	case errors.Is(err, ErrFileTooLarge):
		return msgTooLarge
	case errors.Is(err, ErrBusy):
		return msgBusy
	default:
		return msgFailed
	}
}

// sizeTokens are limit spellings servers have used in their messages,
// including the 5MB wording of an earlier limit.
var sizeTokens = []string{
	"size",
	"too large",
	strings.ToLower(humanize.IBytes(uint64(MaxFileSize))),
	"10mb",
	"10 mb",
	"5mb",
	"5 mb",
}

// ClassifyServerMessage maps a server error message onto the client
// taxonomy so server-side rejections read the same as local ones.
func ClassifyServerMessage(msg string) error {
	lower := strings.ToLower(msg)
	for _, token := range []string{"invalid file type", "only", "allowed"} {
		if strings.Contains(lower, token) {
			return ErrInvalidFileType
		}
	}
	for _, token := range sizeTokens {
		if strings.Contains(lower, token) {
			return ErrFileTooLarge
		}
	}
	return ErrNetworkFailure
}
