package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/almaghboub/FixerUpper/pkg/utils"
)

// AcceptFilter is the file picker filter offered to the user.
const AcceptFilter = "image/*,.heic,.heif"

// File is a single file chosen in a file picker.
type File interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadCloser, error)
}

// Accepts reports whether the picker filter lets the file through. It is a
// convenience for pickers; Validate remains the authority.
func Accepts(name, contentType string) bool {
	if strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".heic", ".heif":
		return true
	}
	return false
}

type localFile struct {
	path        string
	size        int64
	contentType string
}

// OpenLocal describes a file on disk. Its content type is sniffed from the
// contents, falling back to the extension for opaque data.
func OpenLocal(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	contentType, err := utils.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("sniff %s: %w", path, err)
	}
	if contentType == "application/octet-stream" {
		if byName := utils.ContentTypeByName(path); byName != "" {
			contentType = byName
		}
	}

	return &localFile{path: path, size: info.Size(), contentType: contentType}, nil
}

func (f *localFile) Name() string                 { return filepath.Base(f.path) }
func (f *localFile) Size() int64                  { return f.size }
func (f *localFile) ContentType() string          { return f.contentType }
func (f *localFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }
