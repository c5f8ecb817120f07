// Package filex holds small filesystem helpers: the local data directory and
// reading images picked by the user.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultImageType is assumed for files whose content does not sniff as an image.
const DefaultImageType = "image/jpeg"

// EnsureDir creates dir with its parents and returns the absolute path.
// A relative dir is resolved against the working directory.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadImage returns the file content and its sniffed image content type.
func ReadImage(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("read image %s: file is empty", path)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return data, DefaultImageType, nil
	}
	return data, mt.String(), nil
}

// ImageExt maps an image content type to a file extension without the dot.
// Unknown or non-image types map to "jpg".
func ImageExt(contentType string) string {
	if !strings.HasPrefix(contentType, "image/") {
		return "jpg"
	}
	mt := mimetype.Lookup(contentType)
	if mt == nil || mt.Extension() == "" {
		return "jpg"
	}
	return strings.TrimPrefix(mt.Extension(), ".")
}
