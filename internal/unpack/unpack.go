// Package unpack expands xz and lzma archives the fetcher saved to
// disk. Decompression reuses the fetcher's temp-then-rename pattern so
// a crash never leaves a half-written file under the final name.
package unpack

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// IsCompressed reports whether path carries a suffix Decompress
// understands.
func IsCompressed(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz", ".lzma":
		return true
	}
	return false
}

// Decompress expands the archive at path next to itself, dropping the
// archive suffix, and removes the archive on success. It returns the
// path of the expanded file.
func Decompress(path string) (target string, err error) {
	ext := filepath.Ext(path)
	target = path[:len(path)-len(ext)]
	if base := filepath.Base(target); base == "" || base == "." {
		return "", errors.New("archive [" + path + "] has no base name")
	}

	archive, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "Open archive ["+path+"] failed")
	}
	defer func() {
		_ = archive.Close()
	}()

	var reader io.Reader
	switch strings.ToLower(ext) {
	case ".xz":
		reader, err = xz.NewReader(archive)
	case ".lzma":
		reader, err = lzma.NewReader(archive)
	default:
		return "", errors.New("unsupported archive [" + path + "]")
	}
	if err != nil {
		return "", errors.Wrap(err, "Read archive ["+path+"] failed")
	}

	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".unpack-*")
	if err != nil {
		return "", errors.Wrap(err, "Create temp file in ["+dir+"] failed")
	}
	tempPath := temp.Name()

	_, err = io.Copy(temp, reader)
	if closeErr := temp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tempPath)
		return "", errors.Wrap(err, "Expand archive ["+path+"] failed")
	}

	if err = os.Rename(tempPath, target); err != nil {
		_ = os.Remove(tempPath)
		return "", errors.Wrap(err, "Rename to ["+target+"] failed")
	}

	_ = os.Remove(path)
	return target, nil
}
