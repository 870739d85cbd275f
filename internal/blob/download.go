package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileDownloader "saves as" a reference by copying it into a directory, the
// terminal equivalent of clicking a download link.
type FileDownloader struct {
	registry *Registry
	dir      string
}

// NewFileDownloader returns a downloader writing into dir.
func NewFileDownloader(registry *Registry, dir string) *FileDownloader {
	return &FileDownloader{registry: registry, dir: dir}
}

// Download copies ref to dir/filename, replacing any existing file, and
// returns the written path.
func (d *FileDownloader) Download(ref Ref, filename string) (string, error) {
	src, err := d.registry.Open(ref)
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	dest := filepath.Join(d.dir, filepath.Base(filename))
	tmp, err := os.CreateTemp(d.dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", filename, err)
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save %s: %w", filename, err)
	}
	return dest, nil
}
