package form

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/amishk599/cvbuilder/internal/model"
)

// MaxPhotoBytes is the largest photo accepted for upload.
const MaxPhotoBytes = 2 << 20

const (
	msgPhotoType = "Only JPG/PNG images are allowed."
	msgPhotoSize = "Max file size is 2MB."
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ReadPhoto loads a photo from disk. The content type comes from the file
// extension, the way a browser file picker reports it.
func ReadPhoto(path string) (model.PhotoFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PhotoFile{}, fmt.Errorf("read photo: %w", err)
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return model.PhotoFile{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}

// ValidatePhoto checks type and size without touching the network.
func ValidatePhoto(file model.PhotoFile) error {
	if !allowedPhotoTypes[file.ContentType] {
		return &model.ValidationError{Field: model.FieldPhotoPath, Message: msgPhotoType}
	}
	if file.Size() > MaxPhotoBytes {
		return &model.ValidationError{Field: model.FieldPhotoPath, Message: msgPhotoSize}
	}
	return nil
}

// SetPhoto validates file, shows it as the local preview and uploads it,
// storing the returned path in the draft. A rejected file leaves photo_path
// alone and is reported through Upload.Err and the returned error. Upload
// failures are only recorded in state, except model.ErrUnauthorized which is
// also returned.
func (c *Controller) SetPhoto(ctx context.Context, file model.PhotoFile) error {
	if err := ValidatePhoto(file); err != nil {
		c.mu.Lock()
		c.upload.Err = err.Error()
		c.mu.Unlock()
		return err
	}
	if !c.uploadGuard.TryAcquire(1) {
		return ErrBusy
	}
	defer c.uploadGuard.Release(1)

	preview, err := c.refs.Create(file.Data, file.ContentType)
	if err != nil {
		// The upload can proceed without a local preview.
		c.logger.Warn("failed to create photo preview", "error", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.refs.Revoke(preview)
		return nil
	}
	prev := c.upload.Preview
	c.upload = UploadState{Preview: preview, InFlight: true}
	c.mu.Unlock()
	c.refs.Revoke(prev)

	path, err := c.backend.UploadPhoto(ctx, file)

	c.mu.Lock()
	c.upload.InFlight = false
	if err != nil {
		c.upload.Err = model.Message(err)
		c.draft.PhotoPath = ""
	} else {
		c.draft.PhotoPath = path
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("photo upload failed", "file", file.Name, "error", err)
		if errors.Is(err, model.ErrUnauthorized) {
			return err
		}
		return nil
	}
	c.logger.Info("photo uploaded", "file", file.Name, "path", path)
	return nil
}
