package form

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const pdfContentType = "application/pdf"

var unsafeFilename = regexp.MustCompile(`[\\/:*?"<>|\s]+`)

// SanitizeFilename makes name safe to use as a file name. Runs of path
// separators, reserved characters and whitespace become a single "_". An
// empty name becomes "CV".
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "CV"
	}
	return unsafeFilename.ReplaceAllString(name, "_")
}

// DocumentFilename is the download name for a generated résumé.
func DocumentFilename(name string) string {
	return SanitizeFilename(name) + "_AI.pdf"
}

// SavedFilename is the download name for a stored CV.
func SavedFilename(id int64, name string) string {
	if strings.TrimSpace(name) == "" {
		name = "cv"
	}
	return fmt.Sprintf("cv_%d_%s.pdf", id, SanitizeFilename(name))
}

// Generate requests the PDF for the current draft and saves it through the
// downloader, returning the saved path. Only one generation runs at a time;
// Cancel aborts it. Errors are returned to the caller.
func (c *Controller) Generate(ctx context.Context) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.gen.inFlight {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.gen.seq++
	seq := c.gen.seq
	c.gen.inFlight = true
	c.gen.cancel = cancel
	draft := c.draft.Clone()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.gen.seq == seq {
			c.gen.inFlight = false
			c.gen.cancel = nil
		}
		c.mu.Unlock()
	}()

	doc, err := c.backend.GenerateCV(ctx, draft)
	if err != nil {
		c.logger.Error("generate failed", "error", err)
		return "", err
	}

	path, err := c.deliver(ctx, doc, DocumentFilename(draft.Name))
	if err != nil {
		return "", fmt.Errorf("generate cv: %w", err)
	}
	c.logger.Info("cv generated", "path", path, "bytes", len(doc))
	return path, nil
}

// ExportSaved renders a stored CV to PDF and saves it as cv_{id}_{name}.pdf.
// The current draft is not touched.
func (c *Controller) ExportSaved(ctx context.Context, id int64) (string, error) {
	cv, err := c.backend.GetCV(ctx, id)
	if err != nil {
		return "", err
	}
	doc, err := c.backend.GenerateCV(ctx, cv.Draft)
	if err != nil {
		return "", err
	}
	path, err := c.deliver(ctx, doc, SavedFilename(id, cv.Draft.Name))
	if err != nil {
		return "", fmt.Errorf("export cv %d: %w", id, err)
	}
	c.logger.Info("saved cv exported", "id", id, "path", path)
	return path, nil
}

// deliver wraps doc in a transient reference, hands it to the downloader
// and releases the reference again.
func (c *Controller) deliver(ctx context.Context, doc []byte, filename string) (string, error) {
	ref, err := c.refs.Create(doc, pdfContentType)
	if err != nil {
		return "", err
	}
	defer c.refs.Revoke(ref)

	// Cancelled after the response arrived: nothing is saved.
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.downloader.Download(ref, filename)
}

// Cancel aborts the running generation, if any, and clears its in-flight
// state at once. The aborted call still returns on its own goroutine.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen.cancel != nil {
		c.gen.cancel()
	}
	c.gen.inFlight = false
	c.gen.cancel = nil
	c.gen.seq++
}
