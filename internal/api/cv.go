package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/amishk599/cvbuilder/internal/model"
)

// UploadPhoto sends the photo as multipart form data and returns the
// server-relative path it was stored under.
func (c *Client) UploadPhoto(ctx context.Context, file model.PhotoFile) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	h.Set("Content-Type", file.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	// The writer owns the boundary, so the content type comes from it.
	resp, err := c.do(ctx, http.MethodPost, EndpointUpload, &buf, w.FormDataContentType())
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	data, err := readBody(resp)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	var out struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("upload photo: decode response: %w", err)
	}
	return out.Path, nil
}

// SaveCV persists the draft for the signed-in user.
func (c *Client) SaveCV(ctx context.Context, draft model.Draft) (model.SavedCV, error) {
	if !c.session.Active() {
		return model.SavedCV{}, model.ErrSignInRequired
	}
	var out model.SavedCV
	if err := c.doJSON(ctx, http.MethodPost, EndpointSave, draft, &out); err != nil {
		return model.SavedCV{}, fmt.Errorf("save cv: %w", err)
	}
	return out, nil
}

// ListCVs returns the signed-in user's saved drafts, newest first.
func (c *Client) ListCVs(ctx context.Context) ([]model.SavedCV, error) {
	var out []model.SavedCV
	if err := c.doJSON(ctx, http.MethodGet, EndpointMyCVs, nil, &out); err != nil {
		return nil, fmt.Errorf("list cvs: %w", err)
	}
	return out, nil
}

// GetCV fetches every stored field of one saved draft.
func (c *Client) GetCV(ctx context.Context, id int64) (model.RawCV, error) {
	var out model.RawCV
	path := fmt.Sprintf("%s/%d/raw", EndpointSave, id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return model.RawCV{}, fmt.Errorf("get cv %d: %w", id, err)
	}
	return out, nil
}

// AnalyzeCV runs the fast analysis.
func (c *Client) AnalyzeCV(ctx context.Context, draft model.Draft) (*model.AnalysisResult, error) {
	return c.analyze(ctx, EndpointFast, draft)
}

// AnalyzeCVLLM runs the LLM-backed analysis.
func (c *Client) AnalyzeCVLLM(ctx context.Context, draft model.Draft) (*model.AnalysisResult, error) {
	return c.analyze(ctx, EndpointLLM, draft)
}

func (c *Client) analyze(ctx context.Context, path string, draft model.Draft) (*model.AnalysisResult, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, path, draft, &raw); err != nil {
		return nil, fmt.Errorf("analyze cv: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("analyze cv: empty response from %s", path)
	}
	return model.NewAnalysisResult(raw), nil
}

// GenerateCV asks the backend to render the draft and returns the document bytes.
func (c *Client) GenerateCV(ctx context.Context, draft model.Draft) ([]byte, error) {
	data, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("generate cv: marshal draft: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, EndpointGenerate, bytes.NewReader(data), "application/json")
	if err != nil {
		return nil, fmt.Errorf("generate cv: %w", err)
	}
	doc, err := readBody(resp)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("generate cv: %w", ctxErr)
		}
		return nil, fmt.Errorf("generate cv: %w", err)
	}
	return doc, nil
}

// Status reports backend health.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var out Status
	if err := c.doJSON(ctx, http.MethodGet, EndpointStatus, nil, &out); err != nil {
		return Status{}, fmt.Errorf("status: %w", err)
	}
	return out, nil
}

// Status is the /api/status response.
type Status struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
