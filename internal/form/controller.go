package form

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/amishk599/cvbuilder/internal/blob"
	"github.com/amishk599/cvbuilder/internal/model"
)

// ErrBusy is returned when an action of the same kind is already running.
// Nothing was changed and no request was made.
var ErrBusy = errors.New("already in progress")

// Backend is the subset of the network client the wizard drives.
type Backend interface {
	UploadPhoto(ctx context.Context, file model.PhotoFile) (string, error)
	SaveCV(ctx context.Context, draft model.Draft) (model.SavedCV, error)
	GetCV(ctx context.Context, id int64) (model.RawCV, error)
	AnalyzeCV(ctx context.Context, draft model.Draft) (*model.AnalysisResult, error)
	AnalyzeCVLLM(ctx context.Context, draft model.Draft) (*model.AnalysisResult, error)
	GenerateCV(ctx context.Context, draft model.Draft) ([]byte, error)
}

// SessionChecker reports whether a user is signed in.
type SessionChecker interface {
	Active() bool
}

// References creates and releases transient in-memory references.
type References interface {
	Create(data []byte, contentType string) (blob.Ref, error)
	Revoke(ref blob.Ref)
}

// Downloader saves a reference under a filename and returns where it went.
type Downloader interface {
	Download(ref blob.Ref, filename string) (string, error)
}

// UploadState tracks the photo preview and upload.
type UploadState struct {
	Preview  blob.Ref
	InFlight bool
	Err      string
}

// AnalysisState tracks the latest analysis.
type AnalysisState struct {
	Result     *model.AnalysisResult
	Strategy   model.Strategy
	InFlight   bool
	Err        string
	Preference model.StrategyPreference
}

// State is a point-in-time copy of everything the wizard renders.
type State struct {
	Step       Step
	Draft      model.Draft
	PhotoURL   string
	Upload     UploadState
	Analysis   AnalysisState
	Saving     bool
	Generating bool
}

type generation struct {
	inFlight bool
	cancel   context.CancelFunc
	seq      uint64
}

// Controller owns one wizard session: the draft, the current step and the
// state of every backend action started from it. It is safe for concurrent
// use; actions are meant to run off the UI goroutine.
type Controller struct {
	backend    Backend
	session    SessionChecker
	refs       References
	downloader Downloader
	baseURL    string
	logger     *slog.Logger

	uploadGuard  *semaphore.Weighted
	analyzeGuard *semaphore.Weighted
	saveGuard    *semaphore.Weighted

	mu       sync.Mutex
	step     Step
	draft    model.Draft
	upload   UploadState
	analysis AnalysisState
	saving   bool
	gen      generation
	closed   bool
}

// NewController creates a controller with an empty draft on the first step.
// baseURL is used to build photo URLs for server-stored photos.
func NewController(backend Backend, sess SessionChecker, refs References, downloader Downloader, baseURL string, pref model.StrategyPreference, logger *slog.Logger) *Controller {
	return &Controller{
		backend:      backend,
		session:      sess,
		refs:         refs,
		downloader:   downloader,
		baseURL:      baseURL,
		logger:       logger,
		uploadGuard:  semaphore.NewWeighted(1),
		analyzeGuard: semaphore.NewWeighted(1),
		saveGuard:    semaphore.NewWeighted(1),
		analysis:     AnalysisState{Preference: pref},
	}
}

// SetField overwrites one draft field. No validation is done.
func (c *Controller) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Set(name, value)
}

// SetDraft replaces the whole draft.
func (c *Controller) SetDraft(d model.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d.Clone()
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() model.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// SetStrategyPreference chooses the strategy Analyze uses.
func (c *Controller) SetStrategyPreference(p model.StrategyPreference) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.analysis.Preference = p
}

// PhotoURL returns the local preview if one exists, otherwise the backend
// URL of the uploaded photo, otherwise "".
func (c *Controller) PhotoURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.photoURLLocked()
}

func (c *Controller) photoURLLocked() string {
	if !c.upload.Preview.IsZero() {
		return c.upload.Preview.URI()
	}
	if c.draft.PhotoPath != "" {
		return c.baseURL + c.draft.PhotoPath
	}
	return ""
}

// Snapshot returns a copy of the controller state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Step:       c.step,
		Draft:      c.draft.Clone(),
		PhotoURL:   c.photoURLLocked(),
		Upload:     c.upload,
		Analysis:   c.analysis,
		Saving:     c.saving,
		Generating: c.gen.inFlight,
	}
}

// Save persists the draft for the signed-in user. Without a session it
// fails with model.ErrSignInRequired before any request is made.
func (c *Controller) Save(ctx context.Context) (model.SavedCV, error) {
	if !c.session.Active() {
		return model.SavedCV{}, model.ErrSignInRequired
	}
	if !c.saveGuard.TryAcquire(1) {
		return model.SavedCV{}, ErrBusy
	}
	defer c.saveGuard.Release(1)

	c.mu.Lock()
	c.saving = true
	draft := c.draft.Clone()
	c.mu.Unlock()

	saved, err := c.backend.SaveCV(ctx, draft)

	c.mu.Lock()
	c.saving = false
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("save failed", "error", err)
		return model.SavedCV{}, err
	}
	c.logger.Info("cv saved", "id", saved.ID, "name", saved.Name)
	return saved, nil
}

// LoadSaved fetches a stored draft and makes it the current one. A local
// photo preview no longer matches and is released.
func (c *Controller) LoadSaved(ctx context.Context, id int64) error {
	cv, err := c.backend.GetCV(ctx, id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	prev := c.upload.Preview
	c.upload = UploadState{}
	c.draft = cv.Draft
	c.mu.Unlock()

	c.refs.Revoke(prev)
	c.logger.Debug("loaded saved cv", "id", cv.ID)
	return nil
}

// Close releases the photo preview and cancels a running generation. The
// controller must not be used afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	prev := c.upload.Preview
	c.upload.Preview = blob.Ref{}
	if c.gen.cancel != nil {
		c.gen.cancel()
	}
	c.gen = generation{seq: c.gen.seq + 1}
	c.closed = true
	c.mu.Unlock()

	c.refs.Revoke(prev)
}
