package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/cvbuilder/internal/api"
	"github.com/amishk599/cvbuilder/internal/blob"
	"github.com/amishk599/cvbuilder/internal/config"
	"github.com/amishk599/cvbuilder/internal/form"
	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/route"
	"github.com/amishk599/cvbuilder/internal/session"
	"github.com/amishk599/cvbuilder/internal/store"
	"github.com/amishk599/cvbuilder/internal/theme"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "cvbuilder",
	Short: "Build, analyze and export your CV from the terminal",
	Long:  "cvbuilder is a step-by-step CV wizard backed by the CV builder API: fill in your details, match them against a job description and download a generated PDF.",
	// Default to `build` so that `cvbuilder` with no args opens the wizard.
	RunE:          runBuild,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CVBUILDER_CONFIG env var or ./cvbuilder.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > CVBUILDER_CONFIG env var > "./cvbuilder.yaml".
// Only the implicit default may be missing, in which case defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if env := os.Getenv("CVBUILDER_CONFIG"); env != "" {
		return config.Load(env)
	}
	return config.LoadOrDefault("cvbuilder.yaml", true)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// silentLogger is used while a full-screen TUI owns the terminal; any log
// output corrupts the display.
func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// app is everything a command may need, wired from config.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.SQLiteStore
	session  *session.Session
	router   *route.Router
	client   *api.Client
	theme    *theme.Preference
	registry *blob.Registry
	ctrl     *form.Controller
}

func setupApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	kv, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	registry, err := blob.NewRegistry("")
	if err != nil {
		kv.Close()
		return nil, err
	}

	sess := session.New(kv)
	router := route.New(route.Builder)
	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	client := api.NewClient(cfg.API.BaseURL, httpClient, sess, logger,
		api.WithUnauthorizedHandler(func() { router.RedirectToLogin() }))

	ctrl := form.NewController(
		client,
		sess,
		registry,
		blob.NewFileDownloader(registry, cfg.Download.Dir),
		cfg.API.BaseURL,
		cfg.Analysis.Strategy,
		logger,
	)

	logger.Debug("client configured",
		"base_url", cfg.API.BaseURL,
		"timeout", cfg.API.Timeout.String(),
		"storage", cfg.Storage.Path,
		"strategy", cfg.Analysis.Strategy,
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    kv,
		session:  sess,
		router:   router,
		client:   client,
		theme:    theme.NewPreference(kv, cfg.Theme),
		registry: registry,
		ctrl:     ctrl,
	}, nil
}

// loadApp is the common prologue of every command that talks to the backend.
// Outside the TUI an expired session just tells the user to sign in again.
func loadApp() (*app, error) {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a, err := setupApp(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.router.Subscribe(func(path string) {
		if route.OnLogin(path) {
			fmt.Fprintln(os.Stderr, "Your session has expired. Run `cvbuilder login` to sign in again.")
		}
	})
	return a, nil
}

func (a *app) Close() {
	a.ctrl.Close()
	if err := a.registry.Close(); err != nil {
		a.logger.Warn("failed to remove temporary files", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

// readDraft loads a draft from a YAML file.
func readDraft(path string) (model.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Draft{}, fmt.Errorf("read draft: %w", err)
	}
	var d model.Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return model.Draft{}, fmt.Errorf("parse draft %s: %w", path, err)
	}
	return d, nil
}

// interactive reports whether stdout is a terminal, so spinners make sense.
func interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
