package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"

	"github.com/endlesspixel/launcher/internal/config"
	"github.com/endlesspixel/launcher/internal/release"
	"github.com/endlesspixel/launcher/internal/store"
	"github.com/endlesspixel/launcher/internal/watch"
	"github.com/endlesspixel/launcher/tui"
)

// historyKeep is how many refresh attempts are kept in the history database
const historyKeep = 200

// ProgramSender is an interface for sending messages to a Bubbletea program
type ProgramSender interface {
	Send(msg tea.Msg)
}

// AppDependencies contains the dependencies for the main application
type AppDependencies struct {
	Platform       config.PlatformProvider
	FS             config.FileSystem
	DBOpener       func(string) (*store.DB, error)
	WatcherCreator func(string) (watch.WatcherInterface, error)
	ProgramRunner  func(*tea.Program) error
	Stdout         io.Writer
	Stderr         io.Writer
}

// session is the set of services one command works with
type session struct {
	source    *release.GitHubSource
	catalog   *release.Catalog
	db        *store.DB
	refresher *recordingRefresher
}

func (s *session) Close() error {
	return s.db.Close()
}

func openSession(cfg *config.Config, deps *AppDependencies, logger *slog.Logger) (*session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := deps.DBOpener(cfg.HistoryDB)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open history database")
	}

	source := release.NewGitHubSource(cfg.Owner, cfg.Repo,
		release.WithAPIURL(cfg.APIURL),
		release.WithTrustStore(cfg.TrustStore),
		release.WithTimeout(cfg.Timeout),
		release.WithInsecure(cfg.Insecure),
		release.WithLogger(logger),
	)
	catalog := release.NewCatalog(source, release.WithCatalogLogger(logger))

	return &session{
		source:  source,
		catalog: catalog,
		db:      db,
		refresher: &recordingRefresher{
			catalog: catalog,
			db:      db,
			logger:  logger,
			now:     time.Now,
		},
	}, nil
}

// recordingRefresher refreshes the catalog and stores the outcome
type recordingRefresher struct {
	catalog *release.Catalog
	db      *store.DB
	logger  *slog.Logger
	now     func() time.Time
}

func (r *recordingRefresher) Refresh(ctx context.Context) ([]release.Entry, error) {
	start := r.now()
	entries, err := r.catalog.Refresh(ctx)

	attempt := store.Attempt{
		StartedAt:    start,
		Duration:     r.now().Sub(start),
		Outcome:      store.OutcomeOK,
		ReleaseCount: len(entries),
	}
	if err != nil {
		attempt.Outcome = release.KindOf(err).String()
		attempt.Detail = err.Error()
	}

	if _, rerr := r.db.RecordAttempt(attempt); rerr != nil {
		r.logger.Warn("failed to record refresh attempt", slog.Any("error", rerr))
	} else if _, perr := r.db.Prune(historyKeep); perr != nil {
		r.logger.Warn("failed to prune refresh history", slog.Any("error", perr))
	}

	return entries, err
}

func runTUI(ctx context.Context, cfg *config.Config, deps *AppDependencies, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	sess, err := openSession(cfg, deps, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	model := tui.NewModel(tui.Options{
		Context:          ctx,
		Repository:       cfg.Repository(),
		InstalledVersion: cfg.InstalledVersion,
		Catalog:          sess.catalog,
		Refresher:        sess.refresher,
		TLS:              sess.source,
		History:          sess.db,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	// The trust store is optional; without it the first refresh reports the
	// configuration error.
	if cfg.TrustStore != "" && deps.WatcherCreator != nil {
		watcher, err := deps.WatcherCreator(cfg.TrustStore)
		if err != nil {
			logger.Warn("trust store watch unavailable",
				slog.String("path", cfg.TrustStore),
				slog.Any("error", err),
			)
		} else {
			defer watcher.Close()
			go runWatchLoop(p, watcher, logger)
		}
	}

	logger.Info("launcher started",
		slog.String("repository", cfg.Repository()),
		slog.Bool("insecure", cfg.Insecure),
	)
	return deps.ProgramRunner(p)
}

// runWatchLoop forwards trust-store changes to the program until the watcher
// closes or fails
func runWatchLoop(sender ProgramSender, watcher watch.WatcherInterface, logger *slog.Logger) {
	for {
		select {
		case _, ok := <-watcher.Changes():
			if !ok {
				return
			}
			logger.Info("trust store changed, refreshing")
			sender.Send(tui.TrustStoreChangedMsg{})

		case err, ok := <-watcher.Errors():
			if !ok {
				return
			}
			logger.Warn("trust store watcher failed", slog.Any("error", err))
			sender.Send(tui.WatcherFailedMsg{Err: goerr.Wrap(err, "watcher error")})
			return
		}
	}
}
