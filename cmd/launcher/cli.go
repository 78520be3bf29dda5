package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/endlesspixel/launcher/internal/changelog"
	"github.com/endlesspixel/launcher/internal/config"
	"github.com/endlesspixel/launcher/internal/picker"
	"github.com/endlesspixel/launcher/internal/release"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string, deps *AppDependencies) error {
	cfg := config.Default()
	var (
		logger *slog.Logger
		logOut io.Closer
	)

	app := &cli.Command{
		Name:    "launcher",
		Usage:   "Browse EndlessPixel modpack releases and their changelogs",
		Version: Version + " (" + Commit + ")",
		Flags:   cfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			loaded, err := config.LoadWithFS(c.String("config"), deps.FS)
			if err != nil {
				return nil, err
			}
			*cfg = *loaded
			cfg.Apply(c)
			cfg.ResolvePaths(deps.Platform, deps.FS)
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			if err := cfg.PrepareDirs(deps.FS); err != nil {
				return nil, err
			}

			w, err := cfg.Log.Open()
			if err != nil {
				return nil, err
			}
			logOut = w
			logger, err = cfg.Log.Configure(w)
			if err != nil {
				return nil, err
			}
			slog.SetDefault(logger)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logOut != nil {
				return logOut.Close()
			}
			return nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runTUI(ctx, cfg, deps, logger)
		},
		Commands: []*cli.Command{
			cmdReleases(cfg, deps, &logger),
			cmdChangelog(cfg, deps, &logger),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		if deps.Stderr != nil {
			fmt.Fprintln(deps.Stderr, "Error:", err)
		}
		return err
	}

	return nil
}

func cmdReleases(cfg *config.Config, deps *AppDependencies, logger **slog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "releases",
		Aliases: []string{"ls"},
		Usage:   "Refresh once and list the available versions",
		Action: func(ctx context.Context, c *cli.Command) error {
			sess, err := openSession(cfg, deps, *logger)
			if err != nil {
				return err
			}
			defer sess.Close()

			entries, err := sess.refresher.Refresh(ctx)
			if err != nil {
				fmt.Fprintln(deps.Stderr, release.Describe(err))
				return err
			}

			view := picker.New(sess.catalog)
			view.Populate(entries)
			sel := view.Selection()
			for i, label := range view.Labels() {
				marker := " "
				if sel.Valid && i == sel.Index {
					marker = "*"
				}
				fmt.Fprintf(deps.Stdout, "%s %s\n", marker, label.Text)
			}
			return nil
		},
	}
}

func cmdChangelog(cfg *config.Config, deps *AppDependencies, logger **slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "changelog",
		Usage:     "Refresh once and print the changelog of a version",
		ArgsUsage: "<tag>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Print the HTML fragment instead of terminal text",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "Wrap width for terminal output",
				Value: 80,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			tag := c.Args().First()
			if tag == "" {
				return goerr.New("tag is required")
			}

			sess, err := openSession(cfg, deps, *logger)
			if err != nil {
				return err
			}
			defer sess.Close()

			if _, err := sess.refresher.Refresh(ctx); err != nil {
				fmt.Fprintln(deps.Stderr, release.Describe(err))
				return err
			}

			renderer := picker.Renderer(changelog.HTML)
			if !c.Bool("html") {
				width := int(c.Int("width"))
				renderer = func(md string) string {
					return changelog.Terminal(md, width)
				}
			}

			view := picker.New(sess.catalog, picker.WithRenderer(renderer))
			view.Render(tag)
			fmt.Fprintln(deps.Stdout, view.Output())

			if _, ok := sess.catalog.Lookup(tag); !ok {
				return goerr.New("release not found", goerr.V("tag", tag))
			}
			return nil
		},
	}
}
