package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/endlesspixel/launcher/internal/config"
	"github.com/endlesspixel/launcher/internal/store"
	"github.com/endlesspixel/launcher/internal/watch"
)

// Version information injected by ldflags during build.
var (
	Version = "dev"
	Commit  = "unknown"
)

// exitFunc is the function to call for exiting (can be mocked for testing)
var exitFunc = os.Exit

func main() {
	if err := Run(context.Background(), os.Args, defaultDependencies()); err != nil {
		exitFunc(1)
	}
}

func defaultDependencies() *AppDependencies {
	return &AppDependencies{
		Platform: config.DefaultPlatform,
		FS:       config.OSFileSystem{},
		DBOpener: store.Open,
		WatcherCreator: func(path string) (watch.WatcherInterface, error) {
			return watch.New(path)
		},
		ProgramRunner: func(p *tea.Program) error {
			_, err := p.Run()
			return err
		},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
