package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	File  string `yaml:"file"`
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.EnvVars("LAUNCHER_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:    "log-json",
			Usage:   "Output logs in JSON format",
			Sources: cli.EnvVars("LAUNCHER_LOG_JSON"),
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "Log file path (\"-\" for stderr)",
			Sources: cli.EnvVars("LAUNCHER_LOG_FILE"),
		},
	}
}

// Apply copies flags that were set on cmd over the file values
func (c *Logger) Apply(cmd *cli.Command) {
	if cmd.IsSet("log-level") {
		c.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-json") {
		c.JSON = cmd.Bool("log-json")
	}
	if cmd.IsSet("log-file") {
		c.File = cmd.String("log-file")
	}
}

func (c *Logger) level() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, goerr.New("invalid log level", goerr.V("level", c.Level))
	}
}

// Open returns the log destination. The terminal belongs to the TUI, so logs
// go to File unless it is "-" or empty.
func (c *Logger) Open() (io.WriteCloser, error) {
	if c.File == "" || c.File == "-" {
		return nopCloser{os.Stderr}, nil
	}

	if err := os.MkdirAll(filepath.Dir(c.File), 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create log directory", goerr.V("file", c.File))
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open log file", goerr.V("file", c.File))
	}
	return f, nil
}

// Configure configures and returns a logger writing to w
func (c *Logger) Configure(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if c.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
