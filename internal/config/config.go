// Package config holds launcher settings: the YAML config file, platform
// paths, logging, and the CLI flags that override both.
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/endlesspixel/launcher/internal/release"
)

const (
	DefaultOwner = "EndlessPixel"
	DefaultRepo  = "EndlessPixel-Modpack"
)

// Config represents the launcher configuration
type Config struct {
	Owner            string        `yaml:"owner"`
	Repo             string        `yaml:"repo"`
	APIURL           string        `yaml:"api_url"`
	TrustStore       string        `yaml:"trust_store"`
	Insecure         bool          `yaml:"insecure"`
	Timeout          time.Duration `yaml:"timeout"`
	InstalledVersion string        `yaml:"installed_version"`
	HistoryDB        string        `yaml:"history_db"`
	Log              Logger        `yaml:"log"`
}

// Default returns the built-in configuration. Paths that depend on the
// platform are filled in by ResolvePaths.
func Default() *Config {
	return &Config{
		Owner:   DefaultOwner,
		Repo:    DefaultRepo,
		APIURL:  release.DefaultAPIURL,
		Timeout: release.DefaultTimeout,
		Log: Logger{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	return LoadWithFS(path, OSFileSystem{})
}

// LoadWithFS allows injecting a custom file system for testing
func LoadWithFS(path string, fsys FileSystem) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := fsys.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return cfg, nil
}

// ResolvePaths fills in the trust store, history database and log file when
// they are not configured.
func (c *Config) ResolvePaths(platform PlatformProvider, fsys FileSystem) {
	if c.TrustStore == "" {
		c.TrustStore = ResolveTrustStore(platform, fsys)
	}

	if c.HistoryDB == "" {
		c.HistoryDB = HistoryDBPathWithPlatform(platform)
	}
	if c.Log.File == "" {
		c.Log.File = LogFilePathWithPlatform(platform)
	}
}

// PrepareDirs creates the parent directory of the history database
func (c *Config) PrepareDirs(fsys FileSystem) error {
	if c.HistoryDB == "" {
		return nil
	}
	dir := filepath.Dir(c.HistoryDB)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dir))
	}
	return nil
}

// Validate checks the settings a refresh depends on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Owner) == "" {
		return goerr.New("owner is required")
	}
	if strings.TrimSpace(c.Repo) == "" {
		return goerr.New("repo is required")
	}
	if c.Timeout <= 0 {
		return goerr.New("timeout must be positive", goerr.V("timeout", c.Timeout))
	}

	u, err := url.Parse(c.APIURL)
	if err != nil {
		return goerr.Wrap(err, "api_url is not a valid URL", goerr.V("api_url", c.APIURL))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return goerr.New("api_url must be an http(s) URL", goerr.V("api_url", c.APIURL))
	}

	if _, err := c.Log.level(); err != nil {
		return err
	}
	return nil
}

// Repository returns "owner/repo"
func (c *Config) Repository() string {
	return c.Owner + "/" + c.Repo
}
