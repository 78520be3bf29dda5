package config

import (
	"github.com/urfave/cli/v3"
)

// Flags returns CLI flags for every file setting plus --config
func (c *Config) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path",
			Value:   ConfigFilePath(),
			Sources: cli.EnvVars("LAUNCHER_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "owner",
			Usage:   "GitHub owner of the modpack repository",
			Sources: cli.EnvVars("LAUNCHER_OWNER"),
		},
		&cli.StringFlag{
			Name:    "repo",
			Usage:   "GitHub repository publishing modpack releases",
			Sources: cli.EnvVars("LAUNCHER_REPO"),
		},
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "GitHub REST API root",
			Sources: cli.EnvVars("LAUNCHER_API_URL"),
		},
		&cli.StringFlag{
			Name:    "trust-store",
			Usage:   "PEM CA bundle used to verify the API server",
			Sources: cli.EnvVars("LAUNCHER_TRUST_STORE"),
		},
		&cli.BoolFlag{
			Name:    "insecure",
			Usage:   "Skip TLS certificate verification",
			Sources: cli.EnvVars("LAUNCHER_INSECURE"),
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Timeout for the releases request",
			Sources: cli.EnvVars("LAUNCHER_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "installed-version",
			Usage:   "Installed modpack version, used for the update notice",
			Sources: cli.EnvVars("LAUNCHER_INSTALLED_VERSION"),
		},
		&cli.StringFlag{
			Name:    "history-db",
			Usage:   "SQLite refresh history path",
			Sources: cli.EnvVars("LAUNCHER_HISTORY_DB"),
		},
	}
	return append(flags, c.Log.Flags()...)
}

// Apply copies flags that were set on cmd over the file values
func (c *Config) Apply(cmd *cli.Command) {
	if cmd.IsSet("owner") {
		c.Owner = cmd.String("owner")
	}
	if cmd.IsSet("repo") {
		c.Repo = cmd.String("repo")
	}
	if cmd.IsSet("api-url") {
		c.APIURL = cmd.String("api-url")
	}
	if cmd.IsSet("trust-store") {
		c.TrustStore = cmd.String("trust-store")
	}
	if cmd.IsSet("insecure") {
		c.Insecure = cmd.Bool("insecure")
	}
	if cmd.IsSet("timeout") {
		c.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("installed-version") {
		c.InstalledVersion = cmd.String("installed-version")
	}
	if cmd.IsSet("history-db") {
		c.HistoryDB = cmd.String("history-db")
	}
	c.Log.Apply(cmd)
}
