package config

import (
	"path/filepath"
)

// AppName names the launcher's config and cache directories
const AppName = "endlesspixel-launcher"

// ConfigDir returns the launcher config directory for the current platform
func ConfigDir() string {
	return ConfigDirWithPlatform(DefaultPlatform)
}

// ConfigDirWithPlatform allows injecting a custom platform provider for testing
func ConfigDirWithPlatform(platform PlatformProvider) string {
	switch platform.GetOS() {
	case "windows":
		// %APPDATA%\endlesspixel-launcher\
		appData := platform.GetEnv("APPDATA")
		if appData == "" {
			return ""
		}
		return filepath.Join(appData, AppName)
	case "darwin":
		// ~/Library/Application Support/endlesspixel-launcher/
		home, err := platform.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, "Library", "Application Support", AppName)
	default: // linux, etc.
		// $XDG_CONFIG_HOME/endlesspixel-launcher/ or ~/.config/endlesspixel-launcher/
		if xdg := platform.GetEnv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
		home, err := platform.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".config", AppName)
	}
}

// ConfigFilePath returns the default YAML config file path
func ConfigFilePath() string {
	return ConfigFilePathWithPlatform(DefaultPlatform)
}

// ConfigFilePathWithPlatform allows injecting a custom platform provider for testing
func ConfigFilePathWithPlatform(platform PlatformProvider) string {
	dir := ConfigDirWithPlatform(platform)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// UserCacheDir returns the application cache directory for history and logs
func UserCacheDir() string {
	return UserCacheDirWithPlatform(DefaultPlatform)
}

// UserCacheDirWithPlatform allows injecting a custom platform provider for testing
func UserCacheDirWithPlatform(platform PlatformProvider) string {
	switch platform.GetOS() {
	case "windows":
		// %LOCALAPPDATA%\endlesspixel-launcher\
		localAppData := platform.GetEnv("LOCALAPPDATA")
		if localAppData == "" {
			home, _ := platform.UserHomeDir()
			return filepath.Join(home, "."+AppName)
		}
		return filepath.Join(localAppData, AppName)
	case "darwin":
		// ~/Library/Caches/endlesspixel-launcher/
		home, _ := platform.UserHomeDir()
		return filepath.Join(home, "Library", "Caches", AppName)
	default:
		// ~/.cache/endlesspixel-launcher/
		if xdg := platform.GetEnv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
		home, _ := platform.UserHomeDir()
		return filepath.Join(home, ".cache", AppName)
	}
}

// HistoryDBPathWithPlatform returns the path to the SQLite refresh history database
func HistoryDBPathWithPlatform(platform PlatformProvider) string {
	return filepath.Join(UserCacheDirWithPlatform(platform), "history.db")
}

// LogFilePathWithPlatform returns the default log file path
func LogFilePathWithPlatform(platform PlatformProvider) string {
	return filepath.Join(UserCacheDirWithPlatform(platform), "launcher.log")
}

// TrustStoreCandidates lists PEM bundles to try, in order, when no trust
// store is configured. SSL_CERT_FILE comes first when set.
func TrustStoreCandidates(platform PlatformProvider) []string {
	var candidates []string
	if env := platform.GetEnv("SSL_CERT_FILE"); env != "" {
		candidates = append(candidates, env)
	}
	if dir := ConfigDirWithPlatform(platform); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "ca-bundle.pem"))
	}

	switch platform.GetOS() {
	case "windows":
		// Windows keeps roots in the system store, not a PEM file
	case "darwin":
		candidates = append(candidates,
			"/etc/ssl/cert.pem",
			"/opt/homebrew/etc/openssl@3/cert.pem",
			"/usr/local/etc/openssl@3/cert.pem",
		)
	default:
		candidates = append(candidates,
			"/etc/ssl/certs/ca-certificates.crt",                // Debian, Ubuntu, Arch
			"/etc/pki/tls/certs/ca-bundle.crt",                  // Fedora, RHEL
			"/etc/pki/ca-trust/extracted/pem/tls-ca-bundle.pem", // RHEL 7+
			"/etc/ssl/ca-bundle.pem",                            // openSUSE
			"/etc/ssl/cert.pem",                                 // Alpine
		)
	}
	return candidates
}

// ResolveTrustStore returns the first candidate that exists as a regular
// file, or "" when none does.
func ResolveTrustStore(platform PlatformProvider, fsys FileSystem) string {
	for _, path := range TrustStoreCandidates(platform) {
		info, err := fsys.Stat(path)
		if err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
