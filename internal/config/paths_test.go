package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// MockPlatformProvider is a test double for PlatformProvider
type MockPlatformProvider struct {
	OS           string
	EnvVars      map[string]string
	HomeDirPath  string
	HomeDirError error
}

func (m *MockPlatformProvider) GetOS() string {
	return m.OS
}

func (m *MockPlatformProvider) GetEnv(key string) string {
	if m.EnvVars == nil {
		return ""
	}
	return m.EnvVars[key]
}

func (m *MockPlatformProvider) UserHomeDir() (string, error) {
	if m.HomeDirError != nil {
		return "", m.HomeDirError
	}
	return m.HomeDirPath, nil
}

// MockFileSystem is a test double for FileSystem backed by a map of files
type MockFileSystem struct {
	Files map[string]string
	Dirs  map[string]bool
	Err   error

	MkdirErr error
	Made     []string
}

func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.Dirs[name] {
		return mockInfo{name: name, dir: true}, nil
	}
	if data, ok := m.Files[name]; ok {
		return mockInfo{name: name, size: int64(len(data))}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if data, ok := m.Files[name]; ok {
		return []byte(data), nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if m.MkdirErr != nil {
		return m.MkdirErr
	}
	m.Made = append(m.Made, path)
	return nil
}

type mockInfo struct {
	name string
	size int64
	dir  bool
}

func (i mockInfo) Name() string       { return filepath.Base(i.name) }
func (i mockInfo) Size() int64        { return i.size }
func (i mockInfo) Mode() os.FileMode  { return 0644 }
func (i mockInfo) ModTime() time.Time { return time.Time{} }
func (i mockInfo) IsDir() bool        { return i.dir }
func (i mockInfo) Sys() any           { return nil }

func TestConfigDirAllPlatforms(t *testing.T) {
	tests := []struct {
		name     string
		platform *MockPlatformProvider
		want     string
	}{
		{
			name: "Windows with APPDATA",
			platform: &MockPlatformProvider{
				OS:      "windows",
				EnvVars: map[string]string{"APPDATA": "C:\\Users\\Test\\AppData\\Roaming"},
			},
			want: filepath.Join("C:\\Users\\Test\\AppData\\Roaming", AppName),
		},
		{
			name: "Windows without APPDATA",
			platform: &MockPlatformProvider{
				OS:      "windows",
				EnvVars: map[string]string{},
			},
			want: "",
		},
		{
			name: "macOS happy path",
			platform: &MockPlatformProvider{
				OS:          "darwin",
				HomeDirPath: "/Users/test",
			},
			want: filepath.Join("/Users/test", "Library", "Application Support", AppName),
		},
		{
			name: "macOS UserHomeDir error",
			platform: &MockPlatformProvider{
				OS:           "darwin",
				HomeDirError: errors.New("no home directory"),
			},
			want: "",
		},
		{
			name: "Linux happy path",
			platform: &MockPlatformProvider{
				OS:          "linux",
				HomeDirPath: "/home/test",
			},
			want: filepath.Join("/home/test", ".config", AppName),
		},
		{
			name: "Linux XDG_CONFIG_HOME",
			platform: &MockPlatformProvider{
				OS:          "linux",
				EnvVars:     map[string]string{"XDG_CONFIG_HOME": "/xdg/config"},
				HomeDirPath: "/home/test",
			},
			want: filepath.Join("/xdg/config", AppName),
		},
		{
			name: "Linux UserHomeDir error",
			platform: &MockPlatformProvider{
				OS:           "linux",
				HomeDirError: errors.New("no home directory"),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfigDirWithPlatform(tt.platform)
			if got != tt.want {
				t.Errorf("ConfigDirWithPlatform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigFilePath(t *testing.T) {
	linux := &MockPlatformProvider{OS: "linux", HomeDirPath: "/home/test"}
	want := filepath.Join("/home/test", ".config", AppName, "config.yaml")
	if got := ConfigFilePathWithPlatform(linux); got != want {
		t.Errorf("ConfigFilePathWithPlatform() = %q, want %q", got, want)
	}

	noAppData := &MockPlatformProvider{OS: "windows"}
	if got := ConfigFilePathWithPlatform(noAppData); got != "" {
		t.Errorf("ConfigFilePathWithPlatform() without a config dir = %q, want empty", got)
	}
}

func TestUserCacheDirAllPlatforms(t *testing.T) {
	tests := []struct {
		name     string
		platform *MockPlatformProvider
		want     string
	}{
		{
			name: "Windows with LOCALAPPDATA",
			platform: &MockPlatformProvider{
				OS:      "windows",
				EnvVars: map[string]string{"LOCALAPPDATA": "C:\\Users\\Test\\AppData\\Local"},
			},
			want: filepath.Join("C:\\Users\\Test\\AppData\\Local", AppName),
		},
		{
			name: "Windows without LOCALAPPDATA",
			platform: &MockPlatformProvider{
				OS:          "windows",
				EnvVars:     map[string]string{},
				HomeDirPath: "C:\\Users\\Test",
			},
			want: filepath.Join("C:\\Users\\Test", "."+AppName),
		},
		{
			name: "macOS",
			platform: &MockPlatformProvider{
				OS:          "darwin",
				HomeDirPath: "/Users/test",
			},
			want: filepath.Join("/Users/test", "Library", "Caches", AppName),
		},
		{
			name: "Linux",
			platform: &MockPlatformProvider{
				OS:          "linux",
				HomeDirPath: "/home/test",
			},
			want: filepath.Join("/home/test", ".cache", AppName),
		},
		{
			name: "Linux XDG_CACHE_HOME",
			platform: &MockPlatformProvider{
				OS:          "linux",
				EnvVars:     map[string]string{"XDG_CACHE_HOME": "/xdg/cache"},
				HomeDirPath: "/home/test",
			},
			want: filepath.Join("/xdg/cache", AppName),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserCacheDirWithPlatform(tt.platform)
			if got != tt.want {
				t.Errorf("UserCacheDirWithPlatform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheFilePaths(t *testing.T) {
	p := &MockPlatformProvider{OS: "linux", HomeDirPath: "/home/test"}
	cache := filepath.Join("/home/test", ".cache", AppName)

	if got := HistoryDBPathWithPlatform(p); got != filepath.Join(cache, "history.db") {
		t.Errorf("HistoryDBPathWithPlatform() = %q", got)
	}
	if got := LogFilePathWithPlatform(p); got != filepath.Join(cache, "launcher.log") {
		t.Errorf("LogFilePathWithPlatform() = %q", got)
	}
}

func TestTrustStoreCandidates(t *testing.T) {
	t.Run("SSL_CERT_FILE comes first", func(t *testing.T) {
		p := &MockPlatformProvider{
			OS:          "linux",
			EnvVars:     map[string]string{"SSL_CERT_FILE": "/corp/combined-ca.pem"},
			HomeDirPath: "/home/test",
		}
		got := TrustStoreCandidates(p)
		if len(got) < 2 || got[0] != "/corp/combined-ca.pem" {
			t.Fatalf("TrustStoreCandidates() = %v, want SSL_CERT_FILE first", got)
		}
		if got[1] != filepath.Join("/home/test", ".config", AppName, "ca-bundle.pem") {
			t.Errorf("second candidate = %q, want the config dir bundle", got[1])
		}
	})

	t.Run("Linux system bundles", func(t *testing.T) {
		p := &MockPlatformProvider{OS: "linux", HomeDirPath: "/home/test"}
		got := TrustStoreCandidates(p)
		found := false
		for _, c := range got {
			if c == "/etc/ssl/certs/ca-certificates.crt" {
				found = true
			}
		}
		if !found {
			t.Errorf("TrustStoreCandidates() = %v, missing Debian bundle", got)
		}
	})

	t.Run("Windows has no system PEM", func(t *testing.T) {
		p := &MockPlatformProvider{OS: "windows"}
		if got := TrustStoreCandidates(p); len(got) != 0 {
			t.Errorf("TrustStoreCandidates() = %v, want none without APPDATA or SSL_CERT_FILE", got)
		}
	})
}

func TestResolveTrustStore(t *testing.T) {
	tests := []struct {
		name     string
		platform *MockPlatformProvider
		fs       *MockFileSystem
		want     string
	}{
		{
			name: "SSL_CERT_FILE exists",
			platform: &MockPlatformProvider{
				OS:      "linux",
				EnvVars: map[string]string{"SSL_CERT_FILE": "/corp/ca.pem"},
			},
			fs: &MockFileSystem{Files: map[string]string{
				"/corp/ca.pem":                       "pem",
				"/etc/ssl/certs/ca-certificates.crt": "pem",
			}},
			want: "/corp/ca.pem",
		},
		{
			name: "SSL_CERT_FILE missing falls through",
			platform: &MockPlatformProvider{
				OS:      "linux",
				EnvVars: map[string]string{"SSL_CERT_FILE": "/corp/ca.pem"},
			},
			fs: &MockFileSystem{Files: map[string]string{
				"/etc/pki/tls/certs/ca-bundle.crt": "pem",
			}},
			want: "/etc/pki/tls/certs/ca-bundle.crt",
		},
		{
			name:     "directory is skipped",
			platform: &MockPlatformProvider{OS: "darwin", HomeDirError: errors.New("no home")},
			fs: &MockFileSystem{
				Dirs:  map[string]bool{"/etc/ssl/cert.pem": true},
				Files: map[string]string{"/opt/homebrew/etc/openssl@3/cert.pem": "pem"},
			},
			want: "/opt/homebrew/etc/openssl@3/cert.pem",
		},
		{
			name:     "nothing found",
			platform: &MockPlatformProvider{OS: "linux", HomeDirPath: "/home/test"},
			fs:       &MockFileSystem{},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTrustStore(tt.platform, tt.fs)
			if got != tt.want {
				t.Errorf("ResolveTrustStore() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOSPlatformProvider(t *testing.T) {
	p := OSPlatformProvider{}
	if p.GetOS() == "" {
		t.Error("GetOS() returned empty string")
	}

	t.Setenv("LAUNCHER_TEST_ENV", "value")
	if got := p.GetEnv("LAUNCHER_TEST_ENV"); got != "value" {
		t.Errorf("GetEnv() = %q, want value", got)
	}
}
