package config

import (
	"os"
	"runtime"
)

// PlatformProvider is the slice of the OS the path helpers read. Tests swap it
// to resolve Windows and macOS locations on any host.
type PlatformProvider interface {
	GetOS() string
	GetEnv(key string) string
	UserHomeDir() (string, error)
}

// OSPlatformProvider reads the running OS
type OSPlatformProvider struct{}

func (OSPlatformProvider) GetOS() string                { return runtime.GOOS }
func (OSPlatformProvider) GetEnv(key string) string     { return os.Getenv(key) }
func (OSPlatformProvider) UserHomeDir() (string, error) { return os.UserHomeDir() }

// DefaultPlatform backs the helpers without a WithPlatform suffix
var DefaultPlatform PlatformProvider = OSPlatformProvider{}
