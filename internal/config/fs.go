package config

import (
	"os"
)

// FileSystem is an interface for file system operations to allow mocking
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
}

// OSFileSystem implements FileSystem using os package
type OSFileSystem struct{}

// Stat calls os.Stat
func (OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile calls os.ReadFile
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// MkdirAll calls os.MkdirAll
func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}
