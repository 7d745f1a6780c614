package model

import (
	"io"
	"os"

	"github.com/jtripath/maven-dependency-management-extension/pkg/artifact"
)

// Source is a fetched descriptor.
type Source interface {
	// Location is the local path of the descriptor.
	Location() string

	// Open returns the descriptor content.
	Open() (io.ReadCloser, error)
}

// FileSource is a descriptor stored in the local repository.
type FileSource struct {
	Path       string
	Coordinate artifact.Coordinate
}

// Location returns the file path.
func (s FileSource) Location() string { return s.Path }

// Open opens the file.
func (s FileSource) Open() (io.ReadCloser, error) { return os.Open(s.Path) }
