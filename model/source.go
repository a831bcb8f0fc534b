package model

import (
	"context"
	"fmt"
	"os"
)

// Source loads a validated artifact from wherever it is stored.
type Source interface {
	Load(ctx context.Context) (*Artifact, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (*Artifact, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context) (*Artifact, error) {
	return f(ctx)
}

// Static returns a Source that always yields a, after validating it.
func Static(a *Artifact) Source {
	return SourceFunc(func(ctx context.Context) (*Artifact, error) {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		return a, nil
	})
}

// FileSource loads an artifact from a JSON file on local disk
type FileSource struct {
	filepath string
}

// NewFileSource creates a new file-based artifact source
func NewFileSource(filepath string) *FileSource {
	return &FileSource{
		filepath: filepath,
	}
}

// Path returns the file the source reads from.
func (f *FileSource) Path() string {
	return f.filepath
}

// Load reads and validates the artifact. A missing file is an error: there is
// no meaningful empty model.
func (f *FileSource) Load(ctx context.Context) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file %s: %w", f.filepath, err)
	}
	defer file.Close()

	a, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model file %s: %w", f.filepath, err)
	}

	return a, nil
}
