// Package page produces item snapshots from a rendered page, either a live
// browser tab or an HTML file on disk.
package page

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Source returns the current markup of the page
type Source interface {
	Snapshot(ctx context.Context) (string, error)
}

// Pruner is implemented by sources that can delete elements from the page
// they snapshot
type Pruner interface {
	Remove(ctx context.Context, ids []string) error
}

// FileSource reads a saved page. The file is read on every snapshot so edits
// show up on rescan.
type FileSource struct {
	Path string
}

// NewFileSource creates a source for an HTML file
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Snapshot returns the file contents
func (f *FileSource) Snapshot(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read page %s: %w", f.Path, err)
	}
	return string(data), nil
}

// ReaderSource serves the contents of a reader, read once
type ReaderSource struct {
	once sync.Once
	r    io.Reader
	data string
	err  error
}

// NewReaderSource wraps r
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// Snapshot returns what the reader produced
func (s *ReaderSource) Snapshot(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.once.Do(func() {
		data, err := io.ReadAll(s.r)
		if err != nil {
			s.err = fmt.Errorf("failed to read page: %w", err)
			return
		}
		s.data = string(data)
	})
	return s.data, s.err
}
