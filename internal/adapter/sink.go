package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	m "treedup.dev/pkg/treedup/internal/model"
)

// DeleteSink unlinks every duplicate immediately. A per-file failure is
// logged and the batch continues; the failed file stays on disk.
type DeleteSink struct{}

// NewDeleteSink constructs a DeleteSink.
func NewDeleteSink() *DeleteSink {
	return &DeleteSink{}
}

// Sink implements domain.DuplicateFileSink.
func (s *DeleteSink) Sink(entries []*m.FileEntry) error {
	for _, entry := range entries {
		slog.Debug("deleting duplicate file", "path", entry.Path)

		if err := os.Remove(string(entry.Path)); err != nil {
			slog.Error("unable to delete duplicate file", "path", entry.Path, "error", err)
		}
	}

	return nil
}

// SequesterSink moves duplicates into a separate tree, preserving each
// file's full original path below the sequester root. Per-file failures
// are logged and the batch continues.
type SequesterSink struct {
	root m.Path
}

// NewSequesterSink constructs a SequesterSink rooted at root.
func NewSequesterSink(root m.Path) *SequesterSink {
	return &SequesterSink{root: root}
}

// DestinationFor returns where an entry at path would be moved.
func (s *SequesterSink) DestinationFor(path m.Path) m.Path {
	return JoinUnderRoot(s.root, path)
}

// Sink implements domain.DuplicateFileSink. Files are moved with rename,
// not a recursive move helper, so emptied directories under the source
// are left in place.
func (s *SequesterSink) Sink(entries []*m.FileEntry) error {
	for _, entry := range entries {
		slog.Debug("sequestering duplicate file", "path", entry.Path)

		if err := s.sequester(entry.Path); err != nil {
			slog.Error("unable to sequester duplicate file", "path", entry.Path, "error", err)
		}
	}

	return nil
}

func (s *SequesterSink) sequester(path m.Path) error {
	dest := s.DestinationFor(path)

	if _, err := os.Lstat(string(dest)); err == nil {
		return fmt.Errorf("destination %s already exists", dest)
	}

	if err := os.MkdirAll(filepath.Dir(string(dest)), 0o750); err != nil {
		return err
	}

	return os.Rename(string(path), string(dest))
}

// OutputSink writes each duplicate path followed by a newline to a
// destination stream. It never mutates the filesystem.
type OutputSink struct {
	writer io.Writer
}

// NewOutputSink constructs an OutputSink on writer.
func NewOutputSink(writer io.Writer) *OutputSink {
	return &OutputSink{writer: writer}
}

// Sink implements domain.DuplicateFileSink.
func (s *OutputSink) Sink(entries []*m.FileEntry) error {
	for _, entry := range entries {
		if _, err := fmt.Fprintln(s.writer, string(entry.Path)); err != nil {
			return fmt.Errorf("write duplicate path: %w", err)
		}
	}

	return nil
}
