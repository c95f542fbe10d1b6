// Package model defines the data structures for duplicate detection.
package model

import (
	"fmt"
	"time"
)

// Path represents a file system path.
type Path string

// Hasher computes a content digest for the file at a path. It is defined
// here so FileEntry can memoize a digest without depending on the
// filesystem adapter directly.
type Hasher interface {
	DigestFile(path Path) (string, error)
}

// Source is one root directory to be scanned for duplicates.
//
// Order is a permanent identity assigned at construction: the 1-based
// position of the source in the caller's source list. Resolvers use it
// for tie-breaking, so it never changes after NewSource.
type Source struct {
	Root   Path
	Order  int
	Filter SourceFilter
}

// NewSource constructs a Source rooted at root with the given 1-based
// order. The filter may be nil, in which case every file is included.
func NewSource(root Path, order int, filter SourceFilter) *Source {
	return &Source{
		Root:   root,
		Order:  order,
		Filter: filter,
	}
}

// FileEntry is a handle to one file on disk: its path, the source it was
// found under, and a metadata snapshot captured at construction. The
// content digest is computed lazily and memoized.
type FileEntry struct {
	Path    Path
	Source  *Source
	Size    int64
	ModTime time.Time

	digest string
}

// NewFileEntry constructs an entry with the size and modification time
// captured by the caller's stat. The snapshot is never refreshed: a file
// mutated after being cataloged is described by stale metadata.
func NewFileEntry(path Path, source *Source, size int64, modTime time.Time) *FileEntry {
	return &FileEntry{
		Path:    path,
		Source:  source,
		Size:    size,
		ModTime: modTime,
	}
}

// Digest returns the content digest of the entry, computing it through
// hasher on first call and returning the cached value afterwards. An
// unreadable file is a hard error: the entry cannot be classified.
func (e *FileEntry) Digest(hasher Hasher) (string, error) {
	if e.digest != "" {
		return e.digest, nil
	}

	digest, err := hasher.DigestFile(e.Path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", e.Path, err)
	}

	e.digest = digest

	return e.digest, nil
}

// CachedDigest returns the memoized digest, or "" when Digest has not
// been called yet.
func (e *FileEntry) CachedDigest() string {
	return e.digest
}
