// Package domain implements the duplicate detection and resolution
// pipeline: cataloging, the resolver chain, and the deduplicate
// operation that drives them.
package domain

import (
	m "treedup.dev/pkg/treedup/internal/model"
)

// KeyFunc projects an entry onto a catalog key. Returning ok=false marks
// the entry as "not applicable" and keeps it out of the catalog entirely.
type KeyFunc[K comparable] func(entry *m.FileEntry) (K, bool)

// FileCatalog groups file entries by a caller-supplied key function.
// Insertion order is preserved within a group, and an entry is identified
// by its path: re-adding a path already present is a no-op.
type FileCatalog[K comparable] struct {
	keyFunc KeyFunc[K]
	store   map[K][]*m.FileEntry
	paths   map[m.Path]struct{}
}

// NewFileCatalog constructs an empty catalog keyed by keyFunc.
func NewFileCatalog[K comparable](keyFunc KeyFunc[K]) *FileCatalog[K] {
	return &FileCatalog[K]{
		keyFunc: keyFunc,
		store:   make(map[K][]*m.FileEntry),
		paths:   make(map[m.Path]struct{}),
	}
}

// AddEntry files the entry under its key. Entries without a key and
// paths already present are discarded.
func (c *FileCatalog[K]) AddEntry(entry *m.FileEntry) {
	key, ok := c.keyFunc(entry)
	if !ok {
		return
	}

	if _, seen := c.paths[entry.Path]; seen {
		return
	}

	c.store[key] = append(c.store[key], entry)
	c.paths[entry.Path] = struct{}{}
}

// Len returns the number of cataloged entries.
func (c *FileCatalog[K]) Len() int {
	return len(c.paths)
}

// Groups returns every group with at least two members. Singleton keys
// are never surfaced: a file with a unique key cannot become a reported
// duplicate. Group enumeration order is unspecified.
func (c *FileCatalog[K]) Groups() [][]*m.FileEntry {
	var groups [][]*m.FileEntry

	for _, entries := range c.store {
		if len(entries) > 1 {
			groups = append(groups, entries)
		}
	}

	return groups
}
