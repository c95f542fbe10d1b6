// Package adapter contains the filesystem-facing implementations behind
// the treedup domain: source traversal, content hashing, the duplicate
// file sinks, and the run report store.
package adapter

import (
	"crypto/sha512"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	m "treedup.dev/pkg/treedup/internal/model"
)

// LocalScanFS walks sources and hashes files on the local filesystem. It
// implements domain.SourceWalker and model.Hasher.
type LocalScanFS struct{}

// NewLocalScanFS constructs a LocalScanFS ready to be wired into the
// deduplicate operation.
func NewLocalScanFS() *LocalScanFS {
	return &LocalScanFS{}
}

// WalkSource enumerates every regular file under the source root in
// directory-tree order. Subdirectories rejected by the source's filter
// are pruned before descent, so nothing inside them is visited. Each
// surviving file is stat'ed once and handed to visit as a new entry.
// Traversal and stat errors abort the walk; a file that cannot be
// described cannot be classified.
func (a *LocalScanFS) WalkSource(source *m.Source, visit func(entry *m.FileEntry) error) error {
	root := string(source.Root)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		dir := m.Path(filepath.Dir(path))

		if d.IsDir() {
			if path == root {
				return nil
			}

			if source.Filter != nil && !source.Filter.DescendInto(name, dir) {
				return filepath.SkipDir
			}

			return nil
		}

		if source.Filter != nil && !source.Filter.IncludeFile(name, dir) {
			return nil
		}

		// Stat (following symlinks) captures the metadata snapshot.
		info, statErr := os.Stat(path)
		if statErr != nil {
			return fmt.Errorf("stat %s: %w", path, statErr)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return visit(m.NewFileEntry(m.Path(path), source, info.Size(), info.ModTime()))
	})
}

// DigestFile returns the SHA-512 hex digest of the file's full content,
// streamed so memory use is independent of file size.
func (a *LocalScanFS) DigestFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha512.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// JoinUnderRoot rejoins an absolute path under root component-wise, so
// the original directory structure is preserved below the new root. The
// volume name is stripped first so Windows paths nest as well.
func JoinUnderRoot(root, path m.Path) m.Path {
	cleaned := filepath.Clean(string(path))
	rest := strings.TrimPrefix(cleaned, filepath.VolumeName(cleaned))

	elems := append([]string{string(root)}, strings.Split(rest, string(os.PathSeparator))...)

	return m.Path(filepath.Join(elems...))
}
