package domain

import (
	"testing"
	"time"

	m "treedup.dev/pkg/treedup/internal/model"
)

func sizeKey(entry *m.FileEntry) (int64, bool) {
	return entry.Size, entry.Size != 0
}

func newTestEntry(path m.Path, size int64) *m.FileEntry {
	return m.NewFileEntry(path, nil, size, time.Now())
}

func TestFileCatalog(t *testing.T) {
	t.Run("groups entries sharing a key", func(t *testing.T) {
		catalog := NewFileCatalog(sizeKey)
		catalog.AddEntry(newTestEntry("/a", 10))
		catalog.AddEntry(newTestEntry("/b", 10))
		catalog.AddEntry(newTestEntry("/c", 20))

		groups := catalog.Groups()
		if len(groups) != 1 {
			t.Fatalf("Groups() returned %d groups, want 1", len(groups))
		}

		if len(groups[0]) != 2 {
			t.Fatalf("group has %d members, want 2", len(groups[0]))
		}

		// Insertion order is preserved within the group.
		if groups[0][0].Path != "/a" || groups[0][1].Path != "/b" {
			t.Fatalf("group order = %s, %s; want /a, /b", groups[0][0].Path, groups[0][1].Path)
		}
	})

	t.Run("singleton keys are never surfaced", func(t *testing.T) {
		catalog := NewFileCatalog(sizeKey)
		catalog.AddEntry(newTestEntry("/a", 10))
		catalog.AddEntry(newTestEntry("/b", 20))

		if groups := catalog.Groups(); len(groups) != 0 {
			t.Fatalf("Groups() returned %d groups, want 0", len(groups))
		}
	})

	t.Run("adding the same path twice is a no-op", func(t *testing.T) {
		catalog := NewFileCatalog(sizeKey)
		catalog.AddEntry(newTestEntry("/a", 10))
		catalog.AddEntry(newTestEntry("/a", 10))
		catalog.AddEntry(newTestEntry("/b", 10))

		groups := catalog.Groups()
		if len(groups) != 1 || len(groups[0]) != 2 {
			t.Fatalf("re-adding a path grew the group: %v", groups)
		}
	})

	t.Run("no-key entries are invisible", func(t *testing.T) {
		catalog := NewFileCatalog(sizeKey)
		catalog.AddEntry(newTestEntry("/empty1", 0))
		catalog.AddEntry(newTestEntry("/empty2", 0))

		if groups := catalog.Groups(); len(groups) != 0 {
			t.Fatalf("zero-byte files formed a group: %v", groups)
		}

		if catalog.Len() != 0 {
			t.Fatalf("Len() = %d, want 0", catalog.Len())
		}
	})
}
