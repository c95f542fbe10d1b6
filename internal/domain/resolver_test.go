package domain

import (
	"testing"
	"time"

	m "treedup.dev/pkg/treedup/internal/model"
)

func newSourcedEntry(path m.Path, source *m.Source, modTime time.Time) *m.FileEntry {
	return m.NewFileEntry(path, source, 10, modTime)
}

func pathsOf(entries []*m.FileEntry) []string {
	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = string(entry.Path)
	}

	return paths
}

func assertPaths(t *testing.T, got []*m.FileEntry, want ...string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", pathsOf(got), want)
	}

	for i, entry := range got {
		if string(entry.Path) != want[i] {
			t.Fatalf("got %v, want %v", pathsOf(got), want)
		}
	}
}

func TestSortBasedResolver(t *testing.T) {
	rankBySize := func(entry *m.FileEntry) int64 { return entry.Size }

	entryWithRank := func(path m.Path, rank int64) *m.FileEntry {
		return m.NewFileEntry(path, nil, rank, time.Now())
	}

	t.Run("empty and single-entry groups pass through", func(t *testing.T) {
		resolver := NewSortBasedResolver(rankBySize, false)

		originals, duplicates, err := resolver.Resolve(nil)
		if err != nil || len(originals) != 0 || len(duplicates) != 0 {
			t.Fatalf("Resolve(nil) = %v, %v, %v", originals, duplicates, err)
		}

		one := []*m.FileEntry{entryWithRank("/a", 1)}

		originals, duplicates, err = resolver.Resolve(one)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		assertPaths(t, originals, "/a")
		assertPaths(t, duplicates)
	})

	t.Run("splits at the first rank change", func(t *testing.T) {
		resolver := NewSortBasedResolver(rankBySize, false)

		originals, duplicates, err := resolver.Resolve([]*m.FileEntry{
			entryWithRank("/c", 3),
			entryWithRank("/a", 1),
			entryWithRank("/b", 2),
		})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		assertPaths(t, originals, "/a")
		assertPaths(t, duplicates, "/b", "/c")
	})

	t.Run("entries tied for the best rank all stay originals", func(t *testing.T) {
		resolver := NewSortBasedResolver(rankBySize, false)

		originals, duplicates, err := resolver.Resolve([]*m.FileEntry{
			entryWithRank("/a", 1),
			entryWithRank("/b", 1),
			entryWithRank("/c", 2),
		})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		assertPaths(t, originals, "/a", "/b")
		assertPaths(t, duplicates, "/c")
	})

	t.Run("all ranks equal returns the whole group and no duplicates", func(t *testing.T) {
		resolver := NewSortBasedResolver(rankBySize, false)

		originals, duplicates, err := resolver.Resolve([]*m.FileEntry{
			entryWithRank("/a", 5),
			entryWithRank("/b", 5),
			entryWithRank("/c", 5),
		})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		if len(originals) != 3 || len(duplicates) != 0 {
			t.Fatalf("all-equal group lost entries: originals=%v duplicates=%v",
				pathsOf(originals), pathsOf(duplicates))
		}
	})

	t.Run("reverse selects the opposite extreme", func(t *testing.T) {
		resolver := NewSortBasedResolver(rankBySize, true)

		originals, duplicates, err := resolver.Resolve([]*m.FileEntry{
			entryWithRank("/a", 1),
			entryWithRank("/b", 2),
			entryWithRank("/c", 3),
		})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		assertPaths(t, originals, "/c")
		assertPaths(t, duplicates, "/b", "/a")
	})
}

func TestPathLengthResolver(t *testing.T) {
	shallow := m.NewSource("/one", 1, nil)
	deep := m.NewSource("/two", 2, nil)

	now := time.Now()

	originals, duplicates, err := NewPathLengthResolver(false).Resolve([]*m.FileEntry{
		newSourcedEntry("/one/a/b/file", shallow, now),
		newSourcedEntry("/two/file", deep, now),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// Depth is counted below the owning source's root.
	assertPaths(t, originals, "/two/file")
	assertPaths(t, duplicates, "/one/a/b/file")
}

func TestSourceOrderResolver(t *testing.T) {
	first := m.NewSource("/one", 1, nil)
	second := m.NewSource("/two", 2, nil)

	now := time.Now()
	group := []*m.FileEntry{
		newSourcedEntry("/two/file", second, now),
		newSourcedEntry("/one/file", first, now),
	}

	t.Run("earliest source wins", func(t *testing.T) {
		originals, duplicates, err := NewSourceOrderResolver(false).Resolve(group)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		assertPaths(t, originals, "/one/file")
		assertPaths(t, duplicates, "/two/file")
	})

	t.Run("reverse prefers the latest source", func(t *testing.T) {
		originals, duplicates, err := NewSourceOrderResolver(true).Resolve(group)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		assertPaths(t, originals, "/two/file")
		assertPaths(t, duplicates, "/one/file")
	})
}

func TestModificationDateResolver(t *testing.T) {
	older := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)

	originals, duplicates, err := NewModificationDateResolver(false).Resolve([]*m.FileEntry{
		newSourcedEntry("/a", nil, newer),
		newSourcedEntry("/b", nil, older),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	assertPaths(t, originals, "/b")
	assertPaths(t, duplicates, "/a")
}

func TestCopyPatternResolver(t *testing.T) {
	resolver := NewCopyPatternResolver()

	originals, duplicates, err := resolver.Resolve([]*m.FileEntry{
		newSourcedEntry("/data/report.txt", nil, time.Now()),
		newSourcedEntry("/data/Copy of report.txt", nil, time.Now()),
		newSourcedEntry("/data/report copy 2.txt", nil, time.Now()),
		newSourcedEntry("/data/1_report.txt", nil, time.Now()),
		newSourcedEntry("/data/report(1).txt", nil, time.Now()),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	assertPaths(t, originals, "/data/report.txt")
	assertPaths(t, duplicates,
		"/data/Copy of report.txt",
		"/data/report copy 2.txt",
		"/data/1_report.txt",
		"/data/report(1).txt",
	)
}

func TestFilenameSortResolver(t *testing.T) {
	resolver := NewFilenameSortResolver()

	originals, duplicates, err := resolver.Resolve([]*m.FileEntry{
		newSourcedEntry("/x/charlie.txt", nil, time.Now()),
		newSourcedEntry("/y/alpha.txt", nil, time.Now()),
		newSourcedEntry("/z/bravo.txt", nil, time.Now()),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// Forces full resolution: one survivor, everything else flagged.
	assertPaths(t, originals, "/y/alpha.txt")
	assertPaths(t, duplicates, "/z/bravo.txt", "/x/charlie.txt")
}
