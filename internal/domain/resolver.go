package domain

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "treedup.dev/pkg/treedup/internal/model"
)

// Resolver splits a group of confirmed duplicates into the entries to
// keep ("originals") and the entries to dispose of ("duplicates")
// according to one policy. Implementations are stateless per call.
type Resolver interface {
	Resolve(entries []*m.FileEntry) (originals, duplicates []*m.FileEntry, err error)
}

// RankFunc projects an entry onto a sortable rank.
type RankFunc func(entry *m.FileEntry) int64

// SortBasedResolver ranks every entry, sorts, and splits at the first
// position whose rank differs from the extreme rank. All entries tied
// for the extreme rank stay originals, so a group where every rank is
// equal loses nothing.
type SortBasedResolver struct {
	rank    RankFunc
	reverse bool
}

// NewSortBasedResolver builds a resolver around rank. With reverse set,
// the highest rank wins instead of the lowest.
func NewSortBasedResolver(rank RankFunc, reverse bool) *SortBasedResolver {
	return &SortBasedResolver{rank: rank, reverse: reverse}
}

// Resolve implements Resolver. Ties in rank are ordered by path so the
// outcome does not depend on group enumeration order.
func (r *SortBasedResolver) Resolve(entries []*m.FileEntry) ([]*m.FileEntry, []*m.FileEntry, error) {
	if len(entries) < 2 {
		return entries, nil, nil
	}

	sorted := make([]*m.FileEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := r.rank(sorted[i]), r.rank(sorted[j])
		if ri != rj {
			if r.reverse {
				return ri > rj
			}

			return ri < rj
		}

		return sorted[i].Path < sorted[j].Path
	})

	best := r.rank(sorted[0])
	for i := 1; i < len(sorted); i++ {
		if r.rank(sorted[i]) != best {
			// Found the point where the sorting is meaningful.
			return sorted[:i], sorted[i:], nil
		}
	}

	return sorted, nil, nil
}

// NewPathLengthResolver resolves by the shortest path depth, counted in
// components below the owning source's root. Shorter wins unless reverse
// is set.
func NewPathLengthResolver(reverse bool) *SortBasedResolver {
	return NewSortBasedResolver(func(entry *m.FileEntry) int64 {
		sep := string(os.PathSeparator)
		depth := len(strings.Split(string(entry.Path), sep)) -
			len(strings.Split(string(entry.Source.Root), sep))

		return int64(depth)
	}, reverse)
}

// NewSourceOrderResolver resolves by the order of the sources as given
// by the caller. The earliest-specified source wins unless reverse is set.
func NewSourceOrderResolver(reverse bool) *SortBasedResolver {
	return NewSortBasedResolver(func(entry *m.FileEntry) int64 {
		return int64(entry.Source.Order)
	}, reverse)
}

// NewModificationDateResolver resolves by the snapshotted modification
// time. The earliest-modified entry wins unless reverse is set.
func NewModificationDateResolver(reverse bool) *SortBasedResolver {
	return NewSortBasedResolver(func(entry *m.FileEntry) int64 {
		return entry.ModTime.UnixNano()
	}, reverse)
}

// copyPatterns are filename shapes left behind by common copy tools.
var copyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^Copy of`),
	regexp.MustCompile(`.* copy [0-9]+\.[a-zA-Z0-9]{3}$`),
	regexp.MustCompile(`^[0-9]_.+`),
	regexp.MustCompile(`.*\([0-9]\)\.[a-zA-Z0-9]{3}$`),
}

// CopyPatternResolver classifies by filename: entries whose base name
// matches a known copy pattern are duplicates, everything else is an
// original. No ranking is involved.
type CopyPatternResolver struct{}

// NewCopyPatternResolver constructs a CopyPatternResolver.
func NewCopyPatternResolver() *CopyPatternResolver {
	return &CopyPatternResolver{}
}

// Resolve implements Resolver.
func (r *CopyPatternResolver) Resolve(entries []*m.FileEntry) ([]*m.FileEntry, []*m.FileEntry, error) {
	var originals, duplicates []*m.FileEntry

	for _, entry := range entries {
		name := filepath.Base(string(entry.Path))

		matched := false
		for _, pattern := range copyPatterns {
			if pattern.MatchString(name) {
				matched = true
				break
			}
		}

		if matched {
			duplicates = append(duplicates, entry)
		} else {
			originals = append(originals, entry)
		}
	}

	return originals, duplicates, nil
}

// FilenameSortResolver forces full resolution: it keeps only the single
// entry that sorts first by base name and flags everything else.
type FilenameSortResolver struct{}

// NewFilenameSortResolver constructs a FilenameSortResolver.
func NewFilenameSortResolver() *FilenameSortResolver {
	return &FilenameSortResolver{}
}

// Resolve implements Resolver.
func (r *FilenameSortResolver) Resolve(entries []*m.FileEntry) ([]*m.FileEntry, []*m.FileEntry, error) {
	if len(entries) == 0 {
		return entries, nil, nil
	}

	sorted := make([]*m.FileEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		ni := filepath.Base(string(sorted[i].Path))
		nj := filepath.Base(string(sorted[j].Path))
		if ni != nj {
			return ni < nj
		}

		return sorted[i].Path < sorted[j].Path
	})

	return sorted[:1], sorted[1:], nil
}
