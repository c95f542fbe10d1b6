package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	m "treedup.dev/pkg/treedup/internal/model"
)

// SourceWalker enumerates the files under a source root. Implementations
// apply the source's filter, prune rejected subdirectories before
// descent, and hand the caller one entry per surviving regular file with
// its metadata snapshot already captured. A stat or traversal failure
// aborts the walk rather than silently skipping the file; partial
// cataloging could misclassify duplicates.
type SourceWalker interface {
	WalkSource(source *m.Source, visit func(entry *m.FileEntry) error) error
}

// DuplicateFileSink consumes the consolidated duplicate list at the end
// of a run and disposes of the files.
type DuplicateFileSink interface {
	Sink(entries []*m.FileEntry) error
}

// DeduplicateOperation orchestrates one run: it catalogs all sources by
// size, re-catalogs size collisions by content digest, narrows each
// confirmed group through the resolver chain, and hands every entry
// judged duplicate to the sink in a single call. The operation holds no
// state across runs.
type DeduplicateOperation struct {
	sources   []*m.Source
	resolvers []Resolver
	sink      DuplicateFileSink
	walker    SourceWalker
	hasher    m.Hasher
	threads   int
}

// NewDeduplicateOperation validates and assembles an operation. The sink,
// walker, and hasher are required, as is at least one source; an empty
// resolver chain is legal and disposes of nothing. threads bounds the
// digest worker pool and is clamped to at least 1.
func NewDeduplicateOperation(
	sources []*m.Source,
	resolvers []Resolver,
	sink DuplicateFileSink,
	walker SourceWalker,
	hasher m.Hasher,
	threads int,
) (*DeduplicateOperation, error) {
	if len(sources) == 0 {
		return nil, errors.New("at least one source is required")
	}

	if sink == nil {
		return nil, errors.New("a sink is required")
	}

	if walker == nil {
		return nil, errors.New("a source walker is required")
	}

	if hasher == nil {
		return nil, errors.New("a hasher is required")
	}

	if threads < 1 {
		threads = 1
	}

	return &DeduplicateOperation{
		sources:   sources,
		resolvers: resolvers,
		sink:      sink,
		walker:    walker,
		hasher:    hasher,
		threads:   threads,
	}, nil
}

// FindDuplicateGroups performs the two cataloging passes and returns the
// confirmed duplicate groups (identical size and digest) along with the
// number of files scanned and the number of size-collision groups.
// Group enumeration order is unspecified.
func (op *DeduplicateOperation) FindDuplicateGroups(ctx context.Context) ([][]*m.FileEntry, m.RunSummary, error) {
	var summary m.RunSummary

	// First pass: group candidates by file size. Zero-byte files carry
	// no key and are never treated as duplicates of one another.
	sizeCatalog := NewFileCatalog[int64](func(entry *m.FileEntry) (int64, bool) {
		return entry.Size, entry.Size != 0
	})

	slog.Info("building file catalog", "sources", len(op.sources))

	scanned := 0

	for _, source := range op.sources {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}

		slog.Info("walking source", "order", source.Order, "root", source.Root)

		err := op.walker.WalkSource(source, func(entry *m.FileEntry) error {
			scanned++
			sizeCatalog.AddEntry(entry)

			return nil
		})
		if err != nil {
			return nil, summary, fmt.Errorf("walk source %d (%s): %w", source.Order, source.Root, err)
		}
	}

	summary.ScannedFiles = scanned
	sizeGroups := sizeCatalog.Groups()
	summary.CandidateGroups = len(sizeGroups)

	// Second pass: confirm candidates by content digest.
	slog.Info("identifying duplicate file groups", "candidate_groups", len(sizeGroups))

	var candidates []*m.FileEntry
	for _, group := range sizeGroups {
		candidates = append(candidates, group...)
	}

	if err := op.digestAll(ctx, candidates); err != nil {
		return nil, summary, err
	}

	digestCatalog := NewFileCatalog[string](func(entry *m.FileEntry) (string, bool) {
		return entry.CachedDigest(), entry.CachedDigest() != ""
	})

	for _, entry := range candidates {
		digestCatalog.AddEntry(entry)
	}

	groups := digestCatalog.Groups()
	summary.DuplicateGroups = len(groups)

	return groups, summary, nil
}

// digestAll computes the digest of every candidate, with a bounded
// worker pool when the operation is configured for more than one thread.
// Any unreadable file fails the whole pass; an entry that cannot be
// hashed cannot be classified.
func (op *DeduplicateOperation) digestAll(ctx context.Context, entries []*m.FileEntry) error {
	if op.threads <= 1 {
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}

			if _, err := entry.Digest(op.hasher); err != nil {
				return err
			}
		}

		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(op.threads)

	for _, entry := range entries {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			_, err := entry.Digest(op.hasher)

			return err
		})
	}

	return group.Wait()
}

// Run executes the full operation and reports what happened. A user
// cancellation from an interactive resolver propagates out before the
// sink is invoked.
func (op *DeduplicateOperation) Run(ctx context.Context) (m.RunReport, error) {
	report := m.RunReport{GeneratedAt: time.Now()}

	for _, source := range op.sources {
		report.Sources = append(report.Sources, m.SourceReport{
			Root:  string(source.Root),
			Order: source.Order,
		})
	}

	groups, summary, err := op.FindDuplicateGroups(ctx)
	if err != nil {
		return report, err
	}

	report.Summary = summary

	var toSink []*m.FileEntry

	for _, group := range groups {
		originals, duplicates, err := op.resolveGroup(group)
		if err != nil {
			return report, err
		}

		toSink = append(toSink, duplicates...)

		groupReport := m.GroupReport{
			Digest:    group[0].CachedDigest(),
			Size:      group[0].Size,
			Originals: entryPaths(originals),
		}

		if len(originals) > 1 {
			groupReport.Unresolved = true
			report.Summary.UnresolvedGroups++

			slog.Info("unable to resolve duplicates, keeping all as originals",
				"digest", groupReport.Digest, "files", groupReport.Originals)
		} else {
			groupReport.Duplicates = entryPaths(duplicates)

			slog.Debug("resolved duplicate group",
				"original", groupReport.Originals[0], "duplicates", len(duplicates))
		}

		report.Groups = append(report.Groups, groupReport)
	}

	sort.Slice(report.Groups, func(i, j int) bool {
		return report.Groups[i].Digest < report.Groups[j].Digest
	})

	report.Summary.DuplicateFiles = len(toSink)

	slog.Info("finished", "duplicate_files", len(toSink))

	if err := op.sink.Sink(toSink); err != nil {
		return report, fmt.Errorf("sink duplicates: %w", err)
	}

	return report, nil
}

// resolveGroup narrows one confirmed duplicate group through the chain.
// Resolvers run left to right, each on the survivors of the previous
// stage, stopping once a single original remains. A resolver that flags
// every remaining candidate as duplicate contributes no information: the
// candidate set is reset to what it rejected and the next resolver gets
// a chance, so an overzealous policy can never empty a group on its own.
func (op *DeduplicateOperation) resolveGroup(group []*m.FileEntry) ([]*m.FileEntry, []*m.FileEntry, error) {
	slog.Debug("resolving duplicate group", "size", len(group), "files", entryPaths(group))

	originals := group

	var confirmed []*m.FileEntry

	for _, resolver := range op.resolvers {
		newOriginals, newDuplicates, err := resolver.Resolve(originals)
		if err != nil {
			return nil, nil, err
		}

		if len(newOriginals) == 0 {
			originals = newDuplicates
			continue
		}

		confirmed = append(confirmed, newDuplicates...)
		originals = newOriginals

		if len(originals) == 1 {
			break
		}
	}

	return originals, confirmed, nil
}

func entryPaths(entries []*m.FileEntry) []string {
	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = string(entry.Path)
	}

	return paths
}
