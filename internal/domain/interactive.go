package domain

import (
	"errors"
	"sort"

	"treedup.dev/pkg/treedup/internal/controller"
	m "treedup.dev/pkg/treedup/internal/model"
)

// ErrUserCanceled is returned when the operator aborts an interactive
// run. It propagates out of the whole operation; nothing further is
// resolved or sunk once it is raised.
var ErrUserCanceled = errors.New("run canceled by user")

// InteractiveResolver asks an operator to resolve each group: keep one
// entry by number, skip the group, or abort the run.
type InteractiveResolver struct {
	picker controller.Picker
}

// NewInteractiveResolver constructs an InteractiveResolver around picker.
func NewInteractiveResolver(picker controller.Picker) *InteractiveResolver {
	return &InteractiveResolver{picker: picker}
}

// Resolve implements Resolver. Entries are presented sorted by path.
func (r *InteractiveResolver) Resolve(entries []*m.FileEntry) ([]*m.FileEntry, []*m.FileEntry, error) {
	sorted := make([]*m.FileEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	paths := make([]string, len(sorted))
	for i, entry := range sorted {
		paths[i] = string(entry.Path)
	}

	pick, err := r.picker.PickOriginal(paths)
	if err != nil {
		return nil, nil, err
	}

	switch pick.Outcome {
	case controller.PickQuit:
		return nil, nil, ErrUserCanceled
	case controller.PickSkip:
		return entries, nil, nil
	case controller.PickKeep:
	}

	keep := pick.KeepIndex
	originals := []*m.FileEntry{sorted[keep]}
	duplicates := append(append([]*m.FileEntry{}, sorted[:keep]...), sorted[keep+1:]...)

	return originals, duplicates, nil
}
