// Package controller provides the operator-facing surfaces of treedup:
// the pickers that drive interactive resolution and the tabular views
// used by the list and scan commands.
package controller

import (
	"os"

	"golang.org/x/term"
)

// PickOutcome is the operator's decision for one duplicate group.
type PickOutcome int

// Available PickOutcome values.
const (
	// PickKeep selects one entry to retain; the rest are duplicates.
	PickKeep PickOutcome = iota
	// PickSkip leaves the whole group unresolved.
	PickSkip
	// PickQuit aborts the entire run.
	PickQuit
)

// Pick is the result of presenting one group to the operator. KeepIndex
// is a 0-based index into the presented path list, meaningful only when
// Outcome is PickKeep.
type Pick struct {
	Outcome   PickOutcome
	KeepIndex int
}

// Picker presents a group of duplicate file paths to an operator and
// returns the operator's decision.
type Picker interface {
	PickOriginal(paths []string) (Pick, error)
}

// IsTTY reports whether the file is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
