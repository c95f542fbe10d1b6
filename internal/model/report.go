package model

import "time"

// RunSummary holds the counters reported at the end of a deduplicate run.
type RunSummary struct {
	ScannedFiles     int `yaml:"scanned_files"`
	CandidateGroups  int `yaml:"candidate_groups"`
	DuplicateGroups  int `yaml:"duplicate_groups"`
	UnresolvedGroups int `yaml:"unresolved_groups"`
	DuplicateFiles   int `yaml:"duplicate_files"`
}

// GroupReport describes how one confirmed duplicate group was resolved.
type GroupReport struct {
	Digest     string   `yaml:"digest"`
	Size       int64    `yaml:"size"`
	Originals  []string `yaml:"originals"`
	Duplicates []string `yaml:"duplicates,omitempty"`
	Unresolved bool     `yaml:"unresolved,omitempty"`
}

// SourceReport identifies one scanned source in a run report.
type SourceReport struct {
	Root  string `yaml:"root"`
	Order int    `yaml:"order"`
}

// RunReport is the full record of one deduplicate run, written by the
// report store when the caller asks for one.
type RunReport struct {
	GeneratedAt time.Time      `yaml:"generated_at"`
	Sources     []SourceReport `yaml:"sources"`
	Groups      []GroupReport  `yaml:"groups"`
	Summary     RunSummary     `yaml:"summary"`
}
