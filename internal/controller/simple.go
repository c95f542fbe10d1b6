package controller

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "treedup.dev/pkg/treedup/internal/model"
)

// SimplePicker implements Picker over the cobra command's plain input
// and output streams. It is the non-TTY fallback.
type SimplePicker struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

// NewSimplePicker creates a SimplePicker bound to cmd's streams. One
// reader lives for the picker's lifetime: input buffered ahead of one
// group's answer must stay available for the following groups.
func NewSimplePicker(cmd *cobra.Command) *SimplePicker {
	return &SimplePicker{
		cmd:    cmd,
		reader: bufio.NewReader(cmd.InOrStdin()),
	}
}

// PickOriginal lists the group with 1-based numbers and reads one line:
// a number to keep that entry, "s" to skip the group, "e" to exit.
// Unrecognized input is re-prompted.
func (p *SimplePicker) PickOriginal(paths []string) (Pick, error) {
	for i, path := range paths {
		p.printf("%2d\t%s\n", i+1, path)
	}

	for {
		p.printf("Enter file number to retain, 's' to skip this group, or 'e' to exit: ")

		line, err := p.reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				// Input exhausted counts as an exit request.
				return Pick{Outcome: PickQuit}, nil
			}

			return Pick{}, fmt.Errorf("read choice: %w", err)
		}

		switch choice := strings.ToLower(strings.TrimSpace(line)); choice {
		case "e":
			return Pick{Outcome: PickQuit}, nil
		case "s":
			return Pick{Outcome: PickSkip}, nil
		default:
			n, convErr := strconv.Atoi(choice)
			if convErr != nil || n < 1 || n > len(paths) {
				p.printf("Invalid choice %q.\n", choice)
				continue
			}

			return Pick{Outcome: PickKeep, KeepIndex: n - 1}, nil
		}
	}
}

func (p *SimplePicker) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.cmd.OutOrStdout(), format, args...)
}

// RenderGroupTable renders confirmed duplicate groups as a table, one
// row per file. Groups are ordered by their first path so the output is
// stable across runs.
func RenderGroupTable(groups [][]*m.FileEntry) string {
	ordered := make([][]*m.FileEntry, len(groups))
	copy(ordered, groups)

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i][0].Path < ordered[j][0].Path
	})

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Group", "Size", "Path"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_CENTER, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	files := 0

	for i, group := range ordered {
		sorted := make([]*m.FileEntry, len(group))
		copy(sorted, group)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a].Path < sorted[b].Path })

		for _, entry := range sorted {
			table.Append([]string{
				fmt.Sprintf("%d", i+1),
				fmt.Sprintf("%d", entry.Size),
				string(entry.Path),
			})

			files++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d groups", len(ordered)),
		"",
		fmt.Sprintf("%d files", files),
	})

	table.Render()

	return buf.String()
}

// RenderSummaryTable renders the end-of-run counters.
func RenderSummaryTable(summary m.RunSummary) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	table.Append([]string{"Scanned files", fmt.Sprintf("%d", summary.ScannedFiles)})
	table.Append([]string{"Candidate groups", fmt.Sprintf("%d", summary.CandidateGroups)})
	table.Append([]string{"Duplicate groups", fmt.Sprintf("%d", summary.DuplicateGroups)})
	table.Append([]string{"Unresolved groups", fmt.Sprintf("%d", summary.UnresolvedGroups)})
	table.Append([]string{"Duplicate files", fmt.Sprintf("%d", summary.DuplicateFiles)})

	table.Render()

	return buf.String()
}
