package controller

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	m "treedup.dev/pkg/treedup/internal/model"
)

func newPickerCmd(input string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(out)
	cmd.SetErr(out)

	return cmd, out
}

func TestSimplePicker_PickOriginal(t *testing.T) {
	paths := []string{"/data/a", "/data/b", "/data/c"}

	t.Run("a number keeps that entry", func(t *testing.T) {
		cmd, out := newPickerCmd("2\n")

		pick, err := NewSimplePicker(cmd).PickOriginal(paths)
		if err != nil {
			t.Fatalf("PickOriginal() error = %v", err)
		}

		if pick.Outcome != PickKeep || pick.KeepIndex != 1 {
			t.Fatalf("pick = %+v, want keep index 1", pick)
		}

		for _, path := range paths {
			if !strings.Contains(out.String(), path) {
				t.Fatalf("prompt did not list %s:\n%s", path, out.String())
			}
		}
	})

	t.Run("s skips the group", func(t *testing.T) {
		cmd, _ := newPickerCmd("s\n")

		pick, err := NewSimplePicker(cmd).PickOriginal(paths)
		if err != nil {
			t.Fatalf("PickOriginal() error = %v", err)
		}

		if pick.Outcome != PickSkip {
			t.Fatalf("pick = %+v, want skip", pick)
		}
	})

	t.Run("e exits the run", func(t *testing.T) {
		cmd, _ := newPickerCmd("E\n")

		pick, err := NewSimplePicker(cmd).PickOriginal(paths)
		if err != nil {
			t.Fatalf("PickOriginal() error = %v", err)
		}

		if pick.Outcome != PickQuit {
			t.Fatalf("pick = %+v, want quit", pick)
		}
	})

	t.Run("invalid input is re-prompted", func(t *testing.T) {
		cmd, out := newPickerCmd("9\nbogus\n3\n")

		pick, err := NewSimplePicker(cmd).PickOriginal(paths)
		if err != nil {
			t.Fatalf("PickOriginal() error = %v", err)
		}

		if pick.Outcome != PickKeep || pick.KeepIndex != 2 {
			t.Fatalf("pick = %+v, want keep index 2", pick)
		}

		if !strings.Contains(out.String(), "Invalid choice") {
			t.Fatalf("no re-prompt message:\n%s", out.String())
		}
	})

	t.Run("one picker answers several groups from buffered input", func(t *testing.T) {
		cmd, _ := newPickerCmd("1\n2\n")
		picker := NewSimplePicker(cmd)

		first, err := picker.PickOriginal(paths)
		if err != nil {
			t.Fatalf("PickOriginal() error = %v", err)
		}

		if first.Outcome != PickKeep || first.KeepIndex != 0 {
			t.Fatalf("first pick = %+v, want keep index 0", first)
		}

		second, err := picker.PickOriginal(paths)
		if err != nil {
			t.Fatalf("PickOriginal() error = %v", err)
		}

		if second.Outcome != PickKeep || second.KeepIndex != 1 {
			t.Fatalf("second pick = %+v, want keep index 1", second)
		}
	})

	t.Run("exhausted input counts as exit", func(t *testing.T) {
		cmd, _ := newPickerCmd("")

		pick, err := NewSimplePicker(cmd).PickOriginal(paths)
		if err != nil {
			t.Fatalf("PickOriginal() error = %v", err)
		}

		if pick.Outcome != PickQuit {
			t.Fatalf("pick = %+v, want quit on EOF", pick)
		}
	})
}

func TestRenderGroupTable(t *testing.T) {
	source := m.NewSource("/data", 1, nil)

	groups := [][]*m.FileEntry{
		{
			m.NewFileEntry("/data/z/file", source, 64, time.Now()),
			m.NewFileEntry("/data/a/file", source, 64, time.Now()),
		},
	}

	rendered := RenderGroupTable(groups)

	for _, want := range []string{"/data/a/file", "/data/z/file", "1 groups", "2 files"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("table missing %q:\n%s", want, rendered)
		}
	}

	// Paths within a group are sorted for stable output.
	if strings.Index(rendered, "/data/a/file") > strings.Index(rendered, "/data/z/file") {
		t.Fatalf("group members not sorted:\n%s", rendered)
	}
}

func TestRenderSummaryTable(t *testing.T) {
	rendered := RenderSummaryTable(m.RunSummary{
		ScannedFiles:    12,
		DuplicateFiles:  4,
		DuplicateGroups: 2,
	})

	for _, want := range []string{"Scanned files", "12", "Duplicate files", "4"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("summary missing %q:\n%s", want, rendered)
		}
	}
}
