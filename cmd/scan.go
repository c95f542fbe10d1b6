package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"treedup.dev/pkg/treedup/internal/adapter"
	"treedup.dev/pkg/treedup/internal/controller"
	"treedup.dev/pkg/treedup/internal/domain"
	m "treedup.dev/pkg/treedup/internal/model"
)

// Sink names accepted by --sink.
const (
	sinkDelete     = "delete"
	sinkSequester  = "sequester"
	sinkOutputOnly = "output-only"
)

var scanResolverSpecs []string
var scanSinkName string
var scanSequesterPath string
var scanOutputPath string
var scanReportPath string
var scanParallelFlag int

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [sources...]",
		Short: "Find duplicates and dispose of them",
		Long:  scanLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger(logFileFlag, verboseFlag)

			op, closeSink, err := assembleOperation(cmd, args)
			if err != nil {
				return err
			}

			if closeSink != nil {
				defer closeSink()
			}

			report, err := op.Run(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrUserCanceled) {
					cmd.Println("Run canceled; nothing further was disposed.")
				}

				return err
			}

			cmd.Printf("\n%s", controller.RenderSummaryTable(report.Summary))

			if scanReportPath != "" {
				if err := reportStore.SaveReport(m.Path(scanReportPath), report); err != nil {
					return err
				}

				cmd.Printf("Run report written to %s\n", scanReportPath)
			}

			return nil
		},
	}

	configureScanFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func configureScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&scanResolverSpecs, "resolver", "r", nil,
		"resolver to apply, optionally NAME:asc|desc for sort-based ones (repeat to chain, required)")
	cmd.Flags().StringVar(&scanSinkName, "sink", "",
		"how to dispose of duplicates: delete, sequester, or output-only (required)")
	cmd.Flags().StringVar(&scanSequesterPath, "sequester-path", "",
		"root directory duplicates are moved under (required with --sink sequester)")
	cmd.Flags().StringVar(&scanOutputPath, "output-path", "",
		"file the output-only sink writes to (default standard output)")
	cmd.Flags().StringVar(&scanReportPath, "report-file", "",
		"write a YAML report of the run to this file")
	cmd.Flags().IntVarP(&scanParallelFlag, scanParallelFlagName, "p",
		viper.GetInt(scanParallelConfigKey), "number of parallel workers for content hashing")
	bindFlagToConfig(cmd.Flags().Lookup(scanParallelFlagName), scanParallelConfigKey)
}

// assembleOperation validates the whole scan configuration and wires the
// operation together. Every configuration error is reported here, before
// any traversal begins.
func assembleOperation(cmd *cobra.Command, args []string) (*domain.DeduplicateOperation, func(), error) {
	filter, err := buildSourceFilter()
	if err != nil {
		return nil, nil, err
	}

	sources, err := buildSources(args, filter)
	if err != nil {
		return nil, nil, err
	}

	resolvers, err := buildResolverChain(cmd, scanResolverSpecs)
	if err != nil {
		return nil, nil, err
	}

	sink, closeSink, err := buildSink(cmd)
	if err != nil {
		return nil, nil, err
	}

	op, err := domain.NewDeduplicateOperation(
		sources,
		resolvers,
		sink,
		scanFS,
		scanFS,
		viper.GetInt(scanParallelConfigKey),
	)
	if err != nil {
		if closeSink != nil {
			closeSink()
		}

		return nil, nil, err
	}

	return op, closeSink, nil
}

// buildResolverChain parses the ordered --resolver specs. At least one
// resolver is required; a sort direction is only accepted on sort-based
// resolvers.
func buildResolverChain(cmd *cobra.Command, specs []string) ([]domain.Resolver, error) {
	if len(specs) == 0 {
		return nil, errors.New("at least one --resolver is required")
	}

	resolvers := make([]domain.Resolver, 0, len(specs))

	for _, spec := range specs {
		resolver, err := parseResolverSpec(cmd, spec)
		if err != nil {
			return nil, err
		}

		resolvers = append(resolvers, resolver)
	}

	return resolvers, nil
}

func parseResolverSpec(cmd *cobra.Command, spec string) (domain.Resolver, error) {
	name := spec
	reverse := false
	hasDirection := false

	if i := strings.IndexByte(spec, ':'); i >= 0 {
		name = spec[:i]
		hasDirection = true

		switch direction := strings.ToLower(spec[i+1:]); direction {
		case "asc":
		case "desc":
			reverse = true
		default:
			return nil, fmt.Errorf("resolver %s: sort direction must be asc or desc, got %q", name, spec[i+1:])
		}
	}

	switch name {
	case "path-length":
		return domain.NewPathLengthResolver(reverse), nil
	case "source-order":
		return domain.NewSourceOrderResolver(reverse), nil
	case "mod-date":
		return domain.NewModificationDateResolver(reverse), nil
	}

	if hasDirection {
		return nil, fmt.Errorf("resolver %s does not take a sort direction", name)
	}

	switch name {
	case "copy-pattern":
		return domain.NewCopyPatternResolver(), nil
	case "arbitrary":
		return domain.NewFilenameSortResolver(), nil
	case "interactive":
		return domain.NewInteractiveResolver(pickerFor(cmd)), nil
	}

	return nil, fmt.Errorf("unknown resolver %q", name)
}

// pickerFor selects the interactive surface: the Bubble Tea prompt on a
// terminal, a plain line-oriented prompt otherwise (pipes, tests).
func pickerFor(cmd *cobra.Command) controller.Picker {
	if out, ok := cmd.OutOrStdout().(*os.File); ok && controller.IsTTY(out) {
		return controller.NewTUIPicker(cmd.InOrStdin(), out)
	}

	return controller.NewSimplePicker(cmd)
}

// buildSink constructs the configured sink. The returned closer is
// non-nil when the sink owns an output file.
func buildSink(cmd *cobra.Command) (domain.DuplicateFileSink, func(), error) {
	switch scanSinkName {
	case sinkDelete:
		return adapter.NewDeleteSink(), nil, nil
	case sinkSequester:
		if scanSequesterPath == "" {
			return nil, nil, errors.New("--sequester-path is required with --sink sequester")
		}

		return adapter.NewSequesterSink(m.Path(scanSequesterPath)), nil, nil
	case sinkOutputOnly:
		var out io.Writer = cmd.OutOrStdout()

		if scanOutputPath != "" {
			f, err := os.Create(scanOutputPath)
			if err != nil {
				return nil, nil, fmt.Errorf("open output path: %w", err)
			}

			return adapter.NewOutputSink(f), func() { _ = f.Close() }, nil
		}

		return adapter.NewOutputSink(out), nil, nil
	case "":
		return nil, nil, errors.New("--sink is required (delete, sequester, or output-only)")
	}

	return nil, nil, fmt.Errorf("unknown sink %q", scanSinkName)
}
