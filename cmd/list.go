package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"treedup.dev/pkg/treedup/internal/adapter"
	"treedup.dev/pkg/treedup/internal/controller"
	"treedup.dev/pkg/treedup/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

// listParallelFlag is read directly rather than bound to the
// scan.parallel viper key, which the scan command already binds; two
// bindings on one key would leave only the later one effective.
var listParallelFlag int

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [sources...]",
		Short: "List duplicate groups without disposing of anything",
		Long:  listLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger(logFileFlag, verboseFlag)

			filter, err := buildSourceFilter()
			if err != nil {
				return err
			}

			sources, err := buildSources(args, filter)
			if err != nil {
				return err
			}

			// The sink is never invoked here; only the cataloging
			// passes run.
			op, err := domain.NewDeduplicateOperation(
				sources,
				nil,
				adapter.NewOutputSink(io.Discard),
				scanFS,
				scanFS,
				listParallelFlag,
			)
			if err != nil {
				return err
			}

			groups, summary, err := op.FindDuplicateGroups(cmd.Context())
			if err != nil {
				return err
			}

			if len(groups) == 0 {
				cmd.Printf("No duplicate groups found across %d file(s).\n", summary.ScannedFiles)
				return nil
			}

			cmd.Printf("\n%s", controller.RenderGroupTable(groups))

			return nil
		},
	}

	cmd.Flags().IntVarP(&listParallelFlag, scanParallelFlagName, "p",
		viper.GetInt(scanParallelConfigKey), "number of parallel workers for content hashing")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
