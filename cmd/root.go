// Package cmd provides the root command and CLI setup for treedup.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"treedup.dev/pkg/treedup/internal/adapter"
	m "treedup.dev/pkg/treedup/internal/model"
)

var scanFS *adapter.LocalScanFS
var reportStore adapter.RunReportStore

// ignoreNames and ignorePatterns are root-level flags that filter files
// and directories out of every source walk.
var ignoreNames []string
var ignorePatterns []string

// verboseFlag raises file logging to debug level.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	scanFS = adapter.NewLocalScanFS()
	reportStore = adapter.NewYAMLReportStore()
}

const rootLongDescription = `Treedup locates duplicate files across one or more directory trees,
decides which copy of each duplicate set is the original through an
ordered chain of resolution policies, and disposes of the remaining
copies through a sink: delete them, sequester them under a separate
root, or just print them.

Resolvers are applied left to right in the order given; each one narrows
the candidates left by the previous one until a single original remains.`

const scanLongDescription = `Scan the given directory trees for duplicate files, resolve each
duplicate group through the configured resolver chain, and dispose of
the losers through the selected sink.

Resolvers (repeat --resolver to chain them, first listed runs first):
  path-length[:asc|desc]   prefer the shallowest path below its source root
  source-order[:asc|desc]  prefer the earliest source on the command line
  mod-date[:asc|desc]      prefer the earliest modified copy
  copy-pattern             drop names that look like copies ("Copy of …", "x (1).ext")
  arbitrary                keep only the first name in lexicographic order
  interactive              ask which copy to keep, group by group

Sinks (exactly one):
  delete                   unlink every duplicate
  sequester                move duplicates under --sequester-path, keeping structure
  output-only              print duplicate paths, touch nothing`

const listLongDescription = `Walk the given directory trees and list the confirmed duplicate groups
(identical size and content digest) without resolving or disposing
of anything.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "treedup",
		Short: "Find and dispose of duplicate files across directory trees",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVar(&ignoreNames, ignoreNamesFlagName,
		viper.GetStringSlice(ignoreNamesConfigKey),
		"file or directory name to ignore during scans (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(ignoreNamesFlagName), ignoreNamesConfigKey)

	cmd.PersistentFlags().StringArrayVar(&ignorePatterns, ignorePatternsFlagName,
		viper.GetStringSlice(ignorePatternsConfigKey),
		"regex of names to ignore during scans, matched at the start (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(ignorePatternsFlagName), ignorePatternsConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v",
		viper.GetBool(logVerboseKey), "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "",
		"log file location (default "+defaultLogFilename+")")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// buildSourceFilter compiles the effective ignore configuration. A bad
// pattern is reported before any traversal begins.
func buildSourceFilter() (*m.ConfiguredSourceFilter, error) {
	names := viper.GetStringSlice(ignoreNamesConfigKey)
	rawPatterns := viper.GetStringSlice(ignorePatternsConfigKey)

	patterns := make([]*regexp.Regexp, 0, len(rawPatterns))

	for _, raw := range rawPatterns {
		pattern, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", raw, err)
		}

		patterns = append(patterns, pattern)
	}

	return m.NewConfiguredSourceFilter(patterns, names), nil
}

// buildSources numbers the source roots in command-line order. Order is
// assigned once here and used later for tie-breaking.
func buildSources(args []string, filter m.SourceFilter) ([]*m.Source, error) {
	sources := make([]*m.Source, 0, len(args))

	for i, arg := range args {
		root, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve source %s: %w", arg, err)
		}

		sources = append(sources, m.NewSource(m.Path(root), i+1, filter))
	}

	return sources, nil
}
