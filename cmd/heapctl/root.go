package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapsim/internal/logger"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	yamlOut   bool
	noColor   bool
	logLevel  string
	logFormat string
	logDir    string
)

// numbers renders integers with digit grouping.
var numbers = message.NewPrinter(language.English)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Simulate first-fit and best-fit free-list allocation",
	Long: `heapctl replays allocation scripts against a simulated arena and
shows how the free list evolves under first-fit and best-fit placement,
including splitting and coalescing of free blocks.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&yamlOut, "yaml", false, "Output in YAML format")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Write allocator logs to stderr at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		StringVar(&logFormat, "log-format", string(logger.FormatText), "Log format (text, json)")
	rootCmd.PersistentFlags().
		StringVar(&logDir, "log-dir", "", "Write logs to a daily file in this directory instead of stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// initLogging enables the global logger when --log-level or --log-dir is
// given. A log dir without a level logs at info.
func initLogging() error {
	if logLevel == "" && logDir == "" {
		return logger.Init(logger.Options{})
	}
	opts := logger.Options{
		Enabled: true,
		Format:  logger.Format(logFormat),
		LogDir:  logDir,
	}
	if logLevel != "" {
		lvl, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		opts.Level = lvl
	}
	if logDir == "" {
		opts.Writer = os.Stderr
	}
	return logger.Init(opts)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printYAML outputs data as YAML
func printYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// structured reports whether a machine-readable format was requested.
func structured() bool { return jsonOut || yamlOut }

// printStructured writes v in the requested machine-readable format.
func printStructured(v interface{}) error {
	if yamlOut {
		return printYAML(v)
	}
	return printJSON(v)
}
