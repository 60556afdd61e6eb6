package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sambabib/depcheck/pkg/analyzer"
	"github.com/sambabib/depcheck/pkg/config"
	"github.com/sambabib/depcheck/pkg/logger"
	"github.com/sambabib/depcheck/pkg/output"
)

// ErrUnusedFound is returned by the analyze command when the report lists at
// least one unused dependency, so the process exits non-zero.
var ErrUnusedFound = errors.New("unused dependencies found")

var (
	analyzePath   string
	format        string // output format: text, json or sarif
	outputFile    string
	configPath    string
	extensions    []string
	jsx           bool
	ignoreDirs    []string
	ignoreMatches []string
	withoutDev    bool
	verbose       bool
)

// analyzeCmd represents the analyze subcommand
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report dependencies no source file uses",
	Long:  "Scan the project's source files and report the dependencies and devDependencies in package.json that are never required or imported.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if cfg.Output.File != "" {
			f, err := os.Create(cfg.Output.File)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		cmd.SilenceUsage = true
		unused, err := runAnalyze(cmd.Context(), cfg, analyzePath, w)
		if err != nil {
			return err
		}
		if unused > 0 {
			cmd.SilenceErrors = true
			return ErrUnusedFound
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzePath, "path", "p", ".", "Path to project directory to analyze")
	analyzeCmd.Flags().StringVarP(&format, "format", "f", config.FormatText, "Output format: text, json or sarif")
	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the report to this file instead of stdout")
	analyzeCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default: .depcheck.yaml in the project or a parent directory)")
	analyzeCmd.Flags().StringSliceVar(&extensions, "extensions", nil, "File extensions to scan (default .js)")
	analyzeCmd.Flags().BoolVar(&jsx, "jsx", false, "Parse JSX syntax")
	analyzeCmd.Flags().StringSliceVar(&ignoreDirs, "ignore-dirs", nil, "Directory names to skip")
	analyzeCmd.Flags().StringSliceVar(&ignoreMatches, "ignore-matches", nil, "Glob patterns of dependency names to ignore")
	analyzeCmd.Flags().BoolVar(&withoutDev, "without-dev", false, "Do not check devDependencies")
	analyzeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig reads the config file and applies the flags set on the command line over it
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.FindAndLoadConfig(analyzePath)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("output") {
		cfg.Output.File = outputFile
	}
	if flags.Changed("extensions") {
		cfg.Extensions = extensions
	}
	if flags.Changed("jsx") {
		cfg.JSX = jsx
	}
	if flags.Changed("ignore-dirs") {
		cfg.IgnoreDirs = append(cfg.IgnoreDirs, ignoreDirs...)
	}
	if flags.Changed("ignore-matches") {
		cfg.IgnoreMatches = append(cfg.IgnoreMatches, ignoreMatches...)
	}
	if flags.Changed("without-dev") {
		cfg.WithoutDev = withoutDev
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runAnalyze checks the npm project at path and writes the report to w.
// It returns the number of unused dependencies found.
func runAnalyze(ctx context.Context, cfg *config.Config, path string, w io.Writer) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Debugf("Analyzing npm project at %s", path)
	a := analyzer.NewNpmAnalyzer(analyzer.NpmOptions{
		Extensions:    cfg.Extensions,
		JSX:           cfg.JSX,
		IgnoreDirs:    cfg.IgnoreDirs,
		IgnoreMatches: cfg.IgnoreMatches,
		WithoutDev:    cfg.WithoutDev,
	})
	report, err := a.Analyze(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("npm analysis failed: %w", err)
	}

	for file, reason := range report.InvalidFiles {
		logger.Warnf("Could not analyze %s: %s", file, reason)
	}

	if err := output.Write(w, cfg.Output.Format, report, path, Version); err != nil {
		return 0, err
	}
	return len(report.Unused()), nil
}
