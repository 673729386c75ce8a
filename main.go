//go:build !(js && wasm)

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"clexer/colors"
	"clexer/internal/cmd"
	"clexer/internal/config"
	"clexer/internal/context"
	"clexer/internal/frontend/lexer"
	"clexer/internal/render"
)

// errScanFailed means diagnostics were already printed; exit quietly with 1.
var errScanFailed = errors.New("scan failed")

func main() {
	// This is needed to make `glog` believe that the flags have already been parsed, otherwise
	// every log messages is prefixed by an error message stating the the flags haven't been
	// parsed.
	_ = flag.CommandLine.Parse([]string{})

	// Always log to stderr by default
	if err := flag.Set("logtostderr", "true"); err != nil {
		glog.Infof("Unable to set logtostderr to true")
	}

	rootCmd := &cobra.Command{
		Use:           "clexer",
		Long:          "clexer tokenizes C source files and reports lexical errors",
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.AddCommand(newScanCommand(), newKeywordsCommand())

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errScanFailed) {
			os.Exit(1)
		}
		glog.Fatalf("error running command: %v", err)
	}
}

func newScanCommand() *cobra.Command {
	cfg := config.Default()
	var configFile string

	scanCmd := &cobra.Command{
		Use:   "scan [files...]",
		Short: "Tokenize C source files",
		Long:  "Tokenize C source files, print the token stream to stdout and diagnostics to stderr",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if configFile != "" {
				if err := cfg.ReadFile(configFile, c.Flags()); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			c.SilenceUsage = true
			return runScan(cfg, args)
		},
	}

	cfg.AddFlags(scanCmd.Flags())
	scanCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file; flags given on the command line win")
	return scanCmd
}

func runScan(cfg *config.Config, entries []string) error {
	switch cfg.Color {
	case "always":
		colors.SetEnabled(true)
	case "never":
		colors.SetEnabled(false)
	}

	ctx := context.New(cfg.ScanOptions())
	scanErr := cmd.Scan(entries, ctx, cfg.Workers, cfg.CrossCheck)

	var files []render.File
	for _, file := range ctx.GetAllFiles() {
		files = append(files, render.File{Path: displayPath(file.Path), Tokens: file.Tokens})
	}
	if err := render.Write(os.Stdout, cfg.Format, files); err != nil {
		return err
	}

	if cfg.DiagnosticStyle == "plain" {
		ctx.Diagnostics.EmitAllPlain(os.Stderr)
	} else {
		ctx.EmitDiagnostics()
	}

	if scanErr != nil {
		glog.V(1).Info(scanErr)
		return errScanFailed
	}
	return nil
}

// displayPath shortens absolute paths below the working directory
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || filepath.IsAbs(rel) || len(rel) > len(path) {
		return path
	}
	return rel
}

func newKeywordsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keywords",
		Short: "List the reserved words and directive names the scanner knows",
		Run: func(c *cobra.Command, args []string) {
			out := c.OutOrStdout()
			fmt.Fprintln(out, "keywords:")
			for _, kw := range lexer.Keywords() {
				fmt.Fprintf(out, "  %s\n", kw)
			}
			fmt.Fprintln(out, "directives:")
			for _, d := range lexer.Directives() {
				fmt.Fprintf(out, "  #%s\n", d)
			}
		},
	}
}
