package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/packlens/apkg"
	"github.com/packlens/apkg/extract"
	"github.com/packlens/apkg/writer"
)

func main() {
	var (
		input       = flag.String("in", "", "Container file or directory of containers")
		output      = flag.String("o", "", "Output directory (default: <input>_src)")
		policyFlag  = flag.String("policy", "", "Overwrite policy: keep, clear, overwrite")
		clear       = flag.Bool("clear", false, "Shorthand for -policy clear")
		configPath  = flag.String("config", defaultConfigPath(), "Defaults file (TOML)")
		interactive = flag.Bool("i", false, "Prompt for output path and policy")
		failFast    = flag.Bool("fail-fast", false, "Abort the run on the first package failure")
		noUpdate    = flag.Bool("no-update-check", false, "Skip the release version check")
		verbose     = flag.Bool("v", false, "Verbose (debug) logging")
	)
	flag.Parse()

	if *input == "" && flag.NArg() > 0 {
		*input = flag.Arg(0)
	}
	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: apkg [-o dir] [-policy keep|clear|overwrite] <container or directory>")
		fmt.Fprintln(os.Stderr, "       apkg -i <container or directory>  (interactive)")
		os.Exit(2)
	}
	if _, err := os.Stat(*input); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(*input, *output, *policyFlag, cfg, runFlags{
		clear:       *clear,
		interactive: *interactive,
		failFast:    *failFast,
		noUpdate:    *noUpdate,
		verbose:     *verbose,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type runFlags struct {
	clear       bool
	interactive bool
	failFast    bool
	noUpdate    bool
	verbose     bool
}

func run(input, output, policyFlag string, cfg config, flags runFlags) error {
	output, policy, err := resolveChoices(input, output, policyFlag, cfg, flags)
	if err != nil {
		return err
	}

	log := newLogger(flags.verbose)
	defer log.Sync() //nolint:errcheck // stderr sync failure is unactionable
	extract.SetLogger(log)

	var updates <-chan string
	if !flags.noUpdate && cfg.updateCheck {
		updates = checkForUpdate()
	}

	printBanner(input, output, policy)

	report, err := apkg.Extract(extract.Options{
		Input:    input,
		Output:   output,
		Policy:   policy,
		FailFast: flags.failFast,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Packages: %d extracted, %d failed\n", report.Extracted, report.Failed)
	fmt.Printf("Recovered: %d files, %d modules", report.Files, report.Modules)
	if report.Warnings > 0 {
		fmt.Printf(" (%d warnings)", report.Warnings)
	}
	fmt.Println()
	fmt.Printf("Output: %s\n", output)

	if updates != nil {
		if msg, ok := <-updates; ok && msg != "" {
			fmt.Println(msg)
		}
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d package(s) failed", report.Failed)
	}
	return nil
}

// resolveChoices settles the output path and overwrite policy exactly once
// before any package is processed: flags win, then the interactive prompt
// (when requested or when no output was given on a terminal), then config
// defaults.
func resolveChoices(input, output, policyFlag string, cfg config, flags runFlags) (string, writer.Policy, error) {
	policySource := policyFlag
	if policySource == "" && flags.clear {
		policySource = "clear"
	}
	if policySource == "" {
		policySource = cfg.policy
	}
	policy, err := writer.ParsePolicy(policySource)
	if err != nil {
		return "", 0, err
	}

	promptNeeded := flags.interactive || (output == "" && isTerminal())
	if promptNeeded {
		return promptChoices(defaultOutput(input, output, cfg), policy)
	}
	return defaultOutput(input, output, cfg), policy, nil
}

func defaultOutput(input, output string, cfg config) string {
	if output != "" {
		return output
	}
	if cfg.output != "" {
		return cfg.output
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), base+"_src")
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newLogger(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}
