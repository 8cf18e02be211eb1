package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/mcncl/debson/internal/config"
	"github.com/mcncl/debson/internal/converter"
	"github.com/mcncl/debson/internal/errors"
	"github.com/mcncl/debson/internal/models"
)

// CLI defines the command-line interface
var CLI struct {
	Inputs         []string `arg:"" optional:"" help:"BSON dump files to convert (.bson or .db). Reads stdin when omitted." type:"existingfile"`
	OutputDir      string   `help:"Directory for converted JSON files. Defaults to each input's directory." short:"o" type:"path"`
	Config         string   `help:"Path to config file. Searched for as .debson.y(a)ml up the directory tree when not set." short:"c" type:"path"`
	Indent         int      `help:"Indent width for JSON output." default:"2"`
	Workers        int      `help:"Number of files converted in parallel." short:"w" default:"1"`
	KeepQuotedKeys bool     `help:"Keep document keys that arrive wrapped in literal double quotes."`
	SnakeCaseNames bool     `help:"snake_case output names for inputs without a .bson/.db suffix."`
	Debug          bool     `help:"Enable debug logging." short:"d"`
	Version        bool     `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *zap.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("debson"),
		kong.Description("A tool to convert BSON dump files to readable JSON"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("debson version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	logger := zap.NewNop()
	if cfg.Dev.Debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()
	}

	if err := run(&Context{Config: cfg, Logger: logger}); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: debson --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Acquire input bytes. This is the only blocking step; everything
	// after it is pure computation over in-memory buffers.
	inputs, fromStdin, err := collectInputs()
	if err != nil {
		return err
	}

	// 2. Convert every buffer. Failures stay confined to their own buffer.
	conv := converter.NewWithLogger(ctx.Config, ctx.Logger)
	results := conv.ConvertAll(context.Background(), inputs)

	// 3. Write successes, report failures, fail the run if anything failed.
	return writeResults(ctx, results, fromStdin)
}

// loadConfig layers CLI flags over the config file over defaults
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// CLI overrides only when the flag differs from its default, so config
	// file values survive unflagged runs.
	if CLI.Indent != 2 {
		cfg.Indent = CLI.Indent
	}
	if CLI.Workers != 1 {
		cfg.Workers = CLI.Workers
	}
	if CLI.KeepQuotedKeys {
		cfg.NormalizeKeys = false
	}
	if CLI.SnakeCaseNames {
		cfg.Output.SnakeCaseNames = true
	}
	if CLI.OutputDir != "" {
		cfg.Output.Dir = CLI.OutputDir
	}
	if CLI.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// collectInputs reads the named dump files, or stdin when no files were
// given and stdin is piped
func collectInputs() ([]models.Input, bool, error) {
	if len(CLI.Inputs) > 0 {
		inputs := make([]models.Input, 0, len(CLI.Inputs))
		for _, path := range CLI.Inputs {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, false, errors.NewInputError(
					fmt.Sprintf("failed to read '%s'", path), err)
			}
			inputs = append(inputs, models.Input{Name: path, Data: data})
		}
		return inputs, false, nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, false, errors.NewInputError("failed to access stdin", err)
	}
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal attached and no files given: nothing to convert.
		return nil, false, errors.ErrNoInput
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, false, errors.NewInputError("failed to read from stdin", err)
	}
	return []models.Input{{Name: "stdin", Data: data}}, true, nil
}

// writeResults writes each success and reports each failure. Successes are
// always written even when sibling buffers failed; any failure makes the
// run exit non-zero afterwards.
func writeResults(ctx *Context, results []models.Result, toStdout bool) error {
	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
			fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(res.Err))
			continue
		}

		if toStdout {
			if _, err := fmt.Print(res.Output); err != nil {
				return errors.NewOutputError("failed to write to stdout", err)
			}
			continue
		}

		outPath := res.OutputName
		if ctx.Config.Output.Dir != "" {
			if err := os.MkdirAll(ctx.Config.Output.Dir, 0755); err != nil {
				return errors.NewOutputError(
					fmt.Sprintf("failed to create output directory '%s'", ctx.Config.Output.Dir), err)
			}
			outPath = filepath.Join(ctx.Config.Output.Dir, filepath.Base(res.OutputName))
		}
		if err := os.WriteFile(outPath, []byte(res.Output), 0644); err != nil {
			return errors.NewOutputError(
				fmt.Sprintf("failed to write to file '%s'", outPath), err)
		}
		fmt.Fprintf(os.Stderr, "%s: %d document(s) written to %s\n", res.Name, res.Documents, outPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d input(s) failed to convert", failed, len(results))
	}
	return nil
}
