// Package main is the entry point for the tandem editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/dshills/tandem/internal/app"
	"github.com/dshills/tandem/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errHelp reports that -h or --help was given.
var errHelp = errors.New("help requested")

type cliOptions struct {
	app.Options
	showVersion bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	switch {
	case errors.Is(err, errHelp):
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "tandem %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return exitOK
	}

	if !opts.ServeOnly && !(isTerminal(os.Stdin) && isTerminal(os.Stdout)) {
		fmt.Fprintln(stderr, "Error: tandem needs a terminal; use --serve-only to run headless")
		return exitError
	}

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return exitError
	}
	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if !opts.ServeOnly {
		term, err := backend.NewTerminal()
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
			return exitError
		}
		application.SetBackend(term)
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	var port uint

	fs := flag.NewFlagSet("tandem", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Host, "host", "", "IPv4 address to serve on or connect to (default from config)")
	fs.UintVar(&port, "port", 0, "TCP port to serve on or connect to (default from config)")
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogPath, "logs", "", "Append logs to this file")
	fs.StringVar(&opts.LogPath, "l", "", "Append logs to this file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.ServeOnly, "serve-only", false, "Run the server without attaching a terminal")
	fs.BoolVar(&opts.ServeOnly, "s", false, "Run the server without attaching a terminal (shorthand)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "tandem - a terminal text editor shared by many terminals\n\n")
		fmt.Fprintf(stderr, "Usage: tandem [options] [paths...]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tandem                     Open an untitled buffer\n")
		fmt.Fprintf(stderr, "  tandem main.go README.md   Open files as tabs\n")
		fmt.Fprintf(stderr, "  tandem ./project           Open a project directory\n")
		fmt.Fprintf(stderr, "  tandem -s --port 9000      Run a headless server\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if port > 65535 {
		return opts, fmt.Errorf("invalid port %d", port)
	}
	opts.Port = uint16(port)

	// Validate log level
	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}

	// Remaining arguments are files and directories to open
	opts.Paths = fs.Args()
	return opts, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
