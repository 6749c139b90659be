// Package main is the entry point for the glyphboard diagramming canvas.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"glyphboard/internal/app"
	"glyphboard/internal/render/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type cliFlags struct {
	opts app.Options

	logFile string

	// Headless file operations; any of these set skips the terminal.
	exportPNG     string
	exportPDF     string
	exportLibrary string
	importLibrary string
}

func (c cliFlags) headless() bool {
	return c.exportPNG != "" || c.exportPDF != "" || c.exportLibrary != "" || c.importLibrary != ""
}

func run() int {
	cli := parseFlags()

	if cli.logFile != "" {
		f, err := os.OpenFile(cli.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		cli.opts.LogOutput = f
	}

	// Create application
	application, err := app.New(cli.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if cli.headless() {
		return runHeadless(application, cli)
	}

	// Create terminal front-end
	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetTerminal(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to attach terminal: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	// Run the application
	if err := application.Run(); err != nil {
		// Check if it's a normal quit using errors.Is for wrapped errors
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// runHeadless performs board file operations without a terminal, for
// scripts and automation. Imports run before exports so an export in
// the same invocation sees the imported templates.
func runHeadless(application *app.Application, cli cliFlags) int {
	if cli.importLibrary != "" {
		n, err := application.ImportLibrary(cli.importLibrary)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("installed %d templates from %s\n", n, cli.importLibrary)
	}
	if cli.exportPNG != "" {
		path, err := application.ExportPNG(cli.exportPNG)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(path)
	}
	if cli.exportPDF != "" {
		path, err := application.ExportPDF(cli.exportPDF)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(path)
	}
	if cli.exportLibrary != "" {
		if err := application.ExportLibrary(cli.exportLibrary); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(cli.exportLibrary)
	}
	return 0
}

func parseFlags() cliFlags {
	var cli cliFlags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&cli.opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&cli.opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&cli.opts.BoardPath, "board", "", "Board document to load and save")
	flag.StringVar(&cli.opts.BoardPath, "b", "", "Board document to load and save (shorthand)")
	flag.BoolVar(&cli.opts.Debug, "debug", false, "Enable debug mode")
	flag.BoolVar(&cli.opts.Debug, "d", false, "Enable debug mode (shorthand)")
	flag.StringVar(&cli.opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&cli.logFile, "log-file", "", "Write logs to a file instead of stderr")
	flag.StringVar(&cli.exportPNG, "export-png", "", "Export the board to a PNG file and exit")
	flag.StringVar(&cli.exportPDF, "export-pdf", "", "Export the board to a PDF file and exit")
	flag.StringVar(&cli.exportLibrary, "export-library", "", "Export key-bound symbols to a library file and exit")
	flag.StringVar(&cli.importLibrary, "import-library", "", "Import symbols from a library file and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Glyphboard - freehand diagramming canvas\n\n")
		fmt.Fprintf(os.Stderr, "Usage: glyphboard [options] [board-file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  glyphboard                          Open the default board\n")
		fmt.Fprintf(os.Stderr, "  glyphboard sketch.json              Open a board file\n")
		fmt.Fprintf(os.Stderr, "  glyphboard -b sketch.json -d        Open with debug logging\n")
		fmt.Fprintf(os.Stderr, "  glyphboard -export-png out.png sketch.json\n")
		fmt.Fprintf(os.Stderr, "                                      Render a board without opening it\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Glyphboard %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	switch cli.opts.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cli.opts.LogLevel)
		os.Exit(1)
	}

	// A positional argument is the board file when -board is not given.
	if args := flag.Args(); len(args) > 0 && cli.opts.BoardPath == "" {
		cli.opts.BoardPath = args[0]
	}

	return cli
}
