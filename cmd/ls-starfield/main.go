// Command ls-starfield generates a procedural spiral galaxy star catalog and
// shows the run in a terminal UI, or writes it out headless.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-starfield/internal/config"
	"github.com/litescript/ls-starfield/internal/density"
	"github.com/litescript/ls-starfield/internal/errs"
	"github.com/litescript/ls-starfield/internal/export"
	"github.com/litescript/ls-starfield/internal/galaxy"
	"github.com/litescript/ls-starfield/internal/logging"
	"github.com/litescript/ls-starfield/internal/state"
	"github.com/litescript/ls-starfield/internal/ui"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

// Mini map defaults
const (
	miniMapCols   = 64
	miniMapPixels = 256
	miniMapKernel = 7
	miniMapSigma  = 1.5
	miniMapFactor = 100.0
)

// cliFlags holds parsed command-line flags.
type cliFlags struct {
	configPath string
	seed       uint64
	parallel   bool
	logLevel   string
	logFile    string
	csvPath    string
	jsonPath   string
	centers    string
	summary    bool
	miniMap    bool
	orient     bool
	headless   bool

	set map[string]bool // flags given explicitly
}

func main() {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, isTTY))
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("ls-starfield", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "YAML galaxy configuration file")
	fs.Uint64Var(&f.seed, "seed", 0, "Random seed (0 picks one and reports it)")
	fs.BoolVar(&f.parallel, "parallel", false, "Generate components concurrently")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFile, "log-file", "", "Write logs to this file instead of stderr")
	fs.StringVar(&f.csvPath, "csv", "", "Write the catalog as CSV (use - for stdout)")
	fs.StringVar(&f.jsonPath, "json", "", "Write the run summary as JSON (use - for stdout)")
	fs.StringVar(&f.centers, "centers", "", "Write scattered galaxy centres as CSV (use - for stdout)")
	fs.BoolVar(&f.summary, "summary", false, "Print a summary table instead of the TUI")
	fs.BoolVar(&f.miniMap, "mini-map", false, "Print an ASCII density map instead of the TUI")
	fs.BoolVar(&f.orient, "orient", false, "Rotate the galaxy to a random orientation")
	fs.BoolVar(&f.headless, "headless", false, "Run without the TUI")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// settings loads configuration and applies flag overrides on top.
func (f *cliFlags) settings() (*config.Settings, error) {
	s, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.set["seed"] {
		s.Seed = f.seed
	}
	if f.set["parallel"] {
		s.Parallel = f.parallel
	}
	if f.logLevel != "" {
		s.LogLevel = f.logLevel
	}
	if f.orient {
		s.Galaxy.Placement.Orient = true
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// isHeadless reports whether the run skips the TUI. --csv alone keeps the
// TUI when attached to a terminal and becomes the export target for "e".
func (f *cliFlags) isHeadless(isTTY bool) bool {
	return f.headless || f.summary || f.miniMap || f.jsonPath != "" || f.csvPath == "-" || f.centers == "-" || !isTTY
}

func run(args []string, stdout, stderr io.Writer, isTTY bool) int {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	settings, err := flags.settings()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	headless := flags.isHeadless(isTTY)

	// Logs go to stderr headless; the TUI owns the terminal otherwise.
	var logOut io.Writer = stderr
	if !headless {
		logOut = io.Discard
	}
	if flags.logFile != "" {
		lf, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "Error: open log file: %v\n", err)
			return exitConfig
		}
		defer lf.Close()
		logOut = lf
	}
	logger := logging.New(logOut, logging.ParseLevel(settings.LogLevel), settings.LogJSON)
	if settings.ConfigPath != "" {
		logger.Debug("loaded configuration", "path", settings.ConfigPath)
	}

	stateMgr := state.NewManager(state.DefaultConfig())

	if headless {
		if err := runHeadless(settings, flags, stateMgr, logger, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			if errs.IsConfig(err) {
				return exitConfig
			}
			return exitFailed
		}
		return exitOK
	}

	opts := ui.Options{Run: func() (*galaxy.Catalog, error) {
		cat, err := generate(settings, stateMgr, logger)
		if err != nil || flags.centers == "" {
			return cat, err
		}
		return cat, writeCenters(flags.centers, stdout, settings.Galaxy.Centers, cat.Seed, logger)
	}}
	if flags.csvPath != "" {
		path := flags.csvPath
		opts.Export = func(cat *galaxy.Catalog) (string, error) {
			if err := writeTo(path, stdout, func(w io.Writer) error { return export.WriteCSV(w, cat) }); err != nil {
				logger.Error("export failed", "path", path, "error", err)
				return "", err
			}
			logger.Info("exported catalog", "path", path, "stars", cat.Len())
			return path, nil
		}
	}

	p := tea.NewProgram(ui.New(stateMgr, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(stderr, "Error running TUI: %v\n", err)
		return exitFailed
	}
	return exitOK
}

// generate runs one tracked generation.
func generate(settings *config.Settings, stateMgr *state.Manager, logger *slog.Logger) (*galaxy.Catalog, error) {
	opts := settings.Options()
	opts.Tracker = stateMgr
	opts.Logger = logger

	stateMgr.Begin(settings.Galaxy, opts.Seed)
	cat, err := galaxy.Generate(settings.Galaxy, opts)
	stateMgr.Finish(cat, err)
	if err != nil {
		logger.Error("generation failed", "error", err)
		return nil, err
	}

	snap := stateMgr.Snapshot()
	logger.Info("generation complete", "stars", cat.Len(), "seed", cat.Seed,
		"fallbacks", cat.Fallbacks(), "elapsed", snap.Elapsed())
	return cat, nil
}

// runHeadless generates once and writes the requested outputs. With no
// output flags it prints the summary table.
func runHeadless(settings *config.Settings, flags *cliFlags, stateMgr *state.Manager, logger *slog.Logger, stdout io.Writer) error {
	cat, err := generate(settings, stateMgr, logger)
	if err != nil {
		return err
	}
	summary := export.Summarize(cat, time.Now().UTC())

	if flags.csvPath != "" {
		if err := writeTo(flags.csvPath, stdout, func(w io.Writer) error { return export.WriteCSV(w, cat) }); err != nil {
			return err
		}
		logger.Info("wrote catalog", "path", flags.csvPath, "stars", cat.Len())
	}

	if flags.jsonPath != "" {
		if err := writeTo(flags.jsonPath, stdout, summary.WriteJSON); err != nil {
			return err
		}
	}

	if flags.centers != "" {
		if err := writeCenters(flags.centers, stdout, settings.Galaxy.Centers, cat.Seed, logger); err != nil {
			return err
		}
	}

	printSummary := flags.summary || (flags.csvPath == "" && flags.jsonPath == "" && flags.centers == "" && !flags.miniMap)
	if printSummary {
		export.WriteSummaryTable(stdout, summary)
	}

	if flags.miniMap {
		if printSummary {
			fmt.Fprintln(stdout)
		}
		if err := writeMiniMap(stdout, cat); err != nil {
			return err
		}
	}
	return nil
}

// writeCenters scatters galaxy centres on their own stream under the run seed.
func writeCenters(path string, stdout io.Writer, p galaxy.CenterParams, seed uint64, logger *slog.Logger) error {
	centers, fallbacks, err := galaxy.Centers(galaxy.NewRand(seed, galaxy.CenterStream), p)
	if err != nil {
		return err
	}
	if fallbacks > 0 {
		logger.Warn("centre spacing not met, used fallback draws", "fallbacks", fallbacks)
	}
	if err := writeTo(path, stdout, func(w io.Writer) error { return export.WriteCentersCSV(w, centers) }); err != nil {
		return err
	}
	logger.Info("wrote galaxy centres", "path", path, "count", len(centers))
	return nil
}

func writeMiniMap(w io.Writer, cat *galaxy.Catalog) error {
	grid, err := density.NewGrid(miniMapPixels, density.AutoExtent(cat.Stars))
	if err != nil {
		return err
	}
	grid.Accumulate(cat.Stars)
	if grid, err = grid.Smear(miniMapKernel, miniMapSigma); err != nil {
		return err
	}
	if grid, err = grid.Normalize(density.ModeLog, miniMapFactor, 0); err != nil {
		return err
	}
	return export.WriteMiniMap(w, grid, miniMapCols)
}

// writeTo runs write against stdout for "-" or a newly created file at path.
func writeTo(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return errs.WrapIO("main.writeTo", "create "+path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.WrapIO("main.writeTo", "close "+path, err)
	}
	return nil
}
