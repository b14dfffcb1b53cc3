package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/linuxmatters/doaprep/internal/batch"
	"github.com/linuxmatters/doaprep/internal/cli"
	"github.com/linuxmatters/doaprep/internal/dataset"
	"github.com/linuxmatters/doaprep/internal/logging"
	"github.com/linuxmatters/doaprep/internal/metrics"
	"github.com/linuxmatters/doaprep/internal/processor"
	"github.com/linuxmatters/doaprep/internal/ui"
)

var (
	version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Version     bool   `short:"v" help:"Show version information"`
	Config      string `short:"c" type:"existingfile" help:"Path to YAML config file (optional)"`
	Logs        bool   `help:"Write a report per recording to <output-dir>/reports"`
	Jobs        int    `short:"j" help:"Recordings processed in parallel" default:"${jobs}"`
	DropPercent int    `help:"Percentage of records to drop at random, -1 keeps the config value" default:"-1"`
	Seed        int64  `help:"Seed for the record drop, 0 seeds from the clock, -1 keeps the config value" default:"-1"`
	LabelRule   string `help:"Chunk labelling rule: legacy or activity (empty keeps the config value)"`
	KeepGoing   bool   `short:"k" help:"Continue past failed recordings instead of stopping the batch"`
	DryRun      bool   `short:"n" help:"Classify and count records without writing them"`
	Plain       bool   `help:"Plain line output even when attached to a terminal"`
	MetricsFile string `type:"path" help:"Write Prometheus metrics to this file when done"`
	DebugLog    string `type:"path" help:"Write a debug log to this file"`
	InputDir    string `arg:"" name:"input-dir" help:"Directory of raw recordings" type:"existingdir" optional:""`
	OutputDir   string `arg:"" name:"output-dir" help:"Root of the dataset to write" type:"path" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("doaprep"),
		kong.Description("Direction-of-arrival training corpus preparation"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
			"jobs":    "4",
		},
		kong.Help(cli.StyledHelpPrinter("doaprep", "Turn raw microphone-array recordings into a DOA training corpus")),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion("doaprep", version)
		os.Exit(0)
	}

	// Validate input
	if cliArgs.InputDir == "" || cliArgs.OutputDir == "" {
		cli.PrintError("Input and output directories are required")
		_ = ctx.PrintUsage(false)
		os.Exit(1)
	}

	os.Exit(run(cliArgs))
}

// run executes the batch and returns the process exit code.
func run(args *CLI) int {
	logger, closeLog, err := openDebugLog(args.DebugLog)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}
	defer closeLog()

	config, err := loadConfig(args)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	files, err := batch.Discover(args.InputDir)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}
	if !args.DryRun {
		if err := os.MkdirAll(args.OutputDir, 0o755); err != nil {
			cli.PrintError(fmt.Sprintf("failed to create output directory: %v", err))
			return 1
		}
	}
	logger.Info("batch starting", "input", args.InputDir, "output", args.OutputDir, "files", len(files),
		"jobs", args.Jobs, "label_rule", config.LabelRule, "drop_percent", config.DropPercent, "seed", config.Seed)

	registry := prometheus.NewRegistry()
	runMetrics, err := metrics.NewMetrics(registry)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := &resultHandler{
		args:    args,
		config:  config,
		metrics: runMetrics,
		log:     logger,
	}
	opts := batch.Options{
		OutputDir:  args.OutputDir,
		Config:     config,
		Jobs:       args.Jobs,
		KeepGoing:  args.KeepGoing,
		DryRun:     args.DryRun,
		Logger:     logger,
		OnComplete: h.complete,
	}

	interactive := !args.Plain && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

	var summary *batch.Summary
	var runErr error
	if interactive {
		summary, runErr = runInteractive(runCtx, stop, files, opts, h, logger)
	} else {
		h.out = os.Stdout
		summary, runErr = batch.Run(runCtx, files, opts)
		if summary != nil {
			h.writeSummary(summary)
		}
	}
	if summary == nil {
		cli.PrintError(runErr.Error())
		return 1
	}

	if args.MetricsFile != "" {
		if err := runMetrics.WriteTextfile(args.MetricsFile); err != nil {
			cli.PrintWarning(err.Error())
		}
	}
	if !interactive {
		printSummary(summary, h.summaryPath)
	}

	if runErr != nil || summary.Failed() > 0 {
		for _, err := range summary.Errors() {
			cli.PrintError(err.Error())
		}
		if runErr != nil && len(summary.Errors()) == 0 {
			cli.PrintError(runErr.Error())
		}
		return 1
	}
	return 0
}

// runInteractive drives the batch from a goroutine and renders progress
// with Bubbletea. Quitting the UI cancels the batch.
func runInteractive(ctx context.Context, cancel context.CancelFunc, files []string, opts batch.Options, h *resultHandler, logger *slog.Logger) (*batch.Summary, error) {
	model := ui.NewModel(files, logger)
	p := tea.NewProgram(model)
	h.program = p

	opts.OnStart = func(index int, path string, kind dataset.Kind) {
		p.Send(ui.FileStartMsg{FileIndex: index, FileName: path, Kind: kind.String()})
	}
	opts.OnProgress = func(index int, pass int, passName string, progress float64, cal *processor.Calibration) {
		p.Send(ui.ProgressMsg{
			FileIndex:   index,
			Pass:        pass,
			PassName:    passName,
			Progress:    progress,
			Calibration: cal,
		})
	}

	var summary *batch.Summary
	var runErr error
	done := make(chan struct{})

	go func() {
		defer close(done)
		summary, runErr = batch.Run(ctx, files, opts)
		if summary != nil {
			h.writeSummary(summary)
		}
		p.Send(ui.AllCompleteMsg{SummaryPath: h.summaryPath})
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
	}
	// The UI may exit early on 'q'; stop the workers and wait for rollback
	cancel()
	<-done
	return summary, runErr
}

// resultHandler receives finished recordings from the batch workers
type resultHandler struct {
	args    *CLI
	config  *processor.Config
	metrics *metrics.Metrics
	log     *slog.Logger

	program *tea.Program // interactive mode
	out     io.Writer    // plain mode

	mu          sync.Mutex
	summaryPath string
}

func (h *resultHandler) complete(fr batch.FileResult) {
	kind := fr.Kind.String()
	switch {
	case fr.Skipped:
		h.metrics.RecordSkipped(kind)
	case fr.Err != nil:
		h.metrics.RecordFailure(kind)
	default:
		h.metrics.RecordSuccess(kind, filepath.Base(fr.Path), fr.Result)
		if h.args.Logs {
			err := logging.GenerateReport(logging.ReportData{
				InputPath: fr.Path,
				OutputDir: h.args.OutputDir,
				Kind:      fr.Kind,
				StartTime: fr.StartTime,
				EndTime:   fr.EndTime,
				Config:    h.config,
				Result:    fr.Result,
			})
			if err != nil {
				h.log.Error("failed to generate report", "file", fr.Path, "error", err)
			}
		}
	}

	if h.program != nil {
		msg := ui.FileCompleteMsg{FileIndex: fr.Index, Skipped: fr.Skipped, Error: fr.Err}
		if r := fr.Result; r != nil {
			msg.Prefix = r.Prefix
			msg.Chunks = r.Chunks
			msg.SignalChunks = r.SignalChunks
			msg.SilenceChunks = r.SilenceChunks
			msg.Written = r.Sink.Written
			msg.Dropped = r.Sink.Dropped
		}
		h.program.Send(msg)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	logging.DisplayFileResult(h.out, fr, h.config)
}

// writeSummary writes the batch summary report when --logs is set.
func (h *resultHandler) writeSummary(summary *batch.Summary) {
	if !h.args.Logs {
		return
	}
	path, err := logging.GenerateSummary(h.args.OutputDir, summary)
	if err != nil {
		h.log.Error("failed to write summary", "error", err)
		return
	}
	h.mu.Lock()
	h.summaryPath = path
	h.mu.Unlock()
}

func printSummary(summary *batch.Summary, summaryPath string) {
	cli.PrintKeyValue("Recordings", len(summary.Files))
	cli.PrintKeyValue("Failed", summary.Failed())
	cli.PrintKeyValue("Records written", summary.Written())
	if summaryPath != "" {
		cli.PrintKeyValue("Summary", summaryPath)
	}
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(args *CLI) (*processor.Config, error) {
	config := processor.DefaultConfig()
	if args.Config != "" {
		var err error
		if config, err = processor.LoadConfig(args.Config); err != nil {
			return nil, err
		}
	}

	if args.DropPercent >= 0 {
		config.DropPercent = args.DropPercent
	}
	if args.Seed >= 0 {
		config.Seed = uint64(args.Seed)
	}
	if args.LabelRule != "" {
		config.LabelRule = processor.LabelRule(args.LabelRule)
	}
	if args.Jobs < 1 {
		return nil, errors.New("--jobs must be at least 1")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// openDebugLog returns a debug-level logger writing to path, or a discarding
// logger when path is empty.
func openDebugLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create debug log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}
