// Package batch finds the recordings in an input directory and runs the
// per-file pipeline over them with bounded concurrency.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/linuxmatters/doaprep/internal/dataset"
	"github.com/linuxmatters/doaprep/internal/processor"
)

// ErrNoRecordings is returned by Discover when the input directory holds
// nothing matching either recording pattern.
var ErrNoRecordings = errors.New("no recordings found")

// Discover lists the recordings in inputDir: silence recordings first, then
// directional ones, each group in lexical order.
func Discover(inputDir string) ([]string, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory %q is not a directory", inputDir)
	}

	silence, err := filepath.Glob(filepath.Join(inputDir, dataset.SilencePattern))
	if err != nil {
		return nil, err
	}
	directional, err := filepath.Glob(filepath.Join(inputDir, dataset.DirectionalPattern))
	if err != nil {
		return nil, err
	}
	directional = lo.Filter(directional, func(path string, _ int) bool {
		return !dataset.IsSilenceName(path)
	})

	slices.Sort(silence)
	slices.Sort(directional)
	files := append(silence, directional...)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoRecordings, inputDir)
	}
	return files, nil
}

// Options controls a batch run. The callbacks are invoked from worker
// goroutines and must be safe for concurrent use.
type Options struct {
	OutputDir string
	Config    *processor.Config
	Jobs      int  // concurrent recordings, <= 0 means one
	KeepGoing bool // continue past failed recordings instead of cancelling the rest
	DryRun    bool // classify and count records without writing them
	Logger    *slog.Logger

	OnStart    func(index int, path string, kind dataset.Kind)
	OnProgress func(index int, pass int, passName string, progress float64, cal *processor.Calibration)
	OnComplete func(FileResult)
}

// FileResult is the outcome of one recording.
type FileResult struct {
	Index     int
	Path      string
	Kind      dataset.Kind
	Result    *processor.ProcessingResult // nil on failure
	Err       error
	Skipped   bool // not started, or interrupted, because another recording failed
	StartTime time.Time
	EndTime   time.Time
}

// Summary collects every FileResult of a run in input order.
type Summary struct {
	Files []FileResult
}

// Failed counts recordings that failed or were skipped.
func (s *Summary) Failed() int {
	return lo.CountBy(s.Files, func(f FileResult) bool { return f.Err != nil })
}

// Written totals the records written across the run.
func (s *Summary) Written() int {
	return lo.SumBy(s.Files, func(f FileResult) int {
		if f.Result == nil {
			return 0
		}
		return f.Result.Sink.Written
	})
}

// Errors returns the per-file errors, skipped files excluded.
func (s *Summary) Errors() []error {
	return lo.FilterMap(s.Files, func(f FileResult, _ int) (error, bool) {
		return f.Err, f.Err != nil && !f.Skipped
	})
}

// Run processes files and returns one FileResult per file. Without
// KeepGoing the first failure cancels the remaining work and is returned.
func Run(ctx context.Context, files []string, opts Options) (*Summary, error) {
	if opts.Config == nil {
		opts.Config = processor.DefaultConfig()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	summary := &Summary{Files: make([]FileResult, len(files))}

	// cancel stops peers as soon as a recording fails, before its
	// OnComplete runs; errgroup would only cancel once the worker returns.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(max(1, opts.Jobs))

	for i, path := range files {
		g.Go(func() error {
			fr := processFile(gctx, i, path, opts, log)
			// Peers interrupted by another recording's failure did nothing wrong
			if fr.Err != nil && errors.Is(fr.Err, context.Canceled) && ctx.Err() == nil {
				fr.Skipped = true
			}
			summary.Files[i] = fr

			failed := fr.Err != nil && !fr.Skipped && !opts.KeepGoing
			if failed {
				cancel()
			}
			if opts.OnComplete != nil {
				opts.OnComplete(fr)
			}
			if failed {
				return fr.Err
			}
			return nil
		})
	}

	err := g.Wait()
	log.Debug("batch finished", "files", len(files), "failed", summary.Failed(), "written", summary.Written())
	return summary, err
}

func processFile(ctx context.Context, index int, path string, opts Options, log *slog.Logger) FileResult {
	fr := FileResult{Index: index, Path: path, Kind: dataset.KindDirectional, StartTime: time.Now()}
	if dataset.IsSilenceName(path) {
		fr.Kind = dataset.KindSilence
	}

	if err := ctx.Err(); err != nil {
		fr.Err = err
		fr.Skipped = true
		fr.EndTime = time.Now()
		return fr
	}

	cfg := opts.Config
	seed := dataset.SeedFor(cfg.Seed, filepath.Base(path))
	writer := dataset.NewRecordWriter(opts.OutputDir)
	if opts.DryRun {
		writer = dataset.NewDryRunWriter(opts.OutputDir)
	}
	sink, kind, err := dataset.NewSink(path, cfg, writer, dataset.NewDropPolicy(cfg.DropPercent, seed))
	fr.Kind = kind
	if err != nil {
		fr.Err = fmt.Errorf("input file %q: %w", path, err)
		fr.EndTime = time.Now()
		log.Error("recording rejected", "file", path, "error", err)
		return fr
	}

	flog := log.With("file", path, "kind", kind.String())
	flog.Debug("recording started", "prefix", sink.Prefix(), "seed", seed)
	if opts.OnStart != nil {
		opts.OnStart(index, path, kind)
	}

	progress := func(pass int, passName string, p float64, cal *processor.Calibration) {
		if pass == 1 && cal != nil {
			flog.Debug("calibrated", "peak", cal.Peak, "threshold", cal.Threshold)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(index, pass, passName, p, cal)
		}
	}

	fr.Result, fr.Err = processor.ProcessRecording(ctx, path, cfg, sink, progress)
	fr.EndTime = time.Now()
	if fr.Err != nil {
		fr.Result = nil
		flog.Error("recording failed", "error", fr.Err)
		return fr
	}

	flog.Debug("recording complete",
		"chunks", fr.Result.Chunks,
		"signal", fr.Result.SignalChunks,
		"silence", fr.Result.SilenceChunks,
		"written", fr.Result.Sink.Written,
		"dropped", fr.Result.Sink.Dropped,
	)
	return fr
}
