// Package processor segments raw microphone recordings into labelled chunks
// and synthesises rotated training variants from them.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linuxmatters/doaprep/internal/audio"
)

// Pass names reported through the progress callback
const (
	PassCalibrating = "Calibrating"
	PassClassifying = "Classifying"
)

// SinkStats counts what a sink did with the chunks submitted to it
type SinkStats struct {
	Submitted int // chunks handed to the sink
	Written   int // records persisted
	Dropped   int // records skipped by the random drop
	Rejected  int // chunks refused because of their label
}

// Sink persists classified chunks. Implementations decide which labels they
// keep and how many records a chunk becomes.
type Sink interface {
	// Submit offers one chunk and reports whether any record was written.
	// chunk is only valid for the duration of the call.
	Submit(chunk []int32, offset int, label Label) (bool, error)
	// Prefix names the output location, e.g. "silence" or an angle path.
	Prefix() string
	Stats() SinkStats
	// Discard removes every record written so far.
	Discard() error
}

// ProgressFunc receives progress updates: pass 1 is calibration, pass 2 is
// classification. progress runs from 0.0 to 1.0 within each pass.
type ProgressFunc func(pass int, passName string, progress float64, cal *Calibration)

// ProcessingResult summarises one recording
type ProcessingResult struct {
	InputPath    string
	Prefix       string
	Samples      int
	DurationSecs float64
	Calibration  *Calibration

	Chunks        int // chunks classified
	SilenceChunks int
	SignalChunks  int
	Accepted      int // chunks for which the sink wrote at least one record
	Sink          SinkStats

	CalibrateTime time.Duration
	ClassifyTime  time.Duration
}

// Coverage returns the percentage of the recording that ended up in accepted chunks.
func (r *ProcessingResult) Coverage(chunkLen int) float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.Accepted*chunkLen) * 100 / float64(r.Samples)
}

// ProcessRecording runs the complete pipeline for one raw recording:
// - Pass 1: calibrate the silence threshold from the training window
// - Pass 2: classify every chunk after the window and submit it to sink
//
// If any step fails, everything the sink wrote for this recording is
// discarded so a failed file never leaves partial output behind.
// If progressCallback is not nil, it will be called with progress updates.
func ProcessRecording(ctx context.Context, inputPath string, cfg *Config, sink Sink, progressCallback ProgressFunc) (result *ProcessingResult, err error) {
	defer func() {
		if err == nil {
			return
		}
		if derr := sink.Discard(); derr != nil {
			err = errors.Join(err, fmt.Errorf("failed to discard partial output: %w", derr))
		}
	}()

	buf, err := audio.OpenSampleBuffer(inputPath)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	result = &ProcessingResult{
		InputPath:    inputPath,
		Prefix:       sink.Prefix(),
		Samples:      buf.Len(),
		DurationSecs: buf.Duration(cfg.SampleRate, cfg.Channels),
	}

	// Pass 1: Calibration
	if progressCallback != nil {
		progressCallback(1, PassCalibrating, 0.0, nil)
	}
	calStart := time.Now()
	cal, err := Calibrate(buf.Samples(), cfg)
	if err != nil {
		return nil, fmt.Errorf("input file %q: %w", inputPath, err)
	}
	result.Calibration = cal
	result.CalibrateTime = time.Since(calStart)
	if progressCallback != nil {
		progressCallback(1, PassCalibrating, 1.0, cal)
	}

	// Pass 2: Classification
	classifier := NewClassifier(cfg, cal)
	total := classifier.NumChunks(buf.Len(), cal.TrainEnd)
	step := max(1, total/100)

	if progressCallback != nil {
		progressCallback(2, PassClassifying, 0.0, cal)
	}
	classifyStart := time.Now()
	err = classifier.Classify(buf.Samples(), cal.TrainEnd, func(chunk *Chunk) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		result.Chunks++
		if chunk.Label == LabelSilence {
			result.SilenceChunks++
		} else {
			result.SignalChunks++
		}

		written, err := sink.Submit(chunk.Data, chunk.Offset, chunk.Label)
		if err != nil {
			return fmt.Errorf("chunk at offset %d: %w", chunk.Offset, err)
		}
		if written {
			result.Accepted++
		}

		if progressCallback != nil && result.Chunks%step == 0 {
			progressCallback(2, PassClassifying, float64(result.Chunks)/float64(total), cal)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("input file %q: %w", inputPath, err)
	}
	result.ClassifyTime = time.Since(classifyStart)
	result.Sink = sink.Stats()

	if progressCallback != nil {
		progressCallback(2, PassClassifying, 1.0, cal)
	}

	return result, nil
}
