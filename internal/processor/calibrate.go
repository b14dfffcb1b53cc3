package processor

import (
	"errors"
	"fmt"
)

// ErrRecordingTooShort is returned when a recording ends inside, or exactly
// at the end of, the calibration window.
var ErrRecordingTooShort = errors.New("recording is too short")

// Calibration is the background-noise estimate for one recording.
// Offsets are sample indices into the interleaved buffer.
type Calibration struct {
	SkipOffset int     // first sample of the silence training window
	TrainEnd   int     // first sample after the window; classification starts here
	Peak       int64   // maximum absolute sample inside the window
	Threshold  float64 // Peak scaled by the threshold factor, not rounded
}

// Calibrate measures the loudest sample in the known-silent training window
// and derives the silence threshold from it.
//
// The window starts after the initial skip, which discards the glitch the
// USB microphones emit when capture starts. At least one sample must remain
// after the window, otherwise there is nothing to classify.
func Calibrate(samples []int32, cfg *Config) (*Calibration, error) {
	skip := SecondsToOffset(cfg.SampleRate, cfg.Channels, cfg.InitialSkipSecs)
	trainEnd := skip + SecondsToOffset(cfg.SampleRate, cfg.Channels, cfg.SilenceTrainingSecs)

	if skip >= len(samples) || trainEnd >= len(samples) {
		return nil, fmt.Errorf("%w: %d samples, calibration needs more than %d",
			ErrRecordingTooShort, len(samples), trainEnd)
	}

	peak := peakAbs(samples[skip:trainEnd])

	return &Calibration{
		SkipOffset: skip,
		TrainEnd:   trainEnd,
		Peak:       peak,
		Threshold:  float64(peak) * cfg.ThresholdFactor,
	}, nil
}

// peakAbs returns the largest absolute value in samples.
// Widening to int64 keeps |MinInt32| representable.
func peakAbs(samples []int32) int64 {
	var peak int64
	for _, s := range samples {
		if v := abs64(s); v > peak {
			peak = v
		}
	}
	return peak
}

func abs64(s int32) int64 {
	v := int64(s)
	if v < 0 {
		return -v
	}
	return v
}
