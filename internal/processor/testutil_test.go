package processor

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// TestRecordingOptions configures a synthetic raw recording
type TestRecordingOptions struct {
	Channels   int
	Frames     int   // total frames in the file
	QuietUntil int   // sample offset where the quiet lead-in ends
	NoiseLevel int32 // peak amplitude of lead-in noise (0 = digital silence)
	ToneLevel  int32 // amplitude of the signal after the lead-in
	ToneChans  []int // channels carrying the signal (default: channel 0)
}

// generateRecording builds interleaved samples: deterministic low-level noise
// up to QuietUntil, then a constant-amplitude signal on ToneChans.
func generateRecording(opts TestRecordingOptions) []int32 {
	if opts.Channels == 0 {
		opts.Channels = 8
	}
	if len(opts.ToneChans) == 0 {
		opts.ToneChans = []int{0}
	}
	tone := make(map[int]bool, len(opts.ToneChans))
	for _, c := range opts.ToneChans {
		tone[c] = true
	}

	// Simple LCG for deterministic noise
	rngState := uint32(12345)
	nextNoise := func() int32 {
		if opts.NoiseLevel == 0 {
			return 0
		}
		rngState = rngState*1664525 + 1013904223
		return int32(rngState%uint32(2*opts.NoiseLevel+1)) - opts.NoiseLevel
	}

	samples := make([]int32, opts.Frames*opts.Channels)
	for i := range samples {
		if i < opts.QuietUntil {
			samples[i] = nextNoise()
			continue
		}
		if tone[i%opts.Channels] {
			samples[i] = opts.ToneLevel
		}
	}
	return samples
}

// writeRecording stores samples as a raw S32LE file and returns its path.
func writeRecording(t *testing.T, name string, samples []int32) string {
	t.Helper()

	data := make([]byte, 0, len(samples)*4)
	for _, s := range samples {
		data = binary.LittleEndian.AppendUint32(data, uint32(s))
	}

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write test recording: %v", err)
	}
	return path
}

// newTestConfig returns a small configuration that keeps test data compact:
// 8 channels at 100 Hz gives a 400 sample skip and a window ending at 1200.
func newTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.SampleRate = 100
	cfg.ChunkFrames = 4
	cfg.DropPercent = 0
	cfg.Seed = 1
	return cfg
}

// fakeSink records submissions without touching the filesystem
type fakeSink struct {
	offsets   []int
	labels    []Label
	failAt    int // offset that returns an error, -1 for never
	discarded bool
	stats     SinkStats
}

func newFakeSink() *fakeSink {
	return &fakeSink{failAt: -1}
}

func (s *fakeSink) Submit(chunk []int32, offset int, label Label) (bool, error) {
	if offset == s.failAt {
		return false, os.ErrPermission
	}
	s.stats.Submitted++
	s.offsets = append(s.offsets, offset)
	s.labels = append(s.labels, label)
	if label == LabelSilence {
		s.stats.Rejected++
		return false, nil
	}
	s.stats.Written++
	return true, nil
}

func (s *fakeSink) Prefix() string   { return "fake" }
func (s *fakeSink) Stats() SinkStats { return s.stats }

func (s *fakeSink) Discard() error {
	s.discarded = true
	return nil
}
