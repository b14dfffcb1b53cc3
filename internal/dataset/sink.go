package dataset

import (
	"fmt"

	"github.com/linuxmatters/doaprep/internal/processor"
)

// SilenceDir is the output directory for silence records, relative to the root.
const SilenceDir = "silence"

// Kind identifies which sink a recording is routed to
type Kind int

const (
	KindSilence Kind = iota
	KindDirectional
)

func (k Kind) String() string {
	if k == KindSilence {
		return "silence"
	}
	return "directional"
}

// recordSink holds what both sinks share: the source name, the writer and
// the drop policy. Every physical write goes through save.
type recordSink struct {
	srcPath string
	writer  *RecordWriter
	drop    *DropPolicy
	stats   processor.SinkStats
}

func (s *recordSink) save(dir string, data []int32, offset int) (bool, error) {
	if !s.drop.Keep() {
		s.stats.Dropped++
		return false, nil
	}
	if _, err := s.writer.Write(dir, RecordName(s.srcPath, offset), data); err != nil {
		return false, err
	}
	s.stats.Written++
	return true, nil
}

func (s *recordSink) Stats() processor.SinkStats {
	return s.stats
}

func (s *recordSink) Discard() error {
	err := s.writer.RemoveAll()
	s.stats.Written = 0
	return err
}

// SilenceSink stores every chunk verbatim under the silence directory,
// whatever its label. Feed it only recordings known to contain no signal.
type SilenceSink struct {
	recordSink
}

// NewSilenceSink creates a sink for a silence-only recording.
func NewSilenceSink(srcPath string, writer *RecordWriter, drop *DropPolicy) *SilenceSink {
	return &SilenceSink{recordSink{srcPath: srcPath, writer: writer, drop: drop}}
}

// Prefix returns the silence directory
func (s *SilenceSink) Prefix() string {
	return SilenceDir
}

// Submit writes the chunk unless the random drop discards it.
func (s *SilenceSink) Submit(chunk []int32, offset int, label processor.Label) (bool, error) {
	s.stats.Submitted++
	return s.save(SilenceDir, chunk, offset)
}

// DirectionalSink turns every signal chunk of a directional recording into
// one rotated, normalised variant per microphone offset.
type DirectionalSink struct {
	recordSink
	channels int
	dirs     []string // output directory per rotation offset
	variant  []int32
}

// NewDirectionalSink parses the recording's placement from its name and
// precomputes the output directory of every rotation offset.
func NewDirectionalSink(srcPath string, cfg *processor.Config, writer *RecordWriter, drop *DropPolicy) (*DirectionalSink, error) {
	desc, err := ParseDescriptor(srcPath)
	if err != nil {
		return nil, err
	}

	dirs := make([]string, cfg.Channels)
	for r := range dirs {
		dirs[r] = desc.AngleDir(processor.RotationAngle(desc.SubAngle, cfg.Channels, r))
	}

	return &DirectionalSink{
		recordSink: recordSink{srcPath: srcPath, writer: writer, drop: drop},
		channels:   cfg.Channels,
		dirs:       dirs,
		variant:    make([]int32, cfg.ChunkLen()),
	}, nil
}

// Dirs returns the output directory of each rotation offset
func (s *DirectionalSink) Dirs() []string {
	return s.dirs
}

// Prefix returns the directory of the unrotated recording
func (s *DirectionalSink) Prefix() string {
	return s.dirs[0]
}

// Submit rejects silence so it never ends up labelled with a direction.
// Signal chunks are written once per rotation offset, each variant subject
// to its own random drop.
func (s *DirectionalSink) Submit(chunk []int32, offset int, label processor.Label) (bool, error) {
	s.stats.Submitted++
	if label == processor.LabelSilence {
		s.stats.Rejected++
		return false, nil
	}
	if len(chunk) != len(s.variant) {
		return false, fmt.Errorf("chunk has %d samples, expected %d", len(chunk), len(s.variant))
	}

	wrote := false
	for r, dir := range s.dirs {
		processor.Variant(s.variant, chunk, s.channels, r)
		ok, err := s.save(dir, s.variant, offset)
		if err != nil {
			return wrote, err
		}
		wrote = wrote || ok
	}
	return wrote, nil
}

// NewSink picks the sink for a recording from its file name.
func NewSink(srcPath string, cfg *processor.Config, writer *RecordWriter, drop *DropPolicy) (processor.Sink, Kind, error) {
	if IsSilenceName(srcPath) {
		return NewSilenceSink(srcPath, writer, drop), KindSilence, nil
	}
	sink, err := NewDirectionalSink(srcPath, cfg, writer, drop)
	if err != nil {
		return nil, KindDirectional, err
	}
	return sink, KindDirectional, nil
}
