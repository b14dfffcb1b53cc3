package processor

// Label is the acoustic class of a chunk
type Label int

const (
	LabelSignal Label = iota
	LabelSilence
)

func (l Label) String() string {
	switch l {
	case LabelSilence:
		return "silence"
	case LabelSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// Chunk is a private copy of ChunkLen samples taken from a recording.
// Offset is the index of its first sample in the source buffer.
type Chunk struct {
	Data   []int32
	Offset int
	Label  Label
}

// ChunkFunc receives each classified chunk in offset order. The chunk's Data
// slice is reused between calls; copy it to keep it. Returning an error
// stops classification.
type ChunkFunc func(chunk *Chunk) error

// Classifier labels fixed-size chunks against a calibrated threshold.
type Classifier struct {
	chunkLen  int
	minActive int
	threshold float64
	rule      LabelRule
}

// NewClassifier creates a classifier for the given calibration.
func NewClassifier(cfg *Config, cal *Calibration) *Classifier {
	return &Classifier{
		chunkLen:  cfg.ChunkLen(),
		minActive: cfg.MinActiveSamples(),
		threshold: cal.Threshold,
		rule:      cfg.LabelRule,
	}
}

// ActiveSamples counts samples whose magnitude reaches the threshold.
func (c *Classifier) ActiveSamples(chunk []int32) int {
	n := 0
	for _, s := range chunk {
		if float64(abs64(s)) >= c.threshold {
			n++
		}
	}
	return n
}

// Label classifies one chunk.
//
// Under LabelRuleLegacy a chunk is Silence when enough samples are active.
// This reads inverted, but corpora and trained models depend on it, so it is
// kept as the default and LabelRuleActivity is opt-in.
func (c *Classifier) Label(chunk []int32) Label {
	enough := c.ActiveSamples(chunk) >= c.minActive

	if c.rule == LabelRuleActivity {
		if enough {
			return LabelSignal
		}
		return LabelSilence
	}

	if enough {
		return LabelSilence
	}
	return LabelSignal
}

// NumChunks returns how many whole chunks fit after start.
func (c *Classifier) NumChunks(total, start int) int {
	if c.chunkLen <= 0 || total-start < c.chunkLen {
		return 0
	}
	return (total - start) / c.chunkLen
}

// Classify walks non-overlapping chunks from start to the end of samples,
// dropping any trailing remainder shorter than a chunk, and hands each
// labelled copy to fn.
func (c *Classifier) Classify(samples []int32, start int, fn ChunkFunc) error {
	if c.chunkLen <= 0 {
		return nil
	}
	chunk := &Chunk{Data: make([]int32, c.chunkLen)}

	for off := start; off <= len(samples)-c.chunkLen; off += c.chunkLen {
		copy(chunk.Data, samples[off:off+c.chunkLen])
		chunk.Offset = off
		chunk.Label = c.Label(chunk.Data)

		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}
