// Package audio provides read access to raw S32LE microphone recordings
// and WAV export for auditioning them.
package audio

import (
	"encoding/binary"
	"errors"
	"unsafe"
)

// BytesPerSample is the width of one S32LE sample word.
const BytesPerSample = 4

// ErrBigEndian is returned when the host byte order cannot view S32LE data in place.
var ErrBigEndian = errors.New("big endian hosts are not supported")

// SampleBuffer is a read-only view over an interleaved S32LE recording.
// The samples are not copied: Samples aliases the mapped file, so callers
// must copy any span they intend to modify and must not use the slice
// after Close.
type SampleBuffer struct {
	path    string
	data    []byte
	samples []int32
	release func([]byte) error
}

// Path returns the file the buffer was opened from
func (b *SampleBuffer) Path() string {
	return b.path
}

// Samples returns the decoded sample sequence
func (b *SampleBuffer) Samples() []int32 {
	return b.samples
}

// Len returns the number of whole samples in the buffer
func (b *SampleBuffer) Len() int {
	return len(b.samples)
}

// Duration returns the recording length in seconds for the given format
func (b *SampleBuffer) Duration(sampleRate, channels int) float64 {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	return float64(len(b.samples)/channels) / float64(sampleRate)
}

// Close releases the underlying mapping. It is safe to call more than once.
func (b *SampleBuffer) Close() error {
	if b.data == nil {
		return nil
	}
	data := b.data
	b.data = nil
	b.samples = nil
	if b.release == nil {
		return nil
	}
	return b.release(data)
}

// hostIsLittleEndian reports whether int32 words can be read in place.
func hostIsLittleEndian() bool {
	return binary.NativeEndian.Uint16([]byte{1, 0}) == 1
}

// wholeSamples truncates a byte length to a whole number of sample words.
func wholeSamples(size int64) int64 {
	return size - size%BytesPerSample
}

// viewInt32 reinterprets little-endian bytes as int32 samples without copying.
func viewInt32(data []byte) []int32 {
	if len(data) < BytesPerSample {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), len(data)/BytesPerSample)
}
