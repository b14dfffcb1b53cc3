//go:build !unix

package audio

import (
	"fmt"
	"os"
)

// OpenSampleBuffer reads a raw S32LE recording into memory.
// Platforms without mmap get the same read-only view over a private copy.
func OpenSampleBuffer(path string) (*SampleBuffer, error) {
	if !hostIsLittleEndian() {
		return nil, fmt.Errorf("failed to open %q: %w", path, ErrBigEndian)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	data = data[:wholeSamples(int64(len(data)))]
	if len(data) == 0 {
		return &SampleBuffer{path: path}, nil
	}

	return &SampleBuffer{
		path:    path,
		data:    data,
		samples: viewInt32(data),
	}, nil
}
