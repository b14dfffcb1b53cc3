//go:build unix

package audio

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// OpenSampleBuffer maps a raw S32LE recording read-only.
// Any trailing bytes shorter than one sample are ignored.
func OpenSampleBuffer(path string) (*SampleBuffer, error) {
	if !hostIsLittleEndian() {
		return nil, fmt.Errorf("failed to open %q: %w", path, ErrBigEndian)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	// The mapping stays valid after the descriptor is closed.
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}

	size := wholeSamples(info.Size())
	if size == 0 {
		return &SampleBuffer{path: path}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("file %q is too large to map (%d bytes)", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap file %q: %w", path, err)
	}
	// Advice only; the scan still works if the kernel ignores it.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &SampleBuffer{
		path:    path,
		data:    data,
		samples: viewInt32(data),
		release: unix.Munmap,
	}, nil
}
