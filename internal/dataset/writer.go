package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RecordWriter dumps raw S32LE records beneath a root directory and keeps a
// list of everything it wrote, so the output of a failed recording can be
// removed again.
type RecordWriter struct {
	root   string
	dryRun bool

	mu      sync.Mutex
	dirs    map[string]struct{}
	written []string
	planned int // dry run only
	buf     []byte
}

// NewRecordWriter creates a writer rooted at root. Directories are created
// on first use.
func NewRecordWriter(root string) *RecordWriter {
	return &RecordWriter{
		root: root,
		dirs: make(map[string]struct{}),
	}
}

// NewDryRunWriter creates a writer that counts records without touching
// the filesystem.
func NewDryRunWriter(root string) *RecordWriter {
	w := NewRecordWriter(root)
	w.dryRun = true
	return w
}

// RecordName builds the output file name for a chunk: the source file name
// (extension included, so the origin stays unambiguous) and the chunk's
// starting sample offset.
func RecordName(srcPath string, offset int) string {
	return fmt.Sprintf("%s_%d", filepath.Base(srcPath), offset)
}

// Write stores samples as <root>/<dir>/<name>, replacing any existing file.
func (w *RecordWriter) Write(dir, name string, samples []int32) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	outDir := filepath.Join(w.root, dir)
	if w.dryRun {
		w.planned++
		return filepath.Join(outDir, name), nil
	}
	if _, ok := w.dirs[outDir]; !ok {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", outDir, err)
		}
		w.dirs[outDir] = struct{}{}
	}

	w.buf = w.buf[:0]
	for _, s := range samples {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(s))
	}

	dst := filepath.Join(outDir, name)
	if err := writeRecordFile(dst, w.buf); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", dst, err)
	}
	w.written = append(w.written, dst)
	return dst, nil
}

// writeRecordFile writes data to a temporary file next to dst and renames it
// into place, so a failed write never leaves a short record under dst.
func writeRecordFile(dst string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tempFileName := tempFile.Name()
	// No-op once the rename has succeeded
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Chmod(0o644); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}
	return os.Rename(tempFileName, dst)
}

// Written returns the number of records written and not yet removed.
func (w *RecordWriter) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.written) + w.planned
}

// RemoveAll deletes every record this writer created. Directories are left
// in place since other recordings may share them.
func (w *RecordWriter) RemoveAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	for _, path := range w.written {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	w.written = nil
	w.planned = 0
	return errors.Join(errs...)
}
