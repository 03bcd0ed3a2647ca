package disk_image_create

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// progressInterval is the minimum spacing between two progress publications
// of the same request, except the mandatory final one.
const progressInterval = 100 * time.Millisecond

// imageFile is the part of *os.File the write worker needs. Narrowed so
// tests can substitute failing files.
type imageFile interface {
	io.Writer
	io.Seeker
	Sync() error
	Close() error
}

type openImageFunc func(path string) (imageFile, error)

func openImageOS(path string) (imageFile, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// writeWorker grows and zero-fills one image file on a background goroutine.
// Exactly one writeWorker exists per request; it is the only writer of the
// destination file and of imageState apart from the cancel latch.
type writeWorker struct {
	state  *imageState
	open   openImageFunc
	now    func() time.Time
	logger zerolog.Logger

	lastEmit time.Time
}

// run executes the allocation. sizeBytes must be positive; the caller
// validates that. Any file this attempt created is removed before the error
// latch is set, so no partial image ever remains. A pre-existing file at
// path fails the request without touching it.
func (w *writeWorker) run(path string, sizeBytes uint64) {
	var buf [chunkSize]byte

	if _, err := os.Stat(path); err == nil {
		// Nothing was created by this request, so nothing to delete.
		w.fail(path, errKindPathExists, nil)
		return
	}

	f, err := w.open(path)
	if err != nil {
		w.fail(path, errKindOpen, err)
		return
	}

	// Size the file to full length up front by writing a single byte at the
	// end, then fill from the start.
	if _, err := f.Seek(int64(sizeBytes)-1, io.SeekStart); err != nil {
		w.discard(f, path, errKindWrite, err)
		return
	}
	if _, err := f.Write(buf[:1]); err != nil {
		w.discard(f, path, errKindWrite, err)
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		w.discard(f, path, errKindWrite, err)
		return
	}

	w.lastEmit = w.now()

	totalUnits := byteSizeToUnitCnt(sizeBytes)
	for unitIdx := int64(0); unitIdx < totalUnits; unitIdx++ {
		chunks := chunksInUnit(sizeBytes, unitIdx)
		for i := int64(0); i < chunks; i++ {
			if _, err := f.Write(buf[:]); err != nil {
				w.discard(f, path, errKindWrite, err)
				return
			}
		}
		if chunks != chunksPerUnit {
			tail := tailBytesInUnit(sizeBytes, unitIdx, chunks)
			if _, err := f.Write(buf[:tail]); err != nil {
				w.discard(f, path, errKindWrite, err)
				return
			}
		}

		if now := w.now(); now.Sub(w.lastEmit) >= progressInterval || unitIdx+1 == totalUnits {
			w.lastEmit = now
			w.state.publish(unitIdx + 1)
		}
		if w.state.isCanceled() {
			w.discard(f, path, errKindCanceled, nil)
			return
		}
	}

	if err := f.Sync(); err != nil {
		w.discard(f, path, errKindWrite, err)
		return
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		w.fail(path, errKindWrite, err)
		return
	}
	w.state.markCompleted()
}

// discard closes and removes the partially written file, then latches the
// failure.
func (w *writeWorker) discard(f imageFile, path string, kind errorKind, cause error) {
	f.Close()
	os.Remove(path)
	w.fail(path, kind, cause)
}

func (w *writeWorker) fail(path string, kind errorKind, cause error) {
	w.logger.Error().
		Str("path", path).
		Str("kind", kind.String()).
		Err(cause).
		Msg("image creation failed")
	w.state.setError(kind)
}
