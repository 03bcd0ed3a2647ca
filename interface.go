package disk_image_create

import (
	"context"
	"errors"
)

var (
	ErrPathExists = errors.New("destination path already exists")
	ErrOpen       = errors.New("cannot open destination file")
	ErrWrite      = errors.New("seek or write failed")
	ErrCanceled   = errors.New("image creation canceled")
)

// Request describes one image file to create. It is immutable once passed to
// Creator.Create.
type Request struct {
	// Path is the destination of the image file. It must not exist yet.
	Path string
	// SizeBytes is the exact length of the resulting file. Must be positive.
	SizeBytes uint64
}

// Canceler requests cancellation of an in-flight image creation. Safe to
// call from any goroutine, at any time, more than once. Cancellation is
// observed at MiB boundaries and is irrevocable once observed.
type Canceler interface {
	RequestCancel()
}

// ProgressSink receives progress of a running image creation. All methods
// are invoked on the goroutine that runs the creation (the owning context),
// at a fixed polling cadence.
type ProgressSink interface {
	// ReportTotal is called once before the write starts. totalUnits is the
	// image size in whole MiB, rounded up. cancel stays valid until
	// ReportOutcome and may be used to cancel asynchronously.
	ReportTotal(totalUnits int64, cancel Canceler)
	// ReportProgress is called periodically with the number of completed
	// MiB units. currentUnits is non-decreasing and reaches totalUnits
	// exactly when the write succeeds.
	ReportProgress(currentUnits, totalUnits int64)
	// ShouldCancel is polled together with ReportProgress. Returning true
	// requests cancellation.
	ShouldCancel() bool
	// ReportOutcome is called once after the write reached a terminal state.
	ReportOutcome(succeeded bool)
}

// Creator creates fixed-size, fully zero-filled image files.
type Creator interface {
	// Create blocks until the file at req.Path exists with exactly
	// req.SizeBytes zero bytes, or until the attempt failed. On failure no
	// partial file remains and the returned error matches one of
	// ErrPathExists, ErrOpen, ErrWrite or ErrCanceled via errors.Is.
	//
	// Canceling ctx cancels the creation.
	Create(ctx context.Context, req Request) error
}
