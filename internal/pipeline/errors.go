// internal/pipeline/errors.go
package pipeline

import (
	"fmt"

	"vhsengine/internal/chunk"
)

// Chunk-local failures abort the current chunk without touching other
// chunks' artifacts; each names the chunk identifier and time range so the
// preserved intermediates can be inspected before a force-restart discards
// them.

// ExtractionError reports a failed or inconsistent frame decode.
type ExtractionError struct {
	Chunk chunk.Chunk
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("frame extraction failed for %s (%s): %v", e.Chunk.ID(), e.Chunk.TimeRange(), e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ModelInvocationError reports a super-resolution or interpolation process
// that exited non-zero or produced a mismatched frame count.
type ModelInvocationError struct {
	Chunk chunk.Chunk
	Stage string // "upscale" or "interpolate"
	Err   error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("%s failed for %s (%s): %v", e.Stage, e.Chunk.ID(), e.Chunk.TimeRange(), e.Err)
}

func (e *ModelInvocationError) Unwrap() error { return e.Err }

// AssemblyError reports a segment encode that failed or silently produced a
// missing/empty file.
type AssemblyError struct {
	Chunk chunk.Chunk
	Err   error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("segment assembly failed for %s (%s): %v", e.Chunk.ID(), e.Chunk.TimeRange(), e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// ConcatenationError is fatal: the run state and the filesystem disagree
// about which segments exist. It requires a force-restart rather than a
// silent partial output.
type ConcatenationError struct {
	Err error
}

func (e *ConcatenationError) Error() string {
	return fmt.Sprintf("concatenation failed (state/filesystem inconsistency, force-restart required): %v", e.Err)
}

func (e *ConcatenationError) Unwrap() error { return e.Err }
