// internal/pipeline/reaper.go
package pipeline

import (
	"fmt"
	"os"

	"vhsengine/internal/chunk"
)

// Reaper reclaims one chunk's temporary artifacts: the extracted, upscaled
// and interpolated frame directories plus the audio slice. It refuses to run
// until the chunk's segment is durably written and non-empty — this ordering
// is the pipeline's space-bound invariant: at any instant only the in-flight
// chunk's full-resolution frames exist on disk, never the whole video's.
type Reaper struct {
	Layout Layout
}

// Reap deletes the chunk's frame directories and audio slice.
func (r Reaper) Reap(c chunk.Chunk) error {
	seg := r.Layout.SegmentPath(c)
	fi, err := os.Stat(seg)
	if err != nil {
		return fmt.Errorf("refusing to reap %s: segment not written: %v", c.ID(), err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("refusing to reap %s: segment is empty", c.ID())
	}

	for _, path := range []string{
		r.Layout.FramesDir(c),
		r.Layout.UpscaledDir(c),
		r.Layout.InterpolatedDir(c),
		r.Layout.AudioPath(c),
	} {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to reap %s: %v", path, err)
		}
	}
	return nil
}
