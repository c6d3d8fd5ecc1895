// internal/pipeline/layout.go
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"vhsengine/internal/chunk"
)

// Layout fixes every per-chunk artifact path under one processing root, so
// each stage, the reaper and a resumed run all agree on where a chunk's
// artifacts live.
type Layout struct {
	Root      string // processing directory
	OutputDir string
	baseName  string
	scale     int
}

// NewLayout builds the artifact layout for one source video and scale.
func NewLayout(processingDir, outputDir, sourcePath string, scale int) Layout {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return Layout{
		Root:      processingDir,
		OutputDir: outputDir,
		baseName:  base,
		scale:     scale,
	}
}

// FramesDir holds the chunk's extracted source-resolution frames.
func (l Layout) FramesDir(c chunk.Chunk) string {
	return filepath.Join(l.Root, "0_frames", c.ID())
}

// UpscaledDir holds the chunk's super-resolved frames.
func (l Layout) UpscaledDir(c chunk.Chunk) string {
	return filepath.Join(l.Root, "1_upscaled", c.ID())
}

// InterpolatedDir holds the chunk's interpolated frames.
func (l Layout) InterpolatedDir(c chunk.Chunk) string {
	return filepath.Join(l.Root, "2_interpolated", c.ID())
}

// AudioPath is the chunk's stream-copied audio slice.
func (l Layout) AudioPath(c chunk.Chunk) string {
	return filepath.Join(l.Root, "audio", c.ID()+".mka")
}

// SegmentsDir holds every assembled segment.
func (l Layout) SegmentsDir() string {
	return filepath.Join(l.Root, "segments")
}

// SegmentPath is the chunk's assembled lossless segment.
func (l Layout) SegmentPath(c chunk.Chunk) string {
	return filepath.Join(l.SegmentsDir(), c.ID()+".mkv")
}

// ArtifactDirs lists every artifact tree under the processing root. A reset
// removes them all, so a new job never inherits another job's files.
func (l Layout) ArtifactDirs() []string {
	return []string{
		filepath.Join(l.Root, "0_frames"),
		filepath.Join(l.Root, "1_upscaled"),
		filepath.Join(l.Root, "2_interpolated"),
		filepath.Join(l.Root, "audio"),
		l.SegmentsDir(),
	}
}

// ConcatListPath is the concat demuxer list for the final join.
func (l Layout) ConcatListPath() string {
	return filepath.Join(l.Root, "concat_list.txt")
}

// FinalOutputPath is the concatenated, chapter-ready output file.
func (l Layout) FinalOutputPath() string {
	return filepath.Join(l.OutputDir, fmt.Sprintf("%s_x%d_FINAL.mkv", l.baseName, l.scale))
}
