// internal/pipeline/stages.go
package pipeline

import (
	"vhsengine/internal/chunk"
	"vhsengine/internal/execx"
	"vhsengine/internal/ffmpeg"
)

// Stage interfaces. The driver accepts these so scheduling, recovery and
// reap ordering can be tested with fakes that never spawn a process.

// FrameExtractor decodes one chunk's time range into numbered frames and
// reports how many were produced.
type FrameExtractor interface {
	Extract(c chunk.Chunk, dir string) (int, error)
}

// Upscaler runs the super-resolution model on a frame directory and reports
// the output frame count.
type Upscaler interface {
	Upscale(inDir, outDir string) (int, error)
}

// Interpolator runs the frame-interpolation model on a frame directory and
// reports the output frame count.
type Interpolator interface {
	Interpolate(inDir, outDir string) (int, error)
}

// Assembler re-encodes a chunk's final frame set plus its audio slice into
// a lossless intermediate segment.
type Assembler interface {
	Assemble(c chunk.Chunk, framesDir, audioPath, segmentPath string) error
}

// Concatenator losslessly joins ordered segments into the final output.
type Concatenator interface {
	Concat(segments []string, out string) error
}

// FFmpegExtractor is the production FrameExtractor.
type FFmpegExtractor struct {
	Runner execx.Runner
	Source string
	FPS    float64
}

func (e FFmpegExtractor) Extract(c chunk.Chunk, dir string) (int, error) {
	if err := ffmpeg.ExtractFrames(e.Runner, e.Source, c.Start, c.End, e.FPS, dir); err != nil {
		return 0, err
	}
	return ffmpeg.CountFrames(dir)
}

// FFmpegAssembler is the production Assembler. The encoded frame rate is the
// source rate multiplied by the interpolation factor.
type FFmpegAssembler struct {
	Runner    execx.Runner
	Source    string
	OutputFPS float64
}

func (a FFmpegAssembler) Assemble(c chunk.Chunk, framesDir, audioPath, segmentPath string) error {
	ffmpeg.ExtractAudioSlice(a.Runner, a.Source, c.Start, c.End, audioPath)
	return ffmpeg.EncodeSegment(a.Runner, framesDir, a.OutputFPS, audioPath, segmentPath)
}

// FFmpegConcatenator is the production Concatenator.
type FFmpegConcatenator struct {
	Runner   execx.Runner
	ListPath string
}

func (f FFmpegConcatenator) Concat(segments []string, out string) error {
	if err := ffmpeg.WriteConcatList(f.ListPath, segments); err != nil {
		return err
	}
	return ffmpeg.Concat(f.Runner, f.ListPath, out)
}
