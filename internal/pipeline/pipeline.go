// internal/pipeline/pipeline.go
//
// The chunked execution engine. Chunks are processed strictly sequentially:
// one chunk's full extract→upscale→interpolate→assemble pipeline completes
// (or fails) before the next begins. Running chunks in parallel would
// multiply peak disk usage by the parallelism factor and defeat the
// auto-tuned budget.
package pipeline

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/schollz/progressbar/v3"

	"vhsengine/internal/chunk"
	"vhsengine/internal/interpolation"
	"vhsengine/internal/runstate"
)

// DefaultFrameCountTolerance is the accepted relative deviation between the
// extracted frame count and duration × frame rate. Tape captures routinely
// drop a frame or two at cut points; more than this signals a truncated or
// corrupt source range.
const DefaultFrameCountTolerance = 0.1

// Pipeline drives the per-chunk stages under the run state's resume
// semantics. Stage failures abort the run without marking the chunk done and
// without reaping its intermediates, which stay on disk for diagnosis.
type Pipeline struct {
	Layout Layout
	State  *runstate.Store
	Reaper Reaper

	Extractor    FrameExtractor
	Upscaler     Upscaler
	Interpolator Interpolator
	Assembler    Assembler
	Concatenator Concatenator

	SourceFPS    float64
	InterpFactor int

	// FrameCountTolerance overrides DefaultFrameCountTolerance when > 0.
	FrameCountTolerance float64

	// Out receives progress output; defaults to os.Stdout.
	Out io.Writer
}

func (p *Pipeline) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

// Run processes every chunk in order, skipping the ones the run state has
// already marked done, then concatenates all segments into the final output
// and returns its path. No stage is retried automatically: a transient model
// crash surfaces immediately rather than burning the disk budget twice.
func (p *Pipeline) Run(chunks []chunk.Chunk) (string, error) {
	if len(chunks) == 0 {
		return "", fmt.Errorf("empty chunk plan")
	}

	bar := progressbar.NewOptions(len(chunks),
		progressbar.OptionSetDescription("Processing chunks"),
		progressbar.OptionSetWriter(p.out()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
	)

	for _, c := range chunks {
		if p.State.IsDone(c.ID()) {
			// Leftovers from an interrupted reap are safe to clear: the
			// chunk's segment already exists.
			p.Reaper.Reap(c)
			bar.Add(1)
			continue
		}
		if err := p.processChunk(c); err != nil {
			fmt.Fprintln(p.out())
			return "", err
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(p.out())

	return p.concatenate(chunks)
}

func (p *Pipeline) processChunk(c chunk.Chunk) error {
	framesDir := p.Layout.FramesDir(c)
	upscaledDir := p.Layout.UpscaledDir(c)
	interpolatedDir := p.Layout.InterpolatedDir(c)
	segmentPath := p.Layout.SegmentPath(c)

	extracted, err := p.Extractor.Extract(c, framesDir)
	if err != nil {
		return &ExtractionError{Chunk: c, Err: err}
	}
	if err := p.validateExtractedCount(c, extracted); err != nil {
		return &ExtractionError{Chunk: c, Err: err}
	}

	upscaled, err := p.Upscaler.Upscale(framesDir, upscaledDir)
	if err != nil {
		return &ModelInvocationError{Chunk: c, Stage: "upscale", Err: err}
	}
	if upscaled != extracted {
		return &ModelInvocationError{Chunk: c, Stage: "upscale",
			Err: fmt.Errorf("frame count changed from %d to %d", extracted, upscaled)}
	}

	interpolated, err := p.Interpolator.Interpolate(upscaledDir, interpolatedDir)
	if err != nil {
		return &ModelInvocationError{Chunk: c, Stage: "interpolate", Err: err}
	}
	if want := interpolation.ExpectedFrames(upscaled, p.InterpFactor); interpolated < want {
		return &ModelInvocationError{Chunk: c, Stage: "interpolate",
			Err: fmt.Errorf("produced %d frames for %d inputs, want at least %d", interpolated, upscaled, want)}
	}

	if err := p.Assembler.Assemble(c, interpolatedDir, p.Layout.AudioPath(c), segmentPath); err != nil {
		return &AssemblyError{Chunk: c, Err: err}
	}
	fi, err := os.Stat(segmentPath)
	if err != nil {
		return &AssemblyError{Chunk: c, Err: fmt.Errorf("segment missing after encode: %v", err)}
	}
	if fi.Size() == 0 {
		return &AssemblyError{Chunk: c, Err: fmt.Errorf("segment is empty after encode")}
	}

	// Write-after-effect ordering: the segment is durable before the run
	// record says so.
	if err := p.State.MarkDone(c.ID()); err != nil {
		return err
	}
	return p.Reaper.Reap(c)
}

// validateExtractedCount catches truncated or corrupt source ranges: a
// healthy decode yields duration × fps frames within a small tolerance.
func (p *Pipeline) validateExtractedCount(c chunk.Chunk, got int) error {
	if got == 0 {
		return fmt.Errorf("no frames produced")
	}
	tolerance := p.FrameCountTolerance
	if tolerance <= 0 {
		tolerance = DefaultFrameCountTolerance
	}
	expected := c.Duration() * p.SourceFPS
	if math.Abs(float64(got)-expected) > expected*tolerance+1 {
		return fmt.Errorf("produced %d frames, expected about %.0f for %.2fs at %.3f fps",
			got, expected, c.Duration(), p.SourceFPS)
	}
	return nil
}

// concatenate verifies every segment and performs the all-or-nothing final
// join. Invoked only after the chunk loop; a missing segment here means the
// run record and the filesystem disagree.
func (p *Pipeline) concatenate(chunks []chunk.Chunk) (string, error) {
	segments := make([]string, len(chunks))
	for i, c := range chunks {
		seg := p.Layout.SegmentPath(c)
		fi, err := os.Stat(seg)
		if err != nil {
			return "", &ConcatenationError{Err: fmt.Errorf("segment for %s missing: %s", c.ID(), seg)}
		}
		if fi.Size() == 0 {
			return "", &ConcatenationError{Err: fmt.Errorf("segment for %s is empty: %s", c.ID(), seg)}
		}
		segments[i] = seg
	}

	out := p.Layout.FinalOutputPath()
	if err := os.MkdirAll(p.Layout.OutputDir, 0o755); err != nil {
		return "", &ConcatenationError{Err: err}
	}
	if err := p.Concatenator.Concat(segments, out); err != nil {
		return "", &ConcatenationError{Err: err}
	}
	return out, nil
}
