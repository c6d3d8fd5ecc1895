// internal/ffmpeg/ffmpeg.go
package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vhsengine/internal/execx"
)

// FramePattern is the numbered still-image naming used for every frame
// directory in the pipeline.
const FramePattern = "frame_%08d.png"

// IsAvailable reports whether ffmpeg and ffprobe are installed.
func IsAvailable(runner execx.Runner) bool {
	if _, err := runner.LookPath("ffmpeg"); err != nil {
		return false
	}
	_, err := runner.LookPath("ffprobe")
	return err == nil
}

// ExtractFrames decodes [start, end) of input into numbered PNG frames in
// dir. The transcoder is a black box: the caller validates the produced
// frame count against the expected duration.
func ExtractFrames(runner execx.Runner, input string, start, end, fps float64, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create frames directory: %v", err)
	}

	args := []string{
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", end-start),
		"-i", input,
		"-r", fmt.Sprintf("%.3f", fps),
		"-y", filepath.Join(dir, FramePattern),
	}
	if _, err := runner.Run("ffmpeg", args...); err != nil {
		return fmt.Errorf("frame extraction failed: %v", err)
	}
	return nil
}

// ExtractAudioSlice stream-copies the chunk's audio range to out. A source
// without an audio track is not an error; the caller checks whether out
// exists before muxing. ffmpeg opens the output file before it discovers the
// source has no audio stream, so a failed extraction leaves a zero-byte file
// behind; that leftover is removed here so it can never be muxed.
func ExtractAudioSlice(runner execx.Runner, input string, start, end float64, out string) {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return
	}
	args := []string{
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", end-start),
		"-i", input,
		"-vn", "-acodec", "copy",
		"-y", out,
	}
	runner.Run("ffmpeg", args...)

	if fi, err := os.Stat(out); err == nil && fi.Size() == 0 {
		os.Remove(out)
	}
}

// EncodeSegment re-encodes the frames in framesDir into a lossless
// intermediate segment at out, muxing the audio slice at audioPath when one
// exists.
func EncodeSegment(runner execx.Runner, framesDir string, fps float64, audioPath, out string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create segments directory: %v", err)
	}

	args := []string{
		"-framerate", fmt.Sprintf("%.3f", fps),
		"-i", filepath.Join(framesDir, FramePattern),
	}
	if fi, err := os.Stat(audioPath); err == nil && fi.Size() > 0 {
		args = append(args, "-i", audioPath, "-c:a", "copy")
	}
	args = append(args,
		"-c:v", "libx264",
		"-qp", "0",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-y", out,
	)
	if _, err := runner.Run("ffmpeg", args...); err != nil {
		return fmt.Errorf("segment encoding failed: %v", err)
	}
	return nil
}

// WriteConcatList writes the concat demuxer list for the ordered segments.
func WriteConcatList(path string, segments []string) error {
	var b strings.Builder
	for _, seg := range segments {
		abs, err := filepath.Abs(seg)
		if err != nil {
			return fmt.Errorf("failed to resolve segment path %s: %v", seg, err)
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write concat list: %v", err)
	}
	return nil
}

// Concat losslessly joins the segments listed at listPath into out. Stream
// copy only, no re-encoding.
func Concat(runner execx.Runner, listPath, out string) error {
	args := []string{
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y", out,
	}
	if _, err := runner.Run("ffmpeg", args...); err != nil {
		return fmt.Errorf("concatenation failed: %v", err)
	}
	return nil
}

// CountFrames returns how many PNG frames dir holds.
func CountFrames(dir string) (int, error) {
	frames, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return 0, fmt.Errorf("failed to list frames in %s: %v", dir, err)
	}
	return len(frames), nil
}
