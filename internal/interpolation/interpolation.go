// internal/interpolation/interpolation.go
package interpolation

import (
	"fmt"
	"os"
	"strconv"

	"vhsengine/internal/execx"
	"vhsengine/internal/ffmpeg"
)

// Config holds configuration for the external frame-interpolation process.
type Config struct {
	Binary string // rife-ncnn-vulkan executable
	Factor int    // frame rate multiplier
}

// DefaultConfig returns the default interpolation configuration.
func DefaultConfig() Config {
	return Config{
		Binary: "rife-ncnn-vulkan",
		Factor: 2,
	}
}

// ValidateConfig validates interpolation configuration.
func ValidateConfig(cfg Config) error {
	if cfg.Binary == "" {
		return fmt.Errorf("interpolator binary path is required")
	}
	if cfg.Factor < 2 || cfg.Factor > 4 {
		return fmt.Errorf("interpolation factor must be between 2 and 4, got %d", cfg.Factor)
	}
	return nil
}

// ExpectedFrames returns the standard in-betweening count for n input frames
// at the given factor: n*factor - (factor-1). Interior gaps each gain
// factor-1 frames; nothing follows the last frame.
func ExpectedFrames(n, factor int) int {
	if n == 0 {
		return 0
	}
	return n*factor - (factor - 1)
}

// Interpolator invokes the external frame-interpolation model on frame
// directories, producing in-between frames to raise the output frame rate.
type Interpolator struct {
	cfg    Config
	runner execx.Runner
}

func New(cfg Config, runner execx.Runner) *Interpolator {
	return &Interpolator{cfg: cfg, runner: runner}
}

// IsAvailable checks whether the interpolator binary is installed.
func (i *Interpolator) IsAvailable() bool {
	_, err := i.runner.LookPath(i.cfg.Binary)
	return err == nil
}

// Factor returns the configured frame rate multiplier.
func (i *Interpolator) Factor() int {
	return i.cfg.Factor
}

// Interpolate runs the model on the frames in inDir, writing the denser
// frame sequence to outDir. Postcondition: at least n*factor - (factor-1)
// output frames for n inputs; fewer means the model crashed or only
// partially processed the sequence.
func (i *Interpolator) Interpolate(inDir, outDir string) (int, error) {
	in, err := ffmpeg.CountFrames(inDir)
	if err != nil {
		return 0, err
	}
	if in == 0 {
		return 0, fmt.Errorf("no frames to interpolate in %s", inDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create interpolated directory: %v", err)
	}

	args := []string{
		"-i", inDir,
		"-o", outDir,
		"-n", strconv.Itoa(ExpectedFrames(in, i.cfg.Factor)),
	}
	if _, err := i.runner.Run(i.cfg.Binary, args...); err != nil {
		return 0, fmt.Errorf("interpolation failed: %v", err)
	}

	out, err := ffmpeg.CountFrames(outDir)
	if err != nil {
		return 0, err
	}
	if want := ExpectedFrames(in, i.cfg.Factor); out < want {
		return out, fmt.Errorf("interpolator produced %d frames for %d inputs, want at least %d", out, in, want)
	}
	return out, nil
}
