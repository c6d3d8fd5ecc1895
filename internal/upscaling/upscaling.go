// internal/upscaling/upscaling.go
package upscaling

import (
	"fmt"
	"os"
	"strconv"

	"vhsengine/internal/execx"
	"vhsengine/internal/ffmpeg"
)

// Models maps the upscale factor to the Real-ESRGAN model invoked for it.
var Models = map[int]string{
	2: "RealESRGAN_x2plus",
	4: "realesr-general-x4v3",
}

// Config holds configuration for the external super-resolution process.
type Config struct {
	Binary string // realesrgan-ncnn-vulkan executable
	Scale  int    // 2 or 4
}

// DefaultConfig returns the default upscaling configuration.
func DefaultConfig() Config {
	return Config{
		Binary: "realesrgan-ncnn-vulkan",
		Scale:  2,
	}
}

// ValidateConfig validates upscaling configuration.
func ValidateConfig(cfg Config) error {
	if cfg.Binary == "" {
		return fmt.Errorf("upscaler binary path is required")
	}
	if _, ok := Models[cfg.Scale]; !ok {
		return fmt.Errorf("unsupported scale factor %d (supported: 2, 4)", cfg.Scale)
	}
	return nil
}

// Upscaler invokes the external super-resolution model on frame directories.
// The model is a black box: it receives a directory of frames and must
// return a directory with the same number of frames, upscaled.
type Upscaler struct {
	cfg    Config
	runner execx.Runner
}

func New(cfg Config, runner execx.Runner) *Upscaler {
	return &Upscaler{cfg: cfg, runner: runner}
}

// IsAvailable checks whether the upscaler binary is installed.
func (u *Upscaler) IsAvailable() bool {
	_, err := u.runner.LookPath(u.cfg.Binary)
	return err == nil
}

// Model returns the model name selected by the configured scale.
func (u *Upscaler) Model() string {
	return Models[u.cfg.Scale]
}

// Upscale runs the model on every frame in inDir, writing upscaled frames to
// outDir. Postcondition: the output frame count equals the input frame
// count; a mismatch signals a model crash or partial failure, distinct from
// a clean decode error upstream.
func (u *Upscaler) Upscale(inDir, outDir string) (int, error) {
	in, err := ffmpeg.CountFrames(inDir)
	if err != nil {
		return 0, err
	}
	if in == 0 {
		return 0, fmt.Errorf("no frames to upscale in %s", inDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create upscaled directory: %v", err)
	}

	args := []string{
		"-i", inDir,
		"-o", outDir,
		"-n", u.Model(),
		"-s", strconv.Itoa(u.cfg.Scale),
	}
	if _, err := u.runner.Run(u.cfg.Binary, args...); err != nil {
		return 0, fmt.Errorf("upscaling failed: %v", err)
	}

	out, err := ffmpeg.CountFrames(outDir)
	if err != nil {
		return 0, err
	}
	if out != in {
		return out, fmt.Errorf("upscaler produced %d frames for %d inputs", out, in)
	}
	return out, nil
}
