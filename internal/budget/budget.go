// internal/budget/budget.go
package budget

import (
	"fmt"
	"syscall"
)

// Config holds the disk-estimation policy constants. They are configuration
// rather than hard-coded values; the defaults match the behavior the
// pipeline was tuned with.
type Config struct {
	MinChunkSeconds int
	MaxChunkSeconds int

	// SafetyMargin is the fraction of free disk space usable for temporary
	// frames. The rest is headroom for the assembled segment and
	// interpolation intermediates.
	SafetyMargin float64

	// FrameCompressionRatio is the estimated PNG size relative to raw RGB.
	FrameCompressionRatio float64

	// BytesPerPixel of a decoded frame (RGB).
	BytesPerPixel int

	// TempFrameSetsPerSecond is how many full frame sets per second of
	// footage coexist on disk during a chunk's processing window
	// (extracted plus upscaled/interpolated sets in flight).
	TempFrameSetsPerSecond float64
}

// DefaultConfig returns the tuned policy defaults.
func DefaultConfig() Config {
	return Config{
		MinChunkSeconds:        10,
		MaxChunkSeconds:        120,
		SafetyMargin:           0.5,
		FrameCompressionRatio:  0.4,
		BytesPerPixel:          3,
		TempFrameSetsPerSecond: 2,
	}
}

// InsufficientDiskError reports that free space cannot hold even one
// minimum-duration chunk's frame footprint: no safe chunk size exists.
type InsufficientDiskError struct {
	FreeBytes     int64
	RequiredBytes int64
}

func (e *InsufficientDiskError) Error() string {
	const gb = 1024 * 1024 * 1024
	return fmt.Sprintf("insufficient disk space: %.2f GB free, need at least %.2f GB for one minimum-duration chunk",
		float64(e.FreeBytes)/gb, float64(e.RequiredBytes)/gb)
}

// Plan computes the chunk duration in seconds for the whole run. Free space
// is sampled once before the run begins and the same duration is used for
// every chunk, so the chunk plan is reproducible and resumable.
//
// The estimate sizes frames at the upscaled resolution (the largest
// intermediate artifact), converts the usable fraction of free space to a
// frame count, then to seconds, and clamps to the configured bounds.
func Plan(freeBytes int64, width, height int, fps float64, scale int, cfg Config) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid source resolution %dx%d", width, height)
	}
	if fps <= 0 {
		return 0, fmt.Errorf("invalid frame rate %.3f", fps)
	}
	if scale < 1 {
		return 0, fmt.Errorf("invalid scale factor %d", scale)
	}
	if cfg.MinChunkSeconds <= 0 || cfg.MaxChunkSeconds < cfg.MinChunkSeconds {
		return 0, fmt.Errorf("invalid chunk bounds [%d, %d]", cfg.MinChunkSeconds, cfg.MaxChunkSeconds)
	}

	bytesPerFrame := float64(width*scale) * float64(height*scale) *
		float64(cfg.BytesPerPixel) * cfg.FrameCompressionRatio
	bytesPerSecond := bytesPerFrame * fps * cfg.TempFrameSetsPerSecond

	usable := float64(freeBytes) * cfg.SafetyMargin
	minFootprint := bytesPerSecond * float64(cfg.MinChunkSeconds)
	if usable < minFootprint {
		return 0, &InsufficientDiskError{
			FreeBytes:     freeBytes,
			RequiredBytes: int64(minFootprint / cfg.SafetyMargin),
		}
	}

	seconds := int(usable / bytesPerSecond)
	if seconds > cfg.MaxChunkSeconds {
		seconds = cfg.MaxChunkSeconds
	}
	if seconds < cfg.MinChunkSeconds {
		seconds = cfg.MinChunkSeconds
	}
	return seconds, nil
}

// FreeBytes reports the free disk space at path. The planner samples this
// once per run; free space is not re-checked mid-run.
func FreeBytes(path string) (int64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("failed to get disk usage for %s: %v", path, err)
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
