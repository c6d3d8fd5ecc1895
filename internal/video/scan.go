// internal/video/scan.go
package video

import (
	"fmt"
	"regexp"
	"strconv"

	"vhsengine/internal/execx"
)

// ScanType classifies the source's scan.
type ScanType string

const (
	ScanProgressive   ScanType = "progressive"
	ScanInterlacedTFF ScanType = "interlaced_tff"
	ScanInterlacedBFF ScanType = "interlaced_bff"
	ScanUnknown       ScanType = "unknown"
)

// ScanReport is the idet-filter verdict over the sampled frames. The
// enhancement pipeline requires progressive input; interpreting interlacing
// (choosing a deinterlace filter) is the operator's job.
type ScanReport struct {
	Type        ScanType
	TFF         int
	BFF         int
	Progressive int
}

// IsProgressive reports whether the sample looked progressive.
func (r ScanReport) IsProgressive() bool {
	return r.Type == ScanProgressive
}

func (r ScanReport) String() string {
	total := r.TFF + r.BFF + r.Progressive
	switch r.Type {
	case ScanProgressive:
		return "Progressive"
	case ScanInterlacedTFF:
		return fmt.Sprintf("Interlaced (TFF detected: %d/%d)", r.TFF, total)
	case ScanInterlacedBFF:
		return fmt.Sprintf("Interlaced (BFF detected: %d/%d)", r.BFF, total)
	default:
		return "Unknown"
	}
}

var idetPattern = regexp.MustCompile(`Multi frame detection: TFF:\s*(\d+)\s*BFF:\s*(\d+)\s*Progressive:\s*(\d+)`)

// DetectScanType samples the first frames of the source through ffmpeg's
// idet filter. The statistics land on stderr, which the runner captures in
// combined output.
func DetectScanType(runner execx.Runner, path string, frames int) (ScanReport, error) {
	out, runErr := runner.Run("ffmpeg",
		"-i", path,
		"-filter:v", "idet",
		"-frames:v", strconv.Itoa(frames),
		"-an", "-f", "null", "-")

	m := idetPattern.FindSubmatch(out)
	if m == nil {
		if runErr != nil {
			return ScanReport{Type: ScanUnknown}, fmt.Errorf("interlace detection failed: %v", runErr)
		}
		return ScanReport{Type: ScanUnknown}, nil
	}

	tff, _ := strconv.Atoi(string(m[1]))
	bff, _ := strconv.Atoi(string(m[2]))
	prog, _ := strconv.Atoi(string(m[3]))
	report := ScanReport{TFF: tff, BFF: bff, Progressive: prog}

	total := tff + bff + prog
	switch {
	case total == 0:
		report.Type = ScanUnknown
	case float64(prog)/float64(total) > 0.90:
		report.Type = ScanProgressive
	case tff > bff:
		report.Type = ScanInterlacedTFF
	default:
		report.Type = ScanInterlacedBFF
	}
	return report, nil
}
