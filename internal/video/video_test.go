package video

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"vhsengine/internal/mocks"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"30000/1001", 29.97002997002997, false},
		{"25/1", 25, false},
		{"25", 25, false},
		{"29.97", 29.97, false},
		{" 50/2 ", 25, false},
		{"", 0, true},
		{"0/0", 0, true},
		{"30/0", 0, true},
		{"abc", 0, true},
		{"a/b", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFrameRate(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFrameRate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func probeTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.avi")
	if err := os.WriteFile(path, []byte("RIFF....AVI "), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const probeJSON = `{
  "streams": [
    {
      "codec_type": "video",
      "codec_name": "rawvideo",
      "width": 720,
      "height": 480,
      "r_frame_rate": "30000/1001",
      "avg_frame_rate": "30000/1001"
    },
    {
      "codec_type": "audio",
      "codec_name": "pcm_s16le"
    }
  ],
  "format": {
    "duration": "3672.400000",
    "format_name": "avi"
  }
}`

func TestGetInfo(t *testing.T) {
	path := probeTestFile(t)
	m := mocks.NewMockRunner()
	m.Responses["ffprobe"] = []byte(probeJSON)

	info, err := GetInfo(m, path)
	if err != nil {
		t.Fatalf("GetInfo returned error: %v", err)
	}

	if info.Width != 720 || info.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 720x480", info.Width, info.Height)
	}
	if math.Abs(info.FrameRate-29.97002997002997) > 1e-9 {
		t.Errorf("FrameRate = %v, want 29.97", info.FrameRate)
	}
	if info.Duration != 3672.4 {
		t.Errorf("Duration = %v, want 3672.4", info.Duration)
	}
	if info.AudioCodec != "pcm_s16le" {
		t.Errorf("AudioCodec = %q, want pcm_s16le", info.AudioCodec)
	}
	if info.Format != "avi" {
		t.Errorf("Format = %q, want avi", info.Format)
	}
	if info.FileSize == 0 {
		t.Error("FileSize = 0, want the size of the probed file")
	}
}

func TestGetInfoFallsBackToAvgFrameRate(t *testing.T) {
	path := probeTestFile(t)
	m := mocks.NewMockRunner()
	m.Responses["ffprobe"] = []byte(`{
  "streams": [{"codec_type": "video", "width": 720, "height": 576, "r_frame_rate": "0/0", "avg_frame_rate": "25/1"}],
  "format": {"duration": "60.0", "format_name": "avi"}
}`)

	info, err := GetInfo(m, path)
	if err != nil {
		t.Fatalf("GetInfo returned error: %v", err)
	}
	if info.FrameRate != 25 {
		t.Errorf("FrameRate = %v, want 25 from avg_frame_rate", info.FrameRate)
	}
}

func TestGetInfoErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no video stream", `{"streams": [{"codec_type": "audio", "codec_name": "mp3"}], "format": {"duration": "10", "format_name": "avi"}}`},
		{"no duration", `{"streams": [{"codec_type": "video", "width": 720, "height": 480, "r_frame_rate": "25/1"}], "format": {"format_name": "avi"}}`},
		{"no frame rate", `{"streams": [{"codec_type": "video", "width": 720, "height": 480, "r_frame_rate": "0/0", "avg_frame_rate": "0/0"}], "format": {"duration": "10", "format_name": "avi"}}`},
		{"garbage output", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := probeTestFile(t)
			m := mocks.NewMockRunner()
			m.Responses["ffprobe"] = []byte(tt.response)
			if _, err := GetInfo(m, path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGetInfoMissingFile(t *testing.T) {
	m := mocks.NewMockRunner()
	if _, err := GetInfo(m, "/does/not/exist.avi"); err == nil {
		t.Error("expected error for missing file")
	}
	if len(m.Calls) != 0 {
		t.Error("ffprobe invoked for a file that does not exist")
	}
}

func TestDetectScanType(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   ScanType
	}{
		{
			"progressive",
			"[Parsed_idet_0] Multi frame detection: TFF:     3 BFF:     1 Progressive:   496 Undetermined:     0",
			ScanProgressive,
		},
		{
			"interlaced tff",
			"[Parsed_idet_0] Multi frame detection: TFF:   480 BFF:     5 Progressive:    15 Undetermined:     0",
			ScanInterlacedTFF,
		},
		{
			"interlaced bff",
			"[Parsed_idet_0] Multi frame detection: TFF:     5 BFF:   480 Progressive:    15 Undetermined:     0",
			ScanInterlacedBFF,
		},
		{
			"no idet output",
			"some unrelated ffmpeg noise",
			ScanUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mocks.NewMockRunner()
			m.Responses["ffmpeg"] = []byte(tt.output)

			report, err := DetectScanType(m, "capture.avi", 500)
			if err != nil {
				t.Fatalf("DetectScanType returned error: %v", err)
			}
			if report.Type != tt.want {
				t.Errorf("scan type = %q, want %q", report.Type, tt.want)
			}
		})
	}
}

func TestDetectScanTypeParsesDespiteExitError(t *testing.T) {
	// ffmpeg exits non-zero with -f null on some builds; the statistics are
	// still on stderr and still usable.
	m := mocks.NewMockRunner()
	m.Responses["ffmpeg"] = []byte("Multi frame detection: TFF: 0 BFF: 0 Progressive: 500")
	m.Errors["ffmpeg"] = errors.New("exit status 1")

	report, err := DetectScanType(m, "capture.avi", 500)
	if err != nil {
		t.Fatalf("DetectScanType returned error: %v", err)
	}
	if !report.IsProgressive() {
		t.Errorf("scan type = %q, want progressive", report.Type)
	}
}

func TestDetectScanTypeFailure(t *testing.T) {
	m := mocks.NewMockRunner()
	m.Responses["ffmpeg"] = []byte("could not open file")
	m.Errors["ffmpeg"] = errors.New("exit status 1")

	report, err := DetectScanType(m, "capture.avi", 500)
	if err == nil {
		t.Error("expected error when ffmpeg fails with no statistics")
	}
	if report.Type != ScanUnknown {
		t.Errorf("scan type = %q, want unknown", report.Type)
	}
}

func TestScanReportString(t *testing.T) {
	tests := []struct {
		report ScanReport
		want   string
	}{
		{ScanReport{Type: ScanProgressive, Progressive: 500}, "Progressive"},
		{ScanReport{Type: ScanInterlacedTFF, TFF: 480, BFF: 5, Progressive: 15}, "Interlaced (TFF detected: 480/500)"},
		{ScanReport{Type: ScanInterlacedBFF, TFF: 5, BFF: 480, Progressive: 15}, "Interlaced (BFF detected: 480/500)"},
		{ScanReport{Type: ScanUnknown}, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.report.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
