package interpolation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"vhsengine/internal/ffmpeg"
	"vhsengine/internal/mocks"
)

func writeFrames(t *testing.T, dir string, n int) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= n; i++ {
		name := filepath.Join(dir, fmt.Sprintf(ffmpeg.FramePattern, i))
		if err := os.WriteFile(name, []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExpectedFrames(t *testing.T) {
	tests := []struct {
		n      int
		factor int
		want   int
	}{
		{0, 2, 0},
		{1, 2, 1},
		{2, 2, 3},
		{10, 2, 19},
		{10, 3, 28},
		{5, 4, 17},
		{300, 2, 599},
	}

	for _, tt := range tests {
		if got := ExpectedFrames(tt.n, tt.factor); got != tt.want {
			t.Errorf("ExpectedFrames(%d, %d) = %d, want %d", tt.n, tt.factor, got, tt.want)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"factor 3", Config{Binary: "rife-ncnn-vulkan", Factor: 3}, false},
		{"factor 4", Config{Binary: "rife-ncnn-vulkan", Factor: 4}, false},
		{"empty binary", Config{Binary: "", Factor: 2}, true},
		{"factor 1", Config{Binary: "rife-ncnn-vulkan", Factor: 1}, true},
		{"factor 5", Config{Binary: "rife-ncnn-vulkan", Factor: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig(%+v) error = %v, wantErr %v", tt.cfg, err, tt.wantErr)
			}
		})
	}
}

func TestInterpolate(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	outDir := filepath.Join(dir, "out")
	writeFrames(t, inDir, 4)

	m := mocks.NewMockRunner()
	m.OnRun = func(name string, args []string) error {
		writeFrames(t, outDir, 7) // 4*2 - 1
		return nil
	}

	i := New(Config{Binary: "rife-ncnn-vulkan", Factor: 2}, m)
	n, err := i.Interpolate(inDir, outDir)
	if err != nil {
		t.Fatalf("Interpolate returned error: %v", err)
	}
	if n != 7 {
		t.Errorf("Interpolate = %d frames, want 7", n)
	}

	calls := m.CallsTo("rife-ncnn-vulkan")
	if len(calls) != 1 {
		t.Fatalf("got %d model invocations, want 1", len(calls))
	}
	want := []string{"-i", inDir, "-o", outDir, "-n", "7"}
	if !reflect.DeepEqual(calls[0].Args, want) {
		t.Errorf("model args = %v, want %v", calls[0].Args, want)
	}
}

func TestInterpolateAcceptsExtraFrames(t *testing.T) {
	// Some model builds emit a trailing duplicate; more than the expected
	// minimum is fine.
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	outDir := filepath.Join(dir, "out")
	writeFrames(t, inDir, 4)

	m := mocks.NewMockRunner()
	m.OnRun = func(name string, args []string) error {
		writeFrames(t, outDir, 8)
		return nil
	}

	i := New(Config{Binary: "rife-ncnn-vulkan", Factor: 2}, m)
	n, err := i.Interpolate(inDir, outDir)
	if err != nil {
		t.Fatalf("Interpolate returned error: %v", err)
	}
	if n != 8 {
		t.Errorf("Interpolate = %d frames, want 8", n)
	}
}

func TestInterpolateTooFewFrames(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	outDir := filepath.Join(dir, "out")
	writeFrames(t, inDir, 4)

	m := mocks.NewMockRunner()
	m.OnRun = func(name string, args []string) error {
		writeFrames(t, outDir, 6) // below 4*2 - 1
		return nil
	}

	i := New(Config{Binary: "rife-ncnn-vulkan", Factor: 2}, m)
	if _, err := i.Interpolate(inDir, outDir); err == nil {
		t.Error("expected error when output count is below the expected minimum")
	}
}

func TestInterpolateEmptyInput(t *testing.T) {
	dir := t.TempDir()
	i := New(DefaultConfig(), mocks.NewMockRunner())

	if _, err := i.Interpolate(dir, filepath.Join(dir, "out")); err == nil {
		t.Error("expected error for empty input directory")
	}
}

func TestInterpolateProcessFailure(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	writeFrames(t, inDir, 2)

	m := mocks.NewMockRunner()
	m.Errors["rife-ncnn-vulkan"] = errors.New("vkAllocateMemory failed")

	i := New(DefaultConfig(), m)
	if _, err := i.Interpolate(inDir, filepath.Join(dir, "out")); err == nil {
		t.Error("expected error when the model process fails")
	}
}
