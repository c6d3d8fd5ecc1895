// main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"

	"vhsengine/internal/budget"
	"vhsengine/internal/chapters"
	"vhsengine/internal/chunk"
	"vhsengine/internal/execx"
	"vhsengine/internal/ffmpeg"
	"vhsengine/internal/interpolation"
	"vhsengine/internal/pipeline"
	"vhsengine/internal/runstate"
	"vhsengine/internal/ui"
	"vhsengine/internal/upscaling"
	"vhsengine/internal/validation"
	"vhsengine/internal/video"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)
)

func main() {
	if err := run(); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
		os.Exit(1)
	}
}

func run() error {
	scale := flag.Int("scale", 2, "upscale factor: 2 or 4")
	force := flag.Bool("force", false, "discard run state and existing segments, reprocess everything")
	chunkDuration := flag.Int("chunk-duration", 0, "chunk duration in seconds (0 = auto-tune from free disk space)")
	interpFactor := flag.Int("interp-factor", 2, "frame-interpolation factor (2-4)")
	probeOnly := flag.Bool("probe", false, "print the probe report and exit")
	chaptersIn := flag.String("chapters", "", "convert a raw chapter listing to OGM format and exit")
	chaptersOut := flag.String("chapters-out", "chapters.txt", "output path for -chapters")
	workDir := flag.String("work-dir", "processing_chunks", "processing directory for temporary chunk artifacts")
	outDir := flag.String("out-dir", "outputs", "directory for the final output file")
	flag.Parse()

	fmt.Println(titleStyle.Render("📼 VHS Enhancement Pipeline"))

	if *chaptersIn != "" {
		n, err := chapters.ConvertFile(*chaptersIn, *chaptersOut)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✅ Wrote %d chapters to %s", n, *chaptersOut)))
		return nil
	}

	if flag.NArg() < 1 {
		flag.Usage()
		return fmt.Errorf("missing source video path")
	}
	source, err := validation.ValidateInputPath(flag.Arg(0))
	if err != nil {
		return err
	}

	runner := execx.ExecRunner{}
	if !ffmpeg.IsAvailable(runner) {
		return fmt.Errorf("ffmpeg/ffprobe not found in PATH")
	}

	info, err := video.GetInfo(runner, source)
	if err != nil {
		return fmt.Errorf("failed to probe source: %v", err)
	}
	scan, err := video.DetectScanType(runner, source, 500)
	if err != nil {
		return err
	}
	ui.DisplayVideoInfo(info, scan)

	if *probeOnly {
		if scan.IsProgressive() {
			fmt.Println(successStyle.Render("✅ Source appears progressive."))
		} else {
			fmt.Println(warnStyle.Render("⚠️  Source appears interlaced. Deinterlace it first (bwdif=0:-1:0)."))
		}
		return nil
	}
	if !scan.IsProgressive() && scan.Type != video.ScanUnknown {
		fmt.Println(warnStyle.Render("⚠️  Source appears interlaced; the models expect progressive input."))
	}

	upsCfg := upscaling.Config{Binary: upscaling.DefaultConfig().Binary, Scale: *scale}
	if err := upscaling.ValidateConfig(upsCfg); err != nil {
		return err
	}
	ups := upscaling.New(upsCfg, runner)
	if !ups.IsAvailable() {
		return fmt.Errorf("upscaler binary %q not found in PATH", upsCfg.Binary)
	}

	interpCfg := interpolation.Config{Binary: interpolation.DefaultConfig().Binary, Factor: *interpFactor}
	if err := interpolation.ValidateConfig(interpCfg); err != nil {
		return err
	}
	interp := interpolation.New(interpCfg, runner)
	if !interp.IsAvailable() {
		return fmt.Errorf("interpolator binary %q not found in PATH", interpCfg.Binary)
	}

	chunkSeconds := *chunkDuration
	if chunkSeconds == 0 {
		free, err := budget.FreeBytes(".")
		if err != nil {
			return err
		}
		chunkSeconds, err = budget.Plan(free, info.Width, info.Height, info.FrameRate, *scale, budget.DefaultConfig())
		var diskErr *budget.InsufficientDiskError
		if errors.As(err, &diskErr) {
			return diskErr
		}
		if err != nil {
			return err
		}
		fmt.Printf("Auto-tuned chunk duration: %ds (%s free)\n", chunkSeconds, ui.FormatFileSize(free))
	}

	chunks, err := chunk.Plan(info.Duration, chunkSeconds)
	if err != nil {
		return err
	}
	fmt.Printf("Splitting %s of footage into %d chunks of up to %ds.\n",
		ui.FormatDuration(info.Duration), len(chunks), chunkSeconds)

	layout := pipeline.NewLayout(*workDir, *outDir, source, *scale)
	want := runstate.Record{Source: source, Scale: *scale, ChunkSeconds: chunkSeconds}
	if *force {
		// Remove the record before opening: a force restart must work even
		// when the state file is corrupt and unreadable.
		if err := runstate.Discard(*workDir); err != nil {
			return err
		}
	}
	state, found, err := runstate.Open(*workDir, want)
	if err != nil {
		return err
	}

	switch {
	case *force:
		fmt.Println(warnStyle.Render("⚠️  Force restart: discarding run state and existing chunk artifacts."))
		if err := state.Reset(layout.ArtifactDirs(), want); err != nil {
			return err
		}
	case found && !state.Record().Matches(want):
		fmt.Println(warnStyle.Render("⚠️  The processing directory holds chunks from a different job."))
		prompt := promptui.Prompt{Label: "Discard existing chunks and start fresh", IsConfirm: true}
		if _, err := prompt.Run(); err != nil {
			return fmt.Errorf("refusing to mix chunks from different jobs")
		}
		if err := state.Reset(layout.ArtifactDirs(), want); err != nil {
			return err
		}
	}

	p := &pipeline.Pipeline{
		Layout: layout,
		State:  state,
		Reaper: pipeline.Reaper{Layout: layout},
		Extractor: pipeline.FFmpegExtractor{
			Runner: runner,
			Source: source,
			FPS:    info.FrameRate,
		},
		Upscaler:     ups,
		Interpolator: interp,
		Assembler: pipeline.FFmpegAssembler{
			Runner:    runner,
			Source:    source,
			OutputFPS: info.FrameRate * float64(*interpFactor),
		},
		Concatenator: pipeline.FFmpegConcatenator{
			Runner:   runner,
			ListPath: layout.ConcatListPath(),
		},
		SourceFPS:    info.FrameRate,
		InterpFactor: *interpFactor,
	}

	out, err := p.Run(chunks)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("🎉 Pipeline complete!"))
	fmt.Printf("Final file: %s\n", out)
	return nil
}
