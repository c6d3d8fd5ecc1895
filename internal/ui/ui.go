// internal/ui/ui.go
package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"vhsengine/internal/video"
)

var (
	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111827"))
)

// DisplayVideoInfo prints the probed source description.
func DisplayVideoInfo(info *video.Info, scan video.ScanReport) {
	audio := info.AudioCodec
	if audio == "" {
		audio = "none"
	}

	content := fmt.Sprintf(
		"%s %s\n"+
			"%s %s\n"+
			"%s %dx%d\n"+
			"%s %.3f fps\n"+
			"%s %s\n"+
			"%s %s\n"+
			"%s %s",
		labelStyle.Render("📁 File:"), valueStyle.Render(filepath.Base(info.Filepath)),
		labelStyle.Render("📊 Size:"), valueStyle.Render(FormatFileSize(info.FileSize)),
		labelStyle.Render("📐 Dimensions:"), info.Width, info.Height,
		labelStyle.Render("🎞️  Frame rate:"), info.FrameRate,
		labelStyle.Render("🔊 Audio:"), valueStyle.Render(audio),
		labelStyle.Render("🖥️  Scan type:"), valueStyle.Render(scan.String()),
		labelStyle.Render("⏱️  Duration:"), valueStyle.Render(FormatDuration(info.Duration)),
	)

	fmt.Println(infoStyle.Render(content))
}

// FormatFileSize converts bytes to human-readable format
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration converts seconds to HH:MM:SS (tapes run for hours) or MM:SS.
func FormatDuration(seconds float64) string {
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	remainingSeconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, remainingSeconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, remainingSeconds)
}
