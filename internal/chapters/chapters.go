// internal/chapters/chapters.go
//
// Converts raw "Title MM:SS" chapter listings (hand-typed from tape sleeves)
// into the OGM format mkvmerge accepts, so the final output can be muxed
// with chapter marks. Stateless and single-pass.
package chapters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Chapter is one named timestamp parsed from a raw listing.
type Chapter struct {
	Title     string
	Timestamp string // HH:MM:SS.000
}

// Matches "M:SS", "MM:SS" or "H:MM:SS" at the end of a line.
var timePattern = regexp.MustCompile(`(?:(\d{1,2}):)?(\d{1,2}):(\d{2})$`)

// Parse converts raw chapter text into ordered chapters. Lines carry a title
// and a trailing timestamp; a line with no timestamp is buffered as the
// title for the following line (sleeve notes often wrap).
func Parse(content string) []Chapter {
	var chapters []Chapter
	var titleBuffer string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := timePattern.FindStringSubmatchIndex(line)
		if m == nil {
			titleBuffer = line
			continue
		}

		groups := timePattern.FindStringSubmatch(line)
		hours := 0
		if groups[1] != "" {
			hours, _ = strconv.Atoi(groups[1])
		}
		minutes, _ := strconv.Atoi(groups[2])
		seconds, _ := strconv.Atoi(groups[3])
		timestamp := fmt.Sprintf("%02d:%02d:%02d.000", hours, minutes, seconds)

		title := strings.TrimSpace(line[:m[0]])
		if title == "" && titleBuffer != "" {
			title = titleBuffer
		}
		titleBuffer = ""

		chapters = append(chapters, Chapter{Title: title, Timestamp: timestamp})
	}
	return chapters
}

// FormatOGM renders chapters in OGM form for mkvmerge.
func FormatOGM(chapters []Chapter) string {
	var b strings.Builder
	for i, ch := range chapters {
		fmt.Fprintf(&b, "CHAPTER%02d=%s\n", i+1, ch.Timestamp)
		fmt.Fprintf(&b, "CHAPTER%02dNAME=%s\n", i+1, ch.Title)
	}
	return b.String()
}

// ConvertFile reads a raw listing and writes the OGM file, returning how
// many chapters were written.
func ConvertFile(inPath, outPath string) (int, error) {
	content, err := os.ReadFile(inPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read chapter file: %v", err)
	}

	chapters := Parse(string(content))
	if len(chapters) == 0 {
		return 0, fmt.Errorf("no chapters found in %s", inPath)
	}

	if err := os.WriteFile(outPath, []byte(FormatOGM(chapters)), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write chapter file: %v", err)
	}
	return len(chapters), nil
}
