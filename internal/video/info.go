// internal/video/info.go
package video

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"vhsengine/internal/execx"
)

// Info is the immutable description of the source video, read once at the
// start of a run.
type Info struct {
	Filepath   string
	FileSize   int64
	Width      int
	Height     int
	Duration   float64
	FrameRate  float64
	AudioCodec string
	Format     string
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		Format   string `json:"format_name"`
	} `json:"format"`
}

// GetInfo probes the source with ffprobe.
func GetInfo(runner execx.Runner, path string) (*Info, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	out, err := runner.Run("ffprobe", "-v", "quiet", "-print_format", "json",
		"-show_format", "-show_streams", path)
	if err != nil {
		return nil, fmt.Errorf("failed to run ffprobe: %v", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %v", err)
	}

	info := &Info{
		Filepath: path,
		FileSize: fileInfo.Size(),
		Format:   probe.Format.Format,
	}

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if info.Width != 0 {
				continue
			}
			info.Width = stream.Width
			info.Height = stream.Height
			fps, err := ParseFrameRate(stream.RFrameRate)
			if err != nil {
				// r_frame_rate can be absent or 0/0 on old captures.
				fps, err = ParseFrameRate(stream.AvgFrameRate)
				if err != nil {
					return nil, fmt.Errorf("could not detect frame rate for %s", path)
				}
			}
			info.FrameRate = fps
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = stream.CodecName
			}
		}
	}

	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("no video stream found in %s", path)
	}

	if probe.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			info.Duration = duration
		}
	}
	if info.Duration <= 0 {
		return nil, fmt.Errorf("could not detect duration for %s", path)
	}

	return info, nil
}

// ParseFrameRate parses ffprobe rate strings like "30000/1001" or "25".
func ParseFrameRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0/0" {
		return 0, fmt.Errorf("no frame rate")
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil {
			return 0, fmt.Errorf("could not parse frame rate fraction %q", s)
		}
		if d == 0 {
			return 0, fmt.Errorf("frame rate fraction %q has zero denominator", s)
		}
		return n / d, nil
	}
	fps, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse frame rate %q", s)
	}
	return fps, nil
}
