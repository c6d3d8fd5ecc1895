// internal/chunk/chunk.go
package chunk

import "fmt"

// Chunk is one contiguous slice of the source timeline. Start and End are
// seconds as float64 to preserve fractional frame timing.
type Chunk struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ID returns the stable identifier derived from the index, used for
// filesystem paths and resume matching across runs.
func (c Chunk) ID() string {
	return fmt.Sprintf("chunk_%03d", c.Index)
}

// Duration returns the chunk length in seconds.
func (c Chunk) Duration() float64 {
	return c.End - c.Start
}

// TimeRange formats the chunk's time range for diagnostics.
func (c Chunk) TimeRange() string {
	return fmt.Sprintf("%.2fs-%.2fs", c.Start, c.End)
}

// Plan partitions [0, totalDuration) into sequential chunks of chunkSeconds
// each, shortening the final chunk to end exactly at totalDuration (never
// padded, never dropped). Pure and deterministic: resume correctness depends
// on the same inputs producing the identical plan on every run.
func Plan(totalDuration float64, chunkSeconds int) ([]Chunk, error) {
	if totalDuration <= 0 {
		return nil, fmt.Errorf("total duration must be positive, got %.3f", totalDuration)
	}
	if chunkSeconds <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %d", chunkSeconds)
	}

	step := float64(chunkSeconds)
	var chunks []Chunk
	for i := 0; ; i++ {
		start := float64(i) * step
		if start >= totalDuration {
			break
		}
		end := start + step
		if end > totalDuration {
			end = totalDuration
		}
		chunks = append(chunks, Chunk{Index: i, Start: start, End: end})
	}
	return chunks, nil
}
