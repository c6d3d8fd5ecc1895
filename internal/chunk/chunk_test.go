package chunk

import (
	"math"
	"reflect"
	"testing"
)

func TestPlanExamples(t *testing.T) {
	tests := []struct {
		name          string
		totalDuration float64
		chunkSeconds  int
		wantLengths   []float64
	}{
		{"even split", 600, 120, []float64{120, 120, 120, 120, 120}},
		{"exact multiple", 600, 150, []float64{150, 150, 150, 150}},
		{"short tail", 600, 140, []float64{140, 140, 140, 140, 40}},
		{"single chunk", 30, 120, []float64{30}},
		{"fractional duration", 25.5, 10, []float64{10, 10, 5.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Plan(tt.totalDuration, tt.chunkSeconds)
			if err != nil {
				t.Fatalf("Plan returned error: %v", err)
			}
			if len(chunks) != len(tt.wantLengths) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.wantLengths))
			}
			for i, want := range tt.wantLengths {
				if math.Abs(chunks[i].Duration()-want) > 1e-9 {
					t.Errorf("chunk %d duration = %v, want %v", i, chunks[i].Duration(), want)
				}
			}
		})
	}
}

func TestPlanInvariants(t *testing.T) {
	cases := []struct {
		totalDuration float64
		chunkSeconds  int
	}{
		{600, 120},
		{599.9, 120},
		{7200, 47},
		{1, 10},
		{0.04, 60},
	}

	for _, tc := range cases {
		chunks, err := Plan(tc.totalDuration, tc.chunkSeconds)
		if err != nil {
			t.Fatalf("Plan(%v, %d) returned error: %v", tc.totalDuration, tc.chunkSeconds, err)
		}
		if len(chunks) == 0 {
			t.Fatalf("Plan(%v, %d) returned no chunks", tc.totalDuration, tc.chunkSeconds)
		}

		if chunks[0].Start != 0 {
			t.Errorf("first chunk starts at %v, want 0", chunks[0].Start)
		}
		last := chunks[len(chunks)-1]
		if math.Abs(last.End-tc.totalDuration) > 1e-9 {
			t.Errorf("last chunk ends at %v, want %v", last.End, tc.totalDuration)
		}
		for i := 1; i < len(chunks); i++ {
			if chunks[i].Start != chunks[i-1].End {
				t.Errorf("gap/overlap between chunk %d and %d: %v vs %v",
					i-1, i, chunks[i-1].End, chunks[i].Start)
			}
			if chunks[i].Index != i {
				t.Errorf("chunk %d has index %d", i, chunks[i].Index)
			}
		}
	}
}

func TestPlanDeterminism(t *testing.T) {
	a, err := Plan(3671.27, 90)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Plan(3671.27, 90)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different plans")
	}
}

func TestPlanErrors(t *testing.T) {
	if _, err := Plan(0, 60); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := Plan(-5, 60); err == nil {
		t.Error("expected error for negative duration")
	}
	if _, err := Plan(600, 0); err == nil {
		t.Error("expected error for zero chunk duration")
	}
}

func TestChunkID(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "chunk_000"},
		{7, "chunk_007"},
		{42, "chunk_042"},
		{123, "chunk_123"},
	}
	for _, tt := range tests {
		c := Chunk{Index: tt.index}
		if got := c.ID(); got != tt.want {
			t.Errorf("Chunk{Index: %d}.ID() = %q, want %q", tt.index, got, tt.want)
		}
	}
}
