package main

import (
	"testing"

	"github.com/gopxl/beep"
)

func counter() beep.Streamer {
	var n float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			n++
			samples[i] = [2]float64{n, n}
		}
		return len(samples), true
	})
}

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder(8)
	r.sub = counter()

	r.Stream(make([][2]float64, 5))
	r.Stream(make([][2]float64, 7))

	buf := make([]float64, 4)
	if n := r.GetSnapshot(buf); n != 4 {
		t.Fatalf("snapshot = %d samples, want 4", n)
	}
	want := []float64{9, 10, 11, 12}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", buf, want)
		}
	}

	big := make([]float64, 20)
	if n := r.GetSnapshot(big); n != 8 {
		t.Fatalf("snapshot = %d samples, want 8", n)
	}
	if big[0] != 5 || big[7] != 12 {
		t.Fatalf("snapshot = %v", big[:8])
	}
}

func TestRecorderBeforeFull(t *testing.T) {
	r := NewRecorder(8)
	r.sub = counter()
	r.Stream(make([][2]float64, 2))

	buf := make([]float64, 4)
	r.GetSnapshot(buf)
	// positions not yet written read as silence
	want := []float64{0, 0, 1, 2}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", buf, want)
		}
	}
}
