package main

import (
	"sync"

	"github.com/gopxl/beep"
)

// Recorder passes audio through and keeps the last len(buf) mono samples
// for the scope.
type Recorder struct {
	lk       sync.Mutex
	buf      []float64
	position int

	sub beep.Streamer
}

func NewRecorder(size int) *Recorder {
	return &Recorder{
		buf: make([]float64, size),
	}
}

func (r *Recorder) Stream(samples [][2]float64) (int, bool) {
	n, ok := r.sub.Stream(samples)

	r.lk.Lock()
	defer r.lk.Unlock()

	for i := range samples[:n] {
		r.buf[r.position%len(r.buf)] = 0.5 * (samples[i][0] + samples[i][1])
		r.position++
	}
	return n, ok
}

// GetSnapshot copies the most recent samples into buf, oldest first, and
// returns how many were copied.
func (r *Recorder) GetSnapshot(buf []float64) int {
	r.lk.Lock()
	defer r.lk.Unlock()

	lim := min(len(buf), len(r.buf))
	start := r.position - lim
	for i := 0; i < lim; i++ {
		ix := (start + i) % len(r.buf)
		if ix < 0 {
			ix += len(r.buf)
		}
		buf[i] = r.buf[ix]
	}

	return lim
}

func (r *Recorder) Err() error {
	return r.sub.Err()
}
