package main

import (
	"math"

	"github.com/gopxl/beep"
)

// Butterworth is a second order low-pass used as a master tone control on
// the mixed output.
type Butterworth struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
	sampleRate         float64
	cutoff             float64
}

func NewButterworth(cutoffFreq, sampleRate float64) *Butterworth {
	b := &Butterworth{
		sampleRate: sampleRate,
	}

	b.UpdateCutoff(cutoffFreq)
	return b
}

// UpdateCutoff recomputes the coefficients. The cutoff is kept between
// 20 Hz and just under nyquist.
func (b *Butterworth) UpdateCutoff(cutoffFreq float64) {
	cutoffFreq = math.Max(20, math.Min(cutoffFreq, 0.49*b.sampleRate))
	b.cutoff = cutoffFreq

	wc := 2 * math.Pi * cutoffFreq / b.sampleRate

	cosw := math.Cos(wc)
	alpha := math.Sin(wc) / (2 * 0.707) // Q = 0.707

	b0 := (1 - cosw) / 2
	b1 := 1 - cosw
	b2 := (1 - cosw) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw
	a2 := 1 - alpha

	b.b0 = b0 / a0
	b.b1 = b1 / a0
	b.b2 = b2 / a0
	b.a1 = a1 / a0
	b.a2 = a2 / a0
}

func (b *Butterworth) Cutoff() float64 {
	return b.cutoff
}

func (b *Butterworth) ProcessSample(x float64) float64 {
	y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2

	b.x2 = b.x1
	b.x1 = x
	b.y2 = b.y1
	b.y1 = y
	return y
}

// Process filters the left channel of src and writes it to both channels.
func (b *Butterworth) Process(src beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		n, ok = src.Stream(samples)
		for i := range samples[:n] {
			y := b.ProcessSample(samples[i][0])
			samples[i][0] = y
			samples[i][1] = y
		}
		return n, ok
	})
}
