package main

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/gopxl/beep"
)

// Limiter is the master dynamics stage. An envelope follower pulls the
// level down towards threshold once it is exceeded, and anything the
// envelope is too slow to catch is clipped at ceiling.
type Limiter struct {
	threshold float64
	ratio     float64
	attack    float64
	release   float64
	envelope  float64

	ceiling float64
}

// NewLimiter takes attack and release in seconds and turns them into per
// sample smoothing coefficients.
func NewLimiter(threshold, ratio, attack, release, sampleRate float64) *Limiter {
	return &Limiter{
		threshold: threshold,
		ratio:     ratio,
		attack:    coefficient(attack, sampleRate),
		release:   coefficient(release, sampleRate),
		ceiling:   1,
	}
}

func coefficient(s, sampleRate float64) float64 {
	if s <= 0 {
		return 1
	}
	return 1 - math.Exp(-1/(sampleRate*s))
}

// gain follows the level of one input sample and returns the gain to apply
// to it.
func (l *Limiter) gain(level float64) float64 {
	if level > l.envelope {
		l.envelope += (level - l.envelope) * l.attack
	} else {
		l.envelope += (level - l.envelope) * l.release
	}

	if l.envelope <= l.threshold {
		return 1
	}
	return math.Pow(l.threshold/l.envelope, l.ratio)
}

func (l *Limiter) clip(v float64) float64 {
	return math.Max(-l.ceiling, math.Min(v, l.ceiling))
}

func (l *Limiter) compressValue(v float64) float64 {
	return l.clip(v * l.gain(math.Abs(v)))
}

// Process limits src. Both channels get the same gain so the stereo image
// does not shift.
func (l *Limiter) Process(src beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		n, ok = src.Stream(samples)
		for i := range samples[:n] {
			g := l.gain(math.Max(math.Abs(samples[i][0]), math.Abs(samples[i][1])))
			samples[i][0] = l.clip(samples[i][0] * g)
			samples[i][1] = l.clip(samples[i][1] * g)
		}
		return n, ok
	})
}

// ProcessFloat32 wraps a pulse style reader.
func (l *Limiter) ProcessFloat32(read func([]float32) (int, error)) func([]float32) (int, error) {
	return func(out []float32) (int, error) {
		n, err := read(out)
		for i := range out[:n] {
			out[i] = float32(l.compressValue(float64(out[i])))
		}
		return n, err
	}
}

// Reader limits a stream of mono float32 little-endian samples.
func (l *Limiter) Reader(r io.Reader) io.Reader {
	return &limitReader{l: l, r: r}
}

type limitReader struct {
	l *Limiter
	r io.Reader
}

func (lr *limitReader) Read(p []byte) (int, error) {
	n, err := lr.r.Read(p)
	for i := 0; i+4 <= n; i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[i:]))
		v = float32(lr.l.compressValue(float64(v)))
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(v))
	}
	return n, err
}
