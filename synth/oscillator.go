package synth

import (
	"fmt"
	"math"
	"strings"
)

// Oscillator is a phase accumulator producing one waveform.
type Oscillator interface {
	SetFrequency(hz float64)
	Frequency() float64
	NextSample() float64
}

type Waveform int

const (
	WaveSine Waveform = iota
	WaveSaw
	WaveSquare
)

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

func ParseWaveform(s string) (Waveform, error) {
	switch strings.ToLower(s) {
	case "sine", "sin":
		return WaveSine, nil
	case "saw", "sawtooth":
		return WaveSaw, nil
	case "square", "sq":
		return WaveSquare, nil
	default:
		return 0, fmt.Errorf("unknown waveform %q", s)
	}
}

// NewOscillator returns an oscillator of the given shape. Unknown shapes fall
// back to a saw.
func NewOscillator(w Waveform, sampleRate, freq float64) Oscillator {
	p := phasor{sampleRate: sampleRate}
	p.SetFrequency(freq)

	switch w {
	case WaveSine:
		return &SineWave{phasor: p}
	case WaveSquare:
		return &SquareWave{phasor: p}
	default:
		return &SawWave{phasor: p}
	}
}

// phasor holds the shared phase/frequency state. Phase stays in [0,1).
type phasor struct {
	sampleRate float64
	frequency  float64
	phase      float64
}

// SetFrequency stores hz limited to [0, nyquist].
func (p *phasor) SetFrequency(hz float64) {
	nyquist := p.sampleRate / 2
	switch {
	case hz > nyquist:
		hz = nyquist
	case hz < 0, math.IsNaN(hz):
		hz = 0
	}
	p.frequency = hz
}

func (p *phasor) Frequency() float64 {
	return p.frequency
}

func (p *phasor) Phase() float64 {
	return p.phase
}

func (p *phasor) advance() {
	p.phase += p.frequency / p.sampleRate
	if p.phase >= 1 {
		p.phase -= 1
	}
}

type SineWave struct {
	phasor
}

func (sw *SineWave) NextSample() float64 {
	v := math.Sin(2 * math.Pi * sw.phase)
	sw.advance()
	return v
}

type SawWave struct {
	phasor
}

func (sw *SawWave) NextSample() float64 {
	v := 2*sw.phase - 1
	sw.advance()
	return v
}

type SquareWave struct {
	phasor
}

func (sw *SquareWave) NextSample() float64 {
	v := -1.0
	if sw.phase < 0.5 {
		v = 1
	}
	sw.advance()
	return v
}
