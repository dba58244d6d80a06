package synth

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/maddyblue/go-dsp/fft"
)

func TestWaveformShapes(t *testing.T) {
	// 12 kHz at 48 kHz steps the phase by exactly a quarter.
	tests := []struct {
		name string
		w    Waveform
		want []float64
	}{
		{name: "sine", w: WaveSine, want: []float64{0, 1, 0, -1, 0}},
		{name: "saw", w: WaveSaw, want: []float64{-1, -0.5, 0, 0.5, -1}},
		{name: "square", w: WaveSquare, want: []float64{1, 1, -1, -1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osc := NewOscillator(tt.w, 48000, 12000)
			for i, want := range tt.want {
				got := osc.NextSample()
				if math.Abs(got-want) > 1e-12 {
					t.Fatalf("sample %d = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestOscillatorNyquistClamp(t *testing.T) {
	for _, w := range []Waveform{WaveSine, WaveSaw, WaveSquare} {
		osc := NewOscillator(w, 44100, 30000)
		if got := osc.Frequency(); got != 22050 {
			t.Fatalf("%s: frequency = %v, want 22050", w, got)
		}

		osc.SetFrequency(-10)
		if got := osc.Frequency(); got != 0 {
			t.Fatalf("%s: frequency = %v, want 0", w, got)
		}

		osc.SetFrequency(math.NaN())
		if got := osc.Frequency(); got != 0 {
			t.Fatalf("%s: NaN frequency = %v, want 0", w, got)
		}
	}
}

func TestPhaseStaysInRange(t *testing.T) {
	osc := NewOscillator(WaveSaw, 48000, 0).(*SawWave)
	for _, f := range []float64{1, 440, 7919.3, 24000, 100000} {
		osc.SetFrequency(f)
		for i := 0; i < 10000; i++ {
			osc.NextSample()
			if p := osc.Phase(); p < 0 || p >= 1 {
				t.Fatalf("freq %v: phase %v out of [0,1) after %d samples", f, p, i)
			}
		}
	}
}

func TestZeroFrequencyHoldsPhase(t *testing.T) {
	osc := NewOscillator(WaveSquare, 48000, 0)
	for i := 0; i < 100; i++ {
		if v := osc.NextSample(); v != 1 {
			t.Fatalf("sample %d = %v, want 1", i, v)
		}
	}
}

func TestSineSpectrumPeak(t *testing.T) {
	const (
		sr = 48000
		n  = 4800
	)
	// 1 kHz falls exactly on bin 100 with 10 Hz bins.
	osc := NewOscillator(WaveSine, sr, 1000)
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = osc.NextSample()
	}

	bins := fft.FFTReal(buf)
	peak := 0
	for i := 1; i < n/2; i++ {
		if cmplx.Abs(bins[i]) > cmplx.Abs(bins[peak]) {
			peak = i
		}
	}
	if peak != 100 {
		t.Fatalf("peak bin = %d, want 100", peak)
	}
}

func TestParseWaveform(t *testing.T) {
	tests := []struct {
		in      string
		want    Waveform
		wantErr bool
	}{
		{in: "sine", want: WaveSine},
		{in: "SAW", want: WaveSaw},
		{in: "sawtooth", want: WaveSaw},
		{in: "square", want: WaveSquare},
		{in: "noise", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseWaveform(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseWaveform(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseWaveform(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseWaveform(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.String() == "" {
			t.Fatal("empty waveform name")
		}
	}
}
