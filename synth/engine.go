package synth

import "math"

// Engine mixes a fixed pool of voices that all share one patch. It is not
// safe for concurrent use; see Controller.
type Engine struct {
	sampleRate int
	waveform   Waveform
	patch      Patch
	voices     []*Voice
}

// VoiceState is a read-only view of one voice.
type VoiceState struct {
	Active    bool
	Target    float64
	Frequency float64
	Stage     Stage
}

func New(opts ...Option) *Engine {
	cfg := ApplyOptions(opts...)

	e := &Engine{
		sampleRate: cfg.SampleRate,
		waveform:   cfg.Waveform,
		patch:      cfg.Patch,
		voices:     make([]*Voice, cfg.Voices),
	}
	for i := range e.voices {
		e.voices[i] = NewVoice(cfg.SampleRate, cfg.Waveform, cfg.InitialFrequency, cfg.Patch)
	}
	return e
}

func (e *Engine) SampleRate() int {
	return e.sampleRate
}

func (e *Engine) Waveform() Waveform {
	return e.waveform
}

func (e *Engine) NumVoices() int {
	return len(e.voices)
}

func (e *Engine) Patch() Patch {
	return e.patch
}

// Play starts freq on the first idle voice. With no idle voice it steals
// the one whose target is nearest to freq, first in pool order on ties.
// It returns the index of the voice used.
func (e *Engine) Play(freq float64) int {
	for i, v := range e.voices {
		if !v.Active() {
			v.Play(freq)
			return i
		}
	}

	best := 0
	bestDist := math.Inf(1)
	for i, v := range e.voices {
		d := math.Abs(v.Target() - freq)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	e.voices[best].Play(freq)
	return best
}

// Stop releases every active voice whose target is exactly freq and
// returns how many were released.
func (e *Engine) Stop(freq float64) int {
	var n int
	for _, v := range e.voices {
		if v.Active() && v.Target() == freq {
			v.Stop()
			n++
		}
	}
	return n
}

// NextSample returns the unscaled sum of every voice.
func (e *Engine) NextSample() float64 {
	var sum float64
	for _, v := range e.voices {
		sum += v.NextSample()
	}
	return sum
}

func (e *Engine) NextFrame() Frame {
	var sum Frame
	for _, v := range e.voices {
		sum = sum.Add(v.NextFrame())
	}
	return sum
}

func (e *Engine) SetAttack(s float64) {
	e.patch.Attack = s
	for _, v := range e.voices {
		v.env.SetAttack(s)
	}
}

func (e *Engine) SetDecay(s float64) {
	e.patch.Decay = s
	for _, v := range e.voices {
		v.env.SetDecay(s)
	}
}

func (e *Engine) SetSustain(level float64) {
	e.patch.Sustain = level
	for _, v := range e.voices {
		v.env.SetSustain(level)
	}
}

func (e *Engine) SetRelease(s float64) {
	e.patch.Release = s
	for _, v := range e.voices {
		v.env.SetRelease(s)
	}
}

func (e *Engine) SetGlide(s float64) {
	e.patch.Glide = s
	for _, v := range e.voices {
		v.ramp.SetLength(s)
	}
}

func (e *Engine) SetGain(g float64) {
	e.patch.Gain = g
	for _, v := range e.voices {
		v.gain.Amount = g
	}
}

func (e *Engine) SetPatch(p Patch) {
	e.patch = p
	for _, v := range e.voices {
		v.setPatch(p)
	}
}

func (e *Engine) ActiveVoices() int {
	var n int
	for _, v := range e.voices {
		if v.Active() {
			n++
		}
	}
	return n
}

// Voices fills dst with the state of every voice and returns it. dst is
// reused when it is large enough.
func (e *Engine) Voices(dst []VoiceState) []VoiceState {
	dst = dst[:0]
	for _, v := range e.voices {
		dst = append(dst, VoiceState{
			Active:    v.Active(),
			Target:    v.Target(),
			Frequency: v.Frequency(),
			Stage:     v.Stage(),
		})
	}
	return dst
}

// Reset silences every voice immediately, without a release.
func (e *Engine) Reset() {
	for _, v := range e.voices {
		v.silence()
	}
}
