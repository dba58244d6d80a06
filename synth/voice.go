package synth

// Voice renders a single note: oscillator, glide ramp, amplitude envelope
// and gain, in that order.
type Voice struct {
	osc  Oscillator
	env  *Envelope
	ramp *Ramp
	gain Gain

	startFreq float64
	endFreq   float64
	active    bool
}

func NewVoice(sampleRate int, w Waveform, freq float64, p Patch) *Voice {
	sr := float64(sampleRate)
	osc := NewOscillator(w, sr, freq)
	return &Voice{
		osc:       osc,
		env:       NewEnvelope(sr, p.Attack, p.Decay, p.Sustain, p.Release),
		ramp:      NewRamp(sr, p.Glide),
		gain:      Gain{Amount: p.Gain},
		startFreq: osc.Frequency(),
		endFreq:   osc.Frequency(),
	}
}

// Play (re)starts the voice at freq, gliding from wherever the oscillator
// currently is. The oscillator phase keeps running.
func (v *Voice) Play(freq float64) {
	v.startFreq = v.osc.Frequency()
	v.endFreq = freq
	v.ramp.Trigger()
	v.env.Trigger()
	v.active = true
}

// Stop releases the envelope. The voice stays active until the release
// finishes.
func (v *Voice) Stop() {
	v.env.Release()
}

func (v *Voice) Active() bool {
	return v.active
}

// Target is the frequency of the last Play, even while still gliding.
func (v *Voice) Target() float64 {
	return v.endFreq
}

func (v *Voice) Frequency() float64 {
	return v.osc.Frequency()
}

func (v *Voice) Stage() Stage {
	return v.env.Stage()
}

func (v *Voice) NextSample() float64 {
	if !v.active {
		return 0
	}

	v.osc.SetFrequency(v.startFreq + v.ramp.Process(v.endFreq-v.startFreq))

	out := v.gain.Process(v.env.Process(v.osc.NextSample()))

	if v.env.Done() {
		v.active = false
	}
	return out
}

func (v *Voice) NextFrame() Frame {
	return FrameFromMono(v.NextSample())
}

func (v *Voice) setPatch(p Patch) {
	v.env.SetAttack(p.Attack)
	v.env.SetDecay(p.Decay)
	v.env.SetSustain(p.Sustain)
	v.env.SetRelease(p.Release)
	v.ramp.SetLength(p.Glide)
	v.gain.Amount = p.Gain
}

// silence drops the voice immediately without a release.
func (v *Voice) silence() {
	v.env.reset()
	v.active = false
}
