package synth

import "math"

// RetriggerFade is how long a retriggered envelope spends fading out the
// amplitude it had at the moment of the trigger before the attack starts.
const RetriggerFade = 0.01

type Stage int

const (
	StageIdle Stage = iota
	StageRetrigger
	StageAttack
	StageDecay
	StageSustain
	StageRelease
	StageDone
)

var stageNames = [...]string{"idle", "retrigger", "attack", "decay", "sustain", "release", "done"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Envelope is a linear ADSR amplitude envelope. Elapsed time is counted in
// samples since the last Trigger and only ever moves forward in Process.
type Envelope struct {
	sampleRate float64

	attack  float64
	decay   float64
	sustain float64
	release float64

	triggered bool
	pos       int64

	released  bool
	relPos    int64
	relAmp    float64
	retrigAmp float64
}

func NewEnvelope(sampleRate, attack, decay, sustain, release float64) *Envelope {
	e := &Envelope{sampleRate: sampleRate}
	e.SetAttack(attack)
	e.SetDecay(decay)
	e.SetSustain(sustain)
	e.SetRelease(release)
	return e
}

// Negative and NaN durations are treated as zero.
func (e *Envelope) SetAttack(s float64)  { e.attack = duration(s) }
func (e *Envelope) SetDecay(s float64)   { e.decay = duration(s) }
func (e *Envelope) SetRelease(s float64) { e.release = duration(s) }

func (e *Envelope) SetSustain(level float64) {
	if math.IsNaN(level) {
		level = 0
	}
	e.sustain = clamp01(level)
}

func (e *Envelope) Trigger() {
	e.retrigAmp = e.Amplitude()
	e.triggered = true
	e.pos = 0
	e.released = false
	e.relPos = 0
	e.relAmp = 0
}

// reset returns the envelope to its untriggered state without a fade.
func (e *Envelope) reset() {
	*e = Envelope{
		sampleRate: e.sampleRate,
		attack:     e.attack,
		decay:      e.decay,
		sustain:    e.sustain,
		release:    e.release,
	}
}

// Release starts the release stage. Only the first call after a Trigger
// takes the snapshot.
func (e *Envelope) Release() {
	if e.released {
		return
	}
	e.relPos = e.pos
	e.relAmp = e.Amplitude()
	e.released = true
}

func (e *Envelope) Released() bool {
	return e.released
}

// Elapsed returns the seconds since the last Trigger.
func (e *Envelope) Elapsed() float64 {
	return e.seconds(e.pos)
}

func (e *Envelope) Done() bool {
	return e.released && e.seconds(e.pos-e.relPos) >= e.release
}

// Amplitude returns the gain for the current sample, always in [0,1].
func (e *Envelope) Amplitude() float64 {
	if !e.triggered {
		return 0
	}

	if e.released {
		if e.release <= 0 {
			return 0
		}
		ratio := e.seconds(e.pos-e.relPos) / e.release
		return e.relAmp * (1 - clamp01(ratio))
	}

	t := e.seconds(e.pos)
	if t <= RetriggerFade {
		ratio := t / RetriggerFade
		check(ratio <= 1, "retrigger ratio above 1", ratio)
		return e.retrigAmp * (1 - clamp01(ratio))
	}

	attackEnd := RetriggerFade + e.attack
	if e.attack > 0 && t <= attackEnd {
		return clamp01((t - RetriggerFade) / e.attack)
	}

	decayEnd := attackEnd + e.decay
	if e.decay > 0 && t <= decayEnd {
		ratio := (t - attackEnd) / e.decay
		check(ratio <= 1+1e-9, "decay ratio above 1", ratio)
		return 1 - (1-e.sustain)*clamp01(ratio)
	}

	return e.sustain
}

func (e *Envelope) Stage() Stage {
	switch {
	case !e.triggered:
		return StageIdle
	case e.released:
		if e.Done() {
			return StageDone
		}
		return StageRelease
	}

	t := e.seconds(e.pos)
	attackEnd := RetriggerFade + e.attack
	switch {
	case t <= RetriggerFade:
		return StageRetrigger
	case e.attack > 0 && t <= attackEnd:
		return StageAttack
	case e.decay > 0 && t <= attackEnd+e.decay:
		return StageDecay
	default:
		return StageSustain
	}
}

// Process scales in by the current amplitude and advances one sample.
func (e *Envelope) Process(in float64) float64 {
	amp := e.Amplitude()
	e.pos++
	return in * amp
}

func (e *Envelope) seconds(samples int64) float64 {
	return float64(samples) / e.sampleRate
}

func duration(s float64) float64 {
	if s < 0 || math.IsNaN(s) {
		return 0
	}
	return s
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
