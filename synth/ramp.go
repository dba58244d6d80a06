package synth

// minRamp is the shortest ramp that is interpolated; anything shorter jumps
// straight to the target.
const minRamp = 1e-9

// Ramp scales a value from 0 to full over a fixed duration after Trigger.
// The voice uses it to glide from the previous pitch to the new one.
type Ramp struct {
	sampleRate float64
	length     float64

	triggered bool
	pos       int64
}

func NewRamp(sampleRate, length float64) *Ramp {
	r := &Ramp{sampleRate: sampleRate}
	r.SetLength(length)
	return r
}

func (r *Ramp) SetLength(s float64) {
	r.length = duration(s)
}

func (r *Ramp) Length() float64 {
	return r.length
}

func (r *Ramp) Trigger() {
	r.triggered = true
	r.pos = 0
}

// Amount returns the current progress in [0,1]. An untriggered ramp is
// complete.
func (r *Ramp) Amount() float64 {
	if !r.triggered || r.length <= minRamp {
		return 1
	}
	return clamp01(float64(r.pos) / r.sampleRate / r.length)
}

// Process returns delta scaled by the current progress and advances one
// sample.
func (r *Ramp) Process(delta float64) float64 {
	out := delta * r.Amount()
	r.pos++
	return out
}
