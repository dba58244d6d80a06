package synth

// Frame is one stereo sample, left then right, laid out like a beep buffer
// element.
type Frame [2]float64

func FrameFromMono(v float64) Frame {
	return Frame{v, v}
}

func (f Frame) Mono() float64 {
	return 0.5 * (f[0] + f[1])
}

func (f Frame) Add(o Frame) Frame {
	return Frame{f[0] + o[0], f[1] + o[1]}
}
