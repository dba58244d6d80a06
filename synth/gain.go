package synth

type Gain struct {
	Amount float64
}

func (g Gain) Process(in float64) float64 {
	return in * g.Amount
}
