package synth_test

import (
	"fmt"

	"github.com/whyrusleeping/polysynth/synth"
)

func ExampleEngine() {
	eng := synth.New(
		synth.WithSampleRate(48000),
		synth.WithVoices(2),
		synth.WithWaveform(synth.WaveSine),
	)

	eng.Play(440)
	eng.Play(660)
	fmt.Println("first steal:", eng.Play(450))

	eng.Stop(450)
	for i := 0; i < 48000; i++ {
		eng.NextSample()
	}
	fmt.Println("active:", eng.ActiveVoices())

	// Output:
	// first steal: 0
	// active: 1
}

func ExampleParseWaveform() {
	w, err := synth.ParseWaveform("square")
	fmt.Println(w, err)

	// Output:
	// square <nil>
}
