package main

import (
	"context"
	"time"

	"github.com/whyrusleeping/polysynth/synth"
)

// Arp cycles through notes, each held for duration.
type Arp struct {
	notes    []int64
	duration time.Duration

	ctrl *synth.Controller
}

func (a *Arp) Run(ctx context.Context) {
	t := time.NewTicker(a.duration)
	defer t.Stop()

	var playing float64
	stop := func() {
		if playing != 0 {
			send(a.ctrl.Stop(playing), "stop", playing)
			playing = 0
		}
	}
	defer stop()

	for i := 0; ; i++ {
		stop()
		if n := a.notes[i%len(a.notes)]; n > 0 {
			playing = noteToFreq(n)
			send(a.ctrl.Play(playing), "play", playing)
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

type scoreEvent struct {
	at   time.Duration
	freq float64
	on   bool
}

// Score lays the arpeggio out as timed note events, repeats times over.
// Notes <= 0 are rests.
func (a *Arp) Score(repeats int) []scoreEvent {
	var out []scoreEvent
	var at time.Duration
	for r := 0; r < repeats; r++ {
		for _, n := range a.notes {
			if n > 0 {
				f := noteToFreq(n)
				out = append(out,
					scoreEvent{at: at, freq: f, on: true},
					scoreEvent{at: at + a.duration, freq: f},
				)
			}
			at += a.duration
		}
	}
	return out
}
