package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rakyll/portmidi"
	log "github.com/rs/zerolog/log"
	"github.com/whyrusleeping/polysynth/synth"
)

const (
	midiNoteOff = 0x80
	midiNoteOn  = 0x90
	midiCC      = 0xb0
)

// Default control change numbers for the patch knobs.
const (
	ccAttack  = 20
	ccDecay   = 21
	ccSustain = 22
	ccRelease = 23
	ccGlide   = 24
	ccCutoff  = 74
)

type MidiController struct {
	Target *synth.Controller

	stream *portmidi.Stream

	// frequency each sounding note was started with, so note-off stops
	// exactly that value.
	noteStates map[int64]float64

	knobBinds map[int64]*knobBind
}

type knobBind struct {
	mapf func(int64) float64
	sf   Setter
}

func (kb *knobBind) Update(val int64) {
	v := kb.mapf(val)
	kb.sf(v)
}

type Setter func(float64)

func OpenController(id portmidi.DeviceID, target *synth.Controller) (*MidiController, error) {
	in, err := portmidi.NewInputStream(id, 1024)
	if err != nil {
		return nil, fmt.Errorf("opening midi device %d: %w", id, err)
	}

	mc := NewMockController(target)
	mc.stream = in
	return mc, nil
}

// NewMockController returns a controller without a device; events are fed
// through handleEvent.
func NewMockController(target *synth.Controller) *MidiController {
	return &MidiController{
		Target:     target,
		noteStates: make(map[int64]float64),
		knobBinds:  make(map[int64]*knobBind),
	}
}

func (mc *MidiController) Shutdown() {
	if mc.stream != nil {
		mc.stream.Close()
	}
}

func (mc *MidiController) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		ready, err := mc.stream.Poll()
		if err != nil {
			return fmt.Errorf("midi poll: %w", err)
		}
		if !ready {
			time.Sleep(time.Millisecond)
			continue
		}

		events, err := mc.stream.Read(1024)
		if err != nil {
			return fmt.Errorf("midi read: %w", err)
		}
		for _, event := range events {
			mc.handleEvent(event)
		}
	}
}

func (mc *MidiController) handleEvent(event portmidi.Event) {
	switch event.Status & 0xf0 {
	case midiNoteOn:
		if event.Data2 == 0 {
			mc.stopNote(event.Data1)
			return
		}
		mc.startNote(event.Data1)
	case midiNoteOff:
		mc.stopNote(event.Data1)
	case midiCC:
		// twisty knobs
		kb, ok := mc.knobBinds[event.Data1]
		if ok {
			kb.Update(event.Data2)
		} else {
			log.Debug().Int64("cc", event.Data1).Int64("value", event.Data2).Msg("unbound knob")
		}
	default:
		log.Debug().Int64("status", event.Status).Int64("data1", event.Data1).Int64("data2", event.Data2).Msg("midi event")
	}
}

func (mc *MidiController) startNote(note int64) {
	if mc.Target == nil {
		return
	}

	if old, ok := mc.noteStates[note]; ok {
		log.Debug().Int64("note", note).Msg("got start for already running note")
		send(mc.Target.Stop(old), "stop", old)
	}

	freq := noteToFreq(note)
	send(mc.Target.Play(freq), "play", freq)
	mc.noteStates[note] = freq
}

func (mc *MidiController) stopNote(note int64) {
	freq, ok := mc.noteStates[note]
	if !ok {
		log.Debug().Int64("note", note).Msg("stop called on note we hadnt started")
		return
	}

	send(mc.Target.Stop(freq), "stop", freq)
	delete(mc.noteStates, note)
}

func (mc *MidiController) BindKnob(knobid int64, s Setter, rangeMapFunc func(int64) float64) {
	if s == nil {
		log.Warn().Int64("knob", knobid).Msg("nil setter passed to bind knob")
		return
	}
	mc.knobBinds[knobid] = &knobBind{
		mapf: rangeMapFunc,
		sf:   s,
	}
}

// timeKnob maps 0..127 onto 0..maxTime seconds with more resolution at the
// short end.
func timeKnob(v int64) float64 {
	x := float64(v) / 127
	return maxTime * x * x
}

func levelKnob(v int64) float64 {
	return float64(v) / 127
}

func cutoffKnob(v int64) float64 {
	return math.Pow(float64(v), 1.5) * 10
}

func (mc *MidiController) bindPatchKnobs(out *output) {
	ctrl := mc.Target
	mc.BindKnob(ccAttack, func(v float64) { send(ctrl.SetAttack(v), "attack", v) }, timeKnob)
	mc.BindKnob(ccDecay, func(v float64) { send(ctrl.SetDecay(v), "decay", v) }, timeKnob)
	mc.BindKnob(ccSustain, func(v float64) { send(ctrl.SetSustain(v), "sustain", v) }, levelKnob)
	mc.BindKnob(ccRelease, func(v float64) { send(ctrl.SetRelease(v), "release", v) }, timeKnob)
	mc.BindKnob(ccGlide, func(v float64) { send(ctrl.SetGlide(v), "glide", v) }, timeKnob)
	if out != nil && out.filter != nil {
		mc.BindKnob(ccCutoff, out.SetCutoff, cutoffKnob)
	}
}

func runMidi(ctx context.Context, ctrl *synth.Controller) error {
	if err := portmidi.Initialize(); err != nil {
		return fmt.Errorf("portmidi init: %w", err)
	}
	defer portmidi.Terminate()

	id := portmidi.DeviceID(cfg.MidiDevice)
	if cfg.MidiDevice < 0 {
		id = portmidi.DefaultInputDeviceID()
	}
	if info := portmidi.Info(id); info != nil {
		log.Info().Int("device", int(id)).Str("name", info.Name).Msg("opening midi input")
	}

	out, err := startOutput(ctrl)
	if err != nil {
		return err
	}
	defer out.Close()

	mc, err := OpenController(id, ctrl)
	if err != nil {
		return err
	}
	defer mc.Shutdown()
	mc.bindPatchKnobs(out)

	return mc.run(ctx)
}
