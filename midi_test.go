package main

import (
	"testing"

	"github.com/rakyll/portmidi"
	"github.com/whyrusleeping/polysynth/synth"
)

func TestMidiNotes(t *testing.T) {
	eng := synth.New(synth.WithVoices(2))
	ctrl := synth.NewController(eng, 16)
	mc := NewMockController(ctrl)

	mc.handleEvent(portmidi.Event{Status: 0x90, Data1: 69, Data2: 100})
	renderOne(ctrl)

	vs := eng.Voices(nil)
	if !vs[0].Active || vs[0].Target != 440 {
		t.Fatalf("voice 0 = %+v, want active at 440", vs[0])
	}

	// note-on with zero velocity is a note-off, on any channel
	mc.handleEvent(portmidi.Event{Status: 0x93, Data1: 69, Data2: 0})
	renderOne(ctrl)
	if st := eng.Voices(nil)[0].Stage; st != synth.StageRelease {
		t.Fatalf("stage = %v, want release", st)
	}
	if _, ok := mc.noteStates[69]; ok {
		t.Fatal("note still tracked after note-off")
	}

	// unknown note-off is ignored
	mc.handleEvent(portmidi.Event{Status: 0x80, Data1: 10, Data2: 0})
}

func TestMidiRetriggerStopsOldNote(t *testing.T) {
	eng := synth.New(synth.WithVoices(2))
	ctrl := synth.NewController(eng, 16)
	mc := NewMockController(ctrl)

	mc.handleEvent(portmidi.Event{Status: 0x90, Data1: 60, Data2: 100})
	mc.handleEvent(portmidi.Event{Status: 0x90, Data1: 60, Data2: 100})
	renderOne(ctrl)

	vs := eng.Voices(nil)
	if vs[0].Stage != synth.StageRelease {
		t.Fatalf("first voice stage = %v, want release", vs[0].Stage)
	}
	if !vs[1].Active || vs[1].Target != noteToFreq(60) {
		t.Fatalf("second voice = %+v", vs[1])
	}

	mc.handleEvent(portmidi.Event{Status: 0x80, Data1: 60})
	renderOne(ctrl)
	if st := eng.Voices(nil)[1].Stage; st != synth.StageRelease {
		t.Fatalf("second voice stage = %v, want release", st)
	}
}

func TestMidiKnobs(t *testing.T) {
	eng := synth.New()
	ctrl := synth.NewController(eng, 16)
	mc := NewMockController(ctrl)
	mc.bindPatchKnobs(nil)

	mc.handleEvent(portmidi.Event{Status: 0xb0, Data1: ccAttack, Data2: 127})
	mc.handleEvent(portmidi.Event{Status: 0xb0, Data1: ccSustain, Data2: 0})
	mc.handleEvent(portmidi.Event{Status: 0xb0, Data1: ccGlide, Data2: 0})
	mc.handleEvent(portmidi.Event{Status: 0xb0, Data1: 99, Data2: 12})
	renderOne(ctrl)

	// the unbound knob 99 leaves everything else alone
	want := synth.DefaultPatch()
	want.Attack = maxTime
	want.Sustain = 0
	want.Glide = 0
	if p := eng.Patch(); p != want {
		t.Fatalf("patch = %+v, want %+v", p, want)
	}
	if _, ok := mc.knobBinds[ccCutoff]; ok {
		t.Fatal("cutoff bound without a filter")
	}
}

func TestKnobMaps(t *testing.T) {
	if timeKnob(0) != 0 || timeKnob(127) != maxTime {
		t.Fatalf("timeKnob range = %v..%v", timeKnob(0), timeKnob(127))
	}
	if levelKnob(127) != 1 {
		t.Fatalf("levelKnob(127) = %v", levelKnob(127))
	}
	if cutoffKnob(64) <= cutoffKnob(32) {
		t.Fatal("cutoffKnob not increasing")
	}
}
