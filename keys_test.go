package main

import (
	"testing"

	"github.com/whyrusleeping/polysynth/synth"
)

func TestKeyPlayerLatch(t *testing.T) {
	_, eng, ctrl, _ := newTestSystem(16)
	kp := newKeyPlayer(ctrl)

	kp.press('h')
	renderOne(ctrl)
	if ctrl.ActiveVoices() != 1 {
		t.Fatalf("active = %d, want 1", ctrl.ActiveVoices())
	}
	states := eng.Voices(nil)
	if states[0].Target != 440 {
		t.Fatalf("target = %v, want 440", states[0].Target)
	}

	kp.press('h')
	renderOne(ctrl)
	if eng.Voices(nil)[0].Stage != synth.StageRelease {
		t.Fatalf("stage = %v, want release", eng.Voices(nil)[0].Stage)
	}
	if len(kp.held) != 0 {
		t.Fatalf("held = %v, want empty", kp.held)
	}
}

func TestKeyPlayerOctave(t *testing.T) {
	_, eng, ctrl, _ := newTestSystem(16)
	kp := newKeyPlayer(ctrl)

	kp.press('x')
	kp.press('h')
	kp.press('z')
	kp.press('z')
	kp.press('h')
	renderOne(ctrl)

	// the second 'h' releases the latched note rather than playing 220
	states := eng.Voices(nil)
	if states[0].Target != 880 {
		t.Fatalf("target = %v, want 880", states[0].Target)
	}
	if states[0].Stage != synth.StageRelease {
		t.Fatalf("stage = %v, want release", states[0].Stage)
	}

	kp.press('h')
	renderOne(ctrl)
	if kp.held['h'] != 220 {
		t.Fatalf("held = %v, want 220", kp.held['h'])
	}
}

func TestKeyPlayerReleaseAll(t *testing.T) {
	_, eng, ctrl, _ := newTestSystem(16)
	kp := newKeyPlayer(ctrl)

	kp.press('a')
	kp.press('d')
	kp.press('q')
	kp.releaseAll()
	renderOne(ctrl)

	if len(kp.held) != 0 {
		t.Fatalf("held = %v, want empty", kp.held)
	}
	for i, v := range eng.Voices(nil) {
		if v.Active && v.Stage != synth.StageRelease {
			t.Fatalf("voice %d stage = %v, want release", i, v.Stage)
		}
	}
}
