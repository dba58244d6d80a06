package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/whyrusleeping/polysynth/synth"
)

func TestScoreStreamerTiming(t *testing.T) {
	eng := synth.New(synth.WithSampleRate(48000))
	ctrl := synth.NewController(eng, 16)
	s := newScoreStreamer(ctrl, []scoreEvent{
		{at: 20 * time.Millisecond, freq: 330},
		{at: 10 * time.Millisecond, freq: 330, on: true},
	})

	buf := make([][2]float64, 479)
	s.Stream(buf)
	if n := eng.ActiveVoices(); n != 0 {
		t.Fatalf("voice started early: %d active", n)
	}

	s.Stream(buf[:2])
	if n := eng.ActiveVoices(); n != 1 {
		t.Fatalf("active voices = %d, want 1", n)
	}

	s.Stream(make([][2]float64, 480))
	if st := eng.Voices(nil)[0].Stage; st != synth.StageRelease {
		t.Fatalf("stage = %v, want release", st)
	}
}

func TestRenderScoreWritesWav(t *testing.T) {
	p := synth.DefaultPatch()
	p.Gain = 0.3
	eng := synth.New(synth.WithSampleRate(44100), synth.WithWaveform(synth.WaveSine), synth.WithPatch(p))
	ctrl := synth.NewController(eng, 64)

	a := &Arp{
		notes:    []int64{60, 0, 67},
		duration: 50 * time.Millisecond,
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	fi, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	length := 300 * time.Millisecond
	if err := renderScore(fi, ctrl, a.Score(2), length); err != nil {
		t.Fatal(err)
	}
	if err := fi.Close(); err != nil {
		t.Fatal(err)
	}

	rf, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()

	s, format, err := wav.Decode(rf)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if format.SampleRate != 44100 || format.NumChannels != 2 {
		t.Fatalf("format = %+v", format)
	}
	if want := beep.SampleRate(44100).N(length); s.Len() != want {
		t.Fatalf("len = %d, want %d", s.Len(), want)
	}

	buf := make([][2]float64, s.Len())
	n, _ := s.Stream(buf)
	var peak float64
	for _, v := range buf[:n] {
		peak = max(peak, v[0], -v[0])
	}
	if peak == 0 {
		t.Fatal("rendered file is silent")
	}
	if peak > 1 {
		t.Fatalf("peak %v above full scale", peak)
	}
}

func TestArpScore(t *testing.T) {
	a := &Arp{
		notes:    []int64{60, 0, 64},
		duration: 100 * time.Millisecond,
	}

	evs := a.Score(2)
	if len(evs) != 8 {
		t.Fatalf("got %d events, want 8", len(evs))
	}
	if !evs[0].on || evs[0].at != 0 || evs[0].freq != noteToFreq(60) {
		t.Fatalf("first event = %+v", evs[0])
	}
	if evs[2].at != 200*time.Millisecond || evs[2].freq != noteToFreq(64) {
		t.Fatalf("third event = %+v (rest not skipped)", evs[2])
	}
	if last := evs[len(evs)-1]; last.on || last.at != 600*time.Millisecond {
		t.Fatalf("last event = %+v", last)
	}
}
