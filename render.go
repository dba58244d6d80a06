package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	log "github.com/rs/zerolog/log"
	"github.com/whyrusleeping/polysynth/synth"
)

// scoreStreamer renders src while sending each score event to ctrl at
// exactly the frame it is due.
type scoreStreamer struct {
	ctrl   *synth.Controller
	sr     beep.SampleRate
	events []scoreEvent
	pos    int
}

func newScoreStreamer(ctrl *synth.Controller, events []scoreEvent) *scoreStreamer {
	events = append([]scoreEvent(nil), events...)
	// Note-offs sort before note-ons at the same instant so a repeated note
	// restarts instead of being released straight away.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return !events[i].on && events[j].on
	})

	return &scoreStreamer{
		ctrl:   ctrl,
		sr:     beep.SampleRate(ctrl.SampleRate()),
		events: events,
	}
}

func (s *scoreStreamer) Stream(samples [][2]float64) (int, bool) {
	var done int
	for done < len(samples) {
		for len(s.events) > 0 && s.sr.N(s.events[0].at) <= s.pos {
			ev := s.events[0]
			s.events = s.events[1:]
			if ev.on {
				send(s.ctrl.Play(ev.freq), "play", ev.freq)
			} else {
				send(s.ctrl.Stop(ev.freq), "stop", ev.freq)
			}
		}

		chunk := len(samples) - done
		if len(s.events) > 0 {
			chunk = min(chunk, s.sr.N(s.events[0].at)-s.pos)
		}

		n, _ := s.ctrl.Stream(samples[done : done+chunk])
		done += n
		s.pos += n
	}
	return done, true
}

func (s *scoreStreamer) Err() error {
	return nil
}

func renderFile(ctrl *synth.Controller, path string, length time.Duration) error {
	a := &Arp{
		notes:    []int64{60, 64, 67, 72},
		duration: 400 * time.Millisecond,
	}
	repeats := int(length/(a.duration*time.Duration(len(a.notes)))) + 1

	fi, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer fi.Close()

	if err := renderScore(fi, ctrl, a.Score(repeats), length); err != nil {
		return err
	}

	log.Info().Str("file", path).Dur("length", length).Msg("rendered")
	return fi.Close()
}

func renderScore(w *os.File, ctrl *synth.Controller, events []scoreEvent, length time.Duration) error {
	sr := beep.SampleRate(ctrl.SampleRate())
	limiter, err := newMasterLimiter(ctrl.SampleRate())
	if err != nil {
		return err
	}
	s := beep.Take(sr.N(length), limiter.Process(newScoreStreamer(ctrl, events)))

	err = wav.Encode(w, s, beep.Format{
		SampleRate:  sr,
		NumChannels: 2,
		Precision:   2,
	})
	if err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	return nil
}
