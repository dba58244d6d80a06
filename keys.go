package main

import (
	"context"
	"fmt"

	"github.com/eiannone/keyboard"
	log "github.com/rs/zerolog/log"
	"github.com/whyrusleeping/polysynth/synth"
)

// keyNotes maps the home row onto the white keys from middle C.
var keyNotes = map[rune]int64{
	'a': 60,
	's': 62,
	'd': 64,
	'f': 65,
	'g': 67,
	'h': 69,
	'j': 71,
	'k': 72,
	'l': 74,
}

// keyPlayer latches notes: the terminal reports no key-up, so a second
// press of the same key releases it.
type keyPlayer struct {
	ctrl   *synth.Controller
	octave int64
	held   map[rune]float64
}

func newKeyPlayer(ctrl *synth.Controller) *keyPlayer {
	return &keyPlayer{
		ctrl: ctrl,
		held: make(map[rune]float64),
	}
}

func (kp *keyPlayer) press(r rune) {
	switch r {
	case 'z':
		kp.octave -= 12
		log.Info().Int64("octave", kp.octave/12).Msg("octave down")
		return
	case 'x':
		kp.octave += 12
		log.Info().Int64("octave", kp.octave/12).Msg("octave up")
		return
	}

	note, ok := keyNotes[r]
	if !ok {
		return
	}

	if freq, held := kp.held[r]; held {
		send(kp.ctrl.Stop(freq), "stop", freq)
		delete(kp.held, r)
		return
	}

	freq := noteToFreq(note + kp.octave)
	send(kp.ctrl.Play(freq), "play", freq)
	kp.held[r] = freq
}

func (kp *keyPlayer) releaseAll() {
	for r, freq := range kp.held {
		send(kp.ctrl.Stop(freq), "stop", freq)
		delete(kp.held, r)
	}
}

func runKeys(ctx context.Context, ctrl *synth.Controller) error {
	out, err := startOutput(ctrl)
	if err != nil {
		return err
	}
	defer out.Close()

	keypresses, err := keyboard.GetKeys(10)
	if err != nil {
		return fmt.Errorf("keyboard: %w", err)
	}
	defer keyboard.Close()

	kp := newKeyPlayer(ctrl)
	defer kp.releaseAll()

	log.Info().Msg("a-l play, z/x octave, space releases all, esc quits")

	for {
		select {
		case <-ctx.Done():
			return nil
		case key := <-keypresses:
			if key.Err != nil {
				return fmt.Errorf("keyboard: %w", key.Err)
			}
			switch key.Key {
			case keyboard.KeyEsc, keyboard.KeyCtrlC:
				return nil
			case keyboard.KeySpace:
				kp.releaseAll()
			case 0:
				kp.press(key.Rune)
			}
		}
	}
}
