package main

import (
	"context"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	log "github.com/rs/zerolog/log"
	"github.com/whyrusleeping/polysynth/synth"
)

var commandHelp = map[string]string{
	"play":    "play(hz) start a note",
	"stop":    "stop(hz) release a note",
	"note":    "note(midi) frequency of a midi note",
	"attack":  "attack(seconds)",
	"decay":   "decay(seconds)",
	"sustain": "sustain(level)",
	"release": "release(seconds)",
	"glide":   "glide(seconds)",
	"gain":    "gain(amount) per voice gain",
	"reset":   "reset() silence every voice",
	"voices":  "voices() number of sounding voices",
	"print":   "print(value)",
}

func isExit(in string) bool {
	in = strings.TrimSpace(in)
	return in == "exit" || in == "quit"
}

func (s *System) complete(d prompt.Document) []prompt.Suggest {
	var sugs []prompt.Suggest
	for _, name := range s.Names() {
		sugs = append(sugs, prompt.Suggest{Text: name, Description: commandHelp[name]})
	}
	return prompt.FilterHasPrefix(sugs, d.GetWordBeforeCursor(), true)
}

func runConsole(ctx context.Context, ctrl *synth.Controller) error {
	out, err := startOutput(ctrl)
	if err != nil {
		return err
	}
	defer out.Close()

	sys := NewSystem(ctrl, os.Stdout)

	p := prompt.New(
		func(in string) {
			if isExit(in) {
				return
			}
			if err := sys.ProcessCmd(in); err != nil {
				log.Error().Err(err).Str("cmd", in).Msg("command failed")
			}
		},
		sys.complete,
		prompt.OptionPrefix("synth> "),
		prompt.OptionTitle("polysynth"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && isExit(in)
		}),
	)

	done := make(chan struct{})
	go func() {
		p.Run()
		close(done)
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}
	return nil
}
