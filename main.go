package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	log "github.com/rs/zerolog/log"
	"github.com/whyrusleeping/polysynth/synth"
)

var cfg struct {
	SampleRate int
	Voices     int
	Wave       string
	Attack     float64
	Decay      float64
	Sustain    float64
	Release    float64
	Glide      float64
	Gain       float64
	Backend    string
	Buffer     time.Duration
	Cutoff     float64
	Limit      float64
	MidiDevice int
	Arp        bool
	Out        string
	Length     time.Duration
	LogLevel   string
}

// maxTime is the longest accepted attack, decay, release or glide.
const maxTime = 10.0

func init() {
	def := synth.DefaultPatch()
	flag.IntVar(&cfg.SampleRate, "rate", 48000, "sample rate in Hz")
	flag.IntVar(&cfg.Voices, "voices", 8, "number of voices")
	flag.StringVar(&cfg.Wave, "wave", "saw", "oscillator waveform: sine, saw or square")
	flag.Float64Var(&cfg.Attack, "attack", def.Attack, "attack time in seconds")
	flag.Float64Var(&cfg.Decay, "decay", def.Decay, "decay time in seconds")
	flag.Float64Var(&cfg.Sustain, "sustain", def.Sustain, "sustain level, 0 to 1")
	flag.Float64Var(&cfg.Release, "release", def.Release, "release time in seconds")
	flag.Float64Var(&cfg.Glide, "glide", def.Glide, "glide time in seconds")
	flag.Float64Var(&cfg.Gain, "gain", 0.3, "per voice gain")
	flag.StringVar(&cfg.Backend, "backend", "speaker", "audio output: speaker, pulse or oto")
	flag.DurationVar(&cfg.Buffer, "buffer", 50*time.Millisecond, "output buffer length")
	flag.Float64Var(&cfg.Cutoff, "cutoff", 0, "master low-pass cutoff in Hz, 0 disables (speaker backend only)")
	flag.Float64Var(&cfg.Limit, "limit", 0.8, "master limiter threshold, above 0 and at most 1")
	flag.IntVar(&cfg.MidiDevice, "midi-device", -1, "portmidi input device id, -1 for the default")
	flag.BoolVar(&cfg.Arp, "arp", false, "run the arpeggiator in draw mode")
	flag.StringVar(&cfg.Out, "out", "output.wav", "file written by the render mode")
	flag.DurationVar(&cfg.Length, "length", 4*time.Second, "length of the render mode output")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "minimum level of messages to log to console")
}

func noteToFreq(note int64) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

func patchFromFlags() (synth.Patch, error) {
	times := []struct {
		name string
		v    float64
	}{
		{"attack", cfg.Attack},
		{"decay", cfg.Decay},
		{"release", cfg.Release},
		{"glide", cfg.Glide},
	}
	for _, t := range times {
		if t.v < 0 || t.v > maxTime {
			return synth.Patch{}, fmt.Errorf("%s must be between 0 and %v seconds, got %v", t.name, maxTime, t.v)
		}
	}
	if cfg.Sustain < 0 || cfg.Sustain > 1 {
		return synth.Patch{}, fmt.Errorf("sustain must be between 0 and 1, got %v", cfg.Sustain)
	}
	if cfg.Gain < 0 {
		return synth.Patch{}, fmt.Errorf("gain must not be negative, got %v", cfg.Gain)
	}

	return synth.Patch{
		Attack:  cfg.Attack,
		Decay:   cfg.Decay,
		Sustain: cfg.Sustain,
		Release: cfg.Release,
		Glide:   cfg.Glide,
		Gain:    cfg.Gain,
	}, nil
}

func newEngine() (*synth.Engine, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", cfg.SampleRate)
	}
	if cfg.Voices <= 0 {
		return nil, fmt.Errorf("invalid voice count %d", cfg.Voices)
	}

	wave, err := synth.ParseWaveform(cfg.Wave)
	if err != nil {
		return nil, err
	}

	patch, err := patchFromFlags()
	if err != nil {
		return nil, err
	}

	return synth.New(
		synth.WithSampleRate(cfg.SampleRate),
		synth.WithVoices(cfg.Voices),
		synth.WithWaveform(wave),
		synth.WithPatch(patch),
	), nil
}

func main() {
	log.Logger = zerolog.New(
		zerolog.ConsoleWriter{
			Out: os.Stderr,
		},
	).With().Timestamp().Logger()

	flag.Parse()

	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Str("level", cfg.LogLevel).Msg("Unknown log level")
	}
	zerolog.SetGlobalLevel(logLevel)

	mode := "midi"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}

	eng, err := newEngine()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	ctrl := synth.NewController(eng, synth.DefaultQueueLen)

	log.Info().
		Str("mode", mode).
		Int("rate", eng.SampleRate()).
		Int("voices", eng.NumVoices()).
		Stringer("wave", eng.Waveform()).
		Msg("starting")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch mode {
	case "midi":
		err = runMidi(ctx, ctrl)
	case "test":
		err = playTestNotes(ctx, ctrl)
	case "keys":
		err = runKeys(ctx, ctrl)
	case "console":
		err = runConsole(ctx, ctrl)
	case "draw":
		err = draw(ctx, ctrl)
	case "render":
		err = renderFile(ctrl, cfg.Out, cfg.Length)
	default:
		log.Fatal().Str("mode", mode).Msg("unknown mode (midi, test, keys, console, draw, render)")
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", mode).Send()
	}
}

// send logs commands the audio side could not take.
func send(err error, what string, freq float64) {
	if err != nil {
		log.Warn().Err(err).Str("cmd", what).Float64("value", freq).Msg("dropped command")
	}
}

func playTestNotes(ctx context.Context, ctrl *synth.Controller) error {
	out, err := startOutput(ctrl)
	if err != nil {
		return err
	}
	defer out.Close()

	chord := []int64{60, 64, 69}
	for _, n := range chord {
		send(ctrl.Play(noteToFreq(n)), "play", noteToFreq(n))
		time.Sleep(50 * time.Millisecond)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
	}

	for _, n := range chord {
		send(ctrl.Stop(noteToFreq(n)), "stop", noteToFreq(n))
	}
	time.Sleep(time.Duration(cfg.Release*float64(time.Second)) + 100*time.Millisecond)

	log.Info().Int64("frames", ctrl.Rendered()).Msg("DONE")
	return nil
}
