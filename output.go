package main

import (
	"errors"
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/jfreymuth/pulse"
	log "github.com/rs/zerolog/log"
	"github.com/whyrusleeping/polysynth/synth"
)

type output struct {
	// filter and recorder only exist on the speaker backend; filter also
	// needs -cutoff.
	filter   *Butterworth
	recorder *Recorder

	closers []func() error
}

func (o *output) Close() error {
	var errs []error
	for i := len(o.closers) - 1; i >= 0; i-- {
		errs = append(errs, o.closers[i]())
	}
	return errors.Join(errs...)
}

func (o *output) SetCutoff(hz float64) {
	if o.filter == nil {
		return
	}
	speaker.Lock()
	o.filter.UpdateCutoff(hz)
	speaker.Unlock()
}

func (o *output) Snapshot(buf []float64) int {
	if o.recorder == nil {
		return 0
	}
	return o.recorder.GetSnapshot(buf)
}

// newMasterLimiter builds the limiter every backend renders through.
func newMasterLimiter(sampleRate int) (*Limiter, error) {
	if cfg.Limit <= 0 || cfg.Limit > 1 {
		return nil, fmt.Errorf("limit must be above 0 and at most 1, got %v", cfg.Limit)
	}
	return NewLimiter(cfg.Limit, 1, 0.001, 0.1, float64(sampleRate)), nil
}

func startOutput(ctrl *synth.Controller) (*output, error) {
	switch cfg.Backend {
	case "speaker":
		return startSpeaker(ctrl)
	case "pulse":
		return startPulse(ctrl)
	case "oto":
		return startOto(ctrl)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func startSpeaker(ctrl *synth.Controller) (*output, error) {
	sr := beep.SampleRate(ctrl.SampleRate())
	limiter, err := newMasterLimiter(ctrl.SampleRate())
	if err != nil {
		return nil, err
	}
	if err := speaker.Init(sr, sr.N(cfg.Buffer)); err != nil {
		return nil, fmt.Errorf("speaker.Init failed: %w", err)
	}

	out := &output{
		recorder: NewRecorder(4096),
	}

	var chain beep.Streamer = ctrl
	if cfg.Cutoff > 0 {
		out.filter = NewButterworth(cfg.Cutoff, float64(sr))
		chain = out.filter.Process(chain)
	}
	out.recorder.sub = limiter.Process(chain)

	speaker.Play(out.recorder)
	out.closers = append(out.closers, func() error {
		speaker.Clear()
		speaker.Close()
		return nil
	})
	return out, nil
}

func startPulse(ctrl *synth.Controller) (*output, error) {
	if cfg.Cutoff > 0 {
		log.Warn().Msg("master filter is only available on the speaker backend")
	}

	limiter, err := newMasterLimiter(ctrl.SampleRate())
	if err != nil {
		return nil, err
	}

	pc, err := pulse.NewClient(
		pulse.ClientApplicationName("polysynth"),
	)
	if err != nil {
		return nil, fmt.Errorf("pulse.NewClient failed: %w", err)
	}

	playback, err := pc.NewPlayback(pulse.Float32Reader(limiter.ProcessFloat32(ctrl.ReadFloat32)),
		pulse.PlaybackLatency(cfg.Buffer.Seconds()),
		pulse.PlaybackSampleRate(ctrl.SampleRate()),
	)
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("pulse.NewPlayback failed: %w", err)
	}
	playback.Start()

	return &output{
		closers: []func() error{
			func() error { pc.Close(); return nil },
			func() error { playback.Close(); return nil },
		},
	}, nil
}

func startOto(ctrl *synth.Controller) (*output, error) {
	if cfg.Cutoff > 0 {
		log.Warn().Msg("master filter is only available on the speaker backend")
	}

	limiter, err := newMasterLimiter(ctrl.SampleRate())
	if err != nil {
		return nil, err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   ctrl.SampleRate(),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.Buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("oto.NewContext failed: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(limiter.Reader(ctrl))
	player.Play()

	return &output{
		closers: []func() error{player.Close},
	}, nil
}
