package main

import (
	"context"
	"fmt"
	"math/cmplx"
	"time"

	"github.com/maddyblue/go-dsp/fft"
	log "github.com/rs/zerolog/log"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/whyrusleeping/polysynth/synth"
)

const (
	screenWidth  = 1000
	screenHeight = 600
)

var sdlKeyNotes = map[sdl.Keycode]int64{
	sdl.K_a: 60,
	sdl.K_s: 62,
	sdl.K_d: 64,
	sdl.K_f: 65,
	sdl.K_g: 67,
	sdl.K_h: 69,
	sdl.K_j: 71,
	sdl.K_k: 72,
	sdl.K_l: 74,
}

// magnitudes returns the normalised magnitude spectrum of data, DC to
// nyquist.
func magnitudes(data []float64) []float64 {
	bins := fft.FFTReal(data)
	out := make([]float64, len(bins)/2+1)
	for i, c := range bins[:len(out)] {
		out[i] = cmplx.Abs(c) / float64(len(data))
	}
	return out
}

func draw(ctx context.Context, ctrl *synth.Controller) error {
	if cfg.Backend != "speaker" {
		log.Warn().Str("backend", cfg.Backend).Msg("scope needs the speaker backend, using it")
		cfg.Backend = "speaker"
	}

	if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
		return fmt.Errorf("failed to initialize SDL: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("polysynth", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, screenWidth, screenHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer renderer.Destroy()

	out, err := startOutput(ctrl)
	if err != nil {
		return err
	}
	defer out.Close()

	if cfg.Arp {
		a := &Arp{
			notes:    []int64{60, 64, 67, 72},
			duration: time.Millisecond * 400,
			ctrl:     ctrl,
		}
		actx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.Run(actx)
	}

	dataPoints := make([]float64, 2000)
	held := make(map[sdl.Keycode]float64)
	var octaveAdjust int64

	for ctx.Err() == nil {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if event.Repeat != 0 {
					continue
				}
				sym := event.Keysym.Sym

				if event.Type == sdl.KEYUP {
					if freq, ok := held[sym]; ok {
						send(ctrl.Stop(freq), "stop", freq)
						delete(held, sym)
					}
					switch sym {
					case sdl.K_z:
						octaveAdjust -= 12
					case sdl.K_x:
						octaveAdjust += 12
					}
				} else if event.Type == sdl.KEYDOWN {
					if note, ok := sdlKeyNotes[sym]; ok {
						freq := noteToFreq(note + octaveAdjust)
						send(ctrl.Play(freq), "play", freq)
						held[sym] = freq
					}
				}
			}
		}

		out.Snapshot(dataPoints)
		spectrum := magnitudes(dataPoints)

		renderer.SetDrawColor(255, 255, 255, 255)
		renderer.Clear()

		graphData(renderer, dataPoints[:500], 50, 50, 600, 200, -1, 1)
		graphData(renderer, spectrum[:100], 50, 300, 600, 200, 0, 0.5)
		drawVoices(renderer, ctrl.ActiveVoices(), 700, 50)

		renderer.Present()
		sdl.Delay(16)
	}
	return nil
}

// drawVoices shows one filled box per sounding voice.
func drawVoices(renderer *sdl.Renderer, active int, x, y int32) {
	renderer.SetDrawColor(0, 0, 255, 255)
	for i := 0; i < active; i++ {
		renderer.FillRect(&sdl.Rect{X: x + int32(i%8)*30, Y: y + int32(i/8)*30, W: 20, H: 20})
	}
}

func graphData(renderer *sdl.Renderer, dataPoints []float64, x, y, width, height int32, minval, maxval float64) {
	// Draw the graph axes
	renderer.SetDrawColor(0, 0, 0, 255)
	renderer.DrawLine(x, y+height/2, x+width, y+height/2)
	renderer.DrawLine(x, y, x, y+height)

	spread := maxval - minval
	toY := func(v float64) int32 {
		return y + height - int32((v-minval)/spread*float64(height))
	}

	renderer.SetDrawColor(255, 0, 0, 255)
	for i := 0; i < len(dataPoints)-1; i++ {
		x1 := x + int32(float64(i)*float64(width)/float64(len(dataPoints)-1))
		x2 := x + int32(float64(i+1)*float64(width)/float64(len(dataPoints)-1))
		renderer.DrawLine(x1, toY(dataPoints[i]), x2, toY(dataPoints[i+1]))
	}
}
