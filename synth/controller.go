package synth

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"
)

var _ beep.Streamer = (*Controller)(nil)

var ErrQueueFull = errors.New("synth: command queue full")

type CommandKind int

const (
	CmdPlay CommandKind = iota
	CmdStop
	CmdAttack
	CmdDecay
	CmdSustain
	CmdRelease
	CmdGlide
	CmdGain
	CmdReset
)

type Command struct {
	Kind  CommandKind
	Value float64
}

const DefaultQueueLen = 256

// Controller owns an Engine on behalf of the audio goroutine. Any goroutine
// may send commands; they are applied before the next rendered buffer.
// Render methods must only be called from one goroutine.
type Controller struct {
	eng  *Engine
	cmds chan Command

	active   atomic.Int32
	rendered atomic.Int64
}

func NewController(eng *Engine, queueLen int) *Controller {
	if queueLen <= 0 {
		queueLen = DefaultQueueLen
	}
	return &Controller{
		eng:  eng,
		cmds: make(chan Command, queueLen),
	}
}

// Send enqueues cmd without blocking.
func (c *Controller) Send(cmd Command) error {
	select {
	case c.cmds <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

func (c *Controller) Play(freq float64) error {
	return c.Send(Command{Kind: CmdPlay, Value: freq})
}

func (c *Controller) Stop(freq float64) error {
	return c.Send(Command{Kind: CmdStop, Value: freq})
}

func (c *Controller) SetAttack(s float64) error {
	return c.Send(Command{Kind: CmdAttack, Value: s})
}

func (c *Controller) SetDecay(s float64) error {
	return c.Send(Command{Kind: CmdDecay, Value: s})
}

func (c *Controller) SetSustain(level float64) error {
	return c.Send(Command{Kind: CmdSustain, Value: level})
}

func (c *Controller) SetRelease(s float64) error {
	return c.Send(Command{Kind: CmdRelease, Value: s})
}

func (c *Controller) SetGlide(s float64) error {
	return c.Send(Command{Kind: CmdGlide, Value: s})
}

func (c *Controller) SetGain(g float64) error {
	return c.Send(Command{Kind: CmdGain, Value: g})
}

func (c *Controller) Reset() error {
	return c.Send(Command{Kind: CmdReset})
}

// ActiveVoices is the number of sounding voices after the last rendered
// buffer. Safe to call from any goroutine.
func (c *Controller) ActiveVoices() int {
	return int(c.active.Load())
}

// Rendered is the total number of frames rendered so far.
func (c *Controller) Rendered() int64 {
	return c.rendered.Load()
}

func (c *Controller) SampleRate() int {
	return c.eng.SampleRate()
}

func (c *Controller) drain() {
	for {
		select {
		case cmd := <-c.cmds:
			c.apply(cmd)
		default:
			return
		}
	}
}

func (c *Controller) apply(cmd Command) {
	switch cmd.Kind {
	case CmdPlay:
		c.eng.Play(cmd.Value)
	case CmdStop:
		c.eng.Stop(cmd.Value)
	case CmdAttack:
		c.eng.SetAttack(cmd.Value)
	case CmdDecay:
		c.eng.SetDecay(cmd.Value)
	case CmdSustain:
		c.eng.SetSustain(cmd.Value)
	case CmdRelease:
		c.eng.SetRelease(cmd.Value)
	case CmdGlide:
		c.eng.SetGlide(cmd.Value)
	case CmdGain:
		c.eng.SetGain(cmd.Value)
	case CmdReset:
		c.eng.Reset()
	}
}

func (c *Controller) publish(n int) {
	c.active.Store(int32(c.eng.ActiveVoices()))
	c.rendered.Add(int64(n))
}

// Stream renders stereo frames. It never runs dry.
func (c *Controller) Stream(samples [][2]float64) (int, bool) {
	c.drain()
	for i := range samples {
		samples[i] = [2]float64(c.eng.NextFrame())
	}
	c.publish(len(samples))
	return len(samples), true
}

func (c *Controller) Err() error {
	return nil
}

// ReadFloat32 renders mono float32 samples.
func (c *Controller) ReadFloat32(out []float32) (int, error) {
	c.drain()
	for i := range out {
		out[i] = float32(c.eng.NextSample())
	}
	c.publish(len(out))
	return len(out), nil
}

// Read renders mono float32 little-endian samples. Trailing bytes that do
// not fill a whole sample are left untouched; a buffer too small for one
// sample returns io.ErrShortBuffer.
func (c *Controller) Read(p []byte) (int, error) {
	if len(p) < 4 {
		return 0, io.ErrShortBuffer
	}
	c.drain()
	n := len(p) / 4
	for i := 0; i < n; i++ {
		v := float32(c.eng.NextSample())
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	c.publish(n)
	return n * 4, nil
}
