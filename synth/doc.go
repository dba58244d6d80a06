// Package synth is a small polyphonic voice engine.
//
// Every voice is one oscillator shaped by an ADSR amplitude envelope with a
// short anti-pop fade on retrigger, a linear frequency ramp for glide, and a
// fixed gain stage. An Engine owns a fixed pool of voices, hands out idle
// voices on note-on and steals the voice nearest in pitch when the pool is
// exhausted.
//
// Engine does no locking. A Controller owns an Engine on the audio goroutine
// and receives note and parameter commands from other goroutines through a
// bounded queue that is drained at the start of each rendered buffer.
package synth
