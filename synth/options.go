package synth

// Patch holds the parameters shared by every voice of an Engine.
type Patch struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
	Glide   float64
	Gain    float64
}

func DefaultPatch() Patch {
	return Patch{
		Attack:  0.02,
		Decay:   0.2,
		Sustain: 1.0,
		Release: 0.2,
		Glide:   0.1,
		Gain:    0.9,
	}
}

// Config is the construction-time configuration of an Engine.
type Config struct {
	SampleRate int
	Voices     int
	Waveform   Waveform
	// InitialFrequency is the pitch every oscillator starts at, so the very
	// first note of a voice glides up or down from here.
	InitialFrequency float64
	Patch            Patch
}

type Option func(*Config)

func DefaultConfig() Config {
	return Config{
		SampleRate:       48000,
		Voices:           3,
		Waveform:         WaveSaw,
		InitialFrequency: 220,
		Patch:            DefaultPatch(),
	}
}

func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func WithSampleRate(sr int) Option {
	return func(cfg *Config) {
		if sr > 0 {
			cfg.SampleRate = sr
		}
	}
}

func WithVoices(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Voices = n
		}
	}
}

func WithWaveform(w Waveform) Option {
	return func(cfg *Config) {
		cfg.Waveform = w
	}
}

func WithInitialFrequency(hz float64) Option {
	return func(cfg *Config) {
		if hz >= 0 {
			cfg.InitialFrequency = hz
		}
	}
}

func WithPatch(p Patch) Option {
	return func(cfg *Config) {
		cfg.Patch = p
	}
}
