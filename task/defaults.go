package task

import (
	"github.com/stepan-anokhin/audio-processor/dsp/transform"
)

var rollOffParam = Param{
	Name:        "roll_off",
	Kind:        KindInt,
	Default:     transform.DefaultRollOff,
	Description: "Signal attenuation slope (dB/octave)",
}

func bandParams(band string) []Param {
	return []Param{
		{
			Name:        "low_cutoff",
			Kind:        KindFloat,
			Required:    true,
			Description: "Start of the " + band + " at which attenuation is approx. -3dB (Hz)",
		},
		{
			Name:        "high_cutoff",
			Kind:        KindFloat,
			Required:    true,
			Description: "End of the " + band + " at which attenuation is approx. -3dB (Hz)",
		},
		rollOffParam,
	}
}

var cutoffParam = Param{
	Name:        "cutoff_freq",
	Kind:        KindFloat,
	Required:    true,
	Description: "Cutoff frequency at which attenuation reaches -3dB (Hz)",
}

// DefaultRegistry returns a new Registry holding every built-in transform.
//
//nolint:funlen
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(Factory{
		Name:   "BandPass",
		Brief:  "Apply band-pass filter.",
		Params: bandParams("pass-band"),
		New: func(a Args) (transform.Transform, error) {
			return transform.NewBandPass(a.Float("low_cutoff"), a.Float("high_cutoff"), a.Int("roll_off"))
		},
	})
	r.MustRegister(Factory{
		Name:   "BandStop",
		Brief:  "Apply band-stop filter.",
		Params: bandParams("stop-band"),
		New: func(a Args) (transform.Transform, error) {
			return transform.NewBandStop(a.Float("low_cutoff"), a.Float("high_cutoff"), a.Int("roll_off"))
		},
	})
	r.MustRegister(Factory{
		Name:  "GaussianNoise",
		Brief: "Add gaussian noise to the signal.",
		Params: []Param{
			{Name: "amplitude", Kind: KindFloat, Required: true, Description: "Noise amplitude (standard deviation)"},
			{Name: "seed", Kind: KindInt, Description: "Random seed for reproducible noise"},
		},
		New: func(a Args) (transform.Transform, error) {
			var opts []transform.NoiseOption
			if a.Has("seed") {
				opts = append(opts, transform.WithSeed(uint64(a.Int("seed"))))
			}
			return transform.NewGaussianNoise(a.Float("amplitude"), opts...)
		},
	})
	r.MustRegister(Factory{
		Name:   "HighPass",
		Brief:  "Apply high-pass filter.",
		Params: []Param{cutoffParam, rollOffParam},
		New: func(a Args) (transform.Transform, error) {
			return transform.NewHighPass(a.Float("cutoff_freq"), a.Int("roll_off"))
		},
	})
	r.MustRegister(Factory{
		Name:  "Inversion",
		Brief: "Inverse waveform polarity by multiplying it by -1.",
		New: func(Args) (transform.Transform, error) {
			return transform.NewInversion(), nil
		},
	})
	r.MustRegister(Factory{
		Name:   "LowPass",
		Brief:  "Apply low-pass filter.",
		Params: []Param{cutoffParam, rollOffParam},
		New: func(a Args) (transform.Transform, error) {
			return transform.NewLowPass(a.Float("cutoff_freq"), a.Int("roll_off"))
		},
	})
	r.MustRegister(Factory{
		Name:  "PitchShift",
		Brief: "Shift pitch by a number of octaves.",
		Params: []Param{
			{Name: "shift", Kind: KindFloat, Required: true, Description: "Pitch shift in octaves"},
			{
				Name:        "fft_window_size",
				Kind:        KindFloat,
				Default:     transform.DefaultWindowDuration,
				Description: "Short-time FFT window size in seconds",
			},
		},
		New: func(a Args) (transform.Transform, error) {
			return transform.NewPitchShift(a.Float("shift"), a.Float("fft_window_size"))
		},
	})
	r.MustRegister(Factory{
		Name:  "SpeedPerturbation",
		Brief: "Change playback speed without changing pitch.",
		Params: []Param{
			{Name: "speed_factor", Kind: KindFloat, Required: true, Description: "Speed perturbation factor"},
			{
				Name:        "window_size",
				Kind:        KindFloat,
				Default:     transform.DefaultWindowDuration,
				Description: "Short-time FFT window size in seconds",
			},
		},
		New: func(a Args) (transform.Transform, error) {
			return transform.NewSpeedPerturbation(a.Float("speed_factor"), a.Float("window_size"))
		},
	})

	return r
}
