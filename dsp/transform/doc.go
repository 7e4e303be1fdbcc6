// Package transform implements the audio augmentation transforms.
//
// Every transform maps a [signal.Signal] to a new Signal and never
// modifies its input. Transforms are safe for concurrent use: the only
// state they keep across calls is a memo of filter coefficients keyed by
// sampling rate.
//
// A transform is uniform when applying it block by block gives
// approximately the same result as applying it to the whole signal.
// Sample-wise and IIR transforms are uniform; the STFT-based
// [PitchShift] and [SpeedPerturbation] are not.
//
// Transforms chain with [Composite].
package transform
