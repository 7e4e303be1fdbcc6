// Package spectrum provides spectrum-domain analysis utilities.
//
// Magnitude and power helpers operate on complex bins from any FFT
// backend. [DominantFrequency] estimates the strongest tone of a signal
// from the time-averaged magnitude of its short-time spectrum; it is the
// probe used to verify pitch- and speed-altering transforms.
package spectrum
