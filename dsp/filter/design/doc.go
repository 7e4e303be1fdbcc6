// Package design provides digital IIR filter coefficient designers.
//
// [Butterworth] designs maximally flat lowpass, highpass, bandpass and
// bandstop cascades. The analog prototype is frequency-transformed with
// pre-warped edges, mapped to the z-plane with the bilinear transform and
// factored into second-order sections consumable by dsp/filter/biquad.
// Band designs of order N have 2N poles.
package design
