// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections are
// cascaded via [Chain] for higher-order filters such as Butterworth designs.
//
// A chain can be primed with [Chain.Prime] so that a signal starting at a
// non-zero level does not excite a start-up transient.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
