// Package interp provides interpolation primitives for resampling spectra
// and frame sequences.
//
// [Linear2] and [Complex2] interpolate between two neighbours. [Uniform]
// and [UniformComplex] sample a series defined on an integer grid
// 0..len-1 at a fractional position, returning zero outside the grid.
// [LerpInto] blends two equally sized complex vectors.
package interp
