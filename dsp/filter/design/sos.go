package design

import (
	"cmp"
	"math"
	"math/cmplx"
	"slices"

	"github.com/stepan-anokhin/audio-processor/dsp/filter/biquad"
)

// conjTol decides when a root counts as real.
const conjTol = 1e-10

// rootGroup is one factor of a polynomial with real coefficients: a
// conjugate pair, two real roots, or a single real root.
type rootGroup struct {
	roots []complex128
}

// poly returns the monic coefficients [1, c1, c2] of the group.
func (g rootGroup) poly() (c1, c2 float64) {
	switch len(g.roots) {
	case 1:
		return -real(g.roots[0]), 0
	case 2:
		a, b := g.roots[0], g.roots[1]
		return -real(a + b), real(a * b)
	default:
		return 0, 0
	}
}

// anchor is the root used to measure distances between groups.
func (g rootGroup) anchor() complex128 {
	best := g.roots[0]
	for _, r := range g.roots[1:] {
		if imag(r) > imag(best) {
			best = r
		}
	}
	return best
}

// sections factors a digital zpk with as many zeros as poles into
// second-order sections. Poles farthest from the unit circle come first,
// each paired with the nearest remaining zero group.
func (f zpk) sections() []biquad.Coefficients {
	poles := groupRoots(f.p)
	zeros := groupRoots(f.z)

	slices.SortStableFunc(poles, func(a, b rootGroup) int {
		return cmp.Compare(1-cmplx.Abs(b.anchor()), 1-cmplx.Abs(a.anchor()))
	})

	out := make([]biquad.Coefficients, 0, len(poles))
	used := make([]bool, len(zeros))

	for _, pg := range poles {
		zi := nearestGroup(zeros, used, pg)

		var b1, b2 float64
		b0 := 1.0

		if zi >= 0 {
			used[zi] = true
			b1, b2 = zeros[zi].poly()
		}

		a1, a2 := pg.poly()
		out = append(out, biquad.Coefficients{B0: b0, B1: b1, B2: b2, A1: a1, A2: a2})
	}

	if len(out) == 0 {
		return []biquad.Coefficients{{B0: f.k}}
	}

	out[0].B0 *= f.k
	out[0].B1 *= f.k
	out[0].B2 *= f.k

	return out
}

// nearestGroup returns the unused zero group of the same size as pg whose
// anchor is closest to the pole anchor, or -1.
func nearestGroup(zeros []rootGroup, used []bool, pg rootGroup) int {
	best, bestDist := -1, math.Inf(1)

	for i, zg := range zeros {
		if used[i] || len(zg.roots) != len(pg.roots) {
			continue
		}

		if d := cmplx.Abs(zg.anchor() - pg.anchor()); d < bestDist {
			best, bestDist = i, d
		}
	}

	return best
}

// groupRoots splits roots into conjugate pairs and real pairs, leaving at
// most one single real root.
func groupRoots(rs []complex128) []rootGroup {
	var (
		groups []rootGroup
		reals  []float64
	)

	for _, r := range rs {
		switch {
		case math.Abs(imag(r)) <= conjTol*math.Max(1, cmplx.Abs(r)):
			reals = append(reals, real(r))
		case imag(r) > 0:
			groups = append(groups, rootGroup{roots: []complex128{r, cmplx.Conj(r)}})
		}
	}

	slices.Sort(reals)

	for i := 0; i+1 < len(reals); i += 2 {
		groups = append(groups, rootGroup{roots: []complex128{
			complex(reals[i], 0), complex(reals[i+1], 0),
		}})
	}

	if len(reals)%2 == 1 {
		groups = append(groups, rootGroup{roots: []complex128{complex(reals[len(reals)-1], 0)}})
	}

	return groups
}
