package internal

import "math"

// bernsteinBound bounds the probability that a frequency estimated from n
// samples is off by more than eps, given the estimate p. It returns 1 when
// nothing was sampled yet.
func bernsteinBound(n uint64, p, eps float64) float64 {
	if n == 0 {
		return 1
	}
	p = math.Min(math.Max(p, 0), 1)
	v := 2 * math.Exp(-float64(n)*eps*eps/(2*p*(1-p)+2*eps/3))
	return math.Min(v, 1)
}
