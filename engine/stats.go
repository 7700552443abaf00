package engine

import (
	"math"
	"sort"
)

// Welford accumulates a running mean and variance in one pass.
type Welford struct {
	count uint64
	mean  float64
	m2    float64
}

func NewWelford() *Welford {
	return &Welford{}
}

func (w *Welford) Update(value float64) {
	w.count++
	delta := value - w.mean
	w.mean += delta / float64(w.count)
	delta2 := value - w.mean
	w.m2 += delta * delta2
}

func (w *Welford) Count() uint64 { return w.count }

// Mean is NaN before the first Update.
func (w *Welford) Mean() float64 {
	if w.count == 0 {
		return math.NaN()
	}
	return w.mean
}

// Variance is the population variance (ddof = 0).
func (w *Welford) Variance() float64 {
	if w.count == 0 {
		return math.NaN()
	}
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count)
}

// SampleVariance is the unbiased variance (ddof = 1).
func (w *Welford) SampleVariance() float64 {
	if w.count == 0 {
		return math.NaN()
	}
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count-1)
}

func (w *Welford) SD() float64       { return math.Sqrt(w.Variance()) }
func (w *Welford) SampleSD() float64 { return math.Sqrt(w.SampleVariance()) }

func welfordOf(values []float64) *Welford {
	w := NewWelford()
	for _, v := range values {
		w.Update(v)
	}
	return w
}

// sortedCopy returns values sorted ascending without touching the input.
func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

// quantile uses linear interpolation between closest ranks on sorted data.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
