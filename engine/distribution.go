package engine

import (
	"math"
)

// ============================================================================
// DISTRIBUTIONS — Box stats, kernel density, histogram bins
// ============================================================================

// WhiskerCoef is the IQR multiple beyond which box plot points are drawn
// individually.
const WhiskerCoef = 1.5

// DensitySamples is the number of points of a violin's density curve.
const DensitySamples = 64

// BoxPlot summarises values as quartiles and whiskers.
func BoxPlot(values []float64) BoxStats {
	if len(values) == 0 {
		nan := Number(math.NaN())
		return BoxStats{Q1: nan, Median: nan, Q3: nan, LowerWhisker: nan, UpperWhisker: nan}
	}

	sorted := sortedCopy(values)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lo, hi := q1-WhiskerCoef*iqr, q3+WhiskerCoef*iqr

	stats := BoxStats{
		Q1:           Number(q1),
		Median:       Number(quantile(sorted, 0.5)),
		Q3:           Number(q3),
		LowerWhisker: Number(q1),
		UpperWhisker: Number(q3),
	}

	first := true
	for _, v := range sorted {
		if v < lo || v > hi {
			stats.Outliers = append(stats.Outliers, v)
			continue
		}
		if first {
			stats.LowerWhisker = Number(v)
			first = false
		}
		stats.UpperWhisker = Number(v)
	}
	return stats
}

// KernelDensity samples a Gaussian KDE with Scott's bandwidth between the
// minimum and maximum of values. Fewer than two distinct values have no
// spread to estimate and yield nil.
func KernelDensity(values []float64, samples int) []DensityPoint {
	if len(values) < 2 || samples < 2 {
		return nil
	}
	sorted := sortedCopy(values)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	sd := welfordOf(values).SampleSD()
	if hi == lo || sd == 0 {
		return nil
	}

	n := float64(len(values))
	h := sd * math.Pow(n, -0.2)
	norm := 1 / (n * h * math.Sqrt(2*math.Pi))
	step := (hi - lo) / float64(samples-1)

	out := make([]DensityPoint, samples)
	for i := range out {
		y := lo + float64(i)*step
		var sum float64
		for _, v := range values {
			u := (y - v) / h
			sum += math.Exp(-0.5 * u * u)
		}
		out[i] = DensityPoint{Y: y, Density: sum * norm}
	}
	return out
}

// SturgesBins is ceil(log2(n)) + 1, the default histogram bin count.
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// BinEdges splits [min, max] of values into count equal-width bins and
// returns count+1 edges. A constant column gets one bin of width 1.
func BinEdges(values []float64, count int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if count < 1 {
		count = SturgesBins(len(values))
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return []float64{lo, lo + 1}
	}

	width := (hi - lo) / float64(count)
	edges := make([]float64, count+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[count] = hi
	return edges
}

// BinCounts counts values per bin. Bins are half-open [a, b) except the
// last, which includes the maximum. Values outside the edges are ignored.
func BinCounts(values []float64, edges []float64) []int {
	if len(edges) < 2 {
		return nil
	}
	counts := make([]int, len(edges)-1)
	last := len(counts) - 1
	for _, v := range values {
		if v < edges[0] || v > edges[len(edges)-1] {
			continue
		}
		idx := last
		for b := 0; b < last; b++ {
			if v < edges[b+1] {
				idx = b
				break
			}
		}
		counts[idx]++
	}
	return counts
}
