package engine

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ============================================================================
// ESTIMATORS — Closed set of reductions
// ============================================================================

// Estimator reduces a partition of numeric values to one scalar.
type Estimator int

const (
	Count Estimator = iota
	Sum
	Average
	StandardDeviation
)

// Estimators lists every estimator in dropdown order.
func Estimators() []Estimator {
	return []Estimator{Count, Sum, Average, StandardDeviation}
}

func (e Estimator) String() string {
	switch e {
	case Count:
		return "Count"
	case Sum:
		return "Sum"
	case Average:
		return "Average"
	case StandardDeviation:
		return "Standard Deviation"
	}
	return "Unknown"
}

// ParseEstimator accepts the dropdown labels, case-insensitively, plus a
// few short aliases ("avg", "std").
func ParseEstimator(s string) (Estimator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "count", "len":
		return Count, nil
	case "sum":
		return Sum, nil
	case "average", "avg", "mean":
		return Average, nil
	case "standard deviation", "standard_deviation", "std", "stddev":
		return StandardDeviation, nil
	}
	return Count, errors.Wrapf(ErrInvalidSelection, "unknown estimator %q", s)
}

// NeedsColumn is false for Count, which ignores the value column.
func (e Estimator) NeedsColumn() bool {
	return e != Count
}

// Apply reduces values. Count is the number of elements; the others are
// NaN on an empty partition.
func (e Estimator) Apply(values []float64) float64 {
	switch e {
	case Count:
		return float64(len(values))
	case Sum:
		if len(values) == 0 {
			return math.NaN()
		}
		var total float64
		for _, v := range values {
			total += v
		}
		return total
	case Average:
		return welfordOf(values).Mean()
	case StandardDeviation:
		return welfordOf(values).SD()
	}
	return math.NaN()
}

func (e Estimator) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Estimator) UnmarshalText(text []byte) error {
	parsed, err := ParseEstimator(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
