package metrics

import (
	"fmt"
	"math"

	"github.com/shopscope/shopscope/pkg/listing"
)

// weightTolerance absorbs float drift when checking that weights sum to 1.0.
const weightTolerance = 1e-9

// Weights holds the health-score component weights. The four recognized
// options must be non-negative and sum to 1.0.
type Weights struct {
	Visibility float64 `json:"visibility" yaml:"visibility"`
	CTR        float64 `json:"ctr" yaml:"ctr"`
	Conversion float64 `json:"conversion" yaml:"conversion"`
	Favorite   float64 `json:"favorite" yaml:"favorite"`
}

// DefaultWeights returns the default health weights.
func DefaultWeights() Weights {
	return Weights{
		Visibility: 0.30,
		CTR:        0.25,
		Conversion: 0.25,
		Favorite:   0.20,
	}
}

// Validate rejects weight sets that cannot produce a 0-100 health score.
func (w Weights) Validate() error {
	for _, opt := range []struct {
		name  string
		value float64
	}{
		{"visibility", w.Visibility},
		{"ctr", w.CTR},
		{"conversion", w.Conversion},
		{"favorite", w.Favorite},
	} {
		if opt.value < 0 {
			return &listing.ConfigurationError{
				Option: "weights." + opt.name,
				Reason: fmt.Sprintf("must be non-negative, got %v", opt.value),
			}
		}
	}
	sum := w.Visibility + w.CTR + w.Conversion + w.Favorite
	if math.Abs(sum-1.0) > weightTolerance {
		return &listing.ConfigurationError{
			Option: "weights",
			Reason: fmt.Sprintf("must sum to 1.0, got %v", sum),
		}
	}
	return nil
}

// Targets holds the benchmark rates each health component scores against.
type Targets struct {
	Visibility float64 `json:"visibility" yaml:"visibility"` // share of shop views
	CTR        float64 `json:"ctr" yaml:"ctr"`
	Conversion float64 `json:"conversion" yaml:"conversion"`
	Favorite   float64 `json:"favorite" yaml:"favorite"`
}

// DefaultTargets returns the default benchmarks.
func DefaultTargets() Targets {
	return Targets{
		Visibility: 0.10,
		CTR:        0.02,
		Conversion: 0.03,
		Favorite:   0.05,
	}
}

// Validate rejects non-positive benchmarks, which would divide by zero.
func (t Targets) Validate() error {
	for _, opt := range []struct {
		name  string
		value float64
	}{
		{"visibility", t.Visibility},
		{"ctr", t.CTR},
		{"conversion", t.Conversion},
		{"favorite", t.Favorite},
	} {
		if opt.value <= 0 {
			return &listing.ConfigurationError{
				Option: "targets." + opt.name,
				Reason: fmt.Sprintf("must be positive, got %v", opt.value),
			}
		}
	}
	return nil
}
