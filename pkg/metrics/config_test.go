package metrics_test

import (
	"errors"
	"testing"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
)

func TestWeightsValidate_Defaults(t *testing.T) {
	if err := metrics.DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights rejected: %v", err)
	}
}

func TestWeightsValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		weights metrics.Weights
	}{
		{"sum above one", metrics.Weights{Visibility: 0.4, CTR: 0.3, Conversion: 0.3, Favorite: 0.2}},
		{"sum below one", metrics.Weights{Visibility: 0.3, CTR: 0.2, Conversion: 0.2, Favorite: 0.2}},
		{"all zero", metrics.Weights{}},
		{"negative component", metrics.Weights{Visibility: 1.2, CTR: -0.2, Conversion: 0.0, Favorite: 0.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want ConfigurationError")
			}
			var cfgErr *listing.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error type = %T, want *listing.ConfigurationError", err)
			}
		})
	}
}

func TestWeightsValidate_CustomSumToOne(t *testing.T) {
	w := metrics.Weights{Visibility: 0.25, CTR: 0.25, Conversion: 0.25, Favorite: 0.25}
	if err := w.Validate(); err != nil {
		t.Fatalf("even weights rejected: %v", err)
	}
}

func TestTargetsValidate(t *testing.T) {
	if err := metrics.DefaultTargets().Validate(); err != nil {
		t.Fatalf("default targets rejected: %v", err)
	}

	bad := metrics.DefaultTargets()
	bad.CTR = 0
	err := bad.Validate()
	if err == nil {
		t.Fatal("zero target accepted")
	}
	var cfgErr *listing.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error type = %T, want *listing.ConfigurationError", err)
	}
}
