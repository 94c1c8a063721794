package scoring

import (
	"fmt"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
)

// Keyword-rule thresholds. The duplicate rule wants a clear outperformer,
// not a coin flip; the overuse rule only fires on shops big enough for tag
// spread to matter.
const (
	duplicateOutperformFactor = 2.0
	overuseShareThreshold     = 0.70
	overuseMinListings        = 4
)

// qualityDescriptors are subjective adjectives buyers do not search for.
// Tags consisting of one earn a remove candidate.
var qualityDescriptors = map[string]bool{
	"beautiful": true,
	"perfect":   true,
	"amazing":   true,
	"gorgeous":  true,
	"stunning":  true,
}

// Config carries every knob the pipeline honors. It is passed explicitly;
// nothing in this package reads package-level state.
type Config struct {
	Weights metrics.Weights `json:"weights" yaml:"weights"`
	Targets metrics.Targets `json:"targets" yaml:"targets"`

	// RecommendationCap bounds the synthesizer's output.
	RecommendationCap int `json:"recommendation_cap" yaml:"recommendation_cap"`
	// EffortFloor is the smallest effort an opportunity may carry.
	EffortFloor float64 `json:"effort_floor" yaml:"effort_floor"`

	// MaxTags and MaxTagLength mirror the platform limits; tests and other
	// marketplaces can override them.
	MaxTags      int `json:"max_tags" yaml:"max_tags"`
	MaxTagLength int `json:"max_tag_length" yaml:"max_tag_length"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Weights:           metrics.DefaultWeights(),
		Targets:           metrics.DefaultTargets(),
		RecommendationCap: 10,
		EffortFloor:       1,
		MaxTags:           listing.MaxTags,
		MaxTagLength:      listing.MaxTagLength,
	}
}

// Validate rejects configurations the pipeline cannot run with. It is called
// once at pipeline construction so bad config never reaches record
// processing.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if err := c.Targets.Validate(); err != nil {
		return err
	}
	if c.RecommendationCap <= 0 {
		return &listing.ConfigurationError{
			Option: "recommendation_cap",
			Reason: fmt.Sprintf("must be positive, got %d", c.RecommendationCap),
		}
	}
	if c.EffortFloor <= 0 {
		return &listing.ConfigurationError{
			Option: "effort_floor",
			Reason: fmt.Sprintf("must be positive, got %v", c.EffortFloor),
		}
	}
	if c.MaxTags <= 0 {
		return &listing.ConfigurationError{
			Option: "max_tags",
			Reason: fmt.Sprintf("must be positive, got %d", c.MaxTags),
		}
	}
	if c.MaxTagLength <= 0 {
		return &listing.ConfigurationError{
			Option: "max_tag_length",
			Reason: fmt.Sprintf("must be positive, got %d", c.MaxTagLength),
		}
	}
	return nil
}
