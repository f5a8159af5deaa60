// Package llm wraps the generative model used for resume analysis.
package llm

// ModelTier selects a model by capability.
type ModelTier string

const (
	// TierLite is for short, cheap calls.
	TierLite ModelTier = "lite"
	// TierStandard handles structured reports and letters.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long documents that need more reasoning.
	TierAdvanced ModelTier = "advanced"
)

// DefaultTemperature keeps reports stable across runs.
const DefaultTemperature float32 = 0.2

// Config maps tiers to model names.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini model lineup.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// Model returns the model for tier, falling back to standard and then lite.
// An empty tier means standard.
func (c *Config) Model(tier ModelTier) string {
	if tier == "" {
		tier = TierStandard
	}
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if m, ok := c.Models[t]; ok && m != "" {
			return m
		}
	}
	return ""
}

// WithModel returns a copy of c using model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{Models: make(map[ModelTier]string, len(c.Models)+1), Temperature: c.Temperature}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return next
}
