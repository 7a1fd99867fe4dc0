package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewPricingPolicyHolderDefaults(t *testing.T) {
	holder, err := NewPricingPolicyHolder(zaptest.NewLogger(t))
	require.NoError(t, err)

	policy := holder.Get()
	assert.Equal(t, DefaultPricingPolicy(), policy)
}

func TestStaticPricingPolicy(t *testing.T) {
	want := PricingPolicy{
		DefaultMarkupPercent: 55,
		MarketRateMultiplier: 1.8,
		SavingsFloor:         1.2,
		QuoteValidityDays:    14,
	}

	holder := StaticPricingPolicy(want)
	assert.Equal(t, want, holder.Get())
}

func TestValidatePricingPolicy(t *testing.T) {
	valid := DefaultPricingPolicy()
	require.NoError(t, validatePricingPolicy(valid))

	tests := []struct {
		name   string
		mutate func(*PricingPolicy)
	}{
		{
			name:   "negative markup",
			mutate: func(p *PricingPolicy) { p.DefaultMarkupPercent = -1 },
		},
		{
			name:   "multiplier below one",
			mutate: func(p *PricingPolicy) { p.MarketRateMultiplier = 0.9 },
		},
		{
			name:   "savings floor below one",
			mutate: func(p *PricingPolicy) { p.SavingsFloor = 0.99 },
		},
		{
			name:   "zero validity days",
			mutate: func(p *PricingPolicy) { p.QuoteValidityDays = 0 },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			policy := valid
			tc.mutate(&policy)
			assert.Error(t, validatePricingPolicy(policy))
		})
	}
}
