package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PricingPolicy tunes the client-facing savings presentation and quote
// defaults. It is deliberately file-based so an installer can adjust
// the sales framing without a redeploy.
type PricingPolicy struct {
	DefaultMarkupPercent float64 `mapstructure:"defaultMarkupPercent"`
	MarketRateMultiplier float64 `mapstructure:"marketRateMultiplier"`
	SavingsFloor         float64 `mapstructure:"savingsFloor"`
	QuoteValidityDays    int     `mapstructure:"quoteValidityDays"`
}

func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		DefaultMarkupPercent: 40,
		MarketRateMultiplier: 1.5,
		SavingsFloor:         1.15,
		QuoteValidityDays:    30,
	}
}

type PricingPolicyHolder struct {
	current atomic.Value // holds PricingPolicy
}

func NewPricingPolicyHolder(log *zap.Logger) (*PricingPolicyHolder, error) {
	log = log.Named("pricing.policy")

	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/quoteflow/config") // Volume-mounted config
	v.AddConfigPath("/etc/quoteflow")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("QUOTEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPricingPolicy()
	v.SetDefault("pricing.defaultMarkupPercent", defaults.DefaultMarkupPercent)
	v.SetDefault("pricing.marketRateMultiplier", defaults.MarketRateMultiplier)
	v.SetDefault("pricing.savingsFloor", defaults.SavingsFloor)
	v.SetDefault("pricing.quoteValidityDays", defaults.QuoteValidityDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var policy PricingPolicy
	if err := v.UnmarshalKey("pricing", &policy); err != nil {
		return nil, err
	}
	if err := validatePricingPolicy(policy); err != nil {
		return nil, err
	}

	holder := &PricingPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingPolicy
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		if err := validatePricingPolicy(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("policy reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *PricingPolicyHolder) Get() PricingPolicy {
	return h.current.Load().(PricingPolicy)
}

// StaticPricingPolicy pins a holder to the given policy without any
// file watching. Used by tests and one-off tooling.
func StaticPricingPolicy(policy PricingPolicy) *PricingPolicyHolder {
	holder := &PricingPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func validatePricingPolicy(policy PricingPolicy) error {
	if policy.DefaultMarkupPercent < 0 {
		return errors.New("pricing.defaultMarkupPercent cannot be negative")
	}
	if policy.MarketRateMultiplier < 1 {
		return errors.New("pricing.marketRateMultiplier must be at least 1")
	}
	if policy.SavingsFloor < 1 {
		return errors.New("pricing.savingsFloor must be at least 1")
	}
	if policy.QuoteValidityDays <= 0 {
		return errors.New("pricing.quoteValidityDays must be positive")
	}
	return nil
}
