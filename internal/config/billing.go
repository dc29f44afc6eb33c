package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BillingPolicy is the studio-level billing policy, hot-reloadable from
// billing.yml so the front desk can adjust it without a restart.
type BillingPolicy struct {
	// PaymentMethods is the closed set accepted on receipts.
	PaymentMethods []string `mapstructure:"paymentMethods"`
	// OutOfTermGraceDays marks receipts created this many days after the
	// period they pay for as out-of-term (late payment).
	OutOfTermGraceDays int `mapstructure:"outOfTermGraceDays"`
	// TxAttempts bounds retries on store serialization conflicts.
	TxAttempts int `mapstructure:"txAttempts"`
}

func DefaultBillingPolicy() BillingPolicy {
	return BillingPolicy{
		PaymentMethods:     []string{"cash", "transfer", "card"},
		OutOfTermGraceDays: 10,
		TxAttempts:         3,
	}
}

type BillingPolicyHolder struct {
	current atomic.Value // holds BillingPolicy
}

func NewBillingPolicyHolder(log *zap.Logger) (*BillingPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/compas")
	v.AddConfigPath(".")

	v.SetEnvPrefix("COMPAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	policy, err := unmarshalBillingPolicy(v)
	if err != nil {
		return nil, err
	}

	holder := &BillingPolicyHolder{}
	holder.current.Store(policy)

	log = log.Named("config.billing")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := unmarshalBillingPolicy(v)
		if err != nil {
			log.Warn("billing policy reload ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("billing policy reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// unmarshalBillingPolicy layers defaults under whatever keys the file (or
// env) provides, so a partial billing.yml still yields a full policy.
func unmarshalBillingPolicy(v *viper.Viper) (BillingPolicy, error) {
	defaults := DefaultBillingPolicy()
	v.SetDefault("billing.paymentMethods", defaults.PaymentMethods)
	v.SetDefault("billing.outOfTermGraceDays", defaults.OutOfTermGraceDays)
	v.SetDefault("billing.txAttempts", defaults.TxAttempts)

	var policy BillingPolicy
	if err := v.UnmarshalKey("billing", &policy); err != nil {
		return BillingPolicy{}, err
	}
	if err := validateBillingPolicy(policy); err != nil {
		return BillingPolicy{}, err
	}
	return policy, nil
}

func (h *BillingPolicyHolder) Get() BillingPolicy {
	return h.current.Load().(BillingPolicy)
}

// StaticBillingPolicyHolder wraps a fixed policy, for tests.
func StaticBillingPolicyHolder(policy BillingPolicy) *BillingPolicyHolder {
	holder := &BillingPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func validateBillingPolicy(policy BillingPolicy) error {
	if len(policy.PaymentMethods) == 0 {
		return errors.New("billing.paymentMethods cannot be empty")
	}
	if policy.OutOfTermGraceDays < 0 {
		return errors.New("billing.outOfTermGraceDays cannot be negative")
	}
	if policy.TxAttempts <= 0 {
		return errors.New("billing.txAttempts must be positive")
	}
	return nil
}
