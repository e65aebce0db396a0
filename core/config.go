package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Snassy-icp/app-sneeddao-sub012/crypto/principal"
)

type ServiceConfig struct {
	ListenAddr     string        `json:"listen_addr"`
	GatewayURL     string        `json:"gateway_url"`
	GatewayTimeout time.Duration `json:"-"`
	TimeoutMs      int           `json:"gateway_timeout_ms"`
	ForumCanister  string        `json:"forum_canister"`
	Ledgers        []string      `json:"ledgers"`
	Sender         string        `json:"sender"`
	SuccessHoldMs  int           `json:"success_hold_ms"`
	ErrorHoldMs    int           `json:"error_hold_ms"`
	FeeCacheSec    int           `json:"fee_cache_sec"`
	BalanceCacheMs int           `json:"balance_cache_ms"`
	LogLevel       string        `json:"log_level"`
	DevLog         bool          `json:"dev_log"`
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ListenAddr:     ":8080",
		TimeoutMs:      30000,
		SuccessHoldMs:  2000,
		ErrorHoldMs:    3000,
		FeeCacheSec:    600,
		BalanceCacheMs: 15000,
		LogLevel:       "info",
	}
}

func LoadServiceConfig(path string) (ServiceConfig, error) {
	c := DefaultServiceConfig()
	cf, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config: %v", err)
	}
	if err := json.Unmarshal(cf, &c); err != nil {
		return c, fmt.Errorf("failed to parse config: %v", err)
	}
	c.GatewayTimeout = time.Duration(c.TimeoutMs) * time.Millisecond
	return c, c.Validate()
}

func (c ServiceConfig) Validate() error {
	if c.GatewayURL == "" {
		return errors.New("gateway_url can't be empty")
	}
	if _, err := principal.Parse(c.ForumCanister); err != nil {
		return fmt.Errorf("forum_canister: %v", err)
	}
	if len(c.Ledgers) == 0 {
		return errors.New("at least one ledger is required")
	}
	for _, l := range c.Ledgers {
		if _, err := principal.Parse(l); err != nil {
			return fmt.Errorf("ledger %q: %v", l, err)
		}
	}
	if _, err := principal.Parse(c.Sender); err != nil {
		return fmt.Errorf("sender: %v", err)
	}
	if c.SuccessHoldMs < 0 || c.ErrorHoldMs < 0 {
		return errors.New("hold durations must not be negative")
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("gateway_timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	return nil
}

func (c ServiceConfig) SuccessHold() time.Duration {
	return time.Duration(c.SuccessHoldMs) * time.Millisecond
}

func (c ServiceConfig) ErrorHold() time.Duration {
	return time.Duration(c.ErrorHoldMs) * time.Millisecond
}

func (c ServiceConfig) FeeCacheTTL() time.Duration {
	return time.Duration(c.FeeCacheSec) * time.Second
}

func (c ServiceConfig) BalanceCacheTTL() time.Duration {
	return time.Duration(c.BalanceCacheMs) * time.Millisecond
}
