package resilience

import "time"

type RetryConfig struct {
	MaxRetries int
	Wait       time.Duration
	MaxWait    time.Duration
	MaxElapsed time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 1,
		Wait:       time.Second,
		MaxWait:    5 * time.Second,
		MaxElapsed: 30 * time.Second,
	}
}

func NormalizeRetryConfig(cfg RetryConfig) RetryConfig {
	defaults := DefaultRetryConfig()
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Wait <= 0 {
		cfg.Wait = defaults.Wait
	}
	if cfg.MaxWait < cfg.Wait {
		cfg.MaxWait = max(defaults.MaxWait, cfg.Wait)
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = defaults.MaxElapsed
	}
	return cfg
}
