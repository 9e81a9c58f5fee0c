package lin

import "time"

// Config holds the optional settings of a Master
type Config struct {
	Clock        Clock
	TxEnable     TxEnabler
	TimeoutSlack time.Duration // added to the nominal frame timeout
	ResponseGap  int           // silent byte times that end a response of unknown length
}

// Option is a functional option for configuring a Master
type Option func(*Config) error

// DefaultConfig returns the settings used when Begin is called without options
func DefaultConfig() Config {
	return Config{
		Clock:        SystemClock(),
		TimeoutSlack: 0,
		ResponseGap:  3,
	}
}

// WithClock replaces the time source used for timeouts
func WithClock(c Clock) Option {
	return func(cfg *Config) error {
		if c == nil {
			return ErrInvalidConfig
		}
		cfg.Clock = c
		return nil
	}
}

// WithTxEnable sets the transceiver enable line. It is asserted from the
// break until the header echo of a slave response, or until the end of a
// master request.
func WithTxEnable(t TxEnabler) Option {
	return func(cfg *Config) error {
		cfg.TxEnable = t
		return nil
	}
}

// WithTimeoutSlack extends every frame timeout. USB serial adapters batch
// received bytes, typically in 1-16ms latency windows, which a bare 150%
// frame time does not cover.
func WithTimeoutSlack(d time.Duration) Option {
	return func(cfg *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		cfg.TimeoutSlack = d
		return nil
	}
}

// WithResponseGap sets how many byte times of silence close a slave
// response whose length was not given.
func WithResponseGap(byteTimes int) Option {
	return func(cfg *Config) error {
		if byteTimes < 1 || byteTimes > 16 {
			return ErrInvalidConfig
		}
		cfg.ResponseGap = byteTimes
		return nil
	}
}
