package services

import (
	"activityhub-backend/config"
	"sync"
	"time"
)

// Settings are the tunables the services read. Configure replaces the defaults.
type Settings struct {
	PaymentLeadTime       time.Duration
	PixTTL                time.Duration
	CommissionStandardBPS int64
	CommissionPremiumBPS  int64
	CASMaxRetries         int
	MatchDefaultLimit     int
	LedgerSecret          string
}

func defaultSettings() Settings {
	return Settings{
		PaymentLeadTime:       48 * time.Hour,
		PixTTL:                30 * time.Minute,
		CommissionStandardBPS: 1500,
		CommissionPremiumBPS:  1000,
		CASMaxRetries:         5,
		MatchDefaultLimit:     20,
		LedgerSecret:          "default-secret",
	}
}

var (
	settingsMu sync.RWMutex
	settings   = defaultSettings()

	clockMu sync.RWMutex
	clock   = time.Now
)

// Configure loads the service settings from cfg; zero values keep the defaults.
func Configure(cfg *config.Config) {
	s := defaultSettings()
	if cfg.PaymentLeadTime > 0 {
		s.PaymentLeadTime = cfg.PaymentLeadTime
	}
	if cfg.PixTTL > 0 {
		s.PixTTL = cfg.PixTTL
	}
	if cfg.CommissionStandardBPS > 0 {
		s.CommissionStandardBPS = cfg.CommissionStandardBPS
	}
	if cfg.CommissionPremiumBPS > 0 {
		s.CommissionPremiumBPS = cfg.CommissionPremiumBPS
	}
	if cfg.CASMaxRetries > 0 {
		s.CASMaxRetries = cfg.CASMaxRetries
	}
	if cfg.MatchDefaultLimit > 0 {
		s.MatchDefaultLimit = cfg.MatchDefaultLimit
	}
	if cfg.LedgerSecret != "" {
		s.LedgerSecret = cfg.LedgerSecret
	}

	settingsMu.Lock()
	settings = s
	settingsMu.Unlock()
}

func currentSettings() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// SetClock swaps the wall clock; nil restores time.Now.
func SetClock(fn func() time.Time) {
	clockMu.Lock()
	defer clockMu.Unlock()
	if fn == nil {
		fn = time.Now
	}
	clock = fn
}

func now() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock().UTC()
}
