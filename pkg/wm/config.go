package wm

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is every knob §6 names as persisted state, loaded from an ini
// file through viper the way the rest of this package's persistence
// works. Fields absent from the file fall back to the defaults
// DefaultConfig returns.
type Config struct {
	SubspaceCount         int
	SubspaceRows          int
	WrapSubspaces         bool
	BorderlessMaximized   bool
	FocusStealingPrevention FSPLevel
	SnapDistance          int
	EdgeApproachPx        int
	EdgePushBackPx        int
	EdgeTimeThreshold     time.Duration
	EdgeReactivateThreshold time.Duration
	RuleFile              string
	RuleWriteDebounce     time.Duration
}

// DefaultConfig mirrors the fallback values §7 specifies for an absent
// or unreadable config file: one subspace, no wrap, medium FSP.
func DefaultConfig() Config {
	return Config{
		SubspaceCount:           1,
		SubspaceRows:            1,
		WrapSubspaces:           false,
		BorderlessMaximized:     false,
		FocusStealingPrevention: FSPMedium,
		SnapDistance:            10,
		EdgeApproachPx:          20,
		EdgePushBackPx:          1,
		EdgeTimeThreshold:       150 * time.Millisecond,
		EdgeReactivateThreshold: 350 * time.Millisecond,
		RuleFile:                "",
		RuleWriteDebounce:       2 * time.Second,
	}
}

// LoadConfig reads path as an ini file via viper, filling in
// DefaultConfig for anything missing. A missing or unparsable file is
// not an error: it logs a warning and returns the default (§7 "missing
// config: one default subspace").
func LoadConfig(path string, logger *logrus.Logger) Config {
	if logger == nil {
		logger = logrus.New()
	}
	cfg := DefaultConfig()
	if path == "" {
		return cfg
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		logger.WithError(err).Warn("could not read config file, using defaults")
		return cfg
	}
	if v.IsSet("Windows.SubspaceCount") {
		cfg.SubspaceCount = v.GetInt("Windows.SubspaceCount")
	}
	if v.IsSet("Windows.SubspaceRows") {
		cfg.SubspaceRows = v.GetInt("Windows.SubspaceRows")
	}
	if v.IsSet("Windows.WrapSubspaces") {
		cfg.WrapSubspaces = v.GetBool("Windows.WrapSubspaces")
	}
	if v.IsSet("Windows.BorderlessMaximized") {
		cfg.BorderlessMaximized = v.GetBool("Windows.BorderlessMaximized")
	}
	if v.IsSet("Windows.FocusStealingPrevention") {
		cfg.FocusStealingPrevention = FSPLevel(v.GetInt("Windows.FocusStealingPrevention"))
	}
	if v.IsSet("Windows.SnapDistance") {
		cfg.SnapDistance = v.GetInt("Windows.SnapDistance")
	}
	if v.IsSet("Windows.EdgeApproachPx") {
		cfg.EdgeApproachPx = v.GetInt("Windows.EdgeApproachPx")
	}
	if v.IsSet("Windows.EdgePushBackPx") {
		cfg.EdgePushBackPx = v.GetInt("Windows.EdgePushBackPx")
	}
	if v.IsSet("Windows.EdgeTimeThresholdMs") {
		cfg.EdgeTimeThreshold = time.Duration(v.GetInt("Windows.EdgeTimeThresholdMs")) * time.Millisecond
	}
	if v.IsSet("Windows.EdgeReactivateThresholdMs") {
		cfg.EdgeReactivateThreshold = time.Duration(v.GetInt("Windows.EdgeReactivateThresholdMs")) * time.Millisecond
	}
	if v.IsSet("Windows.RuleFile") {
		cfg.RuleFile = v.GetString("Windows.RuleFile")
	}
	return cfg
}

// Save writes cfg back to path in the same ini layout LoadConfig reads.
func (cfg Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("ini")
	v.Set("Windows.SubspaceCount", cfg.SubspaceCount)
	v.Set("Windows.SubspaceRows", cfg.SubspaceRows)
	v.Set("Windows.WrapSubspaces", cfg.WrapSubspaces)
	v.Set("Windows.BorderlessMaximized", cfg.BorderlessMaximized)
	v.Set("Windows.FocusStealingPrevention", int(cfg.FocusStealingPrevention))
	v.Set("Windows.SnapDistance", cfg.SnapDistance)
	v.Set("Windows.EdgeApproachPx", cfg.EdgeApproachPx)
	v.Set("Windows.EdgePushBackPx", cfg.EdgePushBackPx)
	v.Set("Windows.EdgeTimeThresholdMs", int(cfg.EdgeTimeThreshold/time.Millisecond))
	v.Set("Windows.EdgeReactivateThresholdMs", int(cfg.EdgeReactivateThreshold/time.Millisecond))
	v.Set("Windows.RuleFile", cfg.RuleFile)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("wincore: writing config file %s: %w", path, err)
	}
	return nil
}
