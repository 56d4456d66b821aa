package indexconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the strategy YAML. KnownFields(true) makes
// typos and stale fields fail immediately instead of being silently
// ignored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates raw YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills zero values with the documented defaults so a
// minimal YAML stays usable.
func applyDefaults(cfg *Config) {
	if cfg.Period.LookbackDays == 0 && cfg.Period.Start == "" {
		cfg.Period.LookbackDays = 365 * 3
	}
	if cfg.Features.RealizedVolWindow == 0 {
		cfg.Features.RealizedVolWindow = 20
	}
	if cfg.Features.FXShockWindow == 0 {
		cfg.Features.FXShockWindow = 20
	}
	if cfg.Features.CDSSpikeWindow == 0 {
		cfg.Features.CDSSpikeWindow = 60
	}
	if cfg.Features.SentimentWindow == 0 {
		cfg.Features.SentimentWindow = 30
	}
	if cfg.Features.CorrelationWindow == 0 {
		cfg.Features.CorrelationWindow = 60
	}
	if cfg.Index.ZScoreClip == 0 {
		cfg.Index.ZScoreClip = 3.0
	}
	if cfg.Index.SigmoidScale == 0 {
		cfg.Index.SigmoidScale = 1.0
	}
	if cfg.Index.EMASpan == 0 {
		cfg.Index.EMASpan = 5
	}
	if cfg.Index.MinObservations == 0 {
		cfg.Index.MinObservations = 10
	}
	if cfg.Quality.MaxMissingRatio == 0 {
		cfg.Quality.MaxMissingRatio = 0.30
	}
	if cfg.Backtest.CrashThreshold == 0 {
		cfg.Backtest.CrashThreshold = -0.02
	}
	if cfg.Backtest.HighFear == 0 {
		cfg.Backtest.HighFear = 70
	}
	if cfg.Backtest.LowFear == 0 {
		cfg.Backtest.LowFear = 30
	}
}

// Hash generates a SHA-256 hash of the config via canonical JSON.
// Structs (not maps) keep field order deterministic; the weight map is
// the one exception and is serialized with sorted keys by encoding/json.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
