package feature

import (
	"fmt"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/indexconfig"
)

// Registry is the explicit plugin registry: features are registered by
// name at startup. Registration of a second plugin under an existing
// name fails immediately.
type Registry struct {
	byName map[string]contracts.Feature
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]contracts.Feature)}
}

// Register adds a plugin. A name collision is an error, never a silent
// overwrite.
func (r *Registry) Register(f contracts.Feature) error {
	name := f.Name()
	if name == "" {
		return fmt.Errorf("feature with empty name")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFeature, name)
	}
	r.byName[name] = f
	r.order = append(r.order, name)
	return nil
}

// MustRegister panics on registration failure; for static startup
// wiring only.
func (r *Registry) MustRegister(f contracts.Feature) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Features returns the registered plugins in registration order.
func (r *Registry) Features() []contracts.Feature {
	out := make([]contracts.Feature, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	return len(r.order)
}

// Asset names the built-in plugins read from the dataset. They match
// the source names in configs/index.yaml.
const (
	AssetXU100     = "XU100"
	AssetUSDTRY    = "USDTRY"
	AssetVIX       = "VIX"
	AssetSP500     = "SP500"
	AssetCDS       = "CDS"
	AssetSentiment = "SENTIMENT"
)

// DefaultRegistry assembles the standard six-feature set with windows
// from the strategy config.
func DefaultRegistry(cfg *indexconfig.Config) *Registry {
	r := NewRegistry()
	r.MustRegister(NewRealizedVol(AssetXU100, cfg.Features.RealizedVolWindow))
	r.MustRegister(NewFXShock(AssetUSDTRY, cfg.Features.FXShockWindow))
	r.MustRegister(NewCDSSpike(AssetCDS, cfg.Features.CDSSpikeWindow))
	r.MustRegister(NewSentimentTrends(AssetSentiment, cfg.Features.SentimentWindow))
	r.MustRegister(NewVIXLevel(AssetVIX))
	r.MustRegister(NewCorrelationBreakdown(AssetXU100, AssetSP500, cfg.Features.CorrelationWindow))
	return r
}
