package strategy

import (
	"sort"
	"sync"

	"github.com/argus-quant/hftsim/pkg/errors"
)

// Registry names of the built-in strategies.
const (
	NameMarketMaker          = "MarketMaker"
	NameMomentumScalper      = "MomentumScalper"
	NameGridTrader           = "GridTrader"
	NameMeanReversionScalper = "MeanReversionScalper"
)

// Factory builds a strategy instance from a YAML config document. An empty
// document yields the strategy's defaults.
type Factory func(configYAML string) (Strategy, error)

// Registry maps strategy names to factories.
type Registry interface {
	Register(name string, factory Factory) error
	// Create instantiates the named strategy with the given YAML config.
	// An unknown name is a lookup failure with ErrCodeStrategyNotFound.
	Create(name string, configYAML string) (Strategy, error)
	// List returns all registered strategy names, sorted.
	List() []string
	// ConfigSchemaJSON returns the JSON schema of the named strategy's config.
	ConfigSchemaJSON(name string) (string, error)
}

// RegistryV1 is a mutex-guarded map registry, safe for concurrent lookup so
// independent backtests may resolve strategies in parallel.
type RegistryV1 struct {
	factories map[string]Factory
	schemas   map[string]func() (string, error)
	mu        sync.RWMutex
}

// NewRegistry creates a registry pre-populated with the four built-in
// strategies.
func NewRegistry() Registry {
	r := &RegistryV1{
		factories: make(map[string]Factory),
		schemas:   make(map[string]func() (string, error)),
	}

	r.register(NameMarketMaker, NewMarketMakerFromConfig, func() (string, error) {
		return generateConfigSchemaJSON(NameMarketMaker, &MarketMakerConfig{})
	})
	r.register(NameMomentumScalper, NewMomentumScalperFromConfig, func() (string, error) {
		return generateConfigSchemaJSON(NameMomentumScalper, &MomentumScalperConfig{})
	})
	r.register(NameGridTrader, NewGridTraderFromConfig, func() (string, error) {
		return generateConfigSchemaJSON(NameGridTrader, &GridTraderConfig{})
	})
	r.register(NameMeanReversionScalper, NewMeanReversionScalperFromConfig, func() (string, error) {
		return generateConfigSchemaJSON(NameMeanReversionScalper, &MeanReversionScalperConfig{})
	})

	return r
}

func (r *RegistryV1) register(name string, factory Factory, schema func() (string, error)) {
	r.factories[name] = factory
	r.schemas[name] = schema
}

// Register adds a strategy factory to the registry.
func (r *RegistryV1) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeInvalidParameter, "Register: strategy %s already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Create implements Registry.
func (r *RegistryV1) Create(name string, configYAML string) (Strategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "unknown strategy: %s", name)
	}

	return factory(configYAML)
}

// List implements Registry.
func (r *RegistryV1) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ConfigSchemaJSON implements Registry.
func (r *RegistryV1) ConfigSchemaJSON(name string) (string, error) {
	r.mu.RLock()
	schema, exists := r.schemas[name]
	r.mu.RUnlock()

	if !exists {
		return "", errors.Newf(errors.ErrCodeStrategyNotFound, "unknown strategy: %s", name)
	}

	return schema()
}
