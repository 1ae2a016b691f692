package engine

import (
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/argus-quant/hftsim/pkg/errors"
)

// RunConfig describes one backtest run.
type RunConfig struct {
	// Version is the engine version this config was written for. "main"
	// skips the compatibility check.
	Version string `yaml:"version" json:"version" jsonschema:"title=Version,description=Engine version the config targets,default=main" validate:"required"`
	// Strategy is the registry name of the strategy to run.
	Strategy string `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=Registry name of the strategy" validate:"required"`
	// StrategyConfig holds the strategy's own config document. Keys absent
	// here keep the strategy's defaults.
	StrategyConfig map[string]any `yaml:"strategy_config" json:"strategy_config,omitempty" jsonschema:"title=Strategy Config,description=Strategy-specific configuration"`
	// DataPath is the tick data file to replay.
	DataPath string `yaml:"data_path" json:"data_path" jsonschema:"title=Data Path,description=CSV or Parquet tick data file"`
}

// DefaultRunConfig returns a run config targeting the development build.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Version: "main",
	}
}

// ParseRunConfig parses and validates a YAML run config document.
func ParseRunConfig(configYAML string) (RunConfig, error) {
	cfg := DefaultRunConfig()

	if err := yaml.Unmarshal([]byte(configYAML), &cfg); err != nil {
		return RunConfig{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse run config", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return RunConfig{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid run config", err)
	}

	return cfg, nil
}

// StrategyConfigYAML re-serializes the nested strategy config so it can be
// handed to a strategy factory.
func (c RunConfig) StrategyConfigYAML() (string, error) {
	if len(c.StrategyConfig) == 0 {
		return "", nil
	}

	data, err := yaml.Marshal(c.StrategyConfig)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to serialize strategy config", err)
	}

	return string(data), nil
}
