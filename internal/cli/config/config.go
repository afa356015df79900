package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the harness settings, loaded from lspstress.yml, the
// environment, and command-line flags in that order of precedence.
type Config struct {
	// BatchSize is the number of arXiv papers to check.
	BatchSize int `mapstructure:"batch_size"`
	// Port for the language-server connection; 0 picks a free port.
	Port int `mapstructure:"port"`
	// Seed for arXiv ID generation; negative means pick a random seed.
	Seed int64 `mapstructure:"seed"`
	// SaveTexDir, when set, receives a copy of every checked LaTeX file.
	SaveTexDir string `mapstructure:"save_tex"`
	// ResultsDB, when set, is the path of a SQLite database that records
	// every validation.
	ResultsDB string `mapstructure:"results_db"`
	// ExtensionsDir overrides the VS Code extensions directory to scan.
	ExtensionsDir string `mapstructure:"extensions_dir"`
	// Verbose enables debug-level protocol logging.
	Verbose bool `mapstructure:"verbose"`
}

// Load reads the configuration from lspstress.yml or lspstress.yaml in the
// current directory, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("batch_size", 10)
	v.SetDefault("port", 0)
	v.SetDefault("seed", int64(-1))

	v.SetConfigName("lspstress")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("lspstress")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings that cannot be acted on.
func Validate(config *Config) error {
	if config.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", config.BatchSize)
	}
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", config.Port)
	}
	return nil
}
