package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ParserConfig configures contents-file parsing.
type ParserConfig struct {
	KeepDuplicates bool `yaml:"keep_duplicates"`
}

// MatrixConfig configures similarity matrix construction.
type MatrixConfig struct {
	// Decimals is the rounding precision applied to stored scores.
	Decimals int `yaml:"decimals"`
}

// PreviewConfig configures the default matrix preview table.
type PreviewConfig struct {
	Limit    int `yaml:"limit"`
	Decimals int `yaml:"decimals"`
}

// QueryConfig configures top-k similarity queries.
type QueryConfig struct {
	TopN int `yaml:"top_n"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Parser  ParserConfig  `yaml:"parser"`
	Matrix  MatrixConfig  `yaml:"matrix"`
	Preview PreviewConfig `yaml:"preview"`
	Query   QueryConfig   `yaml:"query"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries $SEMSI_CONFIG, then ./semsi.yaml, then
// ~/.config/semsi/config.yaml. If none exists, it writes defaults to the user
// path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	if envPath := os.Getenv("SEMSI_CONFIG"); envPath != "" {
		cfg, err := Load(envPath)
		return cfg, envPath, err
	}
	cwdPath := "semsi.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "semsi", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Matrix:  MatrixConfig{Decimals: 6},
		Preview: PreviewConfig{Limit: 5, Decimals: 3},
		Query:   QueryConfig{TopN: 10},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Matrix.Decimals == 0 {
		cfg.Matrix.Decimals = 6
	}
	if cfg.Preview.Limit == 0 {
		cfg.Preview.Limit = 5
	}
	if cfg.Preview.Decimals == 0 {
		cfg.Preview.Decimals = 3
	}
	if cfg.Query.TopN == 0 {
		cfg.Query.TopN = 10
	}
}
