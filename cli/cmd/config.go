package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables
const EnvPrefix = "DOCSRELAY"

// HarnessConfig holds CLI options sourced from config files, environment
// variables, or flags.
type HarnessConfig struct {
	// Paths to the two definition documents, relative to the working
	// directory. Empty values fall back to the harness defaults.
	ActionPath   string `mapstructure:"action_path"`
	WorkflowPath string `mapstructure:"workflow_path"`

	// StrictConditions makes unrecognized guard expressions fail closed
	// instead of defaulting to satisfied.
	StrictConditions bool `mapstructure:"strict_conditions"`

	// SecretPatterns adds named regex rules to the hardcoded-secret scan.
	SecretPatterns map[string]string `mapstructure:"secret_patterns"`
}

func loadConfig() (*HarnessConfig, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("docsrelay")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading harness config: %w", err)
		}
	}

	cfg := &HarnessConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling harness config: %w", err)
	}
	return cfg, nil
}

// parseKeyValues converts repeated key=value flag values into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair: %q", pair)
		}
		values[key] = value
	}
	return values, nil
}
