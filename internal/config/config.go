package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultAutosaveDelayMS = 2000

type yamlConfig struct {
	IsDebug         bool   `yaml:"debug"`
	DBPath          string `yaml:"db_path"`
	LogFilePath     string `yaml:"log_file_path"`
	AutosaveDelayMS int    `yaml:"autosave_delay_ms"`
}

// Config holds the application settings
type Config struct {
	IsDebug       bool
	DBPath        string
	LogFilePath   string
	AutosaveDelay time.Duration
}

// Load reads the config file at configPath, creating it from the
// default config data first if it does not exist.
func Load(configPath string, defaultConfigData []byte) (*Config, error) {
	_, err := os.Stat(configPath)

	if err != nil {
		err := os.WriteFile(configPath, defaultConfigData, 0600)

		if err != nil {
			return nil, err
		}
	}

	return parseConfigFile(configPath)
}

func parseConfigFile(configFilePath string) (*Config, error) {
	yamlFile, err := os.ReadFile(path.Clean(configFilePath))

	if err != nil {
		return nil, err
	}

	config := &yamlConfig{}

	err = yaml.Unmarshal(yamlFile, config)

	if err != nil {
		return nil, err
	}

	if config.AutosaveDelayMS <= 0 {
		config.AutosaveDelayMS = defaultAutosaveDelayMS
	}

	return &Config{
		IsDebug:       config.IsDebug,
		DBPath:        config.DBPath,
		LogFilePath:   config.LogFilePath,
		AutosaveDelay: time.Duration(config.AutosaveDelayMS) * time.Millisecond,
	}, nil
}
