// Package config loads configuration structs from .env files and the
// process environment via envconfig tags.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigFile pairs an optional .env file path with the struct pointer it
// should populate.
type ConfigFile struct {
	Path   string
	Config interface{}
}

// LoadConfigFiles loads each .env file into the environment, then fills the
// paired struct from envconfig tags.
func LoadConfigFiles(configFiles ...*ConfigFile) error {
	for _, configFile := range configFiles {
		if configFile.Path != "" {
			if err := godotenv.Load(configFile.Path); err != nil {
				return err
			}
		}

		err := envconfig.Process("", configFile.Config)
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadConfigs fills struct pointers from the process environment only.
func LoadConfigs(config ...interface{}) error {
	for _, cfg := range config {
		err := envconfig.Process("", cfg)
		if err != nil {
			return err
		}
	}
	return nil
}
