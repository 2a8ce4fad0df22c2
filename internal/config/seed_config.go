package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// SeedConfig is the declarative input of the seeding run: where the hierarchy
// definition lives, which branch the run targets, and which legacy department
// names fold into which canonical ones first.
type SeedConfig struct {
	Branch         string            `toml:"branch"`
	DefinitionPath string            `toml:"definition_path"`
	Bucket         string            `toml:"bucket"`
	Object         string            `toml:"object"`
	Migrations     []LegacyMigration `toml:"migrations"`
}

// LegacyMigration maps case/spacing variants of a department name onto its
// canonical spelling.
type LegacyMigration struct {
	Canonical string   `toml:"canonical"`
	Aliases   []string `toml:"aliases"`
}

// LoadSeedConfig loads the seeding configuration from a TOML file.
func LoadSeedConfig(filename string) (*SeedConfig, error) {
	config := &SeedConfig{}
	if _, err := toml.DecodeFile(filename, config); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if config.Branch == "" {
		config.Branch = "HQ"
	}
	if config.DefinitionPath == "" && (config.Bucket == "" || config.Object == "") {
		return nil, fmt.Errorf("config needs definition_path or bucket+object")
	}
	return config, nil
}
