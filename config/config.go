// phigaro: a scalable tool for predicting phages and prophages.
// Copyright (c) 2018-2021 the phigaro authors.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/phigaro/phigaro/blob/master/LICENSE.txt>.

// Package config loads the phigaro configuration file.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrMissing is returned by Load when the configuration file does not
// exist.
var ErrMissing = errors.New("please create config file using phigaro-setup script")

type (
	// GeneMark configures the MetaGeneMark gene caller.
	GeneMark struct {
		Bin     string `yaml:"bin"`
		ModPath string `yaml:"mod_path"`
	}

	// Hmmer configures the hmmsearch profile search against pVOGs.
	Hmmer struct {
		Bin             string  `yaml:"bin"`
		PvogPath        string  `yaml:"pvog_path"`
		EValueThreshold float64 `yaml:"e_value_threshold"`
	}

	// Phigaro configures the prophage finder.
	Phigaro struct {
		WindowLen         int     `yaml:"window_len"`
		Threshold         float64 `yaml:"threshold"`
		MinPhageGenes     int     `yaml:"min_phage_genes"`
		MinScaffoldLength int     `yaml:"min_scaffold_length"`
	}

	// Config is the contents of a phigaro configuration file.
	Config struct {
		WorkDir  string   `yaml:"work_dir"`
		GeneMark GeneMark `yaml:"genemark"`
		Hmmer    Hmmer    `yaml:"hmmer"`
		Phigaro  Phigaro  `yaml:"phigaro"`
	}
)

// Default values for settings missing from the configuration file.
const (
	DefaultGeneMarkBin     = "gmhmmp"
	DefaultHmmerBin        = "hmmsearch"
	DefaultEValueThreshold = 0.00445
	DefaultWindowLen       = 32
	DefaultThreshold       = 46.0
	DefaultMinPhageGenes   = 5
)

// DefaultPath returns $HOME/.phigaro/config.yml.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".phigaro", "config.yml")
}

// Default returns a configuration with all defaults filled in.
func Default() *Config {
	return &Config{
		WorkDir:  filepath.Join(os.TempDir(), "phigaro"),
		GeneMark: GeneMark{Bin: DefaultGeneMarkBin},
		Hmmer: Hmmer{
			Bin:             DefaultHmmerBin,
			EValueThreshold: DefaultEValueThreshold,
		},
		Phigaro: Phigaro{
			WindowLen:     DefaultWindowLen,
			Threshold:     DefaultThreshold,
			MinPhageGenes: DefaultMinPhageGenes,
		},
	}
}

// fillEmpty restores the defaults of settings that cannot be empty.
func (cfg *Config) fillEmpty() {
	defaults := Default()
	if cfg.WorkDir == "" {
		cfg.WorkDir = defaults.WorkDir
	}
	if cfg.GeneMark.Bin == "" {
		cfg.GeneMark.Bin = defaults.GeneMark.Bin
	}
	if cfg.Hmmer.Bin == "" {
		cfg.Hmmer.Bin = defaults.Hmmer.Bin
	}
}

// Validate checks the settings that have no sensible default.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Hmmer.EValueThreshold < 0:
		return errors.Errorf("invalid hmmer.e_value_threshold %v", cfg.Hmmer.EValueThreshold)
	case cfg.Phigaro.WindowLen < 1:
		return errors.Errorf("invalid phigaro.window_len %v", cfg.Phigaro.WindowLen)
	case cfg.Phigaro.Threshold < 0 || cfg.Phigaro.Threshold > 100:
		return errors.Errorf("invalid phigaro.threshold %v, must be a percentage", cfg.Phigaro.Threshold)
	case cfg.Phigaro.MinPhageGenes < 0:
		return errors.Errorf("invalid phigaro.min_phage_genes %v", cfg.Phigaro.MinPhageGenes)
	case cfg.Phigaro.MinScaffoldLength < 0:
		return errors.Errorf("invalid phigaro.min_scaffold_length %v", cfg.Phigaro.MinScaffoldLength)
	}
	return nil
}

// Parse decodes a configuration from YAML over the defaults and
// validates the result. Settings given explicitly are kept, even when
// they are zero.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config yaml")
	}
	cfg.fillEmpty()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at filename.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrMissing, filename)
		}
		return nil, errors.Wrapf(err, "reading config file %v", filename)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return cfg, nil
}
