// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the trisim command configuration.
//
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the trisim command.
//
type Config struct {
	// Project directory. Empty means no project: the standard library is
	// installed instead.
	Project string `yaml:"project"`
	// Name of the blueprint made active at startup.
	Main string `yaml:"main"`
	// Clock toggle period.
	ClockPeriod time.Duration `yaml:"clock_period"`
	// Size of the fan-out index cache.
	FanoutCache int `yaml:"fanout_cache"`
}

// Default returns the default configuration.
//
func Default() *Config {
	return &Config{
		Main:        "main",
		ClockPeriod: time.Second,
		FanoutCache: 256,
	}
}

// Load loads the configuration. A .env file in the current directory is loaded
// into the environment if present, then the YAML file at path is read if path
// is not empty. Finally, the environment variables TRISIM_PROJECT, TRISIM_MAIN,
// TRISIM_CLOCK_PERIOD and TRISIM_FANOUT_CACHE override the file settings.
//
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, errors.Wrap(err, path)
		}
	}

	if v := os.Getenv("TRISIM_PROJECT"); v != "" {
		cfg.Project = v
	}
	if v := os.Getenv("TRISIM_MAIN"); v != "" {
		cfg.Main = v
	}
	if v := os.Getenv("TRISIM_CLOCK_PERIOD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrap(err, "TRISIM_CLOCK_PERIOD")
		}
		cfg.ClockPeriod = d
	}
	if v := os.Getenv("TRISIM_FANOUT_CACHE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, "TRISIM_FANOUT_CACHE")
		}
		cfg.FanoutCache = n
	}

	if cfg.ClockPeriod <= 0 {
		return nil, errors.Errorf("invalid clock period %v", cfg.ClockPeriod)
	}
	return cfg, nil
}
