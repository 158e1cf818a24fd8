// Command mathtrade - optional YAML configuration overlay for solver options.
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mathtrade/solve"
)

// geneticConfig mirrors genetic.Options in file form.
type geneticConfig struct {
	Population        *int     `yaml:"population"`
	Generations       *int     `yaml:"generations"`
	CrossoverRate     *float64 `yaml:"crossover_rate"`
	MutationRate      *float64 `yaml:"mutation_rate"`
	EliteSize         *int     `yaml:"elite_size"`
	StagnationWindow  *int     `yaml:"stagnation_window"`
	DiversityFloor    *float64 `yaml:"diversity_floor"`
	InjectionFraction *float64 `yaml:"injection_fraction"`
	MutationCeiling   *float64 `yaml:"mutation_ceiling"`
}

// fileConfig is the on-disk shape; every field is optional and overlays the
// defaults, with explicit CLI flags winning over both.
type fileConfig struct {
	MaxCycleLength *int          `yaml:"max_cycle_length"`
	MaxCycles      *int          `yaml:"max_cycles"`
	WeedOut        *bool         `yaml:"weed_out"`
	Seed           *int64        `yaml:"seed"`
	TimeLimit      *string       `yaml:"time_limit"` // Go duration string, e.g. "30s"
	MaxNodes       *int64        `yaml:"max_nodes"`
	Genetic        geneticConfig `yaml:"genetic"`
}

// loadConfig reads path and overlays it onto opts.
func loadConfig(path string, opts *solve.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read: %w", err)
	}
	var cfg fileConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	setInt(&opts.MaxCycleLen, cfg.MaxCycleLength)
	setInt(&opts.MaxCycles, cfg.MaxCycles)
	if cfg.WeedOut != nil {
		opts.WeedOut = *cfg.WeedOut
	}
	if cfg.Seed != nil {
		opts.Seed = *cfg.Seed
	}
	if cfg.TimeLimit != nil {
		d, derr := time.ParseDuration(*cfg.TimeLimit)
		if derr != nil {
			return fmt.Errorf("config: time_limit: %w", derr)
		}
		opts.TimeLimit = d
	}
	if cfg.MaxNodes != nil {
		opts.MaxNodes = *cfg.MaxNodes
	}

	g := cfg.Genetic
	setInt(&opts.GA.Population, g.Population)
	setInt(&opts.GA.Generations, g.Generations)
	setFloat(&opts.GA.CrossoverRate, g.CrossoverRate)
	setFloat(&opts.GA.MutationRate, g.MutationRate)
	setInt(&opts.GA.EliteSize, g.EliteSize)
	setInt(&opts.GA.StagnationWindow, g.StagnationWindow)
	setFloat(&opts.GA.DiversityFloor, g.DiversityFloor)
	setFloat(&opts.GA.InjectionFraction, g.InjectionFraction)
	setFloat(&opts.GA.MutationCeiling, g.MutationCeiling)

	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
