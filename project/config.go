// readtrace: tracing reads through RNA-seq read mapping pipelines.
// Copyright (c) 2021 imec vzw.

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
// <https://github.com/ExaScience/readtrace/blob/master/LICENSE.txt>.

package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/exascience/readtrace/trace"
)

// ConfigFile is the name of the optional configuration file in the
// root of a project folder.
const ConfigFile = "rapl.config"

// Config holds the pipeline parameters that determine the stage file
// names, and the settings of readtrace itself.
type Config struct {
	MinSeqLength      int     `yaml:"min_seq_length"`
	MaxAContent       float64 `yaml:"max_a_content"`
	IndexName         string  `yaml:"index_name"`
	Threads           int     `yaml:"threads"`
	ExceptionHandling string  `yaml:"exception_handling"`
}

// DefaultConfig returns the parameters the mapping pipeline uses when
// a project has no configuration file.
func DefaultConfig() Config {
	return Config{
		MinSeqLength:      12,
		MaxAContent:       70.0,
		IndexName:         "genome.idx",
		Threads:           0,
		ExceptionHandling: "report",
	}
}

// DecodeConfig reads a yaml configuration. Settings missing from r
// keep their default values. Unknown settings are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, err
	}
	return config, config.Validate()
}

// LoadConfig reads the named yaml configuration file.
func LoadConfig(name string) (config Config, err error) {
	file, err := os.Open(name)
	if err != nil {
		return DefaultConfig(), err
	}
	defer func() {
		if nerr := file.Close(); err == nil {
			err = nerr
		}
	}()
	if config, err = DecodeConfig(file); err != nil {
		return config, fmt.Errorf("%w, while reading configuration file %v", err, name)
	}
	return config, nil
}

// LoadProjectConfig reads the configuration file of the project in
// root, if there is one, and returns the default configuration
// otherwise.
func LoadProjectConfig(root string) (Config, error) {
	config, err := LoadConfig(filepath.Join(root, ConfigFile))
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return config, err
}

// Validate checks the configuration values.
func (config *Config) Validate() error {
	if config.MinSeqLength < 0 {
		return fmt.Errorf("invalid min_seq_length %v", config.MinSeqLength)
	}
	if config.MaxAContent < 0 || config.MaxAContent > 100 {
		return fmt.Errorf("invalid max_a_content %v", config.MaxAContent)
	}
	if config.IndexName == "" {
		return errors.New("empty index_name")
	}
	if config.Threads < 0 {
		return fmt.Errorf("invalid threads %v", config.Threads)
	}
	_, err := trace.ParsePolicy(config.ExceptionHandling)
	return err
}

// Policy returns the exception handling policy of the configuration.
func (config *Config) Policy() trace.Policy {
	policy, _ := trace.ParsePolicy(config.ExceptionHandling)
	return policy
}

// NrOfThreads returns the number of libraries to trace in parallel.
func (config *Config) NrOfThreads() int {
	if config.Threads <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return config.Threads
}
