// trackhub: a tool for building genome browser track hubs.
// Copyright (c) 2026 imec vzw.

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
// <https://github.com/exascience/trackhub/blob/master/LICENSE.txt>.

package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/exascience/trackhub/hub"
	"github.com/exascience/trackhub/publish"
	"github.com/exascience/trackhub/schemes"
	"github.com/exascience/trackhub/trackdb"
	"github.com/exascience/trackhub/tracks"
)

/*
A FileConfig is the content of a --config file. Every section is
optional, and a section that is present replaces the corresponding
built-in default as a whole.
*/
type FileConfig struct {
	Hub            *trackdb.HubInfo               `yaml:"hub"`
	Genomes        []trackdb.Genome               `yaml:"genomes"`
	Catalogue      *schemes.Catalogue             `yaml:"catalogue"`
	Tissues        map[string]tracks.TissueTables `yaml:"tissues"`
	PaletteSeed    *int64                         `yaml:"palette_seed"`
	PalettePolicy  *tracks.ExhaustionPolicy       `yaml:"palette_policy"`
	PriorityStride int                            `yaml:"priority_stride"`
	Publish        *publish.Config                `yaml:"publish"`
}

// ReadConfig parses a configuration file. Unknown keys are errors.
func ReadConfig(filename string) (*FileConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w, while parsing configuration", err)
	}
	if cfg.PriorityStride < 0 {
		return nil, fmt.Errorf("invalid priority_stride %v", cfg.PriorityStride)
	}
	for _, g := range cfg.Genomes {
		if g.Assembly == "" {
			return nil, fmt.Errorf("genome without assembly in configuration")
		}
	}
	return &cfg, nil
}

// Apply overrides the defaults in cfg with the sections present in fc.
func (fc *FileConfig) Apply(cfg *hub.Config) {
	if fc.Hub != nil {
		cfg.Hub = *fc.Hub
	}
	if len(fc.Genomes) > 0 {
		cfg.Genomes = fc.Genomes
	}
	if fc.Catalogue != nil {
		cfg.Catalogue = *fc.Catalogue
	}
	if len(fc.Tissues) > 0 {
		cfg.Tissues = fc.Tissues
	}
	if fc.PaletteSeed != nil {
		cfg.PaletteSeed = *fc.PaletteSeed
	}
	if fc.PalettePolicy != nil {
		cfg.PalettePolicy = *fc.PalettePolicy
	}
	if fc.PriorityStride > 0 {
		cfg.PriorityStride = fc.PriorityStride
	}
}
