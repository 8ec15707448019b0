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

package trackdb

import "path"

// HubInfo describes hub.txt.
type HubInfo struct {
	Name           string `yaml:"name"`
	ShortLabel     string `yaml:"short_label"`
	LongLabel      string `yaml:"long_label"`
	Email          string `yaml:"email"`
	DescriptionURL string `yaml:"description_url"`
}

// A Genome is an entry of genomes.txt.
type Genome struct {
	Assembly   string `yaml:"assembly"`
	DefaultPos string `yaml:"default_pos"`
}

// GenomesFile is the name of the genomes file referenced from hub.txt.
const GenomesFile = "genomes.txt"

// TrackDbPath returns the trackDb path of an assembly, relative to
// the hub directory.
func TrackDbPath(assembly string) string {
	return path.Join(assembly, "trackDb.txt")
}

// FormatHub renders hub.txt.
func FormatHub(info HubInfo) string {
	s := &Stanza{Fields: []Field{
		{"hub", info.Name},
		{"shortLabel", info.ShortLabel},
		{"longLabel", info.LongLabel},
		{"genomesFile", GenomesFile},
		{"email", info.Email},
		{"descriptionUrl", info.DescriptionURL},
	}}
	return s.Format()
}

// FormatGenomes renders genomes.txt.
func FormatGenomes(genomes []Genome) string {
	stanzas := make([]*Stanza, 0, len(genomes))
	for _, g := range genomes {
		stanzas = append(stanzas, &Stanza{Fields: []Field{
			{"genome", g.Assembly},
			{"trackDb", TrackDbPath(g.Assembly)},
			{"defaultPos", g.DefaultPos},
		}})
	}
	return FormatAll(stanzas)
}
