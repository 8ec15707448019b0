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

package schemes

import "github.com/exascience/trackhub/experiments"

/*
An Entry is one super track of the assay or factor scheme, fed by one
assay category.
*/
type Entry struct {
	Title      string   `yaml:"title"`
	Key        string   `yaml:"key"`
	LongLabel  string   `yaml:"long_label"`
	Category   string   `yaml:"category"`
	ShowAll    bool     `yaml:"show_all"`
	Assemblies []string `yaml:"assemblies"`
}

// AvailableFor tells whether the entry applies to an assembly. An
// entry without assemblies applies to all of them.
func (e Entry) AvailableFor(assembly string) bool {
	if len(e.Assemblies) == 0 {
		return true
	}
	for _, a := range e.Assemblies {
		if a == assembly {
			return true
		}
	}
	return false
}

// A Catalogue configures the four schemes.
type Catalogue struct {
	Assays              []Entry  `yaml:"assays"`
	Factors             []Entry  `yaml:"factors"`
	BiosampleCategories []string `yaml:"biosample_categories"`
	ActiveBiosamples    []string `yaml:"active_biosamples"`
	RegulatoryLabel     string   `yaml:"regulatory_label"`
}

// DefaultCatalogue returns the built-in catalogue.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		Assays: []Entry{
			{Title: "DNase-seq", Key: "dnase", LongLabel: "DNase-seq", Category: experiments.CategoryDNase, ShowAll: true},
			{Title: "Histone by Biosample", Key: "histone_modifications", LongLabel: "Histone modifications and variants", Category: experiments.CategoryHistone},
			{Title: "RNA-seq", Key: "transcription", LongLabel: "RNA-seq", Category: experiments.CategoryTranscription, ShowAll: true},
			{Title: "microRNA-seq", Key: "microRNAseq", LongLabel: "microRNA-seq", Category: experiments.CategoryMicroRNASeq, ShowAll: true},
			{Title: "TFs by Biosample Type", Key: "transcription_factors", LongLabel: "Transcription Factors", Category: experiments.CategoryTF},
			{Title: "ATAC-seq", Key: "atac_seq", LongLabel: "ATAC-seq", Category: experiments.CategoryATACSeq, ShowAll: true, Assemblies: []string{"mm10"}},
			{Title: "RAMPAGE", Key: "rampage", LongLabel: "RAMPAGE", Category: experiments.CategoryRAMPAGE, ShowAll: true, Assemblies: []string{"hg19"}},
		},
		Factors: []Entry{
			{Title: "TFs by Factor", Key: "tf_factors", LongLabel: "TFs by Factor", Category: experiments.CategoryTF},
			{Title: "Histone by Mark", Key: "hm_by_marks", LongLabel: "Histone by Mark", Category: experiments.CategoryHistone},
		},
		BiosampleCategories: []string{
			experiments.CategoryDNase,
			experiments.CategoryHistone,
			experiments.CategoryTranscription,
			experiments.CategoryMicroRNASeq,
			experiments.CategoryTF,
			experiments.CategoryATACSeq,
			experiments.CategoryRAMPAGE,
		},
		ActiveBiosamples: []string{
			"hepatocyte_derived_from_H9",
			"bipolar_spindle_neuron_derived_from_induced_pluripotent_stem_cell",
			"B_cell_adult",
		},
		RegulatoryLabel: "candidate cis-Regulatory Regions",
	}
}

// Categories returns the assay categories a plan of the given schemes
// needs for an assembly, in first-use order.
func (c Catalogue) Categories(assembly string, names []Name) []string {
	var categories []string
	seen := make(map[string]bool)
	add := func(category string) {
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}
	for _, name := range names {
		switch name {
		case Factor:
			for _, e := range c.Factors {
				if e.AvailableFor(assembly) {
					add(e.Category)
				}
			}
		case Assay:
			for _, e := range c.Assays {
				if e.AvailableFor(assembly) {
					add(e.Category)
				}
			}
		case Biosample:
			for _, category := range c.BiosampleCategories {
				add(category)
			}
		}
	}
	return categories
}
