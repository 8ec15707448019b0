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

package tracks

import (
	"log"
	"sort"
	"strings"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/trackdb"
)

// TissueTables are the exception lists of one assembly.
type TissueTables struct {
	Organs      map[string]string `yaml:"organs"`
	Biosamples  map[string]string `yaml:"biosamples"`
	Experiments map[string]string `yaml:"experiments"`
}

// DefaultTissueTables returns the built-in exception lists for hg19
// and mm10.
func DefaultTissueTables() map[string]TissueTables {
	experimentTissues := map[string]string{
		"ENCSR626RVD": "brain",
		"ENCSR820WLP": "stem cells",
	}
	return map[string]TissueTables{
		"hg19": {
			Organs: map[string]string{},
			Biosamples: map[string]string{
				"A549":         "lung",
				"GM12878":      "blood",
				"H1-hESC":      "stem cells",
				"HeLa-S3":      "uterus",
				"HepG2":        "liver",
				"HUVEC":        "blood vessel",
				"IMR-90":       "lung",
				"K562":         "blood",
				"MCF-7":        "breast",
				"SK-N-SH":      "brain",
				"keratinocyte": "skin",
			},
			Experiments: experimentTissues,
		},
		"mm10": {
			Organs: map[string]string{
				"small intestine": "intestine",
				"large intestine": "intestine",
				"bone element":    "bone",
			},
			Biosamples: map[string]string{
				"C2C12":         "muscle",
				"CH12.LX":       "blood",
				"E14TG2a.4":     "stem cells",
				"ES-Bruce4":     "stem cells",
				"MEL cell line": "blood",
			},
			Experiments: experimentTissues,
		},
	}
}

// A TissueResolver derives the tissue of an experiment through
// per-assembly exception lists.
type TissueResolver struct {
	Tables map[string]TissueTables
}

func NewTissueResolver(tables map[string]TissueTables) *TissueResolver {
	return &TissueResolver{Tables: tables}
}

const erythroidSuffix = "erythroid progenitor cells"

func (r *TissueResolver) lookup(assembly string, exp *experiments.Experiment) string {
	tables := r.Tables[assembly]
	if len(exp.OrganSlims) > 0 {
		organs := append([]string(nil), exp.OrganSlims...)
		sort.Strings(organs)
		if t, ok := tables.Organs[organs[0]]; ok {
			return t
		}
	}
	if t, ok := tables.Biosamples[exp.BiosampleTermName]; ok {
		return t
	}
	if t, ok := tables.Biosamples[exp.BiosampleSummary]; ok {
		return t
	}
	if strings.HasSuffix(exp.BiosampleSummary, erythroidSuffix) {
		return "blood"
	}
	return tables.Experiments[exp.ID]
}

/*
Tissue returns the tissue of an experiment. It consults, in order, the
organ table with the first organ slim in sorted order, the biosample
table with the biosample term name and then the biosample summary, the
erythroid progenitor rule, and the experiment table. When none of them
applies, it logs a warning and falls back to the biosample term name.
*/
func (r *TissueResolver) Tissue(assembly string, exp *experiments.Experiment) string {
	if t := strings.TrimSpace(r.lookup(assembly, exp)); t != "" {
		return t
	}
	log.Printf("Warning: no tissue assignment for %v %v (%v), using the biosample term name", assembly, exp.ID, exp.BiosampleTermName)
	return trackdb.GetOrUnknown(strings.TrimSpace(exp.BiosampleTermName))
}
