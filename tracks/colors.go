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
	"strings"

	"github.com/exascience/trackhub/experiments"
)

const defaultColor = "0,0,0"

var labelColors = map[string]string{
	"H3K4me3":  "255,0,0",
	"H3K27ac":  "255,205,0",
	"H3K4me1":  "255,255,0",
	"H3K36me3": "0,128,0",
	"H3K27me3": "174,174,174",
	"H3K9me3":  "0,0,255",
	"CTCF":     "0,176,240",
	"POLR2A":   "128,0,128",
}

var assayColors = map[string]string{
	"DNase-seq":    "6,218,147",
	"ATAC-seq":     "6,218,147",
	"RNA-seq":      "0,170,0",
	"microRNA-seq": "0,130,70",
	"RAMPAGE":      "214,66,202",
}

/*
Colorize returns the fixed color of an experiment: by its factor label
when the label has a color of its own, otherwise by its assay.
*/
func Colorize(exp *experiments.Experiment) string {
	if c, ok := labelColors[strings.TrimSpace(exp.Label)]; ok {
		return c
	}
	if c, ok := assayColors[exp.AssayTermName]; ok {
		return c
	}
	return defaultColor
}
