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

import "github.com/exascience/trackhub/experiments"

// SignalPreference orders the output types of usable signal files,
// best first.
var SignalPreference = []string{
	"fold change over control",
	"signal of unique reads",
	"plus strand signal of unique reads",
	"minus strand signal of unique reads",
	"read-depth normalized signal",
	"signal of all reads",
	"plus strand signal of all reads",
	"minus strand signal of all reads",
	"raw signal",
	"signal p-value",
	"signal",
}

// RegionPreference orders the output types of usable region files,
// best first.
var RegionPreference = []string{
	"optimal idr thresholded peaks",
	"conservative idr thresholded peaks",
	"replicated peaks",
	"pseudo-replicated peaks",
	"stable peaks",
	"peaks",
	"hotspots",
	"transcription start sites",
}

func rank(preference []string, outputType string) int {
	for i, p := range preference {
		if p == outputType {
			return i
		}
	}
	return -1
}

/*
selectFile returns the file of the given kind and assembly whose
output type comes first in the preference list. Pooled files win over
replicate files of the same output type, and otherwise the earlier
file wins.
*/
func selectFile(assembly string, exp *experiments.Experiment, kind experiments.FileKind, preference []string) (best experiments.File, ok bool) {
	bestRank := len(preference)
	for _, f := range exp.FilesFor(assembly, kind) {
		r := rank(preference, f.OutputType)
		if r < 0 {
			continue
		}
		if r < bestRank || (r == bestRank && f.Pooled && !best.Pooled) {
			best, bestRank, ok = f, r, true
		}
	}
	return best, ok
}

// SelectSignalFile returns the preferred signal file of an
// experiment.
func SelectSignalFile(assembly string, exp *experiments.Experiment) (experiments.File, bool) {
	return selectFile(assembly, exp, experiments.SignalFile, SignalPreference)
}

/*
SelectRegionFile returns the preferred region file of an experiment.
Only one region track per experiment is supported, even when several
region files would qualify.
*/
func SelectRegionFile(assembly string, exp *experiments.Experiment) (experiments.File, bool) {
	return selectFile(assembly, exp, experiments.RegionFile, RegionPreference)
}
