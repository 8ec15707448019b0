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

package experiments

import (
	"fmt"
	"strings"
)

// Assay categories as served by a Source.
const (
	CategoryDNase            = "dnase"
	CategoryHistone          = "chipseq_histone"
	CategoryTranscription    = "transcription"
	CategoryMicroRNASeq      = "microrna_seq"
	CategoryTF               = "chipseq_tf"
	CategoryATACSeq          = "atac_seq"
	CategoryRAMPAGE          = "rampage"
	CategoryRegulatoryRegion = "ccres"
)

// Categories lists the assay categories of experiment files in a
// snapshot. Regulatory element experiments come from their own
// document.
var Categories = []string{
	CategoryDNase,
	CategoryHistone,
	CategoryTranscription,
	CategoryMicroRNASeq,
	CategoryTF,
	CategoryATACSeq,
	CategoryRAMPAGE,
}

// A FileKind distinguishes the three classes of browser files.
type FileKind int

const (
	// SignalFile is a bigWig signal file.
	SignalFile FileKind = iota
	// RegionFile is a bigBed region file.
	RegionFile
	// RegulatoryElementFile is a bigBed file of candidate
	// regulatory elements.
	RegulatoryElementFile
)

var fileKindNames = [...]string{"signal", "region", "regulatory-element"}

func (k FileKind) String() string {
	if k < 0 || int(k) >= len(fileKindNames) {
		return fmt.Sprintf("FileKind(%d)", int(k))
	}
	return fileKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k FileKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(fileKindNames) {
		return nil, fmt.Errorf("invalid file kind %d", int(k))
	}
	return []byte(fileKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *FileKind) UnmarshalText(text []byte) error {
	kind, ok := ParseFileKind(string(text))
	if !ok {
		return fmt.Errorf("invalid file kind %q", text)
	}
	*k = kind
	return nil
}

/*
ParseFileKind accepts both the kind names and the file type names
used by experiment metadata ("bigWig", "bigBed narrowPeak", ...).
*/
func ParseFileKind(s string) (FileKind, bool) {
	switch {
	case s == "signal", s == "bigWig":
		return SignalFile, true
	case s == "region", strings.HasPrefix(s, "bigBed"):
		return RegionFile, true
	case s == "regulatory-element":
		return RegulatoryElementFile, true
	}
	return 0, false
}

// A File is a browser-loadable file of an experiment.
type File struct {
	ID           string   `json:"id"`
	ExperimentID string   `json:"experiment_id"`
	Kind         FileKind `json:"kind"`
	Assembly     string   `json:"assembly"`
	URL          string   `json:"url"`
	OutputType   string   `json:"output_type"`
	Pooled       bool     `json:"pooled"`
}

/*
An Experiment is an immutable experiment record. Experiments are
shared by pointer between the jobs of a run and must not be modified
after they have been loaded.
*/
type Experiment struct {
	ID                string   `json:"accession"`
	AssayCategory     string   `json:"assay_category"`
	AssayTermName     string   `json:"assay_term_name"`
	AssayTitle        string   `json:"assay_title"`
	BiosampleType     string   `json:"biosample_type"`
	BiosampleTermName string   `json:"biosample_term_name"`
	BiosampleSummary  string   `json:"biosample_summary"`
	Description       string   `json:"description"`
	DonorID           string   `json:"donor_id"`
	AgeDisplay        string   `json:"age_display"`
	DonorSex          string   `json:"donor_sex"`
	Target            string   `json:"target"`
	Label             string   `json:"label"`
	OrganSlims        []string `json:"organ_slims"`
	Files             []File   `json:"files"`
}

func (exp *Experiment) IsDNaseSeq() bool {
	return exp.AssayTermName == "DNase-seq"
}

// FilesFor returns the files of the given kind for the given assembly,
// in their original order.
func (exp *Experiment) FilesFor(assembly string, kind FileKind) (files []File) {
	for _, f := range exp.Files {
		if f.Kind == kind && f.Assembly == assembly {
			files = append(files, f)
		}
	}
	return files
}

/*
An Annotation carries the per-experiment lookup data: whether the
experiment is shown by default, and the regulatory element files
keyed by state type.
*/
type Annotation struct {
	Active      bool              `json:"active"`
	RegionFiles map[string]string `json:"region_files,omitempty"`
	CellType    string            `json:"cell_type,omitempty"`
}
