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
	"log"
	"sort"
	"strings"
)

// A CellTypeExperiment is an entry of the byCellType table of a
// regulatory data document.
type CellTypeExperiment struct {
	ExpID            string `json:"expID"`
	FileID           string `json:"fileID"`
	Assay            string `json:"assay"`
	CellTypeDesc     string `json:"cellTypeDesc"`
	BiosampleSummary string `json:"biosample_summary"`
	BiosampleType    string `json:"biosample_type"`
}

// GlobalData is the per-assembly regulatory element document.
type GlobalData struct {
	ByCellType           map[string][]CellTypeExperiment `json:"byCellType"`
	CREBigBedsByCellType map[string]map[string]string   `json:"creBigBedsByCellType"`
}

// RegulatorySignalOutputType is the output type of the signal files
// synthesized for regulatory element experiments.
const RegulatorySignalOutputType = "fold change over control"

// check reports the first required field that an entry lacks.
func (info *CellTypeExperiment) check() error {
	for _, f := range []struct{ name, value string }{
		{"expID", info.ExpID},
		{"fileID", info.FileID},
		{"cellTypeDesc", info.CellTypeDesc},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &MissingFieldError{Accession: info.ExpID, Field: f.name}
		}
	}
	return nil
}

func signalURL(fileID string) string {
	return "https://www.encodeproject.org/files/" + fileID + "/@@download/" + fileID + ".bigWig"
}

/*
RegulatoryExperiments maps the cell type tables of a regulatory data
document to experiments and annotations.

Cell types are visited in sorted order. An experiment id that was
already seen under another cell type is skipped with a warning, and so
is a cell type that ends up without experiments. The first experiment
of a cell type carries that cell type's regulatory element files. An
annotation is active iff its cell type is in the active list. An
entry without an experiment id, file id or cell type description is
an error.
*/
func RegulatoryExperiments(assembly string, data *GlobalData, active []string) ([]*Experiment, map[string]Annotation, error) {
	isActive := make(map[string]bool, len(active))
	for _, ct := range active {
		isActive[ct] = true
	}
	cellTypes := make([]string, 0, len(data.ByCellType))
	for ct := range data.ByCellType {
		cellTypes = append(cellTypes, ct)
	}
	sort.Strings(cellTypes)

	seen := make(map[string]bool)
	var result []*Experiment
	annotations := make(map[string]Annotation)
	for _, ct := range cellTypes {
		var ctExps []*Experiment
		for _, info := range data.ByCellType[ct] {
			if err := info.check(); err != nil {
				return nil, nil, fmt.Errorf("%w, while mapping the regulatory experiments of cell type %v", err, ct)
			}
			if seen[info.ExpID] {
				log.Printf("Warning: skipping duplicate regulatory experiment %v of cell type %v", info.ExpID, ct)
				continue
			}
			seen[info.ExpID] = true
			ctExps = append(ctExps, &Experiment{
				ID:                info.ExpID,
				AssayCategory:     CategoryRegulatoryRegion,
				AssayTermName:     info.Assay,
				BiosampleType:     info.BiosampleType,
				BiosampleTermName: info.CellTypeDesc,
				BiosampleSummary:  info.BiosampleSummary,
				Description:       info.CellTypeDesc,
				DonorID:           info.ExpID,
				Target:            info.Assay,
				Label:             info.Assay,
				Files: []File{{
					ID:           info.FileID,
					ExperimentID: info.ExpID,
					Kind:         SignalFile,
					Assembly:     assembly,
					URL:          signalURL(info.FileID),
					OutputType:   RegulatorySignalOutputType,
					Pooled:       true,
				}},
			})
		}
		if len(ctExps) == 0 {
			log.Printf("Warning: no experiments for cell type %v", ct)
			continue
		}
		regions := data.CREBigBedsByCellType[ct]
		if len(regions) == 0 {
			log.Printf("Warning: no regulatory element files for cell type %v", ct)
		}
		for i, exp := range ctExps {
			annotation := Annotation{Active: isActive[ct], CellType: ct}
			if i == 0 && len(regions) > 0 {
				annotation.RegionFiles = make(map[string]string, len(regions))
				for stateType, accession := range regions {
					annotation.RegionFiles[stateType] = accession
				}
			}
			annotations[exp.ID] = annotation
		}
		result = append(result, ctExps...)
	}
	return result, annotations, nil
}
