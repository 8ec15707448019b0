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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/exascience/trackhub/internal"
)

// A Source serves the useful experiments of an assay category.
type Source interface {
	UsefulExperiments(assembly, category string) ([]*Experiment, error)
}

// A Lookup serves the per-experiment annotations of an assembly.
type Lookup interface {
	AnnotationsForAssembly(assembly string) (map[string]Annotation, error)
}

// A RegulatorySource serves the regulatory element document of an
// assembly.
type RegulatorySource interface {
	RegulatoryData(assembly string) (*GlobalData, error)
}

// A Catalog is the complete metadata surface consumed by a build.
type Catalog interface {
	Source
	Lookup
	RegulatorySource
}

/*
JSONSource reads a metadata snapshot directory with the layout

	<root>/<assembly>/experiments/<category>.json
	<root>/<assembly>/annotations.json
	<root>/<assembly>/globalData.json

Experiment files hold a list of records that are mapped with
FromRecord. A missing category file yields no experiments, and a
missing annotations file yields no annotations.
*/
type JSONSource struct {
	Root string
	FS   internal.FS
}

// NewJSONSource returns a JSONSource on the operating system's file
// system.
func NewJSONSource(root string) *JSONSource {
	return &JSONSource{Root: root, FS: internal.OSFS{}}
}

func (src *JSONSource) readJSON(v interface{}, elem ...string) (bool, error) {
	name := filepath.Join(append([]string{src.Root}, elem...)...)
	data, err := src.FS.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w, while decoding %v", err, name)
	}
	return true, nil
}

func (src *JSONSource) UsefulExperiments(assembly, category string) ([]*Experiment, error) {
	var records []Record
	found, err := src.readJSON(&records, assembly, "experiments", category+".json")
	if err != nil {
		return nil, err
	}
	if !found {
		log.Printf("Warning: no %v experiments for %v in %v", category, assembly, src.Root)
		return nil, nil
	}
	return fromRecords(category, records)
}

func fromRecords(category string, records []Record) ([]*Experiment, error) {
	result := make([]*Experiment, 0, len(records))
	for _, r := range records {
		exp, err := FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("%w, while loading %v experiments", err, category)
		}
		if exp.AssayCategory == "" {
			exp.AssayCategory = category
		}
		result = append(result, exp)
	}
	return result, nil
}

func (src *JSONSource) AnnotationsForAssembly(assembly string) (map[string]Annotation, error) {
	annotations := make(map[string]Annotation)
	if _, err := src.readJSON(&annotations, assembly, "annotations.json"); err != nil {
		return nil, err
	}
	return annotations, nil
}

func (src *JSONSource) RegulatoryData(assembly string) (*GlobalData, error) {
	data := new(GlobalData)
	found, err := src.readJSON(data, assembly, "globalData.json")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w, while loading regulatory data for %v", fs.ErrNotExist, assembly)
	}
	return data, nil
}
