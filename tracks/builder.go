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
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/trackdb"
	"github.com/exascience/trackhub/utils"
)

// ActiveStateType is the only regulatory element state type whose
// tracks are shown by default.
const ActiveStateType = "5group"

const signalView = "bigWig"

/*
A Builder turns the experiments of one composite into tracks. A
Builder is used by a single group job and only reads shared state:
the tissue tables and the palette colors assigned before the jobs
started.
*/
type Builder struct {
	Assembly  string
	Composite Parent
	Tissues   *TissueResolver
	Palette   *PaletteAllocator
}

func proxied(url string) string {
	if strings.Contains(url, "www.encodeproject.org") && !strings.HasSuffix(url, "?proxy=true") {
		return url + "?proxy=true"
	}
	return url
}

func regulatoryElementURL(accession string) string {
	return "https://www.encodeproject.org/files/" + accession + "/@@download/" + accession + ".bigBed?proxy=true"
}

func description(exp *experiments.Experiment, outputType string) string {
	desc := []string{exp.ID}
	switch {
	case strings.TrimSpace(exp.BiosampleSummary) != "":
		desc = append(desc, trackdb.Sanitize(strings.TrimSpace(exp.BiosampleSummary)))
	case exp.Description != "":
		desc = append(desc, exp.Description)
	default:
		desc = append(desc, exp.AssayTermName)
		if exp.Label != "" {
			desc = append(desc, exp.Label)
		}
		if exp.AgeDisplay != "" && exp.AgeDisplay != trackdb.Unknown {
			desc = append(desc, exp.AgeDisplay)
		}
	}
	desc = append(desc, "("+outputType+")")
	return strings.Join(desc, " ")
}

func joinNonBlank(parts ...string) string {
	var nonBlank []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonBlank = append(nonBlank, p)
		}
	}
	return strings.Join(nonBlank, " ")
}

func facetValue(raw string) trackdb.FacetValue {
	return trackdb.FacetValue{Raw: raw, Label: raw}
}

func ageFacet(exp *experiments.Experiment) trackdb.FacetValue {
	age := trackdb.GetOrUnknown(exp.AgeDisplay)
	return trackdb.FacetValue{Raw: "a" + trackdb.Sanitize(age), Label: age}
}

// facets returns the facet values an experiment's file tracks
// contribute to their composite's vocabulary.
func facets(exp *experiments.Experiment, view string) map[trackdb.Facet]trackdb.FacetValue {
	assay := exp.AssayTermName
	if assay == "RNA-seq" && exp.AssayTitle != "" {
		assay = exp.AssayTitle
	}
	summary := trackdb.ASCII(trackdb.GetOrUnknown(exp.BiosampleSummary))
	return map[trackdb.Facet]trackdb.FacetValue{
		trackdb.Donor:            facetValue(trackdb.GetOrUnknown(exp.DonorID)),
		trackdb.Assay:            facetValue(trackdb.GetOrUnknown(assay)),
		trackdb.Label:            facetValue(trackdb.GetOrUnknown(exp.Label)),
		trackdb.TargetLabel:      facetValue(trackdb.GetOrUnknown(joinNonBlank(exp.AssayTermName, exp.Target, exp.Label))),
		trackdb.Biosample:        facetValue(trackdb.GetOrUnknown(exp.BiosampleTermName)),
		trackdb.BiosampleSummary: facetValue(summary),
		trackdb.Age:              ageFacet(exp),
		trackdb.Sex:              facetValue(trackdb.GetOrUnknown(exp.DonorSex)),
		trackdb.AgeSex:           facetValue(trackdb.GetOrUnknown(joinNonBlank(exp.AgeDisplay, exp.DonorSex))),
		trackdb.View:             facetValue(view),
	}
}

func regulatoryFacets(exp *experiments.Experiment, stateType string) map[trackdb.Facet]trackdb.FacetValue {
	biosample := facetValue(trackdb.GetOrUnknown(exp.BiosampleTermName))
	return map[trackdb.Facet]trackdb.FacetValue{
		trackdb.Donor:            facetValue(trackdb.GetOrUnknown(exp.DonorID)),
		trackdb.Assay:            facetValue(trackdb.GetOrUnknown(stateType)),
		trackdb.Label:            facetValue(trackdb.GetOrUnknown(exp.Label)),
		trackdb.TargetLabel:      facetValue(trackdb.GetOrUnknown(stateType)),
		trackdb.Biosample:        biosample,
		trackdb.BiosampleSummary: biosample,
		trackdb.Age:              ageFacet(exp),
		trackdb.View:             facetValue(exp.ID),
	}
}

func subGroups(values map[trackdb.Facet]trackdb.FacetValue) string {
	m := make(utils.StringMap, len(values))
	for facet, value := range values {
		if value.Raw != "" {
			m[string(facet)] = value.Key()
		}
	}
	return m.Unroll()
}

func metadata(exp *experiments.Experiment, desc, view string) string {
	return utils.StringMap{
		"age":         trackdb.Sanitize(trackdb.GetOrUnknown(exp.AgeDisplay)),
		"sex":         trackdb.Sanitize(trackdb.GetOrUnknown(exp.DonorSex)),
		"accession":   exp.ID,
		"description": trackdb.Sanitize(desc),
		"donor":       trackdb.Sanitize(trackdb.GetOrUnknown(exp.DonorID)),
		"view":        view,
	}.Unroll()
}

func (b *Builder) signalTrack(exp *experiments.Experiment, f experiments.File, active bool) *Track {
	values := facets(exp, signalView)
	desc := description(exp, f.OutputType)
	t := &Track{
		Kind:         SignalTrack,
		ID:           b.Composite.Initials() + trackdb.Sanitize(exp.ID+"_"+f.ID),
		ExperimentID: exp.ID,
		Parent:       b.Composite,
		Active:       active,
		Visibility:   trackdb.Viz(trackdb.Full, active),
		Color:        Colorize(exp),
		Facets:       values,
	}
	s := trackdb.NewStanza(t.ID, 1)
	s.Set("parent", b.Composite.Param(active))
	s.Set("subGroups", subGroups(values))
	s.Set("bigDataUrl", proxied(f.URL))
	s.Set("visibility", t.Visibility)
	s.Set("type", "bigWig")
	s.Set("color", t.Color)
	s.Set("maxHeightPixels", "64:12:8")
	s.Set("shortLabel", trackdb.ShortLabel(exp.AssayTermName, exp.Label))
	s.Set("longLabel", trackdb.LongLabel(exp.AssayTermName+" "+desc))
	s.Set("itemRgb", "On")
	s.Set("darkerLabels", "on")
	s.Set("metadata", metadata(exp, desc, signalView))
	s.Set("view", signalView)
	t.Attributes = s
	return t
}

func (b *Builder) viewTrack(exp *experiments.Experiment, active bool) *Track {
	t := &Track{
		Kind:         ViewTrack,
		ID:           b.Composite.ID + "_view_" + exp.ID,
		ExperimentID: exp.ID,
		Parent:       b.Composite,
		Active:       active,
		Visibility:   trackdb.Dense,
	}
	s := trackdb.NewStanza(t.ID, 1)
	s.Set("parent", b.Composite.Param(active))
	s.Set("view", exp.ID)
	s.Set("visibility", trackdb.Dense)
	s.Set("type", "bigBed")
	t.Attributes = s
	return t
}

func (b *Builder) regionTrack(exp *experiments.Experiment, f experiments.File, view Parent, active bool) *Track {
	values := facets(exp, exp.ID)
	desc := description(exp, f.OutputType)
	t := &Track{
		Kind:         RegionTrack,
		ID:           view.Initials() + trackdb.Sanitize(exp.ID+"_"+f.ID),
		ExperimentID: exp.ID,
		Parent:       view,
		Active:       active,
		Visibility:   trackdb.Viz(trackdb.Dense, active),
		Color:        Colorize(exp),
		Facets:       values,
	}
	s := trackdb.NewStanza(t.ID, 2)
	s.Set("parent", view.Param(view.On))
	s.Set("subGroups", subGroups(values))
	s.Set("bigDataUrl", proxied(f.URL))
	s.Set("visibility", t.Visibility)
	s.Set("type", "bigBed")
	s.Set("shortLabel", trackdb.ShortLabel(exp.AssayTermName, exp.Label))
	s.Set("longLabel", trackdb.LongLabel(desc))
	s.Set("itemRgb", "On")
	s.Set("color", t.Color)
	s.Set("darkerLabels", "on")
	s.Set("metadata", metadata(exp, desc, exp.ID))
	s.Set("view", exp.ID)
	t.Attributes = s
	return t
}

func (b *Builder) regulatoryElementTrack(exp *experiments.Experiment, stateType, accession string, view Parent, active bool) *Track {
	values := regulatoryFacets(exp, stateType)
	desc := accession + " " + stateType + " " + exp.Description
	t := &Track{
		Kind:         RegulatoryElementTrack,
		ID:           view.Initials() + trackdb.Sanitize(exp.ID+"_"+accession),
		ExperimentID: exp.ID,
		Parent:       view,
		Active:       active && stateType == ActiveStateType,
		Facets:       values,
	}
	t.Visibility = trackdb.Viz(trackdb.Dense, t.Active)
	s := trackdb.NewStanza(t.ID, 2)
	s.Set("parent", view.Param(view.On))
	s.Set("subGroups", subGroups(values))
	s.Set("bigDataUrl", regulatoryElementURL(accession))
	s.Set("visibility", t.Visibility)
	s.Set("type", "bigBed 9")
	s.Set("shortLabel", trackdb.ShortLabel(exp.AssayTermName, exp.Label))
	s.Set("longLabel", trackdb.LongLabel(desc))
	s.Set("itemRgb", "On")
	s.Set("darkerLabels", "on")
	s.Set("metadata", metadata(exp, desc, exp.ID))
	s.Set("view", exp.ID)
	t.Attributes = s
	return t
}

func newExperimentTracks(exp *experiments.Experiment) *ExperimentTracks {
	return &ExperimentTracks{
		ExperimentID:      exp.ID,
		AssayCategory:     exp.AssayCategory,
		Label:             exp.Label,
		DNase:             exp.IsDNaseSeq(),
		BiosampleTermName: exp.BiosampleTermName,
	}
}

/*
Build returns the tracks of an experiment: its preferred signal track,
its preferred region track, and one regulatory element track per
distinct accession in the annotation, in state type order. The region
and regulatory element tracks are placed in a view container. An
experiment without a usable signal file is logged and counted as
skipped.
*/
func (b *Builder) Build(exp *experiments.Experiment, annotation *experiments.Annotation) (*ExperimentTracks, error) {
	active := annotation != nil && annotation.Active
	et := newExperimentTracks(exp)
	if f, ok := SelectSignalFile(b.Assembly, exp); ok {
		et.Signals = append(et.Signals, b.signalTrack(exp, f, active))
	} else {
		log.Printf("Warning: no usable signal file for %v in %v", exp.ID, b.Assembly)
		et.Skipped++
	}
	view := Parent{ID: b.Composite.ID + "_view_" + exp.ID, On: b.Composite.On}
	if f, ok := SelectRegionFile(b.Assembly, exp); ok {
		et.Regions = append(et.Regions, b.regionTrack(exp, f, view, active))
	}
	if annotation != nil && len(annotation.RegionFiles) > 0 {
		stateTypes := make([]string, 0, len(annotation.RegionFiles))
		for stateType := range annotation.RegionFiles {
			stateTypes = append(stateTypes, stateType)
		}
		sort.Strings(stateTypes)
		seen := make(map[string]bool, len(stateTypes))
		for _, stateType := range stateTypes {
			accession := annotation.RegionFiles[stateType]
			if accession == "" || seen[accession] {
				continue
			}
			seen[accession] = true
			et.Regions = append(et.Regions, b.regulatoryElementTrack(exp, stateType, accession, view, active))
		}
	}
	if len(et.Regions) > 0 {
		et.View = b.viewTrack(exp, active)
	}
	return et, nil
}

/*
BuildOverview returns the overview track of an experiment for a
combined "all data" composite: its preferred signal track, colored and
labeled by tissue.
*/
func (b *Builder) BuildOverview(exp *experiments.Experiment, annotation *experiments.Annotation) (*ExperimentTracks, error) {
	active := annotation != nil && annotation.Active
	et := newExperimentTracks(exp)
	et.Tissue = b.Tissues.Tissue(b.Assembly, exp)
	f, ok := SelectSignalFile(b.Assembly, exp)
	if !ok {
		log.Printf("Warning: no usable signal file for %v in %v", exp.ID, b.Assembly)
		et.Skipped++
		return et, nil
	}
	color, err := b.Palette.ColorFor(et.Tissue)
	if err != nil {
		return nil, err
	}
	t := b.signalTrack(exp, f, active)
	t.ID = "all_" + t.ID
	t.Color = color
	t.Attributes.Set("track", t.ID)
	t.Attributes.Set("color", color)
	t.Attributes.Set("maxHeightPixels", "32:12:8")
	t.Attributes.Set("shortLabel", trackdb.ShortLabel(et.Tissue))
	et.Signals = append(et.Signals, t)
	return et, nil
}

/*
BuildAll builds the tracks of all experiments of a composite, in
member order. With overview set, every experiment contributes its
overview track instead. Annotations are looked up by experiment id.
*/
func (b *Builder) BuildAll(exps []*experiments.Experiment, annotations map[string]experiments.Annotation, overview bool) ([]*ExperimentTracks, error) {
	all := make([]*ExperimentTracks, 0, len(exps))
	for _, exp := range exps {
		var annotation *experiments.Annotation
		if a, ok := annotations[exp.ID]; ok {
			annotation = &a
		}
		var et *ExperimentTracks
		var err error
		if overview {
			et, err = b.BuildOverview(exp, annotation)
		} else {
			et, err = b.Build(exp, annotation)
		}
		if err != nil {
			return nil, fmt.Errorf("%w, while building tracks for %v", err, exp.ID)
		}
		all = append(all, et)
	}
	return all, nil
}
