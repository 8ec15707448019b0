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

package hub

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/internal"
	"github.com/exascience/trackhub/schemes"
	"github.com/exascience/trackhub/trackdb"
	"github.com/exascience/trackhub/tracks"
)

// ErrMissingSubtracks is returned when a composite file disappeared
// between writing its subtracks and writing its header.
var ErrMissingSubtracks = errors.New("missing subtrack file")

// DefaultPriorityStride is the distance between the leaf priorities
// of consecutive composites.
const DefaultPriorityStride = 1000

// A FileState is the progress of a composite file.
type FileState int

const (
	Created FileState = iota
	SubtracksWritten
	CompositeWritten
)

func (s FileState) String() string {
	switch s {
	case Created:
		return "created"
	case SubtracksWritten:
		return "subtracks written"
	case CompositeWritten:
		return "composite written"
	}
	return "FileState(" + strconv.Itoa(int(s)) + ")"
}

/*
A Job describes the work for one composite track. Jobs only share
the registry, the tissue tables and the palette, whose colors are
assigned before any job runs.
*/
type Job struct {
	Assembly    string
	Group       *schemes.Group
	Policy      schemes.Policy
	Annotations map[string]experiments.Annotation
	Path        string
	Stride      int
	Tissues     *tracks.TissueResolver
	Palette     *tracks.PaletteAllocator
	FS          internal.FS
	Registry    *Registry
}

// A Result summarizes a finished job.
type Result struct {
	Group      *schemes.Group
	Tracks     int
	Skipped    int
	Active     bool
	Vocabulary trackdb.Vocabulary
	State      FileState
}

func leafRank(et *tracks.ExperimentTracks) int {
	switch {
	case et.DNase:
		return 1
	case et.AssayCategory == experiments.CategoryHistone && et.Label == "H3K4me3":
		return 2
	case et.AssayCategory == experiments.CategoryTF && et.Label == "CTCF",
		et.AssayCategory == experiments.CategoryHistone && et.Label == "H3K27ac":
		return 4
	}
	return 5
}

// sortLeaves orders DNase first, then H3K4me3, then CTCF and H3K27ac,
// then everything else by label.
func sortLeaves(all []*tracks.ExperimentTracks) {
	sort.SliceStable(all, func(i, j int) bool {
		ri, rj := leafRank(all[i]), leafRank(all[j])
		if ri != rj {
			return ri < rj
		}
		if all[i].Label != all[j].Label {
			return all[i].Label < all[j].Label
		}
		return all[i].ExperimentID < all[j].ExperimentID
	})
}

func sortOverview(all []*tracks.ExperimentTracks) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Tissue != all[j].Tissue {
			return all[i].Tissue < all[j].Tissue
		}
		if all[i].BiosampleTermName != all[j].BiosampleTermName {
			return all[i].BiosampleTermName < all[j].BiosampleTermName
		}
		return all[i].ExperimentID < all[j].ExperimentID
	})
}

/*
WriteSubtracks writes the stanzas of the given experiment tracks to
filename, in order, and returns the vocabulary of the leaf tracks and
their number. Leaves are numbered from 1; active leaves get
priorityStart plus their number as priority.
*/
func WriteSubtracks(fsys internal.FS, filename string, all []*tracks.ExperimentTracks, priorityStart int) (trackdb.Vocabulary, int, error) {
	vocabulary := make(trackdb.Vocabulary)
	var buf []byte
	counter := 0
	for _, et := range all {
		for _, t := range et.All() {
			if t.Kind != tracks.ViewTrack {
				counter++
				vocabulary.Merge(t.Facets)
			}
			buf = t.Stanza(priorityStart + counter).AppendTo(buf)
		}
	}
	if err := fsys.WriteFile(filename, buf); err != nil {
		return nil, 0, fmt.Errorf("%w, while writing subtracks to %v", err, filename)
	}
	return vocabulary, counter, nil
}

// CompositeStanza returns the header stanza of a group's composite.
func CompositeStanza(g *schemes.Group, policy schemes.Policy, active bool, vocabulary trackdb.Vocabulary) (*trackdb.Stanza, error) {
	short, long := schemes.CompositeLabels(g)
	s := trackdb.NewStanza(g.ID(), 0)
	s.Set("parent", g.SuperID())
	s.Set("compositeTrack", "on")
	if policy.CenterLabelsDense {
		s.Set("centerLabelsDense", "on")
	}
	if active {
		s.Set("visibility", trackdb.Full)
	}
	s.Set("shortLabel", short)
	if policy.Description {
		s.Set("description", long)
	}
	s.Set("longLabel", long)
	s.Set("type", "bigWig 9 +")
	s.Set("maxHeightPixels", "64:12:8")
	s.Set("autoScale", "on")
	facets := policy.Subgroups(g)
	for i, facet := range facets {
		declaration, err := vocabulary.Declaration(facet)
		if err != nil {
			return nil, fmt.Errorf("%w, while declaring subgroups of %v", err, g.ID())
		}
		s.Set("subGroup"+strconv.Itoa(i+1), declaration)
	}
	s.Set("sortOrder", string(facets[0])+"=+ "+string(facets[1])+"=+ "+string(facets[2])+"=+")
	s.Set("dimensions", "dimX="+string(facets[1])+" dimY="+string(facets[0]))
	s.Set("dragAndDrop", "subTracks")
	s.Set("hoverMetadata", "on")
	s.Set("darkerLabels", "on")
	return s, nil
}

// WriteComposite prepends the composite header to the subtracks
// already written to filename.
func WriteComposite(fsys internal.FS, filename string, header *trackdb.Stanza) error {
	subtracks, err := fsys.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w %v, while writing composite %v", ErrMissingSubtracks, filename, header.ID())
	} else if err != nil {
		return fmt.Errorf("%w, while reading back %v", err, filename)
	}
	buf := header.AppendTo(nil)
	buf = append(buf, subtracks...)
	if err := fsys.WriteFile(filename, buf); err != nil {
		return fmt.Errorf("%w, while writing composite %v", err, header.ID())
	}
	return nil
}

func claimIDs(registry *Registry, g *schemes.Group, all []*tracks.ExperimentTracks) error {
	if registry == nil {
		return nil
	}
	owner := string(g.Scheme) + "/" + g.ID()
	if err := registry.Claim(g.ID(), owner); err != nil {
		return err
	}
	for _, et := range all {
		for _, t := range et.All() {
			if err := registry.Claim(t.ID, owner); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunJob builds, orders and writes the tracks of one composite.
func RunJob(job *Job) (*Result, error) {
	g := job.Group
	result := &Result{Group: g, State: Created}
	for _, exp := range g.Members {
		if job.Annotations[exp.ID].Active {
			result.Active = true
			break
		}
	}
	builder := &tracks.Builder{
		Assembly:  job.Assembly,
		Composite: tracks.Parent{ID: g.ID(), On: result.Active},
		Tissues:   job.Tissues,
		Palette:   job.Palette,
	}
	all, err := builder.BuildAll(g.Members, job.Annotations, g.Overview)
	if err != nil {
		return result, fmt.Errorf("%w, while building composite %v", err, g.ID())
	}
	if g.Overview {
		sortOverview(all)
	} else {
		sortLeaves(all)
	}
	for _, et := range all {
		result.Skipped += et.Skipped
	}
	if err := claimIDs(job.Registry, g, all); err != nil {
		return result, fmt.Errorf("%w, while building composite %v", err, g.ID())
	}
	stride := job.Stride
	if stride <= 0 {
		stride = DefaultPriorityStride
	}
	if err := job.FS.MkdirAll(filepath.Dir(job.Path)); err != nil {
		return result, fmt.Errorf("%w, while creating the directory of %v", err, job.Path)
	}
	result.Vocabulary, result.Tracks, err = WriteSubtracks(job.FS, job.Path, all, g.Ordinal*stride)
	if err != nil {
		return result, err
	}
	result.State = SubtracksWritten
	header, err := CompositeStanza(g, job.Policy, result.Active, result.Vocabulary)
	if err != nil {
		return result, err
	}
	if err := WriteComposite(job.FS, job.Path, header); err != nil {
		return result, err
	}
	result.State = CompositeWritten
	return result, nil
}
