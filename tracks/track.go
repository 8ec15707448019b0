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
	"strconv"

	"github.com/exascience/trackhub/trackdb"
)

// A Kind distinguishes leaf tracks and view containers.
type Kind int

const (
	SignalTrack Kind = iota
	RegionTrack
	RegulatoryElementTrack
	ViewTrack
)

func (k Kind) String() string {
	switch k {
	case SignalTrack:
		return "signal"
	case RegionTrack:
		return "region"
	case RegulatoryElementTrack:
		return "regulatory-element"
	case ViewTrack:
		return "view"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// A Parent references the container of a track.
type Parent struct {
	ID string
	On bool
}

// Param renders the value of a parent field.
func (p Parent) Param(on bool) string {
	if on {
		return p.ID + " on"
	}
	return p.ID + " off"
}

// Initials returns the track id prefix derived from the parent id.
func (p Parent) Initials() string {
	initials := p.ID
	if len(initials) > 3 {
		initials = initials[:3]
	}
	return initials + "_"
}

/*
A Track is a leaf track or a view container. Its attributes are
complete except for the priority, which depends on the position of the
track in its composite and is added by Stanza.
*/
type Track struct {
	Kind         Kind
	ID           string
	ExperimentID string
	Parent       Parent
	Active       bool
	Visibility   string
	Color        string
	Attributes   *trackdb.Stanza
	Facets       map[trackdb.Facet]trackdb.FacetValue
}

// Stanza returns the attributes of the track, with a priority field
// for active tracks.
func (t *Track) Stanza(priority int) *trackdb.Stanza {
	s := &trackdb.Stanza{Indent: t.Attributes.Indent, Fields: append([]trackdb.Field(nil), t.Attributes.Fields...)}
	if t.Active && t.Kind != ViewTrack {
		s.Set("priority", strconv.Itoa(priority))
	}
	return s
}

/*
ExperimentTracks are the tracks built for one experiment: its signal
tracks, and the region and regulatory element tracks that live in its
view container. View is nil when there are no such tracks.
*/
type ExperimentTracks struct {
	ExperimentID      string
	AssayCategory     string
	Label             string
	DNase             bool
	Tissue            string
	BiosampleTermName string
	Signals           []*Track
	View              *Track
	Regions           []*Track
	Skipped           int
}

// All returns the tracks in emission order.
func (et *ExperimentTracks) All() []*Track {
	all := make([]*Track, 0, len(et.Signals)+len(et.Regions)+1)
	all = append(all, et.Signals...)
	if et.View != nil {
		all = append(all, et.View)
		all = append(all, et.Regions...)
	}
	return all
}
