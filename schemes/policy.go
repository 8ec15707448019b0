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

import "github.com/exascience/trackhub/trackdb"

// Axes are the first two subgroup dimensions of a composite. The
// third dimension is always the view.
type Axes [2]trackdb.Facet

/*
A Policy holds the per-scheme rendering rules: which subgroup axes a
composite uses, and which optional lines its super and composite
stanzas carry.
*/
type Policy struct {
	// CenterLabelsDense adds "centerLabelsDense on" to composites.
	CenterLabelsDense bool
	// Description adds a description line to supers and composites.
	Description bool
	// ShowSuper renders "superTrack on show".
	ShowSuper bool

	bySuper  map[string]Axes
	overview Axes
	fallback Axes
}

var defaultAxes = Axes{trackdb.Donor, trackdb.Age}

// Policies is the policy table of all schemes.
var Policies = map[Name]Policy{
	CCREs: {
		ShowSuper: true,
		fallback:  Axes{trackdb.Biosample, trackdb.Assay},
	},
	Factor: {
		CenterLabelsDense: true,
		Description:       true,
		fallback:          Axes{trackdb.Biosample, trackdb.AgeSex},
	},
	Assay: {
		CenterLabelsDense: true,
		bySuper: map[string]Axes{
			"dnase":                 {trackdb.Biosample, trackdb.Age},
			"atac_seq":              {trackdb.Biosample, trackdb.Age},
			"histone_modifications": {trackdb.Biosample, trackdb.Label},
			"transcription_factors": {trackdb.Biosample, trackdb.Label},
			"transcription":         {trackdb.Biosample, trackdb.Assay},
			"rampage":               {trackdb.Biosample, trackdb.Assay},
			"microRNAseq":           {trackdb.Biosample, trackdb.Assay},
		},
		overview: Axes{trackdb.Biosample, trackdb.AgeSex},
		fallback: defaultAxes,
	},
	Biosample: {
		ShowSuper: true,
		bySuper: map[string]Axes{
			"cell_line": {trackdb.Label, trackdb.Assay},
		},
		fallback: defaultAxes,
	},
}

// PolicyFor returns the policy of a scheme.
func PolicyFor(name Name) Policy {
	if p, ok := Policies[name]; ok {
		return p
	}
	return Policy{fallback: defaultAxes}
}

// Subgroups returns the three subgroup facets of a group's composite.
func (p Policy) Subgroups(g *Group) [3]trackdb.Facet {
	axes := p.fallback
	if g.Overview && p.overview != (Axes{}) {
		axes = p.overview
	} else if a, ok := p.bySuper[g.SuperKey]; ok {
		axes = a
	}
	if axes == (Axes{}) {
		axes = defaultAxes
	}
	return [3]trackdb.Facet{axes[0], axes[1], trackdb.View}
}
