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

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/exascience/trackhub/experiments"
)

// A Name identifies a facet scheme.
type Name string

const (
	CCREs     Name = "ccres"
	Factor    Name = "factor"
	Assay     Name = "assay"
	Biosample Name = "biosample"
)

// Order is the order of the schemes in a trackDb.
var Order = []Name{CCREs, Factor, Assay, Biosample}

/*
ParseNames parses a comma-separated list of scheme names. The result
is in trackDb order, regardless of the order in s. An empty string or
"all" selects every scheme.
*/
func ParseNames(s string) ([]Name, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return append([]Name(nil), Order...), nil
	}
	selected := make(map[Name]bool)
	for _, field := range strings.Split(s, ",") {
		name := Name(strings.TrimSpace(field))
		if _, ok := Policies[name]; !ok {
			return nil, fmt.Errorf("unknown scheme %q", field)
		}
		selected[name] = true
	}
	var names []Name
	for _, name := range Order {
		if selected[name] {
			names = append(names, name)
		}
	}
	return names, nil
}

/*
A Group describes one composite track: the experiments
classified into it, the file its stanzas are written to, and its
ordinal, which offsets the priorities of its leaf tracks.
*/
type Group struct {
	Scheme   Name
	SuperKey string
	Key      string
	Label    string
	Members  []*experiments.Experiment
	Overview bool
	Path     string
	Ordinal  int
}

// ID returns the composite track id.
func (g *Group) ID() string {
	return g.SuperKey + "_" + g.Key
}

// SuperID returns the id of the parent super track.
func (g *Group) SuperID() string {
	return "super_" + g.SuperKey
}

func (g *Group) setPath() {
	g.Path = filepath.Join("subtracks", string(g.Scheme), g.SuperKey, g.Key+".txt")
}

// A Super describes one super track. Its priority is
// assigned when the trackDb is assembled.
type Super struct {
	Key         string
	ShortLabel  string
	LongLabel   string
	Description string
	Show        bool
	Groups      []*Group
}

func (s *Super) ID() string {
	return "super_" + s.Key
}

// A Plan is the classification of one scheme for one assembly.
type Plan struct {
	Scheme      Name
	Policy      Policy
	Supers      []*Super
	Annotations map[string]experiments.Annotation
}

// Groups returns the groups of all supers in order.
func (p *Plan) Groups() (groups []*Group) {
	for _, s := range p.Supers {
		groups = append(groups, s.Groups...)
	}
	return groups
}
