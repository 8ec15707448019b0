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

package trackdb

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// A Facet is a subgroup dimension of a composite track.
type Facet string

const (
	Donor            Facet = "donor"
	Assay            Facet = "assay"
	Label            Facet = "label"
	TargetLabel      Facet = "target_label"
	Biosample        Facet = "biosample"
	BiosampleSummary Facet = "biosample_summary"
	Age              Facet = "age"
	Sex              Facet = "sex"
	AgeSex           Facet = "age_sex"
	View             Facet = "view"
)

// Facets lists all facets in declaration order.
var Facets = []Facet{Donor, Assay, Label, TargetLabel, Biosample, BiosampleSummary, Age, Sex, AgeSex, View}

// A FacetValue is the raw value a track contributes for a facet,
// together with its display label.
type FacetValue struct {
	Raw, Label string
}

// Key is the subgroup key of the value.
func (v FacetValue) Key() string {
	return Sanitize(v.Raw)
}

// ErrEmptyVocabulary is returned for a facet without values.
var ErrEmptyVocabulary = errors.New("empty subgroup vocabulary")

/*
A Vocabulary is the union of the facet values of a group's tracks.
It is not safe for concurrent use; every group job builds its own.
*/
type Vocabulary map[Facet]map[string]string

// Add records a raw value and its label. The first label recorded
// for a raw value wins.
func (v Vocabulary) Add(facet Facet, value FacetValue) {
	if value.Raw == "" {
		return
	}
	values := v[facet]
	if values == nil {
		values = make(map[string]string)
		v[facet] = values
	}
	if _, found := values[value.Raw]; !found {
		values[value.Raw] = value.Label
	}
}

// Merge adds all facet values of a track.
func (v Vocabulary) Merge(values map[Facet]FacetValue) {
	for facet, value := range values {
		v.Add(facet, value)
	}
}

// Values returns the raw values of a facet in sorted order.
func (v Vocabulary) Values(facet Facet) []string {
	values := make([]string, 0, len(v[facet]))
	for raw := range v[facet] {
		values = append(values, raw)
	}
	sort.Strings(values)
	return values
}

func entryLabel(label string) string {
	return strings.ReplaceAll(HTMLEscape(label), " ", "_")
}

/*
Declaration renders a "subGroupN facet facet key=label ..." line body,
without the "subGroupN" key. Entries are sorted by raw value; raw
values that sanitize to an already emitted key are dropped.
*/
func (v Vocabulary) Declaration(facet Facet) (string, error) {
	raws := v.Values(facet)
	if len(raws) == 0 {
		return "", fmt.Errorf("%w for facet %v", ErrEmptyVocabulary, facet)
	}
	var b strings.Builder
	b.WriteString(string(facet))
	b.WriteByte(' ')
	b.WriteString(string(facet))
	emitted := make(map[string]bool, len(raws))
	for _, raw := range raws {
		key := Sanitize(raw)
		if emitted[key] {
			continue
		}
		emitted[key] = true
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(entryLabel(v[facet][raw]))
	}
	return b.String(), nil
}
