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
	"log"
	"strconv"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/trackdb"
)

// AllKey is the group key of the overview group of an assay.
const AllKey = "0_all"

// AllLabel is the label of the overview group of an assay.
const AllLabel = "_ALL DATA"

/*
An Input holds everything a plan is derived from: the experiments of
the assay categories the schemes need, the annotations of the
assembly, and the regulatory data document when the regulatory
element scheme is planned.
*/
type Input struct {
	Assembly    string
	Catalogue   Catalogue
	Experiments map[string][]*experiments.Experiment
	Annotations map[string]experiments.Annotation
	Regulatory  *experiments.GlobalData
}

func countLabel(base string, n int) string {
	return trackdb.LongLabel(base + " (" + strconv.Itoa(n) + " experiments)")
}

func newGroup(scheme Name, superKey, key, label string, members []*experiments.Experiment) *Group {
	g := &Group{
		Scheme:   scheme,
		SuperKey: superKey,
		Key:      key,
		Label:    label,
		Members:  members,
	}
	g.setPath()
	return g
}

func partitionGroups(scheme Name, superKey string, partitions []Partition) []*Group {
	groups := make([]*Group, 0, len(partitions))
	for _, p := range partitions {
		groups = append(groups, newGroup(scheme, superKey, p.Key, p.Label, p.Members))
	}
	return groups
}

// PlanScheme classifies the input according to the given scheme.
func PlanScheme(name Name, in *Input) (*Plan, error) {
	plan := &Plan{Scheme: name, Policy: PolicyFor(name), Annotations: in.Annotations}
	var err error
	switch name {
	case CCREs:
		err = planRegulatory(plan, in)
	case Factor:
		err = planEntries(plan, in, in.Catalogue.Factors, ByLabel, false)
	case Assay:
		err = planEntries(plan, in, in.Catalogue.Assays, ByBiosampleType, true)
	case Biosample:
		err = planBiosamples(plan, in)
	default:
		err = fmt.Errorf("unknown scheme %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w, while planning the %v scheme for %v", err, name, in.Assembly)
	}
	return plan, nil
}

func planRegulatory(plan *Plan, in *Input) error {
	if in.Regulatory == nil {
		return fmt.Errorf("no regulatory data")
	}
	exps, annotations, err := experiments.RegulatoryExperiments(in.Assembly, in.Regulatory, in.Catalogue.ActiveBiosamples)
	if err != nil {
		return err
	}
	plan.Annotations = annotations
	if len(exps) == 0 {
		log.Printf("Warning: no regulatory element experiments for %v", in.Assembly)
		return nil
	}
	partitions, err := Classify(exps, ByBiosampleType)
	if err != nil {
		return err
	}
	label := in.Catalogue.RegulatoryLabel
	plan.Supers = append(plan.Supers, &Super{
		Key:        string(CCREs),
		ShortLabel: trackdb.ShortLabel(label),
		LongLabel:  countLabel(label, len(exps)),
		Show:       plan.Policy.ShowSuper,
		Groups:     partitionGroups(CCREs, string(CCREs), partitions),
	})
	return nil
}

/*
planEntries plans one super track per catalogue entry, partitioning
the entry's experiments by the given key. With overview set, entries
flagged ShowAll get an extra group with all their experiments, which
does not count towards the super's experiment total.
*/
func planEntries(plan *Plan, in *Input, entries []Entry, key func(*experiments.Experiment) string, overview bool) error {
	for _, e := range entries {
		if !e.AvailableFor(in.Assembly) {
			continue
		}
		exps := in.Experiments[e.Category]
		if len(exps) == 0 {
			log.Printf("Warning: no %v experiments for %v, skipping %v", e.Category, in.Assembly, e.Title)
			continue
		}
		partitions, err := Classify(exps, key)
		if err != nil {
			return err
		}
		super := &Super{
			Key:        e.Key,
			ShortLabel: trackdb.ShortLabel(e.Title),
			LongLabel:  countLabel(e.LongLabel, len(exps)),
			Show:       plan.Policy.ShowSuper,
		}
		if plan.Policy.Description {
			super.Description = super.LongLabel
		}
		if overview && e.ShowAll {
			var all []*experiments.Experiment
			for _, p := range partitions {
				all = append(all, p.Members...)
			}
			g := newGroup(plan.Scheme, e.Key, AllKey, AllLabel, all)
			g.Overview = true
			super.Groups = append(super.Groups, g)
		}
		super.Groups = append(super.Groups, partitionGroups(plan.Scheme, e.Key, partitions)...)
		plan.Supers = append(plan.Supers, super)
	}
	return nil
}

func planBiosamples(plan *Plan, in *Input) error {
	var exps []*experiments.Experiment
	seen := make(map[string]bool)
	for _, category := range in.Catalogue.BiosampleCategories {
		for _, exp := range in.Experiments[category] {
			if !seen[exp.ID] {
				seen[exp.ID] = true
				exps = append(exps, exp)
			}
		}
	}
	types, err := Classify(exps, ByBiosampleType)
	if err != nil {
		return err
	}
	for _, t := range types {
		biosamples, err := Classify(t.Members, ByBiosampleTermName)
		if err != nil {
			return err
		}
		plan.Supers = append(plan.Supers, &Super{
			Key:        t.Key,
			ShortLabel: trackdb.ShortLabel(t.Label),
			LongLabel:  countLabel(t.Label, len(t.Members)),
			Show:       plan.Policy.ShowSuper,
			Groups:     partitionGroups(Biosample, t.Key, biosamples),
		})
	}
	return nil
}

// CompositeLabels returns the short and long label of a group's
// composite.
func CompositeLabels(g *Group) (short, long string) {
	return trackdb.ShortLabel(g.Label), countLabel(g.Label, len(g.Members))
}
