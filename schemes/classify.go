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
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
	psort "github.com/exascience/pargo/sort"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/trackdb"
)

type keyedExperiment struct {
	key   string
	raw   string
	index int
	exp   *experiments.Experiment
}

func sortByKey(s []keyedExperiment) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].key < s[j].key
	})
}

type stableKeySorter []keyedExperiment

func (s stableKeySorter) SequentialSort(i, j int) {
	sortByKey(s[i:j])
}

func (s stableKeySorter) NewTemp() psort.StableSorter {
	return stableKeySorter(make([]keyedExperiment, len(s)))
}

func (s stableKeySorter) Len() int {
	return len(s)
}

func (s stableKeySorter) Less(i, j int) bool {
	return s[i].key < s[j].key
}

func (s stableKeySorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(stableKeySorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

/*
A Partition is a run of experiments with equal sanitized partition
keys. Label is the raw key of the first member.
*/
type Partition struct {
	Key     string
	Label   string
	Members []*experiments.Experiment
	indices []int
}

/*
Classify partitions experiments by the given key. It sorts the
experiments by sanitized key with a parallel stable sort, and then
groups contiguous runs of equal keys, so the input order does not
matter except between experiments with equal keys. Blank keys are
replaced with the unknown sentinel. Raw keys that only differ in
characters that sanitize to the same key share a partition.
*/
func Classify(exps []*experiments.Experiment, partitionKey func(*experiments.Experiment) string) ([]Partition, error) {
	items := make(stableKeySorter, len(exps))
	for i, exp := range exps {
		raw := trackdb.GetOrUnknown(strings.TrimSpace(partitionKey(exp)))
		items[i] = keyedExperiment{
			key:   trackdb.Sanitize(raw),
			raw:   raw,
			index: i,
			exp:   exp,
		}
	}
	psort.StableSort(items)
	var partitions []Partition
	for i := 0; i < len(items); {
		p := Partition{Key: items[i].key, Label: items[i].raw}
		j := i
		for ; j < len(items) && items[j].key == p.Key; j++ {
			if items[j].raw != p.Label {
				log.Printf("Warning: grouping %q with %q under key %v", items[j].raw, p.Label, p.Key)
			}
			p.Members = append(p.Members, items[j].exp)
			p.indices = append(p.indices, items[j].index)
		}
		partitions = append(partitions, p)
		i = j
	}
	if err := checkPartition(len(exps), partitions); err != nil {
		return nil, err
	}
	return partitions, nil
}

// checkPartition verifies that every input experiment ends up in
// exactly one partition.
func checkPartition(n int, partitions []Partition) error {
	assigned := bitset.New(uint(n))
	for _, p := range partitions {
		for _, index := range p.indices {
			if assigned.Test(uint(index)) {
				return fmt.Errorf("experiment %v classified twice", index)
			}
			assigned.Set(uint(index))
		}
	}
	if count := assigned.Count(); count != uint(n) {
		return fmt.Errorf("classified %v of %v experiments", count, n)
	}
	return nil
}

// ByBiosampleType is the partition key of biosample type groups.
func ByBiosampleType(exp *experiments.Experiment) string {
	return exp.BiosampleType
}

// ByBiosampleTermName is the partition key of biosample groups.
func ByBiosampleTermName(exp *experiments.Experiment) string {
	return exp.BiosampleTermName
}

// ByLabel is the partition key of factor groups.
func ByLabel(exp *experiments.Experiment) string {
	return exp.Label
}
