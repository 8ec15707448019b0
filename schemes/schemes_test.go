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
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/trackdb"
)

func exp(id, biosampleType, termName, label string) *experiments.Experiment {
	return &experiments.Experiment{
		ID:                id,
		AssayTermName:     "ChIP-seq",
		BiosampleType:     biosampleType,
		BiosampleTermName: termName,
		Label:             label,
	}
}

func ids(exps []*experiments.Experiment) (result []string) {
	for _, e := range exps {
		result = append(result, e.ID)
	}
	return result
}

func TestClassify(t *testing.T) {
	exps := []*experiments.Experiment{
		exp("e1", "tissue", "liver", "CTCF"),
		exp("e2", "cell line", "K562", "CTCF"),
		exp("e3", "", "x", "CTCF"),
		exp("e4", "tissue", "lung", "CTCF"),
		exp("e5", "cell line", "GM12878", "CTCF"),
	}
	partitions, err := Classify(exps, ByBiosampleType)
	if err != nil {
		t.Fatal(err)
	}
	expected := []struct {
		key, label string
		ids        string
	}{
		{"cell_line", "cell line", "[e2 e5]"},
		{"tissue", "tissue", "[e1 e4]"},
		{trackdb.Unknown, trackdb.Unknown, "[e3]"},
	}
	if len(partitions) != len(expected) {
		t.Fatalf("expected %v partitions, got %v", len(expected), len(partitions))
	}
	for i, p := range partitions {
		if p.Key != expected[i].key || p.Label != expected[i].label || fmt.Sprint(ids(p.Members)) != expected[i].ids {
			t.Errorf("partition %v is %v %q %v", i, p.Key, p.Label, ids(p.Members))
		}
	}
	if partitions, err := Classify(nil, ByLabel); err != nil || len(partitions) != 0 {
		t.Error("empty Classify failed")
	}
}

func TestClassifyEquivalentKeys(t *testing.T) {
	exps := []*experiments.Experiment{
		exp("e1", "primary cell", "B-cell", ""),
		exp("e2", "primary cell", "T cell", ""),
		exp("e3", "primary cell", "B cell", ""),
		exp("e4", "primary-cell", "B cell", ""),
	}
	partitions, err := Classify(exps, ByBiosampleTermName)
	if err != nil {
		t.Fatal(err)
	}
	if len(partitions) != 2 {
		t.Fatalf("expected 2 partitions, got %v", len(partitions))
	}
	if p := partitions[0]; p.Key != "B_cell" || p.Label != "B-cell" || fmt.Sprint(ids(p.Members)) != "[e1 e3 e4]" {
		t.Errorf("unexpected partition %v %q %v", p.Key, p.Label, ids(p.Members))
	}
	plan, err := PlanScheme(Biosample, &Input{
		Assembly:    "hg19",
		Catalogue:   DefaultCatalogue(),
		Experiments: map[string][]*experiments.Experiment{experiments.CategoryDNase: exps},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Supers) != 1 || plan.Supers[0].ShortLabel != "primary cell" {
		t.Fatalf("unexpected supers %+v", plan.Supers)
	}
	paths := make(map[string]bool)
	for _, g := range plan.Groups() {
		if paths[g.Path] {
			t.Errorf("groups share the path %v", g.Path)
		}
		paths[g.Path] = true
	}
	if len(paths) != 2 {
		t.Errorf("expected 2 groups, got %v", len(paths))
	}
}

func TestClassifyLarge(t *testing.T) {
	var exps []*experiments.Experiment
	for i := 0; i < 0x3000; i++ {
		exps = append(exps, exp(fmt.Sprintf("e%05d", i), fmt.Sprintf("type%v", (i*7)%13), "", ""))
	}
	partitions, err := Classify(exps, ByBiosampleType)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for i, p := range partitions {
		if i > 0 && partitions[i-1].Key >= p.Key {
			t.Error("partitions not sorted")
		}
		for j := 1; j < len(p.Members); j++ {
			if p.Members[j-1].ID >= p.Members[j].ID {
				t.Fatal("Classify is not stable")
			}
		}
		total += len(p.Members)
	}
	if len(partitions) != 13 || total != len(exps) {
		t.Errorf("got %v partitions with %v experiments", len(partitions), total)
	}
}

func TestCheckPartition(t *testing.T) {
	if err := checkPartition(2, []Partition{{indices: []int{0}}, {indices: []int{0, 1}}}); err == nil {
		t.Error("checkPartition accepted a duplicate")
	}
	if err := checkPartition(3, []Partition{{indices: []int{0, 2}}}); err == nil {
		t.Error("checkPartition accepted a missing experiment")
	}
}

func TestParseNames(t *testing.T) {
	names, err := ParseNames("biosample, ccres")
	if err != nil || fmt.Sprint(names) != "[ccres biosample]" {
		t.Errorf("ParseNames returned %v %v", names, err)
	}
	if names, _ := ParseNames(""); len(names) != 4 {
		t.Error("empty ParseNames should select all schemes")
	}
	if _, err := ParseNames("tissue"); err == nil {
		t.Error("ParseNames accepted an unknown scheme")
	}
}

func TestPolicySubgroups(t *testing.T) {
	cases := []struct {
		scheme   Name
		group    Group
		expected [3]trackdb.Facet
	}{
		{Assay, Group{SuperKey: "dnase", Key: "tissue"}, [3]trackdb.Facet{trackdb.Biosample, trackdb.Age, trackdb.View}},
		{Assay, Group{SuperKey: "dnase", Key: AllKey, Overview: true}, [3]trackdb.Facet{trackdb.Biosample, trackdb.AgeSex, trackdb.View}},
		{Assay, Group{SuperKey: "histone_modifications"}, [3]trackdb.Facet{trackdb.Biosample, trackdb.Label, trackdb.View}},
		{Assay, Group{SuperKey: "microRNAseq"}, [3]trackdb.Facet{trackdb.Biosample, trackdb.Assay, trackdb.View}},
		{Assay, Group{SuperKey: "other"}, [3]trackdb.Facet{trackdb.Donor, trackdb.Age, trackdb.View}},
		{Factor, Group{SuperKey: "tf_factors"}, [3]trackdb.Facet{trackdb.Biosample, trackdb.AgeSex, trackdb.View}},
		{CCREs, Group{SuperKey: "ccres"}, [3]trackdb.Facet{trackdb.Biosample, trackdb.Assay, trackdb.View}},
		{Biosample, Group{SuperKey: "cell_line"}, [3]trackdb.Facet{trackdb.Label, trackdb.Assay, trackdb.View}},
		{Biosample, Group{SuperKey: "tissue"}, [3]trackdb.Facet{trackdb.Donor, trackdb.Age, trackdb.View}},
	}
	for _, c := range cases {
		g := c.group
		if got := PolicyFor(c.scheme).Subgroups(&g); got != c.expected {
			t.Errorf("%v %v: got %v, expected %v", c.scheme, g.SuperKey, got, c.expected)
		}
	}
}

func testInput() *Input {
	return &Input{
		Assembly:  "hg19",
		Catalogue: DefaultCatalogue(),
		Experiments: map[string][]*experiments.Experiment{
			experiments.CategoryDNase: {
				exp("d1", "tissue", "liver", ""),
				exp("d2", "cell line", "K562", ""),
				exp("d3", "tissue", "lung", ""),
			},
			experiments.CategoryTF: {
				exp("t1", "cell line", "K562", "CTCF"),
				exp("t2", "cell line", "K562", "POLR2A"),
				exp("d2", "cell line", "K562", ""),
			},
		},
	}
}

func TestPlanAssay(t *testing.T) {
	plan, err := PlanScheme(Assay, testInput())
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Supers) != 2 {
		t.Fatalf("expected 2 supers, got %v", len(plan.Supers))
	}
	dnase := plan.Supers[0]
	if dnase.ID() != "super_dnase" || dnase.LongLabel != "DNase-seq (3 experiments)" || dnase.Show {
		t.Errorf("unexpected dnase super %+v", dnase)
	}
	if len(dnase.Groups) != 3 || !dnase.Groups[0].Overview || dnase.Groups[0].ID() != "dnase_0_all" || len(dnase.Groups[0].Members) != 3 {
		t.Fatalf("unexpected dnase groups %+v", dnase.Groups)
	}
	if g := dnase.Groups[1]; g.ID() != "dnase_cell_line" || g.Path != filepath.Join("subtracks", "assay", "dnase", "cell_line.txt") {
		t.Errorf("unexpected group %v %v", g.ID(), g.Path)
	}
	tfs := plan.Supers[1]
	if tfs.Key != "transcription_factors" || len(tfs.Groups) != 1 || tfs.ShortLabel != "TFs by Biosample" {
		t.Errorf("unexpected tf super %+v", tfs)
	}
}

func TestPlanFactor(t *testing.T) {
	plan, err := PlanScheme(Factor, testInput())
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Supers) != 1 {
		t.Fatalf("expected 1 super, got %v", len(plan.Supers))
	}
	s := plan.Supers[0]
	if s.Description != s.LongLabel || s.Description == "" {
		t.Error("factor supers carry a description")
	}
	var keys []string
	for _, g := range s.Groups {
		keys = append(keys, g.Key)
	}
	if fmt.Sprint(keys) != "[CTCF POLR2A unknown]" {
		t.Errorf("unexpected factor groups %v", keys)
	}
}

func TestPlanBiosample(t *testing.T) {
	plan, err := PlanScheme(Biosample, testInput())
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Supers) != 2 {
		t.Fatalf("expected 2 supers, got %v", len(plan.Supers))
	}
	cellLine := plan.Supers[0]
	if cellLine.ID() != "super_cell_line" || !cellLine.Show || cellLine.LongLabel != "cell line (3 experiments)" {
		t.Errorf("unexpected super %+v", cellLine)
	}
	if len(cellLine.Groups) != 1 || cellLine.Groups[0].ID() != "cell_line_K562" {
		t.Errorf("unexpected groups %+v", cellLine.Groups)
	}
	if n := len(plan.Groups()); n != 3 {
		t.Errorf("expected 3 groups, got %v", n)
	}
}

func TestPlanRegulatory(t *testing.T) {
	in := testInput()
	if _, err := PlanScheme(CCREs, in); err == nil {
		t.Error("PlanScheme should fail without regulatory data")
	}
	in.Regulatory = &experiments.GlobalData{
		ByCellType: map[string][]experiments.CellTypeExperiment{
			"B_cell_adult": {{ExpID: "r1", FileID: "f1", Assay: "DNase-seq", CellTypeDesc: "B cell", BiosampleType: "primary cell"}},
			"K562":         {{ExpID: "r2", FileID: "f2", Assay: "CTCF", CellTypeDesc: "K562", BiosampleType: "cell line"}},
		},
	}
	plan, err := PlanScheme(CCREs, in)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Supers) != 1 || plan.Supers[0].ID() != "super_ccres" || !plan.Supers[0].Show {
		t.Fatalf("unexpected supers %+v", plan.Supers)
	}
	if n := len(plan.Supers[0].Groups); n != 2 {
		t.Errorf("expected 2 groups, got %v", n)
	}
	if !plan.Annotations["r1"].Active || plan.Annotations["r2"].Active {
		t.Error("regulatory annotations not derived from the active list")
	}
	in.Regulatory.ByCellType["HepG2"] = []experiments.CellTypeExperiment{{ExpID: "r3", CellTypeDesc: "HepG2"}}
	var missing *experiments.MissingFieldError
	if _, err := PlanScheme(CCREs, in); !errors.As(err, &missing) || missing.Field != "fileID" {
		t.Errorf("expected a missing fileID error, got %v", err)
	}
}
