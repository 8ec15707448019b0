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
	"errors"
	"strings"
	"testing"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/trackdb"
)

func testExperiment() *experiments.Experiment {
	return &experiments.Experiment{
		ID:                "ENCSR000AAA",
		AssayTermName:     "ChIP-seq",
		BiosampleType:     "tissue",
		BiosampleTermName: "liver",
		AgeDisplay:        "32 year",
		DonorSex:          "female",
		Target:            "H3K27ac",
		Label:             "H3K27ac",
		Files: []experiments.File{
			{ID: "ENCFF1", Kind: experiments.SignalFile, Assembly: "hg19", OutputType: "signal p-value", URL: "https://www.encodeproject.org/files/ENCFF1/@@download/ENCFF1.bigWig"},
			{ID: "ENCFF2", Kind: experiments.SignalFile, Assembly: "hg19", OutputType: "fold change over control"},
			{ID: "ENCFF3", Kind: experiments.SignalFile, Assembly: "hg19", OutputType: "fold change over control", Pooled: true},
			{ID: "ENCFF4", Kind: experiments.SignalFile, Assembly: "mm10", OutputType: "fold change over control", Pooled: true},
			{ID: "ENCFF5", Kind: experiments.RegionFile, Assembly: "hg19", OutputType: "replicated peaks"},
			{ID: "ENCFF6", Kind: experiments.RegionFile, Assembly: "hg19", OutputType: "optimal idr thresholded peaks"},
			{ID: "ENCFF7", Kind: experiments.RegionFile, Assembly: "hg19", OutputType: "alignments"},
		},
	}
}

func TestSelectFiles(t *testing.T) {
	exp := testExperiment()
	if f, ok := SelectSignalFile("hg19", exp); !ok || f.ID != "ENCFF3" {
		t.Errorf("SelectSignalFile returned %v %v", f.ID, ok)
	}
	if f, ok := SelectRegionFile("hg19", exp); !ok || f.ID != "ENCFF6" {
		t.Errorf("SelectRegionFile returned %v %v", f.ID, ok)
	}
	if _, ok := SelectRegionFile("mm10", exp); ok {
		t.Error("SelectRegionFile found a region file for mm10")
	}
}

func testBuilder() *Builder {
	return &Builder{
		Assembly:  "hg19",
		Composite: Parent{ID: "histone_modifications_tissue", On: true},
		Tissues:   NewTissueResolver(DefaultTissueTables()),
		Palette:   NewPaletteAllocator(WebSafeColors(), DefaultPaletteSeed, Fail),
	}
}

func TestBuild(t *testing.T) {
	b := testBuilder()
	annotation := &experiments.Annotation{Active: true, RegionFiles: map[string]string{"5group": "ENCFF100", "9state": "ENCFF101", "other": "ENCFF100"}}
	et, err := b.Build(testExperiment(), annotation)
	if err != nil {
		t.Fatal(err)
	}
	if len(et.Signals) != 1 || et.View == nil || len(et.Regions) != 3 || et.Skipped != 0 {
		t.Fatalf("unexpected tracks %+v", et)
	}
	signal := et.Signals[0]
	if signal.ID != "his_ENCSR000AAA_ENCFF3" || !signal.Active || signal.Visibility != trackdb.Full {
		t.Errorf("unexpected signal track %+v", signal)
	}
	if url, _ := signal.Attributes.Get("bigDataUrl"); url != "" {
		t.Errorf("unexpected url %q", url)
	}
	if v, _ := signal.Attributes.Get("parent"); v != "histone_modifications_tissue on" {
		t.Errorf("unexpected parent %q", v)
	}
	if v, _ := signal.Attributes.Get("subGroups"); !strings.Contains(v, "age=a32_year") || !strings.Contains(v, "view=bigWig") {
		t.Errorf("unexpected subGroups %q", v)
	}
	if et.View.ID != "histone_modifications_tissue_view_ENCSR000AAA" {
		t.Errorf("unexpected view id %v", et.View.ID)
	}
	ids := []string{"his_ENCSR000AAA_ENCFF6", "his_ENCSR000AAA_ENCFF100", "his_ENCSR000AAA_ENCFF101"}
	for i, r := range et.Regions {
		if r.ID != ids[i] {
			t.Errorf("region %v is %v, expected %v", i, r.ID, ids[i])
		}
	}
	if !et.Regions[1].Active || et.Regions[2].Active {
		t.Error("only 5group regulatory element tracks should be active")
	}
	if s := et.Regions[0].Stanza(7); s.Indent != 2 {
		t.Error("region tracks should be indented twice")
	} else if p, _ := s.Get("priority"); p != "7" {
		t.Errorf("unexpected priority %q", p)
	}
	if _, ok := et.View.Stanza(8).Get("priority"); ok {
		t.Error("view tracks have no priority")
	}
	if n := len(et.All()); n != 5 {
		t.Errorf("All returned %v tracks", n)
	}
}

func TestBuildInactiveAndSkipped(t *testing.T) {
	b := testBuilder()
	exp := testExperiment()
	exp.Files = exp.Files[4:5]
	et, err := b.Build(exp, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(et.Signals) != 0 || et.Skipped != 1 || len(et.Regions) != 1 {
		t.Fatalf("unexpected tracks %+v", et)
	}
	r := et.Regions[0]
	if r.Active || r.Visibility != trackdb.Hidden {
		t.Errorf("inactive region track is %v", r.Visibility)
	}
	if _, ok := r.Stanza(1).Get("priority"); ok {
		t.Error("inactive tracks have no priority")
	}
}

func TestBuildUnknownDonor(t *testing.T) {
	et, _ := testBuilder().Build(testExperiment(), nil)
	if v := et.Signals[0].Facets[trackdb.Donor]; v.Raw != trackdb.Unknown {
		t.Errorf("donor facet is %q", v.Raw)
	}
}

func TestBuildOverview(t *testing.T) {
	b := testBuilder()
	et, err := b.BuildOverview(testExperiment(), &experiments.Annotation{Active: true})
	if err != nil {
		t.Fatal(err)
	}
	if et.Tissue != "liver" || len(et.Signals) != 1 || et.View != nil {
		t.Fatalf("unexpected overview %+v", et)
	}
	s := et.Signals[0]
	color, _ := b.Palette.ColorFor("liver")
	if s.ID != "all_his_ENCSR000AAA_ENCFF3" || s.Color != color {
		t.Errorf("unexpected overview track %+v", s)
	}
	if v, _ := s.Attributes.Get("maxHeightPixels"); v != "32:12:8" {
		t.Errorf("unexpected height %q", v)
	}
	if v, _ := s.Attributes.Get("shortLabel"); v != "liver" {
		t.Errorf("unexpected short label %q", v)
	}
}

func TestTissue(t *testing.T) {
	r := NewTissueResolver(DefaultTissueTables())
	exp := &experiments.Experiment{ID: "x", OrganSlims: []string{"small intestine", "bone element"}, BiosampleTermName: "K562"}
	if tissue := r.Tissue("mm10", exp); tissue != "bone" {
		t.Errorf("organ lookup returned %v", tissue)
	}
	if tissue := r.Tissue("hg19", exp); tissue != "blood" {
		t.Errorf("biosample lookup returned %v", tissue)
	}
	exp = &experiments.Experiment{ID: "y", BiosampleTermName: "cell", BiosampleSummary: "human erythroid progenitor cells"}
	if tissue := r.Tissue("hg19", exp); tissue != "blood" {
		t.Errorf("erythroid rule returned %v", tissue)
	}
	exp = &experiments.Experiment{ID: "ENCSR626RVD", BiosampleTermName: "neuron"}
	if tissue := r.Tissue("hg19", exp); tissue != "brain" {
		t.Errorf("experiment lookup returned %v", tissue)
	}
	exp = &experiments.Experiment{ID: "z", BiosampleTermName: "spleen"}
	if tissue := r.Tissue("hg19", exp); tissue != "spleen" {
		t.Errorf("fallback returned %v", tissue)
	}
}

func TestPalette(t *testing.T) {
	colors := WebSafeColors()
	if len(colors) != 212 || colors[0] != "0,0,204" || colors[211] != "255,255,255" {
		t.Fatalf("unexpected web safe colors %v..%v (%v)", colors[0], colors[len(colors)-1], len(colors))
	}
	p1 := NewPaletteAllocator(colors, DefaultPaletteSeed, Fail)
	p2 := NewPaletteAllocator(colors, DefaultPaletteSeed, Fail)
	seen := make(map[string]bool)
	for _, tissue := range []string{"blood", "brain", "liver"} {
		c1, err1 := p1.ColorFor(tissue)
		c2, err2 := p2.ColorFor(tissue)
		if err1 != nil || err2 != nil || c1 != c2 {
			t.Errorf("palettes disagree on %v: %v %v", tissue, c1, c2)
		}
		if seen[c1] {
			t.Errorf("color %v reused", c1)
		}
		seen[c1] = true
	}
	if c, _ := p1.ColorFor("blood"); c == "" || !seen[c] {
		t.Error("blood changed color")
	}
	if p1.Allocated() != 3 {
		t.Errorf("Allocated returned %v", p1.Allocated())
	}
}

func TestPaletteExhaustion(t *testing.T) {
	p := NewPaletteAllocator([]string{"1,1,1", "2,2,2"}, 1, Fail)
	_, _ = p.ColorFor("a")
	_, _ = p.ColorFor("b")
	if _, err := p.ColorFor("c"); !errors.Is(err, ErrPaletteExhausted) {
		t.Errorf("expected ErrPaletteExhausted, got %v", err)
	}
	if c, err := p.ColorFor("a"); err != nil || c == "" {
		t.Error("allocated colors must survive exhaustion")
	}
	p = NewPaletteAllocator([]string{"1,1,1", "2,2,2"}, 1, Cycle)
	a, _ := p.ColorFor("a")
	_, _ = p.ColorFor("b")
	if c, err := p.ColorFor("c"); err != nil || c != a {
		t.Errorf("Cycle returned %v %v, expected %v", c, err, a)
	}
	if _, err := NewPaletteAllocator(nil, 1, Cycle).ColorFor("a"); !errors.Is(err, ErrPaletteExhausted) {
		t.Error("an empty palette is always exhausted")
	}
}

func TestColorize(t *testing.T) {
	if Colorize(&experiments.Experiment{AssayTermName: "DNase-seq"}) != "6,218,147" {
		t.Error("DNase color failed")
	}
	if Colorize(&experiments.Experiment{AssayTermName: "ChIP-seq", Label: "CTCF"}) != "0,176,240" {
		t.Error("CTCF color failed")
	}
	if Colorize(&experiments.Experiment{AssayTermName: "ChIP-seq", Label: "EZH2"}) != defaultColor {
		t.Error("default color failed")
	}
}

func TestBuildAll(t *testing.T) {
	first, second := testExperiment(), testExperiment()
	second.ID = "ENCSR000BBB"
	second.Files = nil
	annotations := map[string]experiments.Annotation{"ENCSR000BBB": {Active: true}}
	all, err := testBuilder().BuildAll([]*experiments.Experiment{first, second}, annotations, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ExperimentID != "ENCSR000AAA" || all[1].Skipped != 1 {
		t.Fatalf("unexpected tracks %+v", all)
	}
	if all[0].Signals[0].Active {
		t.Error("experiment without annotation should be inactive")
	}
	b := testBuilder()
	b.Palette = NewPaletteAllocator(nil, DefaultPaletteSeed, Fail)
	if _, err := b.BuildAll([]*experiments.Experiment{first}, nil, true); !errors.Is(err, ErrPaletteExhausted) {
		t.Errorf("expected palette exhaustion, got %v", err)
	}
}
