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
	"strings"
	"testing"
)

func TestStanzaFormat(t *testing.T) {
	s := NewStanza("dna_ENCSR1_ENCFF1", 1)
	s.Set("parent", "dnase_tissue on")
	s.Set("description", "")
	s.Set("type", "bigWig")
	s.Set("parent", "dnase_tissue off")
	expected := "\ttrack dna_ENCSR1_ENCFF1\n\tparent dnase_tissue off\n\ttype bigWig\n\n"
	if got := s.Format(); got != expected {
		t.Errorf("Format returned %q, expected %q", got, expected)
	}
	if v, ok := s.Get("type"); !ok || v != "bigWig" {
		t.Error("Get failed")
	}
	if s.ID() != "dna_ENCSR1_ENCFF1" {
		t.Error("ID failed")
	}
}

func TestParse(t *testing.T) {
	text := "track super_a\nsuperTrack on\n\n\ttrack leaf\n\tparent a_b on\n\n"
	stanzas := Parse(text)
	if len(stanzas) != 2 {
		t.Fatalf("expected 2 stanzas, got %v", len(stanzas))
	}
	if stanzas[0].ID() != "super_a" || stanzas[1].Indent != 1 {
		t.Errorf("unexpected stanzas %+v %+v", stanzas[0], stanzas[1])
	}
	if v, _ := stanzas[1].Get("parent"); v != "a_b on" {
		t.Errorf("unexpected parent %q", v)
	}
	if FormatAll(stanzas) != text {
		t.Error("Parse and FormatAll do not agree")
	}
}

func TestLabels(t *testing.T) {
	if Sanitize("H3K4me3 (ChIP-seq)") != "H3K4me3__ChIP_seq_" {
		t.Error("Sanitize failed")
	}
	if GetOrUnknown("  ") != Unknown || GetOrUnknown("x") != "x" {
		t.Error("GetOrUnknown failed")
	}
	if ShortLabel("ChIP-seq", "", "H3K27ac") != "ChIP-seq H3K27ac" {
		t.Error("ShortLabel join failed")
	}
	if n := len(ShortLabel("a very long short label indeed")); n != 17 {
		t.Errorf("ShortLabel returned %v characters", n)
	}
	if n := len(LongLabel(strings.Repeat("x", 100))); n != 80 {
		t.Errorf("LongLabel returned %v characters", n)
	}
	if Viz(Full, true) != Full || Viz(Full, false) != Hidden {
		t.Error("Viz failed")
	}
	if ASCII("naïve") != "nave" {
		t.Error("ASCII failed")
	}
}

func TestVocabulary(t *testing.T) {
	v := make(Vocabulary)
	v.Merge(map[Facet]FacetValue{
		Biosample: {"liver", "liver"},
		Age:       {"a32_year", "32 year"},
	})
	v.Add(Biosample, FacetValue{"heart left ventricle", "heart left ventricle"})
	v.Add(Biosample, FacetValue{"liver", "ignored"})
	v.Add(Biosample, FacetValue{"heart-left ventricle", "duplicate key"})
	decl, err := v.Declaration(Biosample)
	if err != nil {
		t.Fatal(err)
	}
	expected := "biosample biosample heart_left_ventricle=heart_left_ventricle liver=liver"
	if decl != expected {
		t.Errorf("Declaration returned %q, expected %q", decl, expected)
	}
	if decl, _ := v.Declaration(Age); decl != "age age a32_year=32_year" {
		t.Errorf("unexpected age declaration %q", decl)
	}
	if _, err := v.Declaration(Donor); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("expected ErrEmptyVocabulary, got %v", err)
	}
}

func TestHubFiles(t *testing.T) {
	hub := FormatHub(HubInfo{Name: "ENCODE", ShortLabel: "ENCODE", LongLabel: "ENCODE hub", Email: "a@b.c"})
	if !strings.HasPrefix(hub, "hub ENCODE\n") || !strings.Contains(hub, "genomesFile genomes.txt\n") || strings.Contains(hub, "descriptionUrl") {
		t.Errorf("unexpected hub.txt %q", hub)
	}
	genomes := FormatGenomes([]Genome{{"hg19", "chr12:121374959-121481905"}, {"mm10", "chr2:163423234-163655010"}})
	expected := "genome hg19\ntrackDb hg19/trackDb.txt\ndefaultPos chr12:121374959-121481905\n\n" +
		"genome mm10\ntrackDb mm10/trackDb.txt\ndefaultPos chr2:163423234-163655010\n\n"
	if genomes != expected {
		t.Errorf("unexpected genomes.txt %q", genomes)
	}
}
