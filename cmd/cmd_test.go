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

package cmd

import (
	"testing"

	"github.com/exascience/trackhub/hub"
	"github.com/exascience/trackhub/trackdb"
	"github.com/exascience/trackhub/tracks"
)

const testConfig = `
hub:
  name: TEST
  short_label: Test hub
  long_label: Test hub for unit tests
  email: test@example.org
genomes:
  - assembly: hg38
    default_pos: chr1:1-1000
palette_seed: 42
palette_policy: cycle
priority_stride: 500
tissues:
  hg38:
    organs:
      liver: liver
publish:
  bucket: hubs
  path_style: true
`

func TestParseConfig(t *testing.T) {
	fc, err := ParseConfig([]byte(testConfig))
	if err != nil {
		t.Fatal(err)
	}
	cfg := hub.DefaultConfig("/www")
	fc.Apply(&cfg)
	if cfg.Hub.Name != "TEST" || cfg.Hub.Email != "test@example.org" {
		t.Errorf("unexpected hub %+v", cfg.Hub)
	}
	if len(cfg.Genomes) != 1 || cfg.Genomes[0] != (trackdb.Genome{Assembly: "hg38", DefaultPos: "chr1:1-1000"}) {
		t.Errorf("unexpected genomes %+v", cfg.Genomes)
	}
	if cfg.PaletteSeed != 42 || cfg.PalettePolicy != tracks.Cycle || cfg.PriorityStride != 500 {
		t.Errorf("unexpected palette or stride %v %v %v", cfg.PaletteSeed, cfg.PalettePolicy, cfg.PriorityStride)
	}
	if cfg.Tissues["hg38"].Organs["liver"] != "liver" {
		t.Errorf("unexpected tissues %+v", cfg.Tissues)
	}
	if len(cfg.Catalogue.Assays) == 0 {
		t.Error("catalogue default lost")
	}
	if fc.Publish == nil || fc.Publish.Bucket != "hubs" || !fc.Publish.PathStyle {
		t.Errorf("unexpected publish section %+v", fc.Publish)
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, text := range []string{
		"colour: red\n",
		"palette_policy: wrap\n",
		"priority_stride: -1\n",
		"genomes:\n  - default_pos: chr1:1-2\n",
	} {
		if _, err := ParseConfig([]byte(text)); err == nil {
			t.Errorf("expected an error for %q", text)
		}
	}
}

func TestSelectGenomes(t *testing.T) {
	genomes := hub.DefaultGenomes()
	selected, err := selectGenomes(genomes, []string{"mm10"})
	if err != nil || len(selected) != 1 || selected[0].Assembly != "mm10" {
		t.Errorf("unexpected selection %v %v", selected, err)
	}
	if all, _ := selectGenomes(genomes, nil); len(all) != 2 {
		t.Error("empty selection should keep all genomes")
	}
	if _, err := selectGenomes(genomes, []string{"dm6"}); err == nil {
		t.Error("expected an error for an unknown assembly")
	}
}

func TestSplitList(t *testing.T) {
	if l := splitList(" hg19, ,mm10 "); len(l) != 2 || l[0] != "hg19" || l[1] != "mm10" {
		t.Errorf("unexpected list %v", l)
	}
}
