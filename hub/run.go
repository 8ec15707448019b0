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

package hub

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/exascience/pargo/parallel"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/internal"
	"github.com/exascience/trackhub/metrics"
	"github.com/exascience/trackhub/schemes"
	"github.com/exascience/trackhub/trackdb"
	"github.com/exascience/trackhub/tracks"
)

// A Config holds everything a build of a track hub depends on.
type Config struct {
	Hub            trackdb.HubInfo
	Genomes        []trackdb.Genome
	Schemes        []schemes.Name
	Catalogue      schemes.Catalogue
	Tissues        map[string]tracks.TissueTables
	PaletteSeed    int64
	PalettePolicy  tracks.ExhaustionPolicy
	PriorityStride int
	Width          int
	OutputDir      string
	StagingDir     string
	FS             internal.FS
	Metrics        *metrics.Recorder
}

// DefaultHubInfo returns the built-in hub descriptor.
func DefaultHubInfo() trackdb.HubInfo {
	return trackdb.HubInfo{
		Name:       "ENCODE",
		ShortLabel: "ENCODE Trackhub",
		LongLabel:  "ENCODE Trackhub",
		Email:      "zhiping.weng@umassmed.edu",
	}
}

// DefaultGenomes returns the built-in assemblies and their default
// positions.
func DefaultGenomes() []trackdb.Genome {
	return []trackdb.Genome{
		{Assembly: "hg19", DefaultPos: "chr12:121374959-121481905"},
		{Assembly: "mm10", DefaultPos: "chr2:163423234-163655010"},
	}
}

// DefaultConfig returns a configuration with all built-in tables,
// writing to outputDir on the OS file system.
func DefaultConfig(outputDir string) Config {
	return Config{
		Hub:            DefaultHubInfo(),
		Genomes:        DefaultGenomes(),
		Schemes:        append([]schemes.Name(nil), schemes.Order...),
		Catalogue:      schemes.DefaultCatalogue(),
		Tissues:        tracks.DefaultTissueTables(),
		PaletteSeed:    tracks.DefaultPaletteSeed,
		PalettePolicy:  tracks.Fail,
		PriorityStride: DefaultPriorityStride,
		OutputDir:      outputDir,
		StagingDir:     filepath.Join(outputDir, ".staging"),
		FS:             internal.OSFS{},
	}
}

/*
A Runner builds the trackDb files of the configured assemblies, one
after the other, and then the hub manifest. Super track priorities are
drawn from one allocator for the whole run, and tissue colors from one
palette.
*/
type Runner struct {
	cfg     Config
	catalog experiments.Catalog
	alloc   *Allocator
	tissues *tracks.TissueResolver
	palette *tracks.PaletteAllocator
}

func NewRunner(cfg Config, catalog experiments.Catalog) *Runner {
	if cfg.FS == nil {
		cfg.FS = internal.OSFS{}
	}
	if cfg.PriorityStride <= 0 {
		cfg.PriorityStride = DefaultPriorityStride
	}
	if cfg.StagingDir == "" {
		cfg.StagingDir = filepath.Join(cfg.OutputDir, ".staging")
	}
	return &Runner{
		cfg:     cfg,
		catalog: catalog,
		alloc:   NewAllocator(0),
		tissues: tracks.NewTissueResolver(cfg.Tissues),
		palette: tracks.NewPaletteAllocator(tracks.WebSafeColors(), cfg.PaletteSeed, cfg.PalettePolicy),
	}
}

func (r *Runner) loadInput(assembly string) (*schemes.Input, error) {
	in := &schemes.Input{
		Assembly:    assembly,
		Catalogue:   r.cfg.Catalogue,
		Experiments: make(map[string][]*experiments.Experiment),
	}
	categories := r.cfg.Catalogue.Categories(assembly, r.cfg.Schemes)
	loaded := make([][]*experiments.Experiment, len(categories))
	errs := make([]error, len(categories))
	parallel.Range(0, len(categories), 0, func(low, high int) {
		for i := low; i < high; i++ {
			loaded[i], errs[i] = r.catalog.UsefulExperiments(assembly, categories[i])
		}
	})
	known := make(map[string]bool)
	for i, category := range categories {
		if errs[i] != nil {
			return nil, fmt.Errorf("%w, while loading %v experiments for %v", errs[i], category, assembly)
		}
		in.Experiments[category] = loaded[i]
		for _, exp := range loaded[i] {
			known[exp.ID] = true
		}
	}
	annotations, err := r.catalog.AnnotationsForAssembly(assembly)
	if err != nil {
		return nil, fmt.Errorf("%w, while loading annotations for %v", err, assembly)
	}
	in.Annotations = annotations
	var unknown []string
	for id := range annotations {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		log.Printf("Warning: annotation for unknown experiment %v in %v", id, assembly)
	}
	for _, name := range r.cfg.Schemes {
		if name == schemes.CCREs {
			if in.Regulatory, err = r.catalog.RegulatoryData(assembly); err != nil {
				return nil, fmt.Errorf("%w, while loading regulatory data for %v", err, assembly)
			}
			break
		}
	}
	return in, nil
}

// assignColors colors the tissues of all overview groups in sorted
// order, so that colors do not depend on job scheduling.
func (r *Runner) assignColors(assembly string, plans []*schemes.Plan) error {
	seen := make(map[string]bool)
	var tissues []string
	for _, plan := range plans {
		for _, g := range plan.Groups() {
			if !g.Overview {
				continue
			}
			for _, exp := range g.Members {
				if t := r.tissues.Tissue(assembly, exp); !seen[t] {
					seen[t] = true
					tissues = append(tissues, t)
				}
			}
		}
	}
	sort.Strings(tissues)
	for _, t := range tissues {
		if _, err := r.palette.ColorFor(t); err != nil {
			return err
		}
	}
	return nil
}

// Plan classifies the input of an assembly for all configured schemes
// and numbers the resulting groups.
func (r *Runner) Plan(assembly string) ([]*schemes.Plan, error) {
	in, err := r.loadInput(assembly)
	if err != nil {
		return nil, err
	}
	plans := make([]*schemes.Plan, 0, len(r.cfg.Schemes))
	ordinal := 0
	for _, name := range r.cfg.Schemes {
		plan, err := schemes.PlanScheme(name, in)
		if err != nil {
			return nil, err
		}
		for _, g := range plan.Groups() {
			ordinal++
			g.Ordinal = ordinal
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

/*
RunAssembly builds the trackDb of one assembly. The composite files are
written below the staging directory, and the trackDb only replaces the
previous one once every composite has been written and merged.
*/
func (r *Runner) RunAssembly(assembly string) error {
	start := time.Now()
	plans, err := r.Plan(assembly)
	if err != nil {
		return err
	}
	if err := r.assignColors(assembly, plans); err != nil {
		return fmt.Errorf("%w, while assigning tissue colors for %v", err, assembly)
	}
	dir := filepath.Join(r.cfg.StagingDir, assembly)
	registry := NewRegistry()
	var jobs []*Job
	for _, plan := range plans {
		for _, g := range plan.Groups() {
			jobs = append(jobs, &Job{
				Assembly:    assembly,
				Group:       g,
				Policy:      plan.Policy,
				Annotations: plan.Annotations,
				Path:        filepath.Join(dir, g.Path),
				Stride:      r.cfg.PriorityStride,
				Tissues:     r.tissues,
				Palette:     r.palette,
				FS:          r.cfg.FS,
				Registry:    registry,
			})
		}
	}
	log.Printf("Writing %v composite tracks for %v", len(jobs), assembly)
	results, err := Dispatch(jobs, r.cfg.Width)
	if err != nil {
		return fmt.Errorf("%w, while writing composite tracks for %v", err, assembly)
	}
	for _, result := range results {
		r.cfg.Metrics.GroupWritten(assembly, string(result.Group.Scheme), result.Tracks, result.Skipped)
	}
	trackDb, supers, err := AssembleTrackDb(r.cfg.FS, dir, plans, r.alloc)
	if err != nil {
		return fmt.Errorf("%w, while assembling the trackDb for %v", err, assembly)
	}
	filename := filepath.Join(r.cfg.OutputDir, filepath.FromSlash(trackdb.TrackDbPath(assembly)))
	if err := internal.WriteFileAtomic(r.cfg.FS, filename, trackDb); err != nil {
		return fmt.Errorf("%w, while writing %v", err, filename)
	}
	r.cfg.Metrics.SupersWritten(assembly, supers)
	r.cfg.Metrics.AssemblyBuilt(assembly, time.Since(start))
	log.Printf("Wrote %v with %v super tracks", filename, supers)
	return nil
}

// Run builds all configured assemblies and the hub manifest.
func (r *Runner) Run() error {
	for _, genome := range r.cfg.Genomes {
		if err := r.RunAssembly(genome.Assembly); err != nil {
			return err
		}
	}
	if err := WriteManifest(r.cfg.FS, r.cfg.OutputDir, r.cfg.Hub, r.cfg.Genomes); err != nil {
		return err
	}
	return r.alloc.Close()
}
