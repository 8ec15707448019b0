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

// Package metrics records the counters of a track hub build.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

/*
A Recorder holds the counters of one run in its own registry. A nil
*Recorder is valid and records nothing.
*/
type Recorder struct {
	registry *prometheus.Registry

	groups   *prometheus.CounterVec
	tracks   *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	supers   *prometheus.CounterVec
	duration *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		groups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackhub",
			Name:      "groups_written_total",
			Help:      "Composite track files written.",
		}, []string{"assembly", "scheme"}),
		tracks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackhub",
			Name:      "tracks_emitted_total",
			Help:      "Leaf tracks written to composite track files.",
		}, []string{"assembly", "scheme"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackhub",
			Name:      "experiments_skipped_total",
			Help:      "Experiments without a usable signal file.",
		}, []string{"assembly", "scheme"}),
		supers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackhub",
			Name:      "super_tracks_total",
			Help:      "Super tracks written to trackDb files.",
		}, []string{"assembly"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "trackhub",
			Name:      "assembly_build_seconds",
			Help:      "Time spent building the trackDb of an assembly.",
		}, []string{"assembly"}),
	}
	r.registry.MustRegister(r.groups, r.tracks, r.skipped, r.supers, r.duration)
	return r
}

// GroupWritten counts a composite track file and its tracks.
func (r *Recorder) GroupWritten(assembly, scheme string, tracks, skipped int) {
	if r == nil {
		return
	}
	r.groups.WithLabelValues(assembly, scheme).Inc()
	r.tracks.WithLabelValues(assembly, scheme).Add(float64(tracks))
	r.skipped.WithLabelValues(assembly, scheme).Add(float64(skipped))
}

// SupersWritten counts the super tracks of a trackDb.
func (r *Recorder) SupersWritten(assembly string, n int) {
	if r == nil {
		return
	}
	r.supers.WithLabelValues(assembly).Add(float64(n))
}

// AssemblyBuilt records the build time of an assembly.
func (r *Recorder) AssemblyBuilt(assembly string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(assembly).Set(elapsed.Seconds())
}

// Gatherer exposes the registry of the recorder.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the counters in the node exporter textfile
// format.
func (r *Recorder) WriteTextfile(filename string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(filename, r.registry)
}
