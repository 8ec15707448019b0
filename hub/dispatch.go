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
	"path/filepath"

	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/trackhub/internal"
)

type indexedJob struct {
	index int
	job   *Job
}

/*
Dispatch runs the jobs on at most width concurrent workers, or
GOMAXPROCS workers if width is not positive. The first failing job
stops the batch, and its error is returned without results. Otherwise
Dispatch returns once every job has finished, with the results in job
order. Jobs must not share an output path.
*/
func Dispatch(jobs []*Job, width int) ([]*Result, error) {
	paths := make(map[string]*Job, len(jobs))
	indexed := make([]indexedJob, len(jobs))
	for i, job := range jobs {
		path := filepath.Clean(job.Path)
		if other, found := paths[path]; found {
			return nil, fmt.Errorf("composites %v and %v share the output file %v", other.Group.ID(), job.Group.ID(), path)
		}
		paths[path] = job
		indexed[i] = indexedJob{index: i, job: job}
	}
	results := make([]*Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}
	var p pipeline.Pipeline
	p.Source(indexed)
	p.NofBatches(len(jobs))
	p.Add(pipeline.LimitedPar(width, pipeline.Receive(func(_ int, data interface{}) interface{} {
		for _, ij := range data.([]indexedJob) {
			if p.Err() != nil {
				break
			}
			result, err := RunJob(ij.job)
			if err != nil {
				p.SetErr(err)
				break
			}
			results[ij.index] = result
		}
		return data
	})))
	if err := internal.RunPipeline(&p); err != nil {
		return nil, err
	}
	return results, nil
}
