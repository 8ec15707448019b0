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
	"errors"
	"fmt"

	"github.com/exascience/pargo/sync"

	"github.com/exascience/trackhub/internal"
)

// ErrDuplicateTrackID is returned when two tracks of an assembly
// share an id.
var ErrDuplicateTrackID = errors.New("duplicate track id")

type trackID string

func (id trackID) Hash() uint64 {
	return internal.StringHash(string(id))
}

/*
A Registry records the track ids of one assembly together with the
composite that claimed them. It is safe for concurrent use by group
jobs.
*/
type Registry struct {
	ids *sync.Map
}

func NewRegistry() *Registry {
	return &Registry{ids: sync.NewMap(0)}
}

// Claim registers id for owner, and fails if another claim for id
// already exists.
func (r *Registry) Claim(id, owner string) error {
	if previous, loaded := r.ids.LoadOrStore(trackID(id), owner); loaded {
		return fmt.Errorf("%w %v, claimed by %v and %v", ErrDuplicateTrackID, id, previous, owner)
	}
	return nil
}
