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

// Package hub compiles track plans into trackDb files and hub
// manifests.
package hub

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrAllocatorClosed is returned when a closed allocator is used.
var ErrAllocatorClosed = errors.New("priority allocator closed")

/*
An Allocator hands out super track priorities. Values are strictly
increasing and never reused. It is safe for concurrent use.
*/
type Allocator struct {
	value  atomic.Int64
	closed atomic.Bool
}

// NewAllocator returns an allocator whose first value is start+1.
func NewAllocator(start int) *Allocator {
	a := new(Allocator)
	a.value.Store(int64(start))
	return a
}

// Increment advances the allocator by n and returns the new value.
func (a *Allocator) Increment(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("invalid priority increment %v", n)
	}
	if a.closed.Load() {
		return 0, ErrAllocatorClosed
	}
	return int(a.value.Add(int64(n))), nil
}

// Value returns the last value handed out.
func (a *Allocator) Value() int {
	return int(a.value.Load())
}

// Close releases the allocator. Closing it twice is an error.
func (a *Allocator) Close() error {
	if a.closed.Swap(true) {
		return fmt.Errorf("%w, while closing it a second time", ErrAllocatorClosed)
	}
	return nil
}
