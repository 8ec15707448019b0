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
	"fmt"
	"strconv"
	"sync"

	"github.com/exascience/trackhub/internal"
)

// ErrPaletteExhausted is returned when more tissues than palette
// colors need a color under the Fail policy.
var ErrPaletteExhausted = errors.New("color palette exhausted")

// DefaultPaletteSeed is the seed of the default palette order.
const DefaultPaletteSeed = 18124312

// An ExhaustionPolicy decides what happens when a palette runs out of
// colors.
type ExhaustionPolicy int

const (
	// Fail returns ErrPaletteExhausted.
	Fail ExhaustionPolicy = iota
	// Cycle reuses the palette from the start of its order.
	Cycle
)

func (p ExhaustionPolicy) String() string {
	switch p {
	case Fail:
		return "fail"
	case Cycle:
		return "cycle"
	}
	return "ExhaustionPolicy(" + strconv.Itoa(int(p)) + ")"
}

// ParseExhaustionPolicy parses "fail" or "cycle".
func ParseExhaustionPolicy(s string) (ExhaustionPolicy, error) {
	switch s {
	case "fail", "":
		return Fail, nil
	case "cycle":
		return Cycle, nil
	}
	return Fail, fmt.Errorf("invalid palette exhaustion policy %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ExhaustionPolicy) UnmarshalText(text []byte) (err error) {
	*p, err = ParseExhaustionPolicy(string(text))
	return err
}

/*
WebSafeColors returns the web-safe colors as "R,G,B" strings, without
the four darkest blues, which are too close to black.
*/
func WebSafeColors() []string {
	levels := []int{0x00, 0x33, 0x66, 0x99, 0xCC, 0xFF}
	colors := make([]string, 0, 212)
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				if r == 0 && g == 0 && b <= 0x99 {
					continue
				}
				colors = append(colors, strconv.Itoa(r)+","+strconv.Itoa(g)+","+strconv.Itoa(b))
			}
		}
	}
	return colors
}

/*
A PaletteAllocator hands out colors to tissues from a fixed palette in
a seeded order. Once a tissue has a color, it keeps it. It is safe for
concurrent use, but the order in which tissues are first seen
determines their colors, so callers that need reproducible output
assign colors in a deterministic order before fanning out.
*/
type PaletteAllocator struct {
	mutex    sync.Mutex
	colors   []string
	next     int
	policy   ExhaustionPolicy
	assigned map[string]string
}

// NewPaletteAllocator shuffles a copy of colors with the given seed.
func NewPaletteAllocator(colors []string, seed int64, policy ExhaustionPolicy) *PaletteAllocator {
	shuffled := append([]string(nil), colors...)
	internal.Shuffle(internal.NewRand(seed), len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &PaletteAllocator{
		colors:   shuffled,
		policy:   policy,
		assigned: make(map[string]string),
	}
}

// ColorFor returns the color of a tissue, allocating one from the end
// of the shuffled palette if necessary.
func (p *PaletteAllocator) ColorFor(tissue string) (string, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if c, ok := p.assigned[tissue]; ok {
		return c, nil
	}
	if len(p.colors) == 0 {
		return "", fmt.Errorf("%w, while coloring tissue %v", ErrPaletteExhausted, tissue)
	}
	if p.next >= len(p.colors) && p.policy == Fail {
		return "", fmt.Errorf("%w after %v tissues, while coloring tissue %v", ErrPaletteExhausted, p.next, tissue)
	}
	c := p.colors[len(p.colors)-1-p.next%len(p.colors)]
	p.next++
	p.assigned[tissue] = c
	return c, nil
}

// Allocated returns the number of tissues that have a color.
func (p *PaletteAllocator) Allocated() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.assigned)
}
