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
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/exascience/trackhub/internal"
	"github.com/exascience/trackhub/schemes"
	"github.com/exascience/trackhub/trackdb"
)

// SuperStanza returns the stanza of a super track with the given
// priority.
func SuperStanza(s *schemes.Super, priority int) *trackdb.Stanza {
	stanza := trackdb.NewStanza(s.ID(), 0)
	if s.Show {
		stanza.Set("superTrack", "on show")
	} else {
		stanza.Set("superTrack", "on")
	}
	stanza.Set("priority", strconv.Itoa(priority))
	stanza.Set("shortLabel", s.ShortLabel)
	stanza.Set("longLabel", s.LongLabel)
	stanza.Set("description", s.Description)
	return stanza
}

/*
AssembleTrackDb merges the plans of an assembly into one trackDb
document. For every scheme, it emits the stanzas of its super tracks,
with priorities drawn from alloc in merge order, followed by the
composite files of its groups, which are read from dir. It returns
the document and the number of super tracks.
*/
func AssembleTrackDb(fsys internal.FS, dir string, plans []*schemes.Plan, alloc *Allocator) ([]byte, int, error) {
	var buf []byte
	supers := 0
	for _, plan := range plans {
		for _, s := range plan.Supers {
			priority, err := alloc.Increment(1)
			if err != nil {
				return nil, 0, fmt.Errorf("%w, while assigning the priority of %v", err, s.ID())
			}
			buf = SuperStanza(s, priority).AppendTo(buf)
			supers++
		}
		for _, g := range plan.Groups() {
			filename := filepath.Join(dir, g.Path)
			composite, err := fsys.ReadFile(filename)
			if errors.Is(err, fs.ErrNotExist) {
				return nil, 0, fmt.Errorf("%w %v, while assembling %v", ErrMissingSubtracks, filename, g.ID())
			} else if err != nil {
				return nil, 0, fmt.Errorf("%w, while assembling %v", err, g.ID())
			}
			buf = append(buf, composite...)
		}
	}
	return buf, supers, nil
}

// WriteManifest writes hub.txt and genomes.txt to dir.
func WriteManifest(fsys internal.FS, dir string, info trackdb.HubInfo, genomes []trackdb.Genome) error {
	if err := internal.WriteFileAtomic(fsys, filepath.Join(dir, "hub.txt"), []byte(trackdb.FormatHub(info))); err != nil {
		return fmt.Errorf("%w, while writing hub.txt", err)
	}
	if err := internal.WriteFileAtomic(fsys, filepath.Join(dir, trackdb.GenomesFile), []byte(trackdb.FormatGenomes(genomes))); err != nil {
		return fmt.Errorf("%w, while writing %v", err, trackdb.GenomesFile)
	}
	return nil
}
