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
	"bufio"
	"strings"
)

// A Field is a single key/value line of a stanza.
type Field struct {
	Key, Value string
}

/*
A Stanza is an ordered block of trackDb fields. Fields with empty
values are kept in the stanza but never formatted, so that optional
attributes can be set unconditionally.
*/
type Stanza struct {
	Indent int
	Fields []Field
}

// NewStanza returns a stanza whose first field is "track id".
func NewStanza(id string, indent int) *Stanza {
	return &Stanza{Indent: indent, Fields: []Field{{"track", id}}}
}

// Set replaces the value of an existing key, or appends a new field.
func (s *Stanza) Set(key, value string) {
	for i := range s.Fields {
		if s.Fields[i].Key == key {
			s.Fields[i].Value = value
			return
		}
	}
	s.Fields = append(s.Fields, Field{key, value})
}

// Get returns the value for the given key.
func (s *Stanza) Get(key string) (string, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// ID returns the value of the first field.
func (s *Stanza) ID() string {
	if len(s.Fields) == 0 {
		return ""
	}
	return s.Fields[0].Value
}

// AppendTo appends the formatted stanza, including its terminating
// blank line, to buf.
func (s *Stanza) AppendTo(buf []byte) []byte {
	for _, f := range s.Fields {
		if f.Value == "" {
			continue
		}
		for i := 0; i < s.Indent; i++ {
			buf = append(buf, '\t')
		}
		buf = append(buf, f.Key...)
		buf = append(buf, ' ')
		buf = append(buf, f.Value...)
		buf = append(buf, '\n')
	}
	return append(buf, '\n')
}

func (s *Stanza) Format() string {
	return string(s.AppendTo(nil))
}

// FormatAll formats the given stanzas in order.
func FormatAll(stanzas []*Stanza) string {
	var buf []byte
	for _, s := range stanzas {
		buf = s.AppendTo(buf)
	}
	return string(buf)
}

/*
Parse splits trackDb text into stanzas. Stanzas are separated by blank
lines, and a field's key is the text up to the first space. The
indentation of a stanza is taken from its first line.
*/
func Parse(text string) (stanzas []*Stanza) {
	var current *Stanza
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(nil, 1<<24)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimLeft(line, "\t")
		if strings.TrimSpace(trimmed) == "" {
			current = nil
			continue
		}
		if current == nil {
			current = &Stanza{Indent: len(line) - len(trimmed)}
			stanzas = append(stanzas, current)
		}
		key, value, _ := strings.Cut(trimmed, " ")
		current.Fields = append(current.Fields, Field{key, value})
	}
	return stanzas
}
