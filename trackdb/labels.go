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
	"html"
	"strings"
)

// Unknown replaces blank classification values.
const Unknown = "unknown"

// Visibility tiers.
const (
	Hidden = "hidden"
	Dense  = "dense"
	Full   = "full"
)

const (
	shortLabelLength = 17
	longLabelLength  = 80
)

// Sanitize replaces every byte that is not an ASCII letter, digit or
// underscore with an underscore.
func Sanitize(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '_':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}

// GetOrUnknown returns s, or Unknown if s is blank.
func GetOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}

// ASCII drops all non-ASCII characters.
func ASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x80 {
			return -1
		}
		return r
	}, s)
}

// HTMLEscape escapes s for use as a display label.
func HTMLEscape(s string) string {
	return html.EscapeString(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ShortLabel joins the non-blank parts with spaces and truncates the
// result to 17 characters.
func ShortLabel(parts ...string) string {
	var nonBlank []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonBlank = append(nonBlank, p)
		}
	}
	return strings.TrimSpace(truncate(strings.Join(nonBlank, " "), shortLabelLength))
}

// LongLabel truncates s to 80 characters.
func LongLabel(s string) string {
	return truncate(strings.TrimSpace(s), longLabelLength)
}

// Viz returns the given tier for active tracks, and Hidden otherwise.
func Viz(tier string, active bool) string {
	if active {
		return tier
	}
	return Hidden
}
