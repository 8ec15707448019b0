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

package experiments

import (
	"errors"
	"fmt"
	"strings"
)

// A Record is a loosely typed experiment record as decoded from a
// metadata snapshot.
type Record map[string]interface{}

// A MissingFieldError reports a required field that a record lacks.
type MissingFieldError struct {
	Accession string
	Field     string
}

func (err *MissingFieldError) Error() string {
	if err.Accession == "" {
		return fmt.Sprintf("record without accession: missing field %v", err.Field)
	}
	return fmt.Sprintf("record %v: missing field %v", err.Accession, err.Field)
}

func (r Record) str(accession, field string, required bool) (string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		if required {
			return "", &MissingFieldError{Accession: accession, Field: field}
		}
		return "", nil
	}
	switch v := v.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" && required {
			return "", &MissingFieldError{Accession: accession, Field: field}
		}
		return s, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fmt.Errorf("record %v: field %v has type %T, expected a string", accession, field, v)
}

func (r Record) strings(accession, field string) ([]string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	switch v := v.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("record %v: field %v contains %T, expected a string", accession, field, e)
			}
			result = append(result, s)
		}
		return result, nil
	}
	return nil, fmt.Errorf("record %v: field %v has type %T, expected a list", accession, field, v)
}

func (r Record) flag(field string) bool {
	switch v := r[field].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	case float64:
		return v != 0
	}
	return false
}

func firstOf(r Record, fields ...string) interface{} {
	for _, f := range fields {
		if v, ok := r[f]; ok && v != nil {
			return v
		}
	}
	return nil
}

/*
FromRecord maps a metadata record to an Experiment. The accession and
the assay term name are required and reported with a
MissingFieldError when absent; all other fields may be blank and are
later classified with the unknown sentinel.
*/
func FromRecord(r Record) (*Experiment, error) {
	accession, err := r.str("", "accession", true)
	if err != nil {
		return nil, err
	}
	exp := &Experiment{ID: accession}
	for _, field := range []struct {
		name     string
		dst      *string
		required bool
	}{
		{"assay_term_name", &exp.AssayTermName, true},
		{"assay_category", &exp.AssayCategory, false},
		{"assay_title", &exp.AssayTitle, false},
		{"biosample_type", &exp.BiosampleType, false},
		{"biosample_term_name", &exp.BiosampleTermName, false},
		{"biosample_summary", &exp.BiosampleSummary, false},
		{"description", &exp.Description, false},
		{"donor_id", &exp.DonorID, false},
		{"age_display", &exp.AgeDisplay, false},
		{"donor_sex", &exp.DonorSex, false},
		{"target", &exp.Target, false},
		{"label", &exp.Label, false},
	} {
		if *field.dst, err = r.str(accession, field.name, field.required); err != nil {
			return nil, err
		}
	}
	if exp.OrganSlims, err = r.strings(accession, "organ_slims"); err != nil {
		return nil, err
	}
	switch files := r["files"].(type) {
	case nil:
	case []interface{}:
		for i, entry := range files {
			fr, ok := entry.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("record %v: file %v has type %T, expected an object", accession, i, entry)
			}
			f, err := fileFromRecord(accession, Record(fr))
			if err != nil {
				return nil, err
			}
			exp.Files = append(exp.Files, f)
		}
	case []Record:
		for _, fr := range files {
			f, err := fileFromRecord(accession, fr)
			if err != nil {
				return nil, err
			}
			exp.Files = append(exp.Files, f)
		}
	default:
		return nil, fmt.Errorf("record %v: field files has type %T, expected a list", accession, files)
	}
	return exp, nil
}

func fileFromRecord(accession string, r Record) (f File, err error) {
	f.ExperimentID = accession
	if f.ID, err = r.str(accession, "accession", true); err != nil {
		var missing *MissingFieldError
		if errors.As(err, &missing) {
			missing.Field = "files.accession"
		}
		return f, err
	}
	kind, _ := firstOf(r, "kind", "file_type").(string)
	var ok bool
	if f.Kind, ok = ParseFileKind(kind); !ok {
		return f, fmt.Errorf("record %v: file %v has unknown file type %q", accession, f.ID, kind)
	}
	if f.Assembly, err = r.str(accession, "assembly", false); err != nil {
		return f, err
	}
	if f.OutputType, err = r.str(accession, "output_type", false); err != nil {
		return f, err
	}
	url, _ := firstOf(r, "url", "href").(string)
	f.URL = url
	f.Pooled = r.flag("pooled") || r.flag("isPooled")
	return f, nil
}
