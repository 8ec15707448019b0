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
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

/*
SQLiteSource serves a metadata snapshot stored in a single SQLite
file. Records and annotations are stored as JSON payloads, keyed by
assembly and category or accession.
*/
type SQLiteSource struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS experiments (
	assembly TEXT NOT NULL,
	category TEXT NOT NULL,
	position INTEGER NOT NULL,
	payload BLOB NOT NULL,
	PRIMARY KEY (assembly, category, position)
);
CREATE TABLE IF NOT EXISTS annotations (
	assembly TEXT NOT NULL,
	accession TEXT NOT NULL,
	payload BLOB NOT NULL,
	PRIMARY KEY (assembly, accession)
);
CREATE TABLE IF NOT EXISTS global_data (
	assembly TEXT PRIMARY KEY,
	payload BLOB NOT NULL
);`

// OpenSQLiteSource opens or creates a snapshot database.
func OpenSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w, while opening %v", err, path)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w, while creating tables in %v", err, path)
	}
	return &SQLiteSource{db: db}, nil
}

func (src *SQLiteSource) Close() error {
	return src.db.Close()
}

func (src *SQLiteSource) UsefulExperiments(assembly, category string) ([]*Experiment, error) {
	rows, err := src.db.Query(`SELECT payload FROM experiments WHERE assembly = ? AND category = ? ORDER BY position`, assembly, category)
	if err != nil {
		return nil, fmt.Errorf("%w, while selecting %v experiments", err, category)
	}
	defer func() { _ = rows.Close() }()
	var records []Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("%w, while decoding a %v record", err, category)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fromRecords(category, records)
}

func (src *SQLiteSource) AnnotationsForAssembly(assembly string) (map[string]Annotation, error) {
	rows, err := src.db.Query(`SELECT accession, payload FROM annotations WHERE assembly = ?`, assembly)
	if err != nil {
		return nil, fmt.Errorf("%w, while selecting annotations", err)
	}
	defer func() { _ = rows.Close() }()
	annotations := make(map[string]Annotation)
	for rows.Next() {
		var accession string
		var payload []byte
		if err := rows.Scan(&accession, &payload); err != nil {
			return nil, err
		}
		var a Annotation
		if err := json.Unmarshal(payload, &a); err != nil {
			return nil, fmt.Errorf("%w, while decoding annotation %v", err, accession)
		}
		annotations[accession] = a
	}
	return annotations, rows.Err()
}

func (src *SQLiteSource) RegulatoryData(assembly string) (*GlobalData, error) {
	var payload []byte
	err := src.db.QueryRow(`SELECT payload FROM global_data WHERE assembly = ?`, assembly).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w, while loading regulatory data for %v", fs.ErrNotExist, assembly)
	}
	if err != nil {
		return nil, err
	}
	data := new(GlobalData)
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("%w, while decoding regulatory data for %v", err, assembly)
	}
	return data, nil
}

/*
Import replaces the records of one category, preserving their order.
Every record is validated with FromRecord before anything is written.
*/
func (src *SQLiteSource) Import(ctx context.Context, assembly, category string, records []Record) (retErr error) {
	for _, r := range records {
		if _, err := FromRecord(r); err != nil {
			return fmt.Errorf("%w, while importing %v experiments", err, category)
		}
	}
	tx, err := src.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM experiments WHERE assembly = ? AND category = ?`, assembly, category); err != nil {
		return err
	}
	for i, r := range records {
		payload, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO experiments(assembly,category,position,payload) VALUES(?,?,?,?)`, assembly, category, i, payload); err != nil {
			return fmt.Errorf("%w, while inserting %v record %v", err, category, i)
		}
	}
	return tx.Commit()
}

// ImportAnnotations upserts the given annotations.
func (src *SQLiteSource) ImportAnnotations(ctx context.Context, assembly string, annotations map[string]Annotation) (retErr error) {
	tx, err := src.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for accession, a := range annotations {
		payload, err := json.Marshal(a)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO annotations(assembly,accession,payload) VALUES(?,?,?) ON CONFLICT(assembly,accession) DO UPDATE SET payload=excluded.payload`, assembly, accession, payload); err != nil {
			return fmt.Errorf("%w, while upserting annotation %v", err, accession)
		}
	}
	return tx.Commit()
}

// ImportGlobalData stores the regulatory element document of an
// assembly.
func (src *SQLiteSource) ImportGlobalData(ctx context.Context, assembly string, data *GlobalData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = src.db.ExecContext(ctx, `INSERT INTO global_data(assembly,payload) VALUES(?,?) ON CONFLICT(assembly) DO UPDATE SET payload=excluded.payload`, assembly, payload)
	return err
}

/*
ImportSnapshot copies everything a JSONSource holds for the given
assemblies and categories into the database.
*/
func (src *SQLiteSource) ImportSnapshot(ctx context.Context, from *JSONSource, assemblies, categories []string) error {
	for _, assembly := range assemblies {
		for _, category := range categories {
			var records []Record
			found, err := from.readJSON(&records, assembly, "experiments", category+".json")
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			if err := src.Import(ctx, assembly, category, records); err != nil {
				return err
			}
		}
		annotations, err := from.AnnotationsForAssembly(assembly)
		if err != nil {
			return err
		}
		if err := src.ImportAnnotations(ctx, assembly, annotations); err != nil {
			return err
		}
		data, err := from.RegulatoryData(assembly)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if err := src.ImportGlobalData(ctx, assembly, data); err != nil {
			return err
		}
	}
	return nil
}
