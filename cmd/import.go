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

package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/hub"
)

// ImportHelp is the help string for this command.
const ImportHelp = "Import parameters:\n" +
	"trackhub import /path/to/metadata/ snapshot.db\n" +
	"[--assembly assembly[,assembly]...]\n" +
	"[--log-path path]\n"

// Import implements the trackhub import command, which copies a JSON
// metadata snapshot into an SQLite database usable by trackhub build.
func Import() error {
	var assemblies, logPath string

	var flags flag.FlagSet

	flags.StringVar(&assemblies, "assembly", "", "comma-separated assemblies to import")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, ImportHelp)
		os.Exit(1)
	}

	input := getFilename(os.Args[2], ImportHelp)
	output := getFilename(os.Args[3], ImportHelp)

	parseFlags(&flags, 4, ImportHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", input) {
		sanityChecksFailed = true
	} else if info, err := os.Stat(input); err == nil && !info.IsDir() {
		log.Printf("Error: %v is not a directory.\n", input)
		sanityChecksFailed = true
	}

	if !checkCreate("", output) {
		sanityChecksFailed = true
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, ImportHelp)
		os.Exit(1)
	}

	selected := splitList(assemblies)
	if len(selected) == 0 {
		for _, g := range hub.DefaultGenomes() {
			selected = append(selected, g.Assembly)
		}
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " import ", input, " ", output)
	fmt.Fprint(&command, " --assembly ", strings.Join(selected, ","))
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	// executing command

	log.Println("Executing command:\n", command.String())

	db, err := experiments.OpenSQLiteSource(output)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Println("Warning:", err)
		}
	}()
	if err := db.ImportSnapshot(context.Background(), experiments.NewJSONSource(input), selected, experiments.Categories); err != nil {
		return fmt.Errorf("%w, while importing %v into %v", err, input, output)
	}
	return nil
}
