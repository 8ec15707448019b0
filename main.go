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

// trackhub compiles experiment metadata into a UCSC genome browser
// track hub: per assembly, a trackDb of super tracks, composite
// tracks and leaf tracks grouped by several facet schemes, plus the
// hub.txt and genomes.txt manifest.
//
// Please see https://github.com/exascience/trackhub for a
// documentation of the tool.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/exascience/trackhub/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: build, publish, import")
	fmt.Fprint(os.Stderr, "\n", cmd.BuildHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.PublishHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.ImportHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage, "\n")
		printHelp()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = cmd.Build()
	case "publish":
		err = cmd.Publish()
	case "import":
		err = cmd.Import()
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		log.Printf("Unknown command %v.\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
