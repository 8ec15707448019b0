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
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/exascience/trackhub/experiments"
	"github.com/exascience/trackhub/hub"
	"github.com/exascience/trackhub/internal"
	"github.com/exascience/trackhub/metrics"
	"github.com/exascience/trackhub/schemes"
	"github.com/exascience/trackhub/trackdb"
	"github.com/exascience/trackhub/tracks"
)

// BuildHelp is the help string for this command.
const BuildHelp = "Build parameters:\n" +
	"trackhub build (/path/to/metadata/ | snapshot.db) /path/to/www/\n" +
	"[--config yaml-file]\n" +
	"[--assembly assembly[,assembly]...]\n" +
	"[--schemes [all | ccres,factor,assay,biosample]]\n" +
	"[--palette-policy [fail | cycle]]\n" +
	"[--nr-of-threads nr]\n" +
	"[--tmp-path path]\n" +
	"[--metrics-file file]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

func openCatalog(metadata string) (experiments.Catalog, func() error, error) {
	info, err := os.Stat(metadata)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return experiments.NewJSONSource(metadata), func() error { return nil }, nil
	}
	src, err := experiments.OpenSQLiteSource(metadata)
	if err != nil {
		return nil, nil, err
	}
	return src, src.Close, nil
}

func selectGenomes(genomes []trackdb.Genome, assemblies []string) ([]trackdb.Genome, error) {
	if len(assemblies) == 0 {
		return genomes, nil
	}
	var selected []trackdb.Genome
	for _, assembly := range assemblies {
		found := false
		for _, g := range genomes {
			if g.Assembly == assembly {
				selected = append(selected, g)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown assembly %v", assembly)
		}
	}
	return selected, nil
}

// Build implements the trackhub build command.
func Build() error {
	var (
		configFile, assemblies, schemeList, palettePolicy string
		tmpPath, metricsFile, profile, logPath            string
		nrOfThreads                                       int
		timed                                             bool
	)

	var flags flag.FlagSet

	flags.StringVar(&configFile, "config", "", "YAML file overriding the built-in tables")
	flags.StringVar(&assemblies, "assembly", "", "comma-separated assemblies to build")
	flags.StringVar(&schemeList, "schemes", "all", "comma-separated facet schemes to build")
	flags.StringVar(&palettePolicy, "palette-policy", "", "what to do when the tissue palette runs out of colors")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.StringVar(&tmpPath, "tmp-path", "", "directory for the composite track files")
	flags.StringVar(&metricsFile, "metrics-file", "", "write run metrics in node exporter textfile format")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a CPU profile")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, BuildHelp)
		os.Exit(1)
	}

	metadata := getFilename(os.Args[2], BuildHelp)
	output := getFilename(os.Args[3], BuildHelp)

	parseFlags(&flags, 4, BuildHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", metadata) {
		sanityChecksFailed = true
	}

	var fileConfig *FileConfig
	if configFile != "" {
		if !checkExist("--config", configFile) {
			sanityChecksFailed = true
		} else {
			var err error
			if fileConfig, err = ReadConfig(configFile); err != nil {
				log.Println("Error:", err)
				sanityChecksFailed = true
			}
		}
	}

	names, err := schemes.ParseNames(schemeList)
	if err != nil {
		log.Println("Error:", err)
		sanityChecksFailed = true
	}

	var policy *tracks.ExhaustionPolicy
	if palettePolicy != "" {
		p, err := tracks.ParseExhaustionPolicy(palettePolicy)
		if err != nil {
			log.Println("Error:", err)
			sanityChecksFailed = true
		}
		policy = &p
	}

	if nrOfThreads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}

	if metricsFile != "" && !checkCreate("--metrics-file", metricsFile) {
		sanityChecksFailed = true
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, BuildHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " build ", metadata, " ", output)
	if configFile != "" {
		fmt.Fprint(&command, " --config ", configFile)
	}
	if assemblies != "" {
		fmt.Fprint(&command, " --assembly ", assemblies)
	}
	fmt.Fprint(&command, " --schemes ", schemeList)
	if palettePolicy != "" {
		fmt.Fprint(&command, " --palette-policy ", palettePolicy)
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}
	if tmpPath != "" {
		fmt.Fprint(&command, " --tmp-path ", tmpPath)
	}
	if metricsFile != "" {
		fmt.Fprint(&command, " --metrics-file ", metricsFile)
	}
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	if profile != "" {
		fmt.Fprint(&command, " --profile ", profile)
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	// executing command

	log.Println("Executing command:\n", command.String())

	fullOutput, err := internal.FullPathname(output)
	if err != nil {
		return err
	}

	cfg := hub.DefaultConfig(fullOutput)
	if fileConfig != nil {
		fileConfig.Apply(&cfg)
	}
	if policy != nil {
		cfg.PalettePolicy = *policy
	}
	cfg.Schemes = names
	cfg.Width = nrOfThreads
	if tmpPath != "" {
		if cfg.StagingDir, err = internal.FullPathname(filepath.Join(tmpPath, "trackhub")); err != nil {
			return err
		}
	}
	if cfg.Genomes, err = selectGenomes(cfg.Genomes, splitList(assemblies)); err != nil {
		return err
	}
	if metricsFile != "" {
		cfg.Metrics = metrics.NewRecorder()
	}

	catalog, closeCatalog, err := openCatalog(metadata)
	if err != nil {
		return fmt.Errorf("%w, while opening metadata %v", err, metadata)
	}
	defer func() {
		if err := closeCatalog(); err != nil {
			log.Println("Warning:", err)
		}
	}()

	var assemblyNames []string
	for _, g := range cfg.Genomes {
		assemblyNames = append(assemblyNames, g.Assembly)
	}
	timedRun(timed, profile, "Building track hub for "+strings.Join(assemblyNames, ", ")+".", 1, func() {
		err = hub.NewRunner(cfg, catalog).Run()
	})
	if err != nil {
		return err
	}

	if metricsFile != "" {
		return cfg.Metrics.WriteTextfile(metricsFile)
	}
	return nil
}
