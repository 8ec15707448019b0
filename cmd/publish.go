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

	"github.com/exascience/trackhub/publish"
)

// PublishHelp is the help string for this command.
const PublishHelp = "Publish parameters:\n" +
	"trackhub publish /path/to/www/\n" +
	"[--config yaml-file]\n" +
	"[--bucket name]\n" +
	"[--prefix key-prefix]\n" +
	"[--region region]\n" +
	"[--endpoint url]\n" +
	"[--path-style]\n" +
	"[--log-path path]\n"

// Publish implements the trackhub publish command. The destination
// is taken from the environment, then the configuration file, then
// the command line.
func Publish() error {
	var (
		configFile, bucket, prefix, region, endpoint, logPath string
		pathStyle                                             bool
	)

	var flags flag.FlagSet

	flags.StringVar(&configFile, "config", "", "YAML file with a publish section")
	flags.StringVar(&bucket, "bucket", "", "destination bucket")
	flags.StringVar(&prefix, "prefix", "", "key prefix within the bucket")
	flags.StringVar(&region, "region", "", "bucket region")
	flags.StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")
	flags.BoolVar(&pathStyle, "path-style", false, "use path-style bucket addressing")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, PublishHelp)
		os.Exit(1)
	}

	dir := getFilename(os.Args[2], PublishHelp)

	parseFlags(&flags, 3, PublishHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", dir) {
		sanityChecksFailed = true
	}

	cfg := publish.ConfigFromEnv()
	if configFile != "" {
		if !checkExist("--config", configFile) {
			sanityChecksFailed = true
		} else if fc, err := ReadConfig(configFile); err != nil {
			log.Println("Error:", err)
			sanityChecksFailed = true
		} else if fc.Publish != nil {
			cfg = *fc.Publish
		}
	}
	if bucket != "" {
		cfg.Bucket = bucket
	}
	if prefix != "" {
		cfg.Prefix = prefix
	}
	if region != "" {
		cfg.Region = region
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if pathStyle {
		cfg.PathStyle = true
	}

	if cfg.Bucket == "" {
		log.Println("Error: No destination bucket given.")
		sanityChecksFailed = true
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, PublishHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " publish ", dir)
	fmt.Fprint(&command, " --bucket ", cfg.Bucket)
	if cfg.Prefix != "" {
		fmt.Fprint(&command, " --prefix ", cfg.Prefix)
	}
	if cfg.Region != "" {
		fmt.Fprint(&command, " --region ", cfg.Region)
	}
	if cfg.Endpoint != "" {
		fmt.Fprint(&command, " --endpoint ", cfg.Endpoint)
	}
	if cfg.PathStyle {
		fmt.Fprint(&command, " --path-style")
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	// executing command

	log.Println("Executing command:\n", command.String())

	ctx := context.Background()
	client, err := publish.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	keys, err := publish.Upload(ctx, client, dir, cfg)
	if err != nil {
		return err
	}
	log.Printf("Uploaded %v files", len(keys))
	return nil
}
