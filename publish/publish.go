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

// Package publish uploads a finished track hub to an S3-compatible
// bucket.
package publish

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/exascience/trackhub/internal"
)

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config describes the destination of a hub.
type Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

/*
ConfigFromEnv reads a destination from the environment:

	TRACKHUB_S3_BUCKET     (required)
	TRACKHUB_S3_PREFIX
	TRACKHUB_S3_REGION     (default us-east-1)
	TRACKHUB_S3_ENDPOINT   (for example a MinIO server)
	TRACKHUB_S3_PATH_STYLE (true or false)

Credentials come from the default AWS chain.
*/
func ConfigFromEnv() Config {
	return Config{
		Bucket:    os.Getenv("TRACKHUB_S3_BUCKET"),
		Prefix:    os.Getenv("TRACKHUB_S3_PREFIX"),
		Region:    os.Getenv("TRACKHUB_S3_REGION"),
		Endpoint:  os.Getenv("TRACKHUB_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("TRACKHUB_S3_PATH_STYLE"), "true"),
	}
}

// NewClient creates an S3 client for the destination.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("%w, while loading the AWS configuration", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// ContentType returns the content type of a hub file.
func ContentType(name string) string {
	switch path.Ext(name) {
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".html":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	}
	return "application/octet-stream"
}

// hidden tells whether a path lies in or is a dot file or directory,
// such as the staging directory or a file that is still being written.
func hidden(name string) bool {
	for _, elem := range strings.Split(name, "/") {
		if strings.HasPrefix(elem, ".") {
			return true
		}
	}
	return false
}

// Key returns the object key of a hub file.
func Key(prefix, name string) string {
	if prefix = strings.Trim(prefix, "/"); prefix == "" {
		return name
	}
	return prefix + "/" + name
}

/*
Upload puts every file below dir into the destination bucket, in
lexical order, and returns the uploaded keys. Dot files and the
contents of dot directories are skipped.
*/
func Upload(ctx context.Context, client PutObjectAPI, dir string, cfg Config) ([]string, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("no bucket configured")
	}
	files, err := internal.Files(dir)
	if err != nil {
		return nil, fmt.Errorf("%w, while listing %v", err, dir)
	}
	var keys []string
	for _, name := range files {
		if hidden(name) {
			continue
		}
		key := Key(cfg.Prefix, name)
		if err := put(ctx, client, filepath.Join(dir, filepath.FromSlash(name)), cfg.Bucket, key); err != nil {
			return keys, fmt.Errorf("%w, while uploading %v to s3://%v/%v", err, name, cfg.Bucket, key)
		}
		log.Printf("Uploaded s3://%v/%v", cfg.Bucket, key)
		keys = append(keys, key)
	}
	return keys, nil
}

func put(ctx context.Context, client PutObjectAPI, filename, bucket, key string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentType(key)),
	})
	return err
}
