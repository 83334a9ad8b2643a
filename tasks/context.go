// phigaro: a scalable tool for predicting phages and prophages.
// Copyright (c) 2018-2021 the phigaro authors.

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
// <https://github.com/phigaro/phigaro/blob/master/LICENSE.txt>.

// Package tasks implements the four stages of the phigaro pipeline and
// wires them into a chain.
package tasks

import (
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/config"
	"github.com/phigaro/phigaro/v2/internal"
	"github.com/phigaro/phigaro/v2/pipeline"
)

// Context is the state shared by all stages of one run. It is created
// once by NewContext and must not be modified afterwards.
type Context struct {
	Sample  string
	Config  *config.Config
	Threads int

	// WorkDir holds the outputs of all stages of this run.
	WorkDir string
}

// SampleName returns the base name of filename without its extension.
func SampleName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NewSample returns a sample identifier for filename that is unique
// across runs.
func NewSample(filename string) string {
	id := uuid.New()
	return SampleName(filename) + "-" + hex.EncodeToString(id[:])
}

// NewContext creates the context of a run.
func NewContext(sample string, cfg *config.Config, threads int) (*Context, error) {
	if sample == "" {
		return nil, errors.New("empty sample identifier")
	}
	if threads < 1 {
		return nil, errors.Errorf("invalid number of threads %v", threads)
	}
	workDir, err := internal.FullPathname(filepath.Join(cfg.WorkDir, sample))
	if err != nil {
		return nil, err
	}
	return &Context{
		Sample:  sample,
		Config:  cfg,
		Threads: threads,
		WorkDir: workDir,
	}, nil
}

// Path returns the name of a file in the work directory that belongs
// to the given stage.
func (ctx *Context) Path(stage pipeline.StageName, ext string) string {
	return filepath.Join(ctx.WorkDir, string(stage)+ext)
}
