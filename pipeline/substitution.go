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

package pipeline

import (
	"strings"

	"github.com/pkg/errors"
)

// StageName identifies a stage of the pipeline. It is also the key
// used to look up substitutions.
type StageName string

// The stages of the phigaro pipeline, in execution order.
const (
	GeneMark   StageName = "gene_mark"
	Hmmer      StageName = "hmmer"
	ParseHmmer StageName = "parse_hmmer"
	RunPhigaro StageName = "run_phigaro"
)

// StageNames lists all valid stage names in execution order.
var StageNames = []StageName{GeneMark, Hmmer, ParseHmmer, RunPhigaro}

var (
	// ErrMalformedSubstitution is returned for substitution entries that
	// are not of the form stage_name:output_path.
	ErrMalformedSubstitution = errors.New("malformed substitution")

	// ErrUnknownStage is returned for substitution entries that name a
	// stage that does not exist.
	ErrUnknownStage = errors.New("unknown stage")
)

// ParseStageName checks that name is one of StageNames.
func ParseStageName(name string) (StageName, error) {
	for _, stage := range StageNames {
		if string(stage) == name {
			return stage, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownStage, "%q (valid stages are %v)", name, StageNames)
}

// Substitutions maps stage names to the DummyTasks that replace them.
type Substitutions map[StageName]*DummyTask

// ParseSubstitutions parses entries of the form stage_name:output_path.
//
// Each entry must contain exactly one ':' with a non-empty stage name
// on its left and a non-empty path on its right, and the stage name
// must be known. A later entry for the same stage replaces an earlier
// one. The output paths are not checked here; a missing output is
// detected by the first stage that reads it.
func ParseSubstitutions(entries []string) (Substitutions, error) {
	subs := make(Substitutions, len(entries))
	for _, entry := range entries {
		if strings.Count(entry, ":") != 1 {
			return nil, errors.Wrapf(ErrMalformedSubstitution, "%q: expected stage_name:output_path", entry)
		}
		i := strings.IndexByte(entry, ':')
		name, output := entry[:i], entry[i+1:]
		if name == "" || output == "" {
			return nil, errors.Wrapf(ErrMalformedSubstitution, "%q: empty stage name or output path", entry)
		}
		stage, err := ParseStageName(name)
		if err != nil {
			return nil, errors.Wrapf(err, "substitution %q", entry)
		}
		subs[stage] = NewDummyTask(stage, output)
	}
	return subs, nil
}

// Needed returns the stages that have to be built to produce the output
// of terminal. deps maps each stage to the stages it reads from. A
// substituted stage reads nothing, so the stages that only feed it are
// not needed, and their constructors must not be called.
func Needed(subs Substitutions, terminal StageName, deps map[StageName][]StageName) map[StageName]bool {
	needed := make(map[StageName]bool)
	var mark func(StageName)
	mark = func(stage StageName) {
		if needed[stage] {
			return
		}
		needed[stage] = true
		if _, ok := subs[stage]; ok {
			return
		}
		for _, dep := range deps[stage] {
			mark(dep)
		}
	}
	mark(terminal)
	return needed
}
