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

package tasks

import (
	"github.com/phigaro/phigaro/v2/internal"
	"github.com/phigaro/phigaro/v2/pipeline"
)

// dependencies lists the stages each stage reads from.
var dependencies = map[pipeline.StageName][]pipeline.StageName{
	pipeline.Hmmer:      {pipeline.GeneMark},
	pipeline.ParseHmmer: {pipeline.GeneMark, pipeline.Hmmer},
	pipeline.RunPhigaro: {pipeline.GeneMark, pipeline.ParseHmmer},
}

// Build constructs the stages for fastaFile, replacing the substituted
// ones, and returns the chain to run.
//
// Stages that the final stage no longer depends on because of a
// substitution are neither constructed nor part of the chain, so their
// inputs are never checked.
func Build(ctx *Context, subs pipeline.Substitutions, fastaFile string) (chain []pipeline.Task, err error) {
	needed := pipeline.Needed(subs, pipeline.RunPhigaro, dependencies)
	for _, stage := range pipeline.StageNames {
		if !needed[stage] {
			internal.Infof("Task %v is not needed for the final output", stage)
		}
	}

	var geneMark, hmmer, parseHmmer, runPhigaro pipeline.Task
	if needed[pipeline.GeneMark] {
		if geneMark, err = pipeline.Create(subs, GeneMarkStage, GeneMarkArgs{
			Context:   ctx,
			FastaFile: fastaFile,
		}); err != nil {
			return nil, err
		}
		chain = append(chain, geneMark)
	}
	if needed[pipeline.Hmmer] {
		if hmmer, err = pipeline.Create(subs, HmmerStage, HmmerArgs{
			Context:  ctx,
			GeneMark: geneMark,
		}); err != nil {
			return nil, err
		}
		chain = append(chain, hmmer)
	}
	if needed[pipeline.ParseHmmer] {
		if parseHmmer, err = pipeline.Create(subs, ParseHmmerStage, ParseHmmerArgs{
			Context:  ctx,
			GeneMark: geneMark,
			Hmmer:    hmmer,
		}); err != nil {
			return nil, err
		}
		chain = append(chain, parseHmmer)
	}
	if runPhigaro, err = pipeline.Create(subs, RunPhigaroStage, RunPhigaroArgs{
		Context:    ctx,
		GeneMark:   geneMark,
		ParseHmmer: parseHmmer,
	}); err != nil {
		return nil, err
	}
	return append(chain, runPhigaro), nil
}
