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
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/gff"
	"github.com/phigaro/phigaro/v2/hmmer"
	"github.com/phigaro/phigaro/v2/internal"
	"github.com/phigaro/phigaro/v2/pipeline"
)

// ParseHmmerArgs are the constructor arguments of the result parsing
// stage.
type ParseHmmerArgs struct {
	Context  *Context
	GeneMark pipeline.Task
	Hmmer    pipeline.Task
}

// ParseHmmerStage classifies every predicted gene as phage or non-phage.
var ParseHmmerStage = pipeline.Stage[ParseHmmerArgs]{Name: pipeline.ParseHmmer, New: NewParseHmmerTask}

type parseHmmerTask struct {
	ctx      *Context
	geneMark pipeline.Task
	hmmer    pipeline.Task
	output   string
}

// NewParseHmmerTask returns the result parsing task.
func NewParseHmmerTask(args ParseHmmerArgs) (pipeline.Task, error) {
	if err := os.MkdirAll(args.Context.WorkDir, 0700); err != nil {
		return nil, err
	}
	task := &parseHmmerTask{
		ctx:      args.Context,
		geneMark: args.GeneMark,
		hmmer:    args.Hmmer,
		output:   args.Context.Path(pipeline.ParseHmmer, ".tsv"),
	}
	return pipeline.NewComputingTask(pipeline.ParseHmmer, task.output, task.run, args.GeneMark, args.Hmmer), nil
}

// The output has one line per scaffold: the scaffold name, a tab, and
// one '0' or '1' per gene in order of start position, '1' marking a
// phage gene.
func (task *parseHmmerTask) run() (err error) {
	genes, err := gff.ParseFile(task.geneMark.Output())
	if err != nil {
		return errors.Wrap(err, "reading gene predictions")
	}
	hits, err := hmmer.ParseTbloutFile(task.hmmer.Output())
	if err != nil {
		return errors.Wrap(err, "reading profile search results")
	}
	threshold := task.ctx.Config.Hmmer.EValueThreshold

	f, err := os.Create(task.output)
	if err != nil {
		return err
	}
	defer internal.Close(f, &err)
	out := bufio.NewWriter(f)

	names, byScaffold := genes.Scaffolds()
	var flags strings.Builder
	for _, name := range names {
		flags.Reset()
		for _, gene := range byScaffold[name] {
			if hit, ok := hits[gene.ID]; ok && hit.EValue <= threshold {
				flags.WriteByte('1')
			} else {
				flags.WriteByte('0')
			}
		}
		if _, err := out.WriteString(name + "\t" + flags.String() + "\n"); err != nil {
			return err
		}
	}
	return out.Flush()
}
