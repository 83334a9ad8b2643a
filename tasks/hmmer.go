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
	"os"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/fasta"
	"github.com/phigaro/phigaro/v2/gff"
	"github.com/phigaro/phigaro/v2/internal"
	"github.com/phigaro/phigaro/v2/pipeline"
)

// HmmerArgs are the constructor arguments of the profile search stage.
type HmmerArgs struct {
	Context  *Context
	GeneMark pipeline.Task
}

// HmmerStage searches the predicted proteins against the pVOG profiles.
var HmmerStage = pipeline.Stage[HmmerArgs]{Name: pipeline.Hmmer, New: NewHmmerTask}

type hmmerTask struct {
	ctx      *Context
	geneMark pipeline.Task
	output   string
}

// NewHmmerTask checks the profile database and returns the profile
// search task.
func NewHmmerTask(args HmmerArgs) (pipeline.Task, error) {
	if err := internal.CheckExist(args.Context.Config.Hmmer.PvogPath); err != nil {
		return nil, errors.Wrap(err, "hmmer.pvog_path")
	}
	if err := os.MkdirAll(args.Context.WorkDir, 0700); err != nil {
		return nil, err
	}
	task := &hmmerTask{
		ctx:      args.Context,
		geneMark: args.GeneMark,
		output:   args.Context.Path(pipeline.Hmmer, ".tblout"),
	}
	return pipeline.NewComputingTask(pipeline.Hmmer, task.output, task.run, args.GeneMark), nil
}

func (task *hmmerTask) run() error {
	genes, err := gff.ParseFile(task.geneMark.Output())
	if err != nil {
		return errors.Wrap(err, "reading gene predictions")
	}
	proteins := genes.ProteinRecords()
	if len(proteins) == 0 {
		return errors.Errorf("no protein sequences in %v", task.geneMark.Output())
	}
	faa := task.ctx.Path(pipeline.Hmmer, ".faa")
	if err := fasta.WriteFile(faa, proteins); err != nil {
		return err
	}
	cfg := task.ctx.Config.Hmmer
	cmd := exec.Command(cfg.Bin,
		"--cpu", strconv.Itoa(task.ctx.Threads),
		"--notextw", "--noali",
		"-o", os.DevNull,
		"--tblout", task.output,
		cfg.PvogPath, faa,
	)
	return errors.Wrap(internal.RunCmd(cmd), "profile search")
}
