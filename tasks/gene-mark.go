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

	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/fasta"
	"github.com/phigaro/phigaro/v2/internal"
	"github.com/phigaro/phigaro/v2/pipeline"
)

// GeneMarkArgs are the constructor arguments of the gene prediction
// stage.
type GeneMarkArgs struct {
	Context   *Context
	FastaFile string
}

// GeneMarkStage predicts genes and their proteins with MetaGeneMark.
var GeneMarkStage = pipeline.Stage[GeneMarkArgs]{Name: pipeline.GeneMark, New: NewGeneMarkTask}

type geneMarkTask struct {
	ctx       *Context
	fastaFile string
	output    string
}

// NewGeneMarkTask checks the input file, prepares the work directory
// and returns the gene prediction task.
func NewGeneMarkTask(args GeneMarkArgs) (pipeline.Task, error) {
	if err := internal.CheckExist(args.FastaFile); err != nil {
		return nil, errors.Wrap(err, "input sequence file")
	}
	if err := os.MkdirAll(args.Context.WorkDir, 0700); err != nil {
		return nil, err
	}
	task := &geneMarkTask{
		ctx:       args.Context,
		fastaFile: args.FastaFile,
		output:    args.Context.Path(pipeline.GeneMark, ".gff"),
	}
	return pipeline.NewComputingTask(pipeline.GeneMark, task.output, task.run), nil
}

func (task *geneMarkTask) run() error {
	records, err := fasta.ParseFile(task.fastaFile)
	if err != nil {
		return err
	}
	minLength := task.ctx.Config.Phigaro.MinScaffoldLength
	kept := records[:0]
	for _, record := range records {
		if len(record.Seq) < minLength {
			internal.Infof("Skipping scaffold %v of length %v", record.Name, len(record.Seq))
			continue
		}
		fasta.Normalize(record.Seq)
		kept = append(kept, record)
	}
	if len(kept) == 0 {
		return errors.Errorf("no scaffolds of at least %v bp in %v", minLength, task.fastaFile)
	}
	input := task.ctx.Path(pipeline.GeneMark, ".fasta")
	if err := fasta.WriteFile(input, kept); err != nil {
		return err
	}
	cfg := task.ctx.Config.GeneMark
	args := []string{"-a", "-f", "G"}
	if cfg.ModPath != "" {
		args = append(args, "-m", cfg.ModPath)
	}
	args = append(args, "-o", task.output, input)
	return errors.Wrap(internal.RunCmd(exec.Command(cfg.Bin, args...)), "gene prediction")
}
