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
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/exascience/pargo/parallel"
	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/finder"
	"github.com/phigaro/phigaro/v2/gff"
	"github.com/phigaro/phigaro/v2/internal"
	"github.com/phigaro/phigaro/v2/pipeline"
)

// RunPhigaroArgs are the constructor arguments of the final prediction
// stage.
type RunPhigaroArgs struct {
	Context    *Context
	GeneMark   pipeline.Task
	ParseHmmer pipeline.Task
}

// RunPhigaroStage predicts prophage regions.
var RunPhigaroStage = pipeline.Stage[RunPhigaroArgs]{Name: pipeline.RunPhigaro, New: NewRunPhigaroTask}

// ResultHeader is the first line of the final prediction output.
const ResultHeader = "scaffold\tbegin\tend\tphage_genes\ttotal_genes"

type runPhigaroTask struct {
	ctx        *Context
	geneMark   pipeline.Task
	parseHmmer pipeline.Task
	output     string
}

// NewRunPhigaroTask returns the final prediction task.
func NewRunPhigaroTask(args RunPhigaroArgs) (pipeline.Task, error) {
	if err := os.MkdirAll(args.Context.WorkDir, 0700); err != nil {
		return nil, err
	}
	task := &runPhigaroTask{
		ctx:        args.Context,
		geneMark:   args.GeneMark,
		parseHmmer: args.ParseHmmer,
		output:     args.Context.Path(pipeline.RunPhigaro, ".tsv"),
	}
	return pipeline.NewComputingTask(pipeline.RunPhigaro, task.output, task.run, args.GeneMark, args.ParseHmmer), nil
}

type scaffoldFlags struct {
	name  string
	phage *bitset.BitSet
	n     int
}

func readFlags(filename string) (result []scaffoldFlags, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f, &err)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, '\t')
		if i <= 0 {
			return nil, errors.Errorf("invalid line %q in %v", line, filename)
		}
		flags := line[i+1:]
		phage := bitset.New(uint(len(flags)))
		for j := 0; j < len(flags); j++ {
			switch flags[j] {
			case '1':
				phage.Set(uint(j))
			case '0':
			default:
				return nil, errors.Errorf("invalid gene flag %q in %v", flags[j], filename)
			}
		}
		result = append(result, scaffoldFlags{name: line[:i], phage: phage, n: len(flags)})
	}
	return result, scanner.Err()
}

func (task *runPhigaroTask) run() (err error) {
	genes, err := gff.ParseFile(task.geneMark.Output())
	if err != nil {
		return errors.Wrap(err, "reading gene predictions")
	}
	scaffolds, err := readFlags(task.parseHmmer.Output())
	if err != nil {
		return errors.Wrap(err, "reading gene classification")
	}
	_, byScaffold := genes.Scaffolds()
	for _, scaffold := range scaffolds {
		if n := len(byScaffold[scaffold.name]); n != scaffold.n {
			return errors.Errorf("scaffold %v has %v genes, but %v are classified", scaffold.name, n, scaffold.n)
		}
	}

	cfg := task.ctx.Config.Phigaro
	params := finder.Params{
		WindowLen:     cfg.WindowLen,
		Threshold:     cfg.Threshold,
		MinPhageGenes: cfg.MinPhageGenes,
	}
	regions := make([][]finder.Region, len(scaffolds))
	if len(scaffolds) > 0 {
		parallel.Range(0, len(scaffolds), 0, func(low, high int) {
			for i := low; i < high; i++ {
				regions[i] = finder.FindRegions(scaffolds[i].phage, scaffolds[i].n, params)
			}
		})
	}

	f, err := os.Create(task.output)
	if err != nil {
		return err
	}
	defer internal.Close(f, &err)
	out := bufio.NewWriter(f)
	if _, err := out.WriteString(ResultHeader + "\n"); err != nil {
		return err
	}
	var buf []byte
	for i, scaffold := range scaffolds {
		list := byScaffold[scaffold.name]
		for _, region := range regions[i] {
			buf = append(buf[:0], scaffold.name...)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, int64(list[region.Start].Start), 10)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, int64(list[region.End].End), 10)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, int64(region.PhageGenes), 10)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, int64(region.Len()), 10)
			buf = append(buf, '\n')
			if _, err := out.Write(buf); err != nil {
				return err
			}
		}
	}
	return out.Flush()
}
