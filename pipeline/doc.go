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

/*
Package pipeline runs the fixed chain of phigaro stages.

Each stage is represented by a Task. A Task has a stable stage name, a
list of upstream tasks it reads from, and a single output artifact.
There are two kinds of tasks: a ComputingTask produces its output when
executed, and a DummyTask wraps an output that already exists.

Substitutions let an operator pin a stage to a known-good output
without touching the wiring of the pipeline:

	subs, err := pipeline.ParseSubstitutions([]string{"gene_mark:precomputed.gff"})
	...
	geneMark, err := pipeline.Create(subs, tasks.GeneMarkStage, args)

If the stage is substituted, Create returns the DummyTask and never
calls the stage constructor. Downstream stages receive the DummyTask
like any other Task.

A Runner executes an ordered chain of tasks strictly in sequence and
returns the output of the last one. The caller is responsible for
ordering the chain so that every task appears after its dependencies.
*/
package pipeline
