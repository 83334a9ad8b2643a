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

import "fmt"

// Kind distinguishes the two task variants.
type Kind int

const (
	// Computing tasks produce their output when executed.
	Computing Kind = iota

	// Dummy tasks wrap an output that already exists.
	Dummy
)

func (kind Kind) String() string {
	switch kind {
	case Computing:
		return "computing"
	case Dummy:
		return "dummy"
	default:
		return fmt.Sprintf("Kind(%d)", int(kind))
	}
}

// Task is one executable stage instance of the pipeline.
//
// Output may be called at any time, but the artifact it refers to only
// exists after Execute returned successfully. A DummyTask's artifact
// is assumed to exist from the start.
type Task interface {
	Name() StageName
	Kind() Kind
	Dependencies() []Task
	Output() string
	Execute() error
}

// DummyTask wraps a pre-existing output and does no work.
type DummyTask struct {
	name   StageName
	output string
}

// NewDummyTask returns a task for the given stage that reports output
// as its result without computing anything.
func NewDummyTask(name StageName, output string) *DummyTask {
	return &DummyTask{name: name, output: output}
}

// Name implements the method of the Task interface.
func (task *DummyTask) Name() StageName { return task.name }

// Kind implements the method of the Task interface.
func (task *DummyTask) Kind() Kind { return Dummy }

// Dependencies implements the method of the Task interface. A
// DummyTask never depends on other tasks.
func (task *DummyTask) Dependencies() []Task { return nil }

// Output implements the method of the Task interface.
func (task *DummyTask) Output() string { return task.output }

// Execute implements the method of the Task interface. It does nothing.
func (task *DummyTask) Execute() error { return nil }

// ComputingTask performs real work that turns the outputs of its
// dependencies into its own output.
type ComputingTask struct {
	name         StageName
	output       string
	dependencies []Task
	work         func() error
}

// NewComputingTask returns a task for the given stage. work is called
// once by Execute and must create the artifact at output.
func NewComputingTask(name StageName, output string, work func() error, dependencies ...Task) *ComputingTask {
	return &ComputingTask{
		name:         name,
		output:       output,
		dependencies: dependencies,
		work:         work,
	}
}

// Name implements the method of the Task interface.
func (task *ComputingTask) Name() StageName { return task.name }

// Kind implements the method of the Task interface.
func (task *ComputingTask) Kind() Kind { return Computing }

// Dependencies implements the method of the Task interface.
func (task *ComputingTask) Dependencies() []Task { return task.dependencies }

// Output implements the method of the Task interface.
func (task *ComputingTask) Output() string { return task.output }

// Execute implements the method of the Task interface.
func (task *ComputingTask) Execute() error { return task.work() }
