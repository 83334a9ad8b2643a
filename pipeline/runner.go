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
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/internal"
)

// ErrEmptyChain is returned when running a chain without tasks.
var ErrEmptyChain = errors.New("empty task chain")

// TraceEntry records the execution of one task in a chain.
type TraceEntry struct {
	Name    StageName
	Kind    Kind
	Elapsed time.Duration
	Err     error
}

// Runner executes task chains.
type Runner struct {
	// Timed logs the elapsed time of each task.
	Timed bool

	// Profile, if not empty, is the prefix of the CPU profile files
	// written for each computing task.
	Profile string

	// Trace lists the tasks executed by the most recent call to Run.
	Trace []TraceEntry
}

// Run executes each task in the given order and returns the output of
// the last one.
//
// Every task is executed exactly once, including DummyTasks. Run
// neither reorders nor verifies the chain: every task must come after
// the tasks it depends on. If a task fails, no further tasks are
// executed and its error is returned as is.
func (runner *Runner) Run(tasks []Task) (string, error) {
	runner.Trace = nil
	if len(tasks) == 0 {
		return "", ErrEmptyChain
	}
	for phase, task := range tasks {
		start := time.Now()
		err := runner.execute(phase, task)
		runner.Trace = append(runner.Trace, TraceEntry{
			Name:    task.Name(),
			Kind:    task.Kind(),
			Elapsed: time.Since(start),
			Err:     err,
		})
		if err != nil {
			return "", err
		}
	}
	return tasks[len(tasks)-1].Output(), nil
}

func (runner *Runner) execute(phase int, task Task) error {
	internal.Infof("Running task %v (%v)", task.Name(), task.Kind())
	if runner.Profile != "" && task.Kind() == Computing {
		filename := runner.Profile + strconv.Itoa(phase) + ".prof"
		file, err := os.Create(filename)
		if err != nil {
			return errors.Wrapf(err, "creating profile for task %v", task.Name())
		}
		defer func() {
			_ = file.Close()
		}()
		if err := pprof.StartCPUProfile(file); err != nil {
			return errors.Wrapf(err, "profiling task %v", task.Name())
		}
		defer pprof.StopCPUProfile()
	}
	if runner.Timed {
		log.Println("Task", task.Name())
		start := time.Now()
		defer func() {
			log.Println("Elapsed time: ", time.Since(start))
		}()
	}
	return task.Execute()
}

// RunChain executes tasks with a default Runner.
func RunChain(tasks ...Task) (string, error) {
	var runner Runner
	return runner.Run(tasks)
}
