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

import "log"

// Stage describes how to construct the task for one stage: its name,
// and a constructor that takes the stage-specific arguments.
type Stage[Args any] struct {
	Name StageName
	New  func(Args) (Task, error)
}

// Create returns the substitution for stage if there is one, and
// otherwise constructs the stage with args.
//
// A substituted stage is never constructed, so none of the side
// effects of its constructor happen.
func Create[Args any](subs Substitutions, stage Stage[Args], args Args) (Task, error) {
	if dummy, ok := subs[stage.Name]; ok {
		log.Printf("Substituting output for %v: %v", stage.Name, dummy.Output())
		return dummy, nil
	}
	return stage.New(args)
}
