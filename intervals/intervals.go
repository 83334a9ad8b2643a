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

// Package intervals merges ranges of gene positions on a scaffold.
package intervals

import (
	"github.com/exascience/pargo/parallel"
)

// Interval is a range of gene indices on a scaffold. Both Start and
// End are inclusive.
type Interval struct {
	Start, End int32
}

// Len returns the number of positions covered by interval.
func (interval Interval) Len() int32 {
	return interval.End - interval.Start + 1
}

// Extend makes interval1 larger if it overlaps with interval2,
// by storing max(interval1.End, interval2.End) in interval1.End;
// otherwise, interval1 remains unchanged.
// Returns true if the two intervals overlap, false otherwise.
// interval2.Start >= interval1.Start must be true before
// calling Extend.
func (interval1 *Interval) Extend(interval2 Interval) bool {
	if interval2.Start > interval1.End {
		return false
	}
	if interval2.End > interval1.End {
		interval1.End = interval2.End
	}
	return true
}

// Flatten merges overlapping intervals into larger intervals.
// intervals must be sorted by Start before calling Flatten.
// The result is sorted by Start, no two of its intervals overlap, and
// it shares memory with the intervals argument.
func Flatten(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return intervals
	}
	i := 0
	for _, next := range intervals[1:] {
		if !intervals[i].Extend(next) {
			i++
			intervals[i] = next
		}
	}
	return intervals[:i+1]
}

const parallelFlattenGrainSize = 0x1000

// ParallelFlatten is Flatten, splitting large inputs in halves that
// are flattened in parallel.
func ParallelFlatten(intervals []Interval) []Interval {
	if len(intervals) < parallelFlattenGrainSize {
		return Flatten(intervals)
	}
	half := len(intervals) >> 1
	left, right := intervals[:half], intervals[half:]
	parallel.Do(
		func() { left = ParallelFlatten(left) },
		func() { right = ParallelFlatten(right) },
	)
	for len(right) > 0 && left[len(left)-1].Extend(right[0]) {
		right = right[1:]
	}
	return append(left, right...)
}
