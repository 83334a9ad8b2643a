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

// Package finder locates prophage regions on a scaffold from the
// phage/non-phage classification of its genes, using a smoothing
// window.
package finder

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/phigaro/phigaro/v2/intervals"
)

// Params are the settings of the smoothing window.
type Params struct {
	// WindowLen is the number of genes in the window.
	WindowLen int

	// Threshold is the minimum percentage of phage genes in the window
	// around a phage gene for that gene to seed a region.
	Threshold float64

	// MinPhageGenes is the minimum number of phage genes in a region.
	MinPhageGenes int
}

// Region is a range of gene indices predicted to be a prophage.
type Region struct {
	intervals.Interval
	PhageGenes int
}

// prefixCounts returns counts such that counts[j]-counts[i] is the
// number of phage genes with index in [i, j).
func prefixCounts(phage *bitset.BitSet, n int) []int {
	counts := make([]int, n+1)
	for i := 0; i < n; i++ {
		counts[i+1] = counts[i]
		if phage.Test(uint(i)) {
			counts[i+1]++
		}
	}
	return counts
}

// window returns the half-open range of gene indices in the window
// centred on gene i, clipped to the scaffold.
func window(i, n, windowLen int) (lo, hi int) {
	if windowLen < 1 {
		windowLen = 1
	}
	lo = i - windowLen/2
	hi = lo + windowLen
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	return lo, hi
}

// Scores returns, for each of the n genes, the percentage of phage
// genes in the window centred on it.
func Scores(phage *bitset.BitSet, n, windowLen int) []float64 {
	counts := prefixCounts(phage, n)
	scores := make([]float64, n)
	for i := range scores {
		lo, hi := window(i, n, windowLen)
		scores[i] = 100 * float64(counts[hi]-counts[lo]) / float64(hi-lo)
	}
	return scores
}

// FindRegions returns the prophage regions among n genes.
//
// Every phage gene whose score reaches the threshold contributes its
// window. Overlapping windows are merged, each merged window is
// trimmed to its outermost phage genes, and it is kept if it contains
// at least MinPhageGenes phage genes.
func FindRegions(phage *bitset.BitSet, n int, params Params) []Region {
	if n == 0 {
		return nil
	}
	counts := prefixCounts(phage, n)
	var windows []intervals.Interval
	for i := 0; i < n; i++ {
		if !phage.Test(uint(i)) {
			continue
		}
		lo, hi := window(i, n, params.WindowLen)
		score := 100 * float64(counts[hi]-counts[lo]) / float64(hi-lo)
		if score >= params.Threshold {
			windows = append(windows, intervals.Interval{Start: int32(lo), End: int32(hi - 1)})
		}
	}
	var regions []Region
	for _, w := range intervals.ParallelFlatten(windows) {
		first, ok := phage.NextSet(uint(w.Start))
		if !ok || int32(first) > w.End {
			continue
		}
		last := int(w.End)
		for !phage.Test(uint(last)) {
			last--
		}
		phageGenes := counts[last+1] - counts[first]
		if phageGenes < params.MinPhageGenes {
			continue
		}
		regions = append(regions, Region{
			Interval:   intervals.Interval{Start: int32(first), End: int32(last)},
			PhageGenes: phageGenes,
		})
	}
	return regions
}
