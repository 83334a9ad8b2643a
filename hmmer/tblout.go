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

// Package hmmer reads the per-target hit tables that hmmsearch writes
// with --tblout.
package hmmer

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/exascience/pargo/pipeline"
	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/internal"
)

// Hit is the full-sequence result of one profile against one target
// sequence.
type Hit struct {
	Target string
	Query  string
	EValue float64
	Score  float64
}

// better reports whether hit1 is a better hit than hit2.
func better(hit1, hit2 Hit) bool {
	if hit1.EValue != hit2.EValue {
		return hit1.EValue < hit2.EValue
	}
	if hit1.Score != hit2.Score {
		return hit1.Score > hit2.Score
	}
	return hit1.Query < hit2.Query
}

func addBest(hits map[string]Hit, hit Hit) {
	if old, ok := hits[hit.Target]; !ok || better(hit, old) {
		hits[hit.Target] = hit
	}
}

func parseHit(line string) (hit Hit, err error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return hit, errors.Errorf("invalid tblout line %q", line)
	}
	hit.Target = fields[0]
	hit.Query = fields[2]
	if hit.EValue, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return hit, errors.Wrapf(err, "invalid E-value in tblout line %q", line)
	}
	if hit.Score, err = strconv.ParseFloat(fields[5], 64); err != nil {
		return hit, errors.Wrapf(err, "invalid score in tblout line %q", line)
	}
	return hit, nil
}

// ParseTblout reads a --tblout table and returns the best hit for each
// target sequence. Lower E-values are better; ties are broken by the
// higher bit score.
func ParseTblout(r io.Reader) (hits map[string]Hit, err error) {
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(r))
	p.Add(pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
		lines := data.([]string)
		local := make(map[string]Hit)
		for _, line := range lines {
			if line = strings.TrimSpace(line); line == "" || line[0] == '#' {
				continue
			}
			hit, err := parseHit(line)
			if err != nil {
				p.SetErr(err)
				return local
			}
			addBest(local, hit)
		}
		return local
	})))
	hits = make(map[string]Hit)
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		for _, hit := range data.(map[string]Hit) {
			addBest(hits, hit)
		}
		return data
	})))
	p.Run()
	if err = p.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

// ParseTbloutFile reads the --tblout table with the given name.
func ParseTbloutFile(filename string) (hits map[string]Hit, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f, &err)
	if hits, err = ParseTblout(bufio.NewReader(f)); err != nil {
		return nil, errors.Wrapf(err, "tblout file %v", filename)
	}
	return hits, nil
}
