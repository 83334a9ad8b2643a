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

// Phigaro predicts phages and prophages in metagenomic assemblies.
//
// It predicts genes with MetaGeneMark, searches the predicted proteins
// against the pVOG profile database with hmmsearch, and reports the
// regions of each scaffold that are dense in phage genes. Any stage can
// be replaced by a precomputed output with --substitute-output.
//
// Please see https://github.com/phigaro/phigaro for documentation.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/phigaro/phigaro/v2/cmd"
)

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if err := cmd.Phigaro(); err != nil {
		log.Fatal(err)
	}
}
