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

// Package gff reads the GFF files written by the MetaGeneMark gene
// caller (gmhmmp -f G -a), including the protein translations it embeds
// as ##Protein comment blocks.
package gff

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/fasta"
	"github.com/phigaro/phigaro/v2/internal"
)

// Gene is one predicted coding sequence. Start and End are 1-based
// and inclusive, as in GFF.
type Gene struct {
	Scaffold   string
	ID         string
	Start, End int32
	Strand     byte
}

// File is the parsed contents of a gene prediction file.
type File struct {
	Genes    []Gene
	Proteins map[string][]byte
}

var (
	proteinStart = []byte("##Protein ")
	proteinEnd   = []byte("##end-Protein")
	geneIDKey    = []byte("gene_id")
)

func geneID(attributes []byte) string {
	i := bytes.Index(attributes, geneIDKey)
	if i < 0 {
		return ""
	}
	i += len(geneIDKey)
	for ; i < len(attributes); i++ {
		if c := attributes[i]; c != ' ' && c != '=' && c != '"' {
			break
		}
	}
	j := i
	for ; j < len(attributes); j++ {
		if c := attributes[j]; c == ',' || c == ';' || c == ' ' || c == '"' || c == '\t' {
			break
		}
	}
	return string(attributes[i:j])
}

func parseGene(line []byte) (gene Gene, err error) {
	fields := bytes.Split(line, []byte("\t"))
	if len(fields) != 9 {
		return gene, errors.Errorf("invalid number of fields in gff line %q", line)
	}
	gene.Scaffold = string(fields[0])
	start, err := strconv.ParseInt(string(fields[3]), 10, 32)
	if err != nil {
		return gene, errors.Wrapf(err, "invalid start in gff line %q", line)
	}
	end, err := strconv.ParseInt(string(fields[4]), 10, 32)
	if err != nil {
		return gene, errors.Wrapf(err, "invalid end in gff line %q", line)
	}
	if start > end {
		return gene, errors.Errorf("start after end in gff line %q", line)
	}
	gene.Start, gene.End = int32(start), int32(end)
	if len(fields[6]) != 1 {
		return gene, errors.Errorf("invalid strand in gff line %q", line)
	}
	gene.Strand = fields[6][0]
	if gene.ID = geneID(fields[8]); gene.ID == "" {
		return gene, errors.Errorf("missing gene_id in gff line %q", line)
	}
	return gene, nil
}

// Parse reads a gene prediction file.
func Parse(r io.Reader) (*File, error) {
	file := &File{Proteins: make(map[string][]byte)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)

	var protein string
	inProtein := false
	for scanner.Scan() {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		switch {
		case len(line) == 0:
		case bytes.HasPrefix(line, proteinStart):
			protein = string(bytes.TrimSpace(line[len(proteinStart):]))
			inProtein = true
		case bytes.HasPrefix(line, proteinEnd):
			inProtein = false
		case inProtein && bytes.HasPrefix(line, []byte("##")):
			file.Proteins[protein] = append(file.Proteins[protein], bytes.TrimSpace(line[2:])...)
		case line[0] == '#':
		default:
			gene, err := parseGene(line)
			if err != nil {
				return nil, err
			}
			file.Genes = append(file.Genes, gene)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return file, nil
}

// ParseFile reads the gene prediction file with the given name.
func ParseFile(filename string) (file *File, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f, &err)
	if file, err = Parse(bufio.NewReader(f)); err != nil {
		return nil, errors.Wrapf(err, "gff file %v", filename)
	}
	return file, nil
}

// ProteinRecords returns the protein translations of all genes in file
// order, named by gene ID. Genes without a translation are skipped.
func (file *File) ProteinRecords() []fasta.Record {
	records := make([]fasta.Record, 0, len(file.Proteins))
	for _, gene := range file.Genes {
		if seq, ok := file.Proteins[gene.ID]; ok && len(seq) > 0 {
			records = append(records, fasta.Record{Name: gene.ID, Seq: seq})
		}
	}
	return records
}

// Scaffolds groups genes by scaffold. The scaffolds are listed in order
// of first appearance, and the genes of each scaffold are sorted by
// start position.
func (file *File) Scaffolds() (names []string, genes map[string][]Gene) {
	genes = make(map[string][]Gene)
	for _, gene := range file.Genes {
		if _, ok := genes[gene.Scaffold]; !ok {
			names = append(names, gene.Scaffold)
		}
		genes[gene.Scaffold] = append(genes[gene.Scaffold], gene)
	}
	for _, list := range genes {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Start < list[j].Start
		})
	}
	return names, genes
}
