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

// Package fasta reads and writes FASTA files.
package fasta

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/internal"
)

// Record is one named sequence of a FASTA file.
type Record struct {
	Name string
	Seq  []byte
}

func contigFromHeader(b []byte) string {
	i := 1
	for ; i < len(b); i++ {
		if c := b[i]; c >= '!' && c <= '~' {
			break
		}
	}
	j := i + 1
	for ; j < len(b); j++ {
		if c := b[j]; c < '!' || c > '~' {
			break
		}
	}
	if i >= len(b) {
		return ""
	}
	return string(b[i:j])
}

var iupacUpperTable = map[byte]byte{
	'A': 'A', 'a': 'A',
	'C': 'C', 'c': 'C',
	'G': 'G', 'g': 'G',
	'T': 'T', 't': 'T',
	'N': 'N', 'n': 'N',
	'R': 'N', 'r': 'N',
	'Y': 'N', 'y': 'N',
	'M': 'N', 'm': 'N',
	'K': 'N', 'k': 'N',
	'W': 'N', 'w': 'N',
	'S': 'N', 's': 'N',
	'B': 'N', 'b': 'N',
	'D': 'N', 'd': 'N',
	'H': 'N', 'h': 'N',
	'V': 'N', 'v': 'N',
}

// ToUpperAndN converts a nucleotide to upper case and replaces
// ambiguity codes by N.
func ToUpperAndN(base byte) byte {
	if n, ok := iupacUpperTable[base]; ok {
		return n
	}
	return base
}

// Normalize applies ToUpperAndN to every base of seq in place.
func Normalize(seq []byte) {
	for i, c := range seq {
		seq[i] = ToUpperAndN(c)
	}
}

// Parse sequentially parses FASTA data. Records are returned in file
// order; the name of a record is the first word of its header.
func Parse(r io.Reader) (records []Record, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<30)

	var current *Record
	for scanner.Scan() {
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		if b[0] == '>' {
			name := contigFromHeader(b)
			if name == "" {
				return nil, errors.Errorf("invalid fasta header %q", b)
			}
			records = append(records, Record{Name: name})
			current = &records[len(records)-1]
			continue
		}
		if current == nil {
			return nil, errors.New("invalid fasta data - missing first header")
		}
		current.Seq = append(current.Seq, b...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty fasta data")
	}
	return records, nil
}

// ParseFile parses the FASTA file with the given name.
func ParseFile(filename string) (records []Record, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f, &err)
	if records, err = Parse(bufio.NewReader(f)); err != nil {
		return nil, errors.Wrapf(err, "fasta file %v", filename)
	}
	return records, nil
}

// LineWidth is the number of sequence characters per line written by
// Write.
const LineWidth = 60

// Write writes records in FASTA format.
func Write(w io.Writer, records []Record) error {
	out := bufio.NewWriter(w)
	for _, record := range records {
		if _, err := out.WriteString(">" + record.Name + "\n"); err != nil {
			return err
		}
		for seq := record.Seq; len(seq) > 0; {
			n := LineWidth
			if n > len(seq) {
				n = len(seq)
			}
			if _, err := out.Write(seq[:n]); err != nil {
				return err
			}
			if err := out.WriteByte('\n'); err != nil {
				return err
			}
			seq = seq[n:]
		}
	}
	return out.Flush()
}

// WriteFile writes records to a new FASTA file with the given name.
func WriteFile(filename string, records []Record) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer internal.Close(f, &err)
	return Write(f, records)
}
