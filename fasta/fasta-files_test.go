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

package fasta

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(">scaffold_1 length=12\nACGTAC\n\nGTACGT\n>scaffold_2\nnnRY\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %v", len(records))
	}
	if records[0].Name != "scaffold_1" || string(records[0].Seq) != "ACGTACGTACGT" {
		t.Errorf("unexpected first record %v %s", records[0].Name, records[0].Seq)
	}
	if records[1].Name != "scaffold_2" || string(records[1].Seq) != "nnRY" {
		t.Errorf("unexpected second record %v %s", records[1].Name, records[1].Seq)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := Parse(strings.NewReader("ACGT\n>s\nACGT\n")); err == nil {
		t.Error("expected error for missing first header")
	}
	if _, err := Parse(strings.NewReader(">\nACGT\n")); err == nil {
		t.Error("expected error for empty header")
	}
}

func TestNormalize(t *testing.T) {
	seq := []byte("acgtRYnN-")
	Normalize(seq)
	if string(seq) != "ACGTNNNN-" {
		t.Errorf("unexpected normalization %s", seq)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	seq := bytes.Repeat([]byte("A"), LineWidth+5)
	if err := Write(&buf, []Record{{Name: "p1", Seq: seq}, {Name: "p2", Seq: []byte("MK")}}); err != nil {
		t.Fatal(err)
	}
	expected := ">p1\n" + strings.Repeat("A", LineWidth) + "\nAAAAA\n>p2\nMK\n"
	if buf.String() != expected {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWriteFileParseFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "proteins.faa")
	if err := WriteFile(filename, []Record{{Name: "1", Seq: []byte("MKLV")}}); err != nil {
		t.Fatal(err)
	}
	records, err := ParseFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Name != "1" || string(records[0].Seq) != "MKLV" {
		t.Errorf("unexpected records %v", records)
	}
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.fasta")); err == nil {
		t.Error("expected error for missing file")
	}
}
