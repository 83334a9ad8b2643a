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

package tasks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phigaro/phigaro/v2/config"
	"github.com/phigaro/phigaro/v2/pipeline"
)

// fakeGeneMark writes a fixed gene prediction file to the -o argument
// and records its invocation in a marker file.
const fakeGeneMark = `#!/bin/sh
out=""
prev=""
for arg; do
  if [ "$prev" = "-o" ]; then out="$arg"; fi
  prev="$arg"
done
echo called >> "@MARKER@"
cat > "$out" <<'END_OF_GFF'
@GFF@END_OF_GFF
`

// fakeHmmsearch reports a strong hit for the proteins 4 to 9 and a
// weak hit for all others, and keeps a copy of the searched proteins.
const fakeHmmsearch = `#!/bin/sh
out=""
prev=""
faa=""
for arg; do
  if [ "$prev" = "--tblout" ]; then out="$arg"; fi
  prev="$arg"
  faa="$arg"
done
cp "$faa" "@MARKER@"
echo "# target name accession query name accession E-value score" > "$out"
for id in $(grep '^>' "$faa" | cut -c2-); do
  case "$id" in
    4|5|6|7|8|9) echo "$id - VOG00$id - 1.5e-20 80.0 0.0" >> "$out" ;;
    *) echo "$id - VOG99999 - 2.0 1.0 0.0" >> "$out" ;;
  esac
done
`

// makeGFF returns a gene prediction file with n genes on scaffold,
// spaced step bases apart, each gene 900 bases long.
func makeGFF(scaffold string, n int, step int) string {
	var b strings.Builder
	b.WriteString("##gff-version 2\n")
	for id := 1; id <= n; id++ {
		start := step*(id-1) + 1
		fmt.Fprintf(&b, "%s\tGeneMark.hmm\tCDS\t%d\t%d\t.\t+\t0\tgene_id %d\n", scaffold, start, start+899, id)
	}
	for id := 1; id <= n; id++ {
		fmt.Fprintf(&b, "##Protein %d\n##MKPROTEIN%dSEQ\n##end-Protein\n", id, id)
	}
	return b.String()
}

type fixture struct {
	dir          string
	fastaFile    string
	geneMarkLog  string
	hmmsearchFaa string
	ctx          *Context
}

func writeFile(t *testing.T, filename, contents string, perm os.FileMode) {
	t.Helper()
	if err := os.WriteFile(filename, []byte(contents), perm); err != nil {
		t.Fatal(err)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:          dir,
		fastaFile:    filepath.Join(dir, "sample.fasta"),
		geneMarkLog:  filepath.Join(dir, "gmhmmp.log"),
		hmmsearchFaa: filepath.Join(dir, "hmmsearch.faa"),
	}
	writeFile(t, f.fastaFile, ">contig_1 test\n"+strings.Repeat("ACGTACGTRY", 1200)+"\n", 0644)

	geneMark := strings.NewReplacer("@MARKER@", f.geneMarkLog, "@GFF@", makeGFF("contig_1", 12, 1000)).Replace(fakeGeneMark)
	writeFile(t, filepath.Join(dir, "gmhmmp"), geneMark, 0755)
	hmmsearch := strings.ReplaceAll(fakeHmmsearch, "@MARKER@", f.hmmsearchFaa)
	writeFile(t, filepath.Join(dir, "hmmsearch"), hmmsearch, 0755)
	writeFile(t, filepath.Join(dir, "pvogs.hmm"), "HMMER3/f\n", 0644)

	cfg := config.Default()
	cfg.WorkDir = filepath.Join(dir, "work")
	cfg.GeneMark.Bin = filepath.Join(dir, "gmhmmp")
	cfg.Hmmer.Bin = filepath.Join(dir, "hmmsearch")
	cfg.Hmmer.PvogPath = filepath.Join(dir, "pvogs.hmm")
	cfg.Phigaro.WindowLen = 4
	cfg.Phigaro.Threshold = 50
	cfg.Phigaro.MinPhageGenes = 3

	ctx, err := NewContext(NewSample(f.fastaFile), cfg, 2)
	if err != nil {
		t.Fatal(err)
	}
	f.ctx = ctx
	return f
}

func exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

func (f *fixture) run(t *testing.T, substitutions ...string) (string, *pipeline.Runner, error) {
	t.Helper()
	subs, err := pipeline.ParseSubstitutions(substitutions)
	if err != nil {
		t.Fatal(err)
	}
	chain, err := Build(f.ctx, subs, f.fastaFile)
	if err != nil {
		t.Fatal(err)
	}
	runner := new(pipeline.Runner)
	output, err := runner.Run(chain)
	return output, runner, err
}

func readLines(t *testing.T, filename string) []string {
	t.Helper()
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestPipelineWithoutSubstitutions(t *testing.T) {
	f := newFixture(t)
	output, runner, err := f.run(t)
	if err != nil {
		t.Fatal(err)
	}
	expectedStages := []pipeline.StageName{pipeline.GeneMark, pipeline.Hmmer, pipeline.ParseHmmer, pipeline.RunPhigaro}
	if len(runner.Trace) != len(expectedStages) {
		t.Fatalf("unexpected trace %v", runner.Trace)
	}
	for i, entry := range runner.Trace {
		if entry.Name != expectedStages[i] || entry.Kind != pipeline.Computing {
			t.Errorf("trace entry %v: expected computing %v, got %v %v", i, expectedStages[i], entry.Kind, entry.Name)
		}
	}
	if output != f.ctx.Path(pipeline.RunPhigaro, ".tsv") {
		t.Errorf("output %v is not the final prediction output", output)
	}
	if !exists(f.geneMarkLog) || !exists(f.hmmsearchFaa) {
		t.Error("external tools were not invoked")
	}
	flags := readLines(t, f.ctx.Path(pipeline.ParseHmmer, ".tsv"))
	if len(flags) != 1 || flags[0] != "contig_1\t000111111000" {
		t.Errorf("unexpected gene classification %q", flags)
	}
	lines := readLines(t, output)
	if len(lines) != 2 || lines[0] != ResultHeader || lines[1] != "contig_1\t3001\t8900\t6\t6" {
		t.Errorf("unexpected result %q", lines)
	}
}

func TestPipelineSubstitutedGenePrediction(t *testing.T) {
	f := newFixture(t)
	precomputed := filepath.Join(f.dir, "precomputed.gff")
	writeFile(t, precomputed, makeGFF("precomputed_contig", 12, 2000), 0644)

	output, runner, err := f.run(t, "gene_mark:"+precomputed)
	if err != nil {
		t.Fatal(err)
	}
	if exists(f.geneMarkLog) {
		t.Error("gene prediction tool was invoked for a substituted stage")
	}
	if len(runner.Trace) != 4 || runner.Trace[0].Name != pipeline.GeneMark || runner.Trace[0].Kind != pipeline.Dummy {
		t.Errorf("unexpected trace %v", runner.Trace)
	}
	searched, err := os.ReadFile(f.hmmsearchFaa)
	if err != nil {
		t.Fatal("profile search did not run: ", err)
	}
	if !strings.Contains(string(searched), ">12\nMKPROTEIN12SEQ\n") {
		t.Errorf("profile search did not use the substituted proteins: %q", searched)
	}
	lines := readLines(t, output)
	if len(lines) != 2 || lines[1] != "precomputed_contig\t6001\t16900\t6\t6" {
		t.Errorf("result not derived from the substituted gene predictions: %q", lines)
	}
}

func TestPipelineSubstitutedFinalPrediction(t *testing.T) {
	f := newFixture(t)
	fixed := filepath.Join(f.dir, "fixed.tsv")
	output, runner, err := f.run(t, "run_phigaro:"+fixed)
	if err != nil {
		t.Fatal(err)
	}
	if output != fixed {
		t.Errorf("expected %v, got %v", fixed, output)
	}
	if len(runner.Trace) != 1 || runner.Trace[0].Kind != pipeline.Dummy || runner.Trace[0].Name != pipeline.RunPhigaro {
		t.Errorf("expected only the substituted final stage to run, got %v", runner.Trace)
	}
	if exists(f.geneMarkLog) || exists(f.hmmsearchFaa) {
		t.Error("external tools were invoked")
	}
}

func TestPipelineSubstitutedClassification(t *testing.T) {
	f := newFixture(t)
	flags := filepath.Join(f.dir, "flags.tsv")
	writeFile(t, flags, "contig_1\t111110000000\n", 0644)
	output, runner, err := f.run(t, "parse_hmmer:"+flags)
	if err != nil {
		t.Fatal(err)
	}
	if exists(f.hmmsearchFaa) {
		t.Error("profile search ran although its result is not needed")
	}
	if len(runner.Trace) != 3 {
		t.Errorf("unexpected trace %v", runner.Trace)
	}
	lines := readLines(t, output)
	if len(lines) != 2 || lines[1] != "contig_1\t1\t4900\t5\t5" {
		t.Errorf("unexpected result %q", lines)
	}
}

func TestPipelineMissingSubstitutedOutput(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(f.dir, "missing.gff")
	_, runner, err := f.run(t, "gene_mark:"+missing)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a missing file error, got %v", err)
	}
	if len(runner.Trace) != 2 || runner.Trace[1].Name != pipeline.Hmmer || runner.Trace[1].Err == nil {
		t.Errorf("expected the profile search to fail, got %v", runner.Trace)
	}
}

func TestPipelineToolFailure(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.dir, "gmhmmp"), "#!/bin/sh\necho 'license key expired' >&2\nexit 3\n", 0755)
	_, runner, err := f.run(t)
	if err == nil || !strings.Contains(err.Error(), "license key expired") {
		t.Errorf("expected the tool's error message, got %v", err)
	}
	if len(runner.Trace) != 1 {
		t.Errorf("stages after the failed stage were executed: %v", runner.Trace)
	}
}

func TestBuildMissingInput(t *testing.T) {
	f := newFixture(t)
	if _, err := Build(f.ctx, nil, filepath.Join(f.dir, "missing.fasta")); err == nil {
		t.Error("expected error for a missing input file")
	}
	subs, err := pipeline.ParseSubstitutions([]string{"gene_mark:genes.gff"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Build(f.ctx, subs, filepath.Join(f.dir, "missing.fasta")); err != nil {
		t.Errorf("substituted gene prediction must not check its input: %v", err)
	}
}

func TestBuildSkipsUnneededStages(t *testing.T) {
	f := newFixture(t)
	if err := os.Remove(f.ctx.Config.Hmmer.PvogPath); err != nil {
		t.Fatal(err)
	}
	missingFasta := filepath.Join(f.dir, "missing.fasta")
	fixed := filepath.Join(f.dir, "fixed.tsv")
	subs, err := pipeline.ParseSubstitutions([]string{"run_phigaro:" + fixed})
	if err != nil {
		t.Fatal(err)
	}
	chain, err := Build(f.ctx, subs, missingFasta)
	if err != nil {
		t.Fatalf("inputs of stages that do not run were checked: %v", err)
	}
	output, err := pipeline.RunChain(chain...)
	if err != nil {
		t.Fatal(err)
	}
	if output != fixed || len(chain) != 1 || chain[0].Kind() != pipeline.Dummy {
		t.Errorf("expected only the substituted final stage, got %v %v", output, chain)
	}

	subs, err = pipeline.ParseSubstitutions([]string{"parse_hmmer:flags.tsv"})
	if err != nil {
		t.Fatal(err)
	}
	chain, err = Build(f.ctx, subs, f.fastaFile)
	if err != nil {
		t.Fatalf("profile database checked although the profile search is not needed: %v", err)
	}
	if len(chain) != 3 || chain[1].Name() != pipeline.ParseHmmer {
		t.Errorf("unexpected chain %v", chain)
	}

	if _, err := Build(f.ctx, nil, f.fastaFile); err == nil {
		t.Error("expected error for a missing profile database")
	}
}

func TestGeneMarkMinScaffoldLength(t *testing.T) {
	f := newFixture(t)
	cfg := *f.ctx.Config
	cfg.Phigaro.MinScaffoldLength = 20000
	ctx, err := NewContext(f.ctx.Sample, &cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	task, err := NewGeneMarkTask(GeneMarkArgs{Context: ctx, FastaFile: f.fastaFile})
	if err != nil {
		t.Fatal(err)
	}
	if err := task.Execute(); err == nil {
		t.Error("expected error when all scaffolds are too short")
	}
	if exists(f.geneMarkLog) {
		t.Error("gene prediction tool was invoked without input")
	}
}

func TestContext(t *testing.T) {
	if SampleName("/data/run1/sample.fasta") != "sample" || SampleName("contigs") != "contigs" {
		t.Error("SampleName failed")
	}
	sample1, sample2 := NewSample("sample.fasta"), NewSample("sample.fasta")
	if sample1 == sample2 || !strings.HasPrefix(sample1, "sample-") || len(sample1) != len("sample-")+32 {
		t.Errorf("unexpected samples %v %v", sample1, sample2)
	}
	cfg := config.Default()
	if _, err := NewContext("s", cfg, 0); err == nil {
		t.Error("expected error for zero threads")
	}
	ctx, err := NewContext("s", cfg, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(ctx.WorkDir) || filepath.Base(ctx.WorkDir) != "s" {
		t.Errorf("unexpected work dir %v", ctx.WorkDir)
	}
	if ctx.Path(pipeline.Hmmer, ".tblout") != filepath.Join(ctx.WorkDir, "hmmer.tblout") {
		t.Error("Path failed")
	}
}
