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

package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/phigaro/phigaro/v2/config"
	"github.com/phigaro/phigaro/v2/internal"
	"github.com/phigaro/phigaro/v2/pipeline"
	"github.com/phigaro/phigaro/v2/tasks"
)

// PhigaroHelp is the help string for the phigaro command.
const PhigaroHelp = "Phigaro parameters:\n" +
	"phigaro -f fasta-file\n" +
	"[-c | --config config-file]\n" +
	"[-v | --verbose]\n" +
	"[-t | --threads nr]\n" +
	"[-S | --substitute-output stage:path] (repeatable; stages: gene_mark, hmmer, parse_hmmer, run_phigaro)\n" +
	"[--log-path path]\n" +
	"[--timed]\n" +
	"[--profile prefix]\n"

// substitutions collects the repeatable --substitute-output flag.
type substitutions []string

func (s *substitutions) String() string {
	return strings.Join(*s, ",")
}

func (s *substitutions) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type options struct {
	fastaFile, configFile string
	verbose, timed        bool
	threads               int
	substitutions         substitutions
	logPath, profile      string
}

func parseOptions(args []string) (*options, error) {
	if len(args) > 0 {
		switch args[0] {
		case "help", "-h", "--h", "-help", "--help":
			return nil, errHelp
		}
	}
	opts := &options{}
	var flags flag.FlagSet
	for _, name := range []string{"f", "fasta-file"} {
		flags.StringVar(&opts.fastaFile, name, "", "input sequence file")
	}
	for _, name := range []string{"c", "config"} {
		flags.StringVar(&opts.configFile, name, config.DefaultPath(), "configuration file")
	}
	for _, name := range []string{"v", "verbose"} {
		flags.BoolVar(&opts.verbose, name, false, "log informational messages")
	}
	for _, name := range []string{"t", "threads"} {
		flags.IntVar(&opts.threads, name, runtime.NumCPU(), "number of worker threads")
	}
	for _, name := range []string{"S", "substitute-output"} {
		flags.Var(&opts.substitutions, name, "use a precomputed output for a stage")
	}
	flags.StringVar(&opts.logPath, "log-path", "", "directory for the log file")
	flags.BoolVar(&opts.timed, "timed", false, "log the time taken by each stage")
	flags.StringVar(&opts.profile, "profile", "", "prefix for CPU profiles of each stage")
	if err := parseFlags(&flags, args); err != nil {
		return nil, err
	}
	return opts, nil
}

// check reports whether the options are usable, logging every problem.
// The input file is only read by the gene prediction stage, so it need
// not exist when that stage is substituted.
func (opts *options) check(subs pipeline.Substitutions) bool {
	ok := true
	if opts.fastaFile == "" {
		log.Println("Error: Missing input sequence file. Please add the --fasta-file option to your call.")
		ok = false
	}
	if opts.threads <= 0 {
		log.Printf("Error: Invalid number of threads %v.\n", opts.threads)
		ok = false
	}
	if _, substituted := subs[pipeline.GeneMark]; !substituted && opts.fastaFile != "" && !checkExist("--fasta-file", opts.fastaFile) {
		ok = false
	}
	return ok
}

// streamOutput copies the final result to w one line at a time.
func streamOutput(w io.Writer, filename string) (err error) {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "reading final result")
	}
	defer internal.Close(f, &err)
	out := bufio.NewWriter(w)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for scanner.Scan() {
		if _, err := out.Write(scanner.Bytes()); err != nil {
			return err
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return out.Flush()
}

// Phigaro implements the phigaro command.
func Phigaro() error {
	opts, err := parseOptions(os.Args[1:])
	if err == errHelp {
		fmt.Fprint(os.Stderr, PhigaroHelp)
		return nil
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, PhigaroHelp)
		os.Exit(1)
	}

	if opts.logPath != "" {
		if err := setLogOutput(opts.logPath); err != nil {
			return err
		}
	}
	internal.Verbose = opts.verbose

	subs, err := pipeline.ParseSubstitutions(opts.substitutions)
	if err != nil {
		return err
	}
	if !opts.check(subs) {
		fmt.Fprint(os.Stderr, PhigaroHelp)
		os.Exit(1)
	}
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	ctx, err := tasks.NewContext(tasks.NewSample(opts.fastaFile), cfg, opts.threads)
	if err != nil {
		return err
	}
	runtime.GOMAXPROCS(opts.threads)
	internal.Infof("Sample %v, working directory %v", ctx.Sample, ctx.WorkDir)

	chain, err := tasks.Build(ctx, subs, opts.fastaFile)
	if err != nil {
		return err
	}
	runner := pipeline.Runner{Timed: opts.timed, Profile: opts.profile}
	output, err := runner.Run(chain)
	if err != nil {
		return err
	}
	return streamOutput(os.Stdout, output)
}
