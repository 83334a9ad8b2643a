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

package internal

import (
	"bytes"
	"log"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Verbose enables the informational messages logged with Infof.
var Verbose bool

// Infof logs an informational message if Verbose is set.
func Infof(format string, v ...interface{}) {
	if Verbose {
		log.Printf(format, v...)
	}
}

// RunCmd runs an external program. If it fails, the returned error
// includes what the program wrote to its standard error.
func RunCmd(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	Infof("Executing command: %v", strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.Wrapf(err, "%v: %v", cmd.Args[0], msg)
		}
		return errors.Wrap(err, cmd.Args[0])
	}
	return nil
}
