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
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FullPathname returns an absolute version of filename.
func FullPathname(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	wd, err := os.Getwd()
	return filepath.Join(wd, filename), err
}

// CheckExist returns an error describing why filename cannot be read,
// or nil if it exists.
func CheckExist(filename string) error {
	if filename == "" {
		return errors.New("missing filename")
	}
	_, err := os.Stat(filename)
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return errors.Errorf("file %v does not exist", filename)
	case os.IsPermission(err):
		return errors.Errorf("no permission to read file %v", filename)
	default:
		return errors.Wrapf(err, "when trying to access file %v", filename)
	}
}

// Close closes c, and stores the resulting error in *err unless
// *err already holds an error. It is meant to be deferred.
func Close(c io.Closer, err *error) {
	if nerr := c.Close(); *err == nil {
		*err = nerr
	}
}
