// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"gopkg.in/src-d/go-sprunk.v0/internal/similartext"
)

// Type is the data type of a column.
type Type byte

const (
	// Text holds strings.
	Text Type = iota
	// Int64 holds signed 64-bit integers.
	Int64
	// Uint64 holds unsigned 64-bit integers.
	Uint64
)

func (t Type) String() string {
	switch t {
	case Text:
		return "TEXT"
	case Int64:
		return "INT64"
	case Uint64:
		return "UINT64"
	default:
		return "UNKNOWN"
	}
}

// Convert converts v to the Go representation of the type. nil is kept as
// nil. Strings are trimmed before being converted to a number and are always
// read in base 10.
func (t Type) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	var (
		out interface{}
		err error
	)
	switch t {
	case Text:
		out, err = cast.ToStringE(v)
	case Int64:
		out, err = ToInt64(v)
	case Uint64:
		out, err = ToUint64(v)
	default:
		return nil, ErrInvalidType.New(v, t)
	}

	if err != nil {
		return nil, ErrInvalidType.Wrap(err, v, t)
	}
	return out, nil
}

// ToInt64 converts v to an int64. Strings are parsed as decimal numbers, so
// leading zeros never switch to octal or hexadecimal.
func ToInt64(v interface{}) (int64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	return cast.ToInt64E(v)
}

// ToUint64 converts v to a uint64. Strings are parsed as decimal numbers.
func ToUint64(v interface{}) (uint64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	}
	return cast.ToUint64E(v)
}

// Column is a named, typed column of a Schema.
type Column struct {
	// Name is the name of the column.
	Name string
	// Type is the data type of the column.
	Type Type
	// Nullable is true if the column can contain NULL values.
	Nullable bool
}

// Schema is the definition of a set of columns.
type Schema []*Column

// IndexOf returns the index of the given column in the schema or -1 if it's
// not present. Names are compared case-insensitively.
func (s Schema) IndexOf(column string) int {
	column = strings.ToLower(column)
	for i, col := range s {
		if strings.ToLower(col.Name) == column {
			return i
		}
	}
	return -1
}

// ColumnNotFound returns an ErrColumnNotFound error for name, suggesting the
// closest column names of the schema.
func (s Schema) ColumnNotFound(name string) error {
	return ErrColumnNotFound.New(name, similartext.Find(s.Names(), name))
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// CheckRow converts every value of row to the type of its column, in place.
func (s Schema) CheckRow(row Row) error {
	if len(row) != len(s) {
		return ErrUnexpectedRowLength.New(len(s), len(row))
	}

	for i, col := range s {
		if row[i] == nil {
			if !col.Nullable {
				return ErrInvalidType.New(nil, col.Type)
			}
			continue
		}

		v, err := col.Type.Convert(row[i])
		if err != nil {
			return err
		}
		row[i] = v
	}
	return nil
}
