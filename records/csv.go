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

package records

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"gopkg.in/src-d/go-sprunk.v0/query"
)

var (
	// ErrMalformedRecord is returned when a CSV record can't be converted to
	// the schema of the table.
	ErrMalformedRecord = errors.NewKind("line %d: malformed record")

	// ErrMissingColumn is returned when a non nullable column of the schema
	// is not in the CSV header.
	ErrMissingColumn = errors.NewKind("column %q is missing from the header")

	// ErrEmptyFile is returned when there is no header row.
	ErrEmptyFile = errors.NewKind("%s has no header")
)

// LoadCSV reads the CSV file at path into a table named after the file.
// See ReadCSV.
func LoadCSV(path string, schema query.Schema) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadCSV(name, f, schema)
}

// ReadCSV reads CSV data with a header row into a new table. Header names are
// matched with the schema columns case-insensitively; extra CSV columns are
// ignored and nullable columns may be missing. Empty cells of nullable
// columns are NULL. If schema is nil, every header column becomes a text
// column.
func ReadCSV(name string, r io.Reader, schema query.Schema) (*Table, error) {
	rd := csv.NewReader(r)
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile.New(name)
	}
	if err != nil {
		return nil, err
	}

	if schema == nil {
		schema = make(query.Schema, len(header))
		for i, h := range header {
			schema[i] = &query.Column{Name: strings.TrimSpace(h), Type: query.Text, Nullable: true}
		}
	}

	// positions[i] is the CSV column holding schema[i], or -1
	positions := make([]int, len(schema))
	for i, col := range schema {
		positions[i] = -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), col.Name) {
				positions[i] = j
				break
			}
		}

		if positions[i] < 0 && !col.Nullable {
			return nil, ErrMissingColumn.New(col.Name)
		}
	}

	t := NewTable(name, schema)
	for {
		record, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := rd.FieldPos(0)
		row := make(query.Row, len(schema))
		for i, col := range schema {
			if positions[i] < 0 || positions[i] >= len(record) {
				continue
			}

			v := record[positions[i]]
			if v == "" && col.Nullable {
				continue
			}
			row[i] = v
		}

		if err := t.Insert(row); err != nil {
			return nil, ErrMalformedRecord.Wrap(err, line)
		}
	}

	logrus.WithFields(logrus.Fields{
		"table": name,
		"rows":  t.Len(),
	}).Debug("records loaded")

	return t, nil
}
