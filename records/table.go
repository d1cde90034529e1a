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

package records // import "gopkg.in/src-d/go-sprunk.v0/records"

import (
	"gopkg.in/src-d/go-sprunk.v0/query"
)

// CitySchema is the schema of the city records the CLI works with.
var CitySchema = query.Schema{
	{Name: "city", Type: query.Text},
	{Name: "region", Type: query.Text},
	{Name: "country", Type: query.Text},
	{Name: "population", Type: query.Uint64, Nullable: true},
}

// Table is an in-memory table of records.
type Table struct {
	name   string
	schema query.Schema
	rows   []query.Row
}

var _ query.Table = (*Table)(nil)

// NewTable creates a new empty Table with the given name and schema.
func NewTable(name string, schema query.Schema) *Table {
	return &Table{
		name:   name,
		schema: schema,
	}
}

// Name implements the query.Table interface.
func (t *Table) Name() string {
	return t.name
}

// Schema implements the query.Table interface.
func (t *Table) Schema() query.Schema {
	return t.schema
}

// Len returns the number of rows of the table.
func (t *Table) Len() int {
	return len(t.rows)
}

// Insert converts the values of row to the types of the schema and appends
// it to the table.
func (t *Table) Insert(row query.Row) error {
	row = row.Copy()
	if err := t.schema.CheckRow(row); err != nil {
		return err
	}

	t.rows = append(t.rows, row)
	return nil
}

// RowIter implements the query.Table interface.
func (t *Table) RowIter(*query.Context) (query.RowIter, error) {
	return query.RowsToRowIter(t.rows...), nil
}
