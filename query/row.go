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
	"fmt"
	"io"
)

// Row is a tuple of values.
type Row []interface{}

// NewRow creates a row from the given values.
func NewRow(values ...interface{}) Row {
	row := make([]interface{}, len(values))
	copy(row, values)
	return row
}

// Copy creates a new row with the same values as the current one.
func (r Row) Copy() Row {
	return NewRow(r...)
}

// RowIter is an iterator that produces rows.
type RowIter interface {
	// Next retrieves the next row. It will return io.EOF if it's the last row.
	Next() (Row, error)
	// Close the iterator.
	Close() error
}

// RowIterToRows converts a row iterator to a slice of rows and closes it.
func RowIterToRows(i RowIter) ([]Row, error) {
	var rows []Row
	for {
		row, err := i.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			i.Close()
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, i.Close()
}

// RowsToRowIter creates a RowIter that iterates over the given rows.
func RowsToRowIter(rows ...Row) RowIter {
	return &sliceRowIter{rows: rows}
}

type sliceRowIter struct {
	rows []Row
	idx  int
}

func (i *sliceRowIter) Next() (Row, error) {
	if i.idx >= len(i.rows) {
		return nil, io.EOF
	}

	r := i.rows[i.idx]
	i.idx++
	return r.Copy(), nil
}

func (i *sliceRowIter) Close() error {
	i.rows = nil
	return nil
}

// Table is a named source of rows.
type Table interface {
	Name() string
	Schema() Schema
	RowIter(ctx *Context) (RowIter, error)
}

// Node is a node of an execution plan.
type Node interface {
	fmt.Stringer
	// Resolved returns whether the node and all its children are ready to
	// be executed.
	Resolved() bool
	// Schema of the rows produced by the node.
	Schema() Schema
	// Children nodes.
	Children() []Node
	// WithChildren returns a copy of the node with its children replaced.
	WithChildren(children ...Node) (Node, error)
	// RowIter produces the rows of the node.
	RowIter(ctx *Context) (RowIter, error)
}

// NodeToRows executes the node and collects every row it produces.
func NodeToRows(ctx *Context, n Node) ([]Row, error) {
	i, err := n.RowIter(ctx)
	if err != nil {
		return nil, err
	}

	return RowIterToRows(i)
}
