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

package plan

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/hashstructure"
	opentracing "github.com/opentracing/opentracing-go"

	"gopkg.in/src-d/go-sprunk.v0/query"
)

// CountColumn is the name of the column holding the number of rows of each
// group.
const CountColumn = "count"

// Stats counts the rows of its child, optionally grouped by some fields.
type Stats struct {
	UnaryNode
	GroupBy []string
}

var _ query.Node = (*Stats)(nil)

// NewStats creates a new Stats node.
func NewStats(groupBy []string, child query.Node) *Stats {
	return &Stats{
		UnaryNode: UnaryNode{Child: child},
		GroupBy:   groupBy,
	}
}

// Schema implements the Node interface. It holds the grouping columns
// followed by the count.
func (s *Stats) Schema() query.Schema {
	child := s.Child.Schema()
	schema := make(query.Schema, 0, len(s.GroupBy)+1)
	for _, name := range s.GroupBy {
		col := &query.Column{Name: name, Type: query.Text, Nullable: true}
		if idx := child.IndexOf(name); idx >= 0 {
			c := *child[idx]
			col = &c
		}
		schema = append(schema, col)
	}
	return append(schema, &query.Column{Name: CountColumn, Type: query.Int64})
}

// WithChildren implements the Node interface.
func (s *Stats) WithChildren(children ...query.Node) (query.Node, error) {
	if len(children) != 1 {
		return nil, query.ErrInvalidChildrenNumber.New(s, len(children), 1)
	}
	return NewStats(s.GroupBy, children[0]), nil
}

// RowIter implements the Node interface.
func (s *Stats) RowIter(ctx *query.Context) (query.RowIter, error) {
	schema := s.Child.Schema()
	idxs := make([]int, len(s.GroupBy))
	for i, name := range s.GroupBy {
		idxs[i] = schema.IndexOf(name)
		if idxs[i] < 0 {
			return nil, schema.ColumnNotFound(name)
		}
	}

	span, ctx := ctx.Span("plan.Stats", opentracing.Tags{
		"groupings": len(s.GroupBy),
	})

	i, err := s.Child.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}

	var iter query.RowIter
	if len(idxs) == 0 {
		iter = &statsIter{child: i}
	} else {
		iter = &statsGroupingIter{idxs: idxs, child: i}
	}

	return query.NewSpanIter(span, iter), nil
}

func (s *Stats) String() string {
	header := "Stats(count)"
	if len(s.GroupBy) > 0 {
		header = fmt.Sprintf("Stats(count by %s)", strings.Join(s.GroupBy, ", "))
	}
	return printNode(header, s.Child)
}

type statsIter struct {
	child query.RowIter
	done  bool
	err   error
}

func (i *statsIter) Next() (query.Row, error) {
	if i.err != nil {
		return nil, i.err
	}

	if i.done {
		return nil, io.EOF
	}

	i.done = true

	var count int64
	for {
		_, err := i.child.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			i.err = err
			return nil, err
		}
		count++
	}

	return query.NewRow(count), nil
}

func (i *statsIter) Close() error {
	return i.child.Close()
}

type group struct {
	values []interface{}
	count  int64
}

type statsGroupingIter struct {
	idxs   []int
	child  query.RowIter
	groups map[uint64]*group
	keys   []uint64
	pos    int
	err    error
}

func (i *statsGroupingIter) Next() (query.Row, error) {
	// a failed computation is never returned as partial groups
	if i.err != nil {
		return nil, i.err
	}

	if i.groups == nil {
		i.groups = make(map[uint64]*group)
		if err := i.compute(); err != nil {
			i.err = err
			i.groups = nil
			i.keys = nil
			return nil, err
		}
	}

	if i.pos >= len(i.keys) {
		return nil, io.EOF
	}

	g := i.groups[i.keys[i.pos]]
	i.pos++

	row := make(query.Row, 0, len(g.values)+1)
	row = append(row, g.values...)
	return append(row, g.count), nil
}

func (i *statsGroupingIter) compute() error {
	for {
		row, err := i.child.Next()
		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}

		values := make([]interface{}, len(i.idxs))
		for j, idx := range i.idxs {
			values[j] = row[idx]
		}

		key, err := groupingKey(values)
		if err != nil {
			return err
		}

		g, ok := i.groups[key]
		if !ok {
			g = &group{values: values}
			i.groups[key] = g
			i.keys = append(i.keys, key)
		}
		g.count++
	}
}

func (i *statsGroupingIter) Close() error {
	i.groups = nil
	i.keys = nil
	return i.child.Close()
}

func groupingKey(values []interface{}) (uint64, error) {
	return hashstructure.Hash(values, nil)
}
