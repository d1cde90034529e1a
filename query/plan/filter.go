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

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/spf13/cast"
	"gopkg.in/src-d/go-errors.v1"

	"gopkg.in/src-d/go-sprunk.v0/query"
)

// ErrInvalidFilterValue is returned when a filter compares a field with a
// token that is neither an identifier nor a constant.
var ErrInvalidFilterValue = errors.NewKind("invalid filter value: %s")

// Filter skips the rows whose field is not equal to a value.
type Filter struct {
	UnaryNode
	Field string
	Value query.Token
}

var _ query.Node = (*Filter)(nil)

// NewFilter creates a new filter node.
func NewFilter(field string, value query.Token, child query.Node) *Filter {
	return &Filter{
		UnaryNode: UnaryNode{Child: child},
		Field:     field,
		Value:     value,
	}
}

// WithChildren implements the Node interface.
func (f *Filter) WithChildren(children ...query.Node) (query.Node, error) {
	if len(children) != 1 {
		return nil, query.ErrInvalidChildrenNumber.New(f, len(children), 1)
	}
	return NewFilter(f.Field, f.Value, children[0]), nil
}

// RowIter implements the Node interface.
func (f *Filter) RowIter(ctx *query.Context) (query.RowIter, error) {
	idx := f.Child.Schema().IndexOf(f.Field)
	if idx < 0 {
		return nil, f.Child.Schema().ColumnNotFound(f.Field)
	}

	if f.Value.Kind != query.Identifier && f.Value.Kind != query.Constant {
		return nil, ErrInvalidFilterValue.New(f.Value)
	}

	span, ctx := ctx.Span("plan.Filter", opentracing.Tags{
		"field": f.Field,
		"value": f.Value.String(),
	})

	i, err := f.Child.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return query.NewSpanIter(span, &filterIter{idx: idx, value: f.Value, childIter: i}), nil
}

func (f *Filter) String() string {
	return printNode(fmt.Sprintf("Filter(%s = %s)", f.Field, valueString(f.Value)), f.Child)
}

func valueString(t query.Token) string {
	switch t.Kind {
	case query.Identifier:
		return t.Name
	case query.Constant:
		return fmt.Sprint(t.Value)
	default:
		return t.String()
	}
}

type filterIter struct {
	idx       int
	value     query.Token
	childIter query.RowIter
}

func (i *filterIter) Next() (query.Row, error) {
	for {
		row, err := i.childIter.Next()
		if err != nil {
			return nil, err
		}

		if matches(row[i.idx], i.value) {
			return row, nil
		}
	}
}

func (i *filterIter) Close() error {
	return i.childIter.Close()
}

// matches compares a row value with a filter value. Constants are compared
// as numbers and identifiers as text; NULL never matches.
func matches(v interface{}, value query.Token) bool {
	if v == nil {
		return false
	}

	switch value.Kind {
	case query.Constant:
		n, err := query.ToInt64(v)
		return err == nil && n == value.Value
	case query.Identifier:
		s, err := cast.ToStringE(v)
		return err == nil && s == value.Name
	default:
		return false
	}
}
