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

	"gopkg.in/src-d/go-sprunk.v0/query"
)

// UnresolvedSource is the records a pipeline reads from before they are
// bound to a table.
type UnresolvedSource struct{}

var _ query.Node = (*UnresolvedSource)(nil)

// NewUnresolvedSource creates a new UnresolvedSource node.
func NewUnresolvedSource() *UnresolvedSource { return &UnresolvedSource{} }

// Resolved implements the Node interface.
func (*UnresolvedSource) Resolved() bool { return false }

// Schema implements the Node interface.
func (*UnresolvedSource) Schema() query.Schema { return nil }

// Children implements the Node interface.
func (*UnresolvedSource) Children() []query.Node { return nil }

// WithChildren implements the Node interface.
func (s *UnresolvedSource) WithChildren(children ...query.Node) (query.Node, error) {
	return NillaryWithChildren(s, children...)
}

// RowIter implements the Node interface.
func (s *UnresolvedSource) RowIter(*query.Context) (query.RowIter, error) {
	return nil, query.ErrUnresolvedSource.New(s)
}

func (*UnresolvedSource) String() string { return "UnresolvedSource" }

// ResolvedSource reads every row of a table.
type ResolvedSource struct {
	query.Table
}

var _ query.Node = (*ResolvedSource)(nil)

// NewResolvedSource creates a new ResolvedSource node.
func NewResolvedSource(table query.Table) *ResolvedSource {
	return &ResolvedSource{table}
}

// Resolved implements the Node interface.
func (*ResolvedSource) Resolved() bool { return true }

// Children implements the Node interface.
func (*ResolvedSource) Children() []query.Node { return nil }

// WithChildren implements the Node interface.
func (s *ResolvedSource) WithChildren(children ...query.Node) (query.Node, error) {
	return NillaryWithChildren(s, children...)
}

// RowIter implements the Node interface.
func (s *ResolvedSource) RowIter(ctx *query.Context) (query.RowIter, error) {
	span, ctx := ctx.Span("plan.ResolvedSource", opentracing.Tag{Key: "table", Value: s.Name()})

	iter, err := s.Table.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return query.NewSpanIter(span, iter), nil
}

func (s *ResolvedSource) String() string {
	return fmt.Sprintf("Source(%s)", s.Name())
}
