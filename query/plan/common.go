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

package plan // import "gopkg.in/src-d/go-sprunk.v0/query/plan"

import (
	"strings"

	"gopkg.in/src-d/go-sprunk.v0/query"
)

// UnaryNode is a node that has only one child.
type UnaryNode struct {
	Child query.Node
}

// Schema implements the Node interface.
func (n *UnaryNode) Schema() query.Schema {
	return n.Child.Schema()
}

// Resolved implements the Node interface.
func (n UnaryNode) Resolved() bool {
	return n.Child.Resolved()
}

// Children implements the Node interface.
func (n UnaryNode) Children() []query.Node {
	return []query.Node{n.Child}
}

// NillaryWithChildren is the WithChildren implementation of nodes without
// children.
func NillaryWithChildren(node query.Node, children ...query.Node) (query.Node, error) {
	if len(children) != 0 {
		return nil, query.ErrInvalidChildrenNumber.New(node, len(children), 0)
	}
	return node, nil
}

// TransformUp applies f to every node of the tree, children first.
func TransformUp(node query.Node, f func(query.Node) (query.Node, error)) (query.Node, error) {
	children := node.Children()
	if len(children) > 0 {
		newChildren := make([]query.Node, len(children))
		for i, c := range children {
			nc, err := TransformUp(c, f)
			if err != nil {
				return nil, err
			}
			newChildren[i] = nc
		}

		var err error
		node, err = node.WithChildren(newChildren...)
		if err != nil {
			return nil, err
		}
	}

	return f(node)
}

// Resolve replaces every UnresolvedSource of the tree with the given table.
func Resolve(node query.Node, table query.Table) (query.Node, error) {
	return TransformUp(node, func(n query.Node) (query.Node, error) {
		if _, ok := n.(*UnresolvedSource); ok {
			return NewResolvedSource(table), nil
		}
		return n, nil
	})
}

// printNode renders a node followed by its child, indented.
func printNode(header string, child query.Node) string {
	var sb strings.Builder
	sb.WriteString(header)
	for i, line := range strings.Split(child.String(), "\n") {
		if i == 0 {
			sb.WriteString("\n └─ ")
		} else {
			sb.WriteString("\n    ")
		}
		sb.WriteString(line)
	}
	return sb.String()
}
