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

package lexer

import "gopkg.in/src-d/go-sprunk.v0/query"

// Clause patterns of the pipeline language.
var (
	PipeStatsCount = []query.Token{query.PipeToken, query.Stats, query.Count}
	PipeBy         = []query.Token{query.PipeToken, query.By}
)

// Cursor is a position over a token sequence. Copies made with Clone share
// the tokens but move independently.
type Cursor struct {
	tokens []query.Token
	pos    int
}

// NewCursor returns a cursor before the first token.
func NewCursor(tokens []query.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Clone returns an independent cursor at the same position.
func (c *Cursor) Clone() *Cursor {
	nc := *c
	return &nc
}

// Pos returns the index of the next token.
func (c *Cursor) Pos() int { return c.pos }

// Done reports whether every token has been read.
func (c *Cursor) Done() bool { return c.pos >= len(c.tokens) }

// Remaining returns how many tokens are left.
func (c *Cursor) Remaining() int { return len(c.tokens) - c.pos }

// Peek returns the next token without moving the cursor.
func (c *Cursor) Peek() (query.Token, bool) {
	if c.Done() {
		return query.Token{}, false
	}
	return c.tokens[c.pos], true
}

// Next returns the next token and moves past it.
func (c *Cursor) Next() (query.Token, bool) {
	t, ok := c.Peek()
	if ok {
		c.pos++
	}
	return t, ok
}

// Matches reports whether the next tokens are equal, payload included, to
// pattern. The cursor does not move.
func (c *Cursor) Matches(pattern ...query.Token) bool {
	if len(pattern) > c.Remaining() {
		return false
	}

	ahead := c.Clone()
	for _, expected := range pattern {
		actual, ok := ahead.Next()
		if !ok || actual != expected {
			return false
		}
	}
	return true
}

// DetectClause names the clause shape starting at the cursor, if any.
func (c *Cursor) DetectClause() (string, bool) {
	switch {
	case c.Matches(PipeStatsCount...):
		return "Pipe Stats Count", true
	case c.Matches(PipeBy...):
		return "Pipe By", true
	default:
		return "", false
	}
}
