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

package parse // import "gopkg.in/src-d/go-sprunk.v0/query/parse"

import (
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"gopkg.in/src-d/go-sprunk.v0/query"
	"gopkg.in/src-d/go-sprunk.v0/query/lexer"
	"gopkg.in/src-d/go-sprunk.v0/query/plan"
)

var (
	// ErrUnexpectedSyntax is returned when a token does not fit the grammar
	// at the point it was found.
	ErrUnexpectedSyntax = errors.NewKind("expecting %s but got %s instead")

	// ErrUnsupportedSyntax is returned for the C-like declarations the
	// lexer understands but pipelines can't contain.
	ErrUnsupportedSyntax = errors.NewKind("unsupported syntax: %s")
)

// Parse parses a pipeline and returns the corresponding node. The node reads
// from an UnresolvedSource that must be resolved before being executed.
//
//	pipeline := search ('|' clause)*
//	search   := term*
//	term     := IDENT '=' (IDENT | CONSTANT)
//	clause   := 'stats' 'count' ('by' IDENT)? | 'by' IDENT
//
// Lexing problems are returned as is. When the lexer skips unrecognized input
// they are logged and the remaining tokens are parsed.
func Parse(ctx *query.Context, input string, opts ...lexer.Option) (query.Node, error) {
	span, ctx := ctx.Span("parse", opentracing.Tag{Key: "query", Value: input})
	defer span.Finish()

	l := lexer.New(opts...)
	res := l.Lex(input)
	if err := res.Err(); err != nil {
		if l.Recovery() == lexer.Stop {
			return nil, err
		}

		for _, d := range res.Diagnostics {
			ctx.Logger().WithFields(logrus.Fields{
				"line":   d.Pos.Line,
				"column": d.Pos.Column,
			}).Warnf("skipped input: %s", d.Err)
		}
	}

	tokens := lexer.DropWhitespace(res.Tokens)
	span.SetTag("tokens", len(tokens))
	if len(tokens) == 0 {
		ctx.Logger().WithField("query", input).
			Infof("query became empty, every record will be returned")
		return plan.NewUnresolvedSource(), nil
	}

	p := &parser{cur: lexer.NewCursor(tokens)}
	return p.pipeline()
}

type parser struct {
	cur *lexer.Cursor
}

func (p *parser) pipeline() (query.Node, error) {
	node, err := p.search(plan.NewUnresolvedSource())
	if err != nil {
		return nil, err
	}

	for !p.cur.Done() {
		switch {
		case p.cur.Matches(lexer.PipeStatsCount...):
			p.skip(len(lexer.PipeStatsCount))
			node, err = p.stats(node)
		case p.cur.Matches(lexer.PipeBy...):
			p.skip(len(lexer.PipeBy))
			node, err = p.by(node)
		case p.cur.Matches(query.PipeToken):
			p.skip(1)
			err = p.unexpected("stats count or by")
		default:
			err = p.unexpected("|")
		}

		if err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (p *parser) search(node query.Node) (query.Node, error) {
	for {
		tok, ok := p.cur.Peek()
		if !ok || tok.Kind == query.Pipe {
			return node, nil
		}

		if isDeclaration(tok) {
			return nil, ErrUnsupportedSyntax.New(tok)
		}

		field, err := p.expect(query.Identifier)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(query.Equals); err != nil {
			return nil, err
		}

		value, ok := p.cur.Peek()
		if !ok || (value.Kind != query.Identifier && value.Kind != query.Constant) {
			return nil, p.unexpected("Identifier or Constant")
		}
		p.skip(1)

		node = plan.NewFilter(field.Name, value, node)
	}
}

// stats parses what follows "| stats count".
func (p *parser) stats(node query.Node) (query.Node, error) {
	if !p.cur.Matches(query.By) {
		return plan.NewStats(nil, node), nil
	}

	p.skip(1)
	return p.by(node)
}

// by parses the field name of a grouping, after "by". The count keyword
// names the column produced by a previous stats clause.
func (p *parser) by(node query.Node) (query.Node, error) {
	if p.cur.Matches(query.Count) {
		p.skip(1)
		return plan.NewStats([]string{plan.CountColumn}, node), nil
	}

	field, err := p.expect(query.Identifier)
	if err != nil {
		return nil, err
	}
	return plan.NewStats([]string{field.Name}, node), nil
}

func (p *parser) expect(kind query.Kind) (query.Token, error) {
	tok, ok := p.cur.Peek()
	if !ok || tok.Kind != kind {
		return query.Token{}, p.unexpected(kind.String())
	}
	p.skip(1)
	return tok, nil
}

func (p *parser) skip(n int) {
	for i := 0; i < n; i++ {
		p.cur.Next()
	}
}

func (p *parser) unexpected(expected string) error {
	tok, ok := p.cur.Peek()
	if !ok {
		return ErrUnexpectedSyntax.New(expected, "end of input")
	}
	return ErrUnexpectedSyntax.New(expected, tok)
}

func isDeclaration(tok query.Token) bool {
	switch tok.Kind {
	case query.IntKeyword, query.VoidKeyword, query.ReturnKeyword,
		query.OpenBrace, query.CloseBrace, query.OpenParen, query.CloseParen, query.Semicolon:
		return true
	default:
		return false
	}
}
