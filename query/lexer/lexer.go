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

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"gopkg.in/src-d/go-sprunk.v0/query"
)

// ErrInvalidRecovery is returned when a recovery mode name is not known.
var ErrInvalidRecovery = errors.NewKind("invalid recovery mode %q, expecting one of: stop, skip")

// Recovery tells the lexer what to do after a classification problem.
type Recovery byte

const (
	// Stop ends lexing at the first problem. The tokens read so far are kept.
	Stop Recovery = iota
	// Skip reports the problem, skips the offending input and goes on.
	Skip
)

func (r Recovery) String() string {
	switch r {
	case Stop:
		return "stop"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("Recovery(%d)", byte(r))
	}
}

// ParseRecovery returns the recovery mode with the given name. An empty
// name means Stop.
func ParseRecovery(name string) (Recovery, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "stop":
		return Stop, nil
	case "skip":
		return Skip, nil
	default:
		return Stop, ErrInvalidRecovery.New(name)
	}
}

// Diagnostic is a classification problem found at some position of the
// input.
type Diagnostic struct {
	Pos query.Position
	Err error
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Err)
}

// Cause returns the underlying error, one of the error kinds of this package.
func (d *Diagnostic) Cause() error { return d.Err }

// Unwrap returns the underlying error.
func (d *Diagnostic) Unwrap() error { return d.Err }

// Result is the outcome of lexing a source text.
type Result struct {
	Source string
	// Tokens in the order they appear in Source.
	Tokens []query.Token
	// Spans holds the byte range of every token of Tokens.
	Spans       []query.Span
	Diagnostics []*Diagnostic
}

// Err returns the first diagnostic, or nil if there is none.
func (r *Result) Err() error {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	return r.Diagnostics[0]
}

// Consumed returns how many bytes of the source were covered by tokens.
func (r *Result) Consumed() int {
	var n int
	for _, s := range r.Spans {
		n += s.Width()
	}
	return n
}

// Lexer turns source text into tokens.
type Lexer struct {
	recovery Recovery
	log      *logrus.Entry
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithRecovery sets the recovery mode. The default is Stop.
func WithRecovery(r Recovery) Option {
	return func(l *Lexer) {
		l.recovery = r
	}
}

// WithLogger sets the entry diagnostics are logged to.
func WithLogger(e *logrus.Entry) Option {
	return func(l *Lexer) {
		l.log = e
	}
}

// New creates a new Lexer.
func New(opts ...Option) *Lexer {
	l := &Lexer{
		recovery: Stop,
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Recovery returns the recovery mode of the lexer.
func (l *Lexer) Recovery() Recovery { return l.recovery }

// Lex scans the whole source and returns every token found in it. The
// cursor only moves forward, by the width Scan reports for each token.
func (l *Lexer) Lex(source string) *Result {
	res := &Result{Source: source}

	for cursor := 0; cursor < len(source); {
		m, err := Scan(source[cursor:])
		if err == nil {
			res.Tokens = append(res.Tokens, m.Token)
			res.Spans = append(res.Spans, query.Span{Start: cursor, End: cursor + m.Width})
			cursor += m.Width
			continue
		}

		d := &Diagnostic{Pos: query.PositionAt(source, cursor), Err: err}
		res.Diagnostics = append(res.Diagnostics, d)
		l.log.WithFields(logrus.Fields{
			"line":     d.Pos.Line,
			"column":   d.Pos.Column,
			"recovery": l.recovery.String(),
		}).Debugf("lexing problem: %s", err)

		if l.recovery == Stop || m.Width == 0 {
			break
		}
		cursor += m.Width
	}

	return res
}

// Tokenize lexes source stopping at the first problem. On failure it returns
// the tokens read before the problem along with a *Diagnostic.
func Tokenize(source string) ([]query.Token, error) {
	res := New().Lex(source)
	return res.Tokens, res.Err()
}

// DropWhitespace returns a copy of tokens without the Whitespace tokens.
func DropWhitespace(tokens []query.Token) []query.Token {
	out := make([]query.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != query.Whitespace {
			out = append(out, t)
		}
	}
	return out
}
