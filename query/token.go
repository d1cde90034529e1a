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

package query // import "gopkg.in/src-d/go-sprunk.v0/query"

import "fmt"

// Kind identifies the variant of a Token.
type Kind byte

const (
	// Empty means no token was recognized. It is the zero value of Kind.
	Empty Kind = iota
	// Whitespace is a run of consecutive whitespace characters.
	Whitespace
	// Constant is an unsigned decimal integer literal.
	Constant
	// Identifier is a maximal alphanumeric run that is not a keyword.
	Identifier

	IntKeyword
	VoidKeyword
	ReturnKeyword
	StatsKeyword
	ByKeyword
	CountKeyword

	OpenParen
	CloseParen
	OpenBrace
	CloseBrace
	Semicolon
	Pipe
	Equals
)

var kindNames = [...]string{
	Empty:         "Empty",
	Whitespace:    "Whitespace",
	Constant:      "Constant",
	Identifier:    "Identifier",
	IntKeyword:    "IntKeyword",
	VoidKeyword:   "VoidKeyword",
	ReturnKeyword: "ReturnKeyword",
	StatsKeyword:  "StatsKeyword",
	ByKeyword:     "ByKeyword",
	CountKeyword:  "CountKeyword",
	OpenParen:     "OpenParen",
	CloseParen:    "CloseParen",
	OpenBrace:     "OpenBrace",
	CloseBrace:    "CloseBrace",
	Semicolon:     "Semicolon",
	Pipe:          "Pipe",
	Equals:        "Equals",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// IsKeyword reports whether the kind is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= IntKeyword && k <= CountKeyword
}

// IsPunctuation reports whether the kind is a single-character mark.
func (k Kind) IsPunctuation() bool {
	return k >= OpenParen && k <= Equals
}

// Token is a classified lexical unit. Only the payload field matching Kind
// is ever set, so two tokens are equal with == iff they have the same kind
// and the same payload.
type Token struct {
	Kind Kind
	// Count is the number of characters of a Whitespace token.
	Count int
	// Value is the parsed value of a Constant token.
	Value int64
	// Name is the text of an Identifier token.
	Name string
}

// Fixed tokens without payload.
var (
	Int    = Token{Kind: IntKeyword}
	Void   = Token{Kind: VoidKeyword}
	Return = Token{Kind: ReturnKeyword}
	Stats  = Token{Kind: StatsKeyword}
	By     = Token{Kind: ByKeyword}
	Count  = Token{Kind: CountKeyword}

	LParen    = Token{Kind: OpenParen}
	RParen    = Token{Kind: CloseParen}
	LBrace    = Token{Kind: OpenBrace}
	RBrace    = Token{Kind: CloseBrace}
	Semi      = Token{Kind: Semicolon}
	PipeToken = Token{Kind: Pipe}
	Eq        = Token{Kind: Equals}
)

// NewWhitespace returns a Whitespace token covering n characters.
func NewWhitespace(n int) Token { return Token{Kind: Whitespace, Count: n} }

// NewConstant returns a Constant token with the given value.
func NewConstant(v int64) Token { return Token{Kind: Constant, Value: v} }

// NewIdentifier returns an Identifier token with the given name.
func NewIdentifier(name string) Token { return Token{Kind: Identifier, Name: name} }

// String renders the token the same way the token dump of the CLI does,
// e.g. "Constant: 365" or "Pipe".
func (t Token) String() string {
	switch t.Kind {
	case Whitespace:
		return fmt.Sprintf("Whitespace: %d", t.Count)
	case Constant:
		return fmt.Sprintf("Constant: %d", t.Value)
	case Identifier:
		return fmt.Sprintf("Identifier: %s", t.Name)
	default:
		return t.Kind.String()
	}
}

// Span is the half-open byte range [Start, End) a token was read from.
type Span struct {
	Start int
	End   int
}

// Width returns the number of bytes covered by the span.
func (s Span) Width() int { return s.End - s.Start }
