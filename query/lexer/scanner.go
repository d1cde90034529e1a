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

package lexer // import "gopkg.in/src-d/go-sprunk.v0/query/lexer"

import (
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/src-d/go-errors.v1"

	"gopkg.in/src-d/go-sprunk.v0/query"
)

var (
	// ErrUnrecognizedCharacter is returned when the character at the start of
	// the input does not begin any token.
	ErrUnrecognizedCharacter = errors.NewKind("unrecognized character %q")

	// ErrInvalidNumericLiteral is returned when a run of digits does not fit
	// in a signed 64-bit integer.
	ErrInvalidNumericLiteral = errors.NewKind("invalid numeric literal %q")
)

// Match is a token classified at the start of an input together with the
// number of bytes of input it covers.
type Match struct {
	Token query.Token
	Width int
}

type keyword struct {
	literal string
	token   query.Token
	// delims are accepted right after the literal besides whitespace and
	// the end of the input.
	delims string
}

var keywords = []keyword{
	{"void", query.Void, ""},
	{"int", query.Int, ""},
	{"return", query.Return, ";"},
	{"stats", query.Stats, ""},
	{"count", query.Count, ""},
	{"by", query.By, ""},
}

var punctuation = map[rune]query.Token{
	'{': query.LBrace,
	'(': query.LParen,
	'}': query.RBrace,
	')': query.RParen,
	';': query.Semi,
	'|': query.PipeToken,
	'=': query.Eq,
}

type predicate func(r rune) bool

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// takeWhile returns how many characters at the start of src satisfy match
// and how many bytes they take.
func takeWhile(src string, match predicate) (chars, width int) {
	for i, r := range src {
		if !match(r) {
			return chars, i
		}
		chars++
	}
	return chars, len(src)
}

// Scan classifies the token at the start of src. It never looks past the
// token it reports and does not modify anything; the returned Match says how
// many bytes the caller has to skip to get past it.
//
// Scan returns io.EOF for an empty input. When a character cannot start a
// token, or a numeric literal is out of range, the error is one of
// ErrUnrecognizedCharacter or ErrInvalidNumericLiteral and Match.Width holds
// the width of the offending input.
func Scan(src string) (Match, error) {
	if src == "" {
		return Match{}, io.EOF
	}

	r, size := utf8.DecodeRuneInString(src)
	switch {
	case unicode.IsSpace(r):
		n, width := takeWhile(src, unicode.IsSpace)
		return Match{query.NewWhitespace(n), width}, nil

	case unicode.IsLetter(r):
		if m, ok := matchKeyword(src); ok {
			return m, nil
		}
		_, width := takeWhile(src, isAlnum)
		return Match{query.NewIdentifier(src[:width]), width}, nil

	case isDigit(r):
		_, width := takeWhile(src, isDigit)
		run := src[:width]
		v, err := strconv.ParseInt(run, 10, 64)
		if err != nil {
			return Match{Width: width}, ErrInvalidNumericLiteral.Wrap(err, run)
		}
		return Match{query.NewConstant(v), width}, nil

	default:
		if tok, ok := punctuation[r]; ok {
			return Match{tok, size}, nil
		}
		return Match{Width: size}, ErrUnrecognizedCharacter.New(r)
	}
}

// matchKeyword compares the start of src with every keyword literal. The
// literal must be followed by one of its delimiters or by the end of src.
func matchKeyword(src string) (Match, bool) {
	for _, kw := range keywords {
		if !strings.HasPrefix(src, kw.literal) {
			continue
		}

		rest := src[len(kw.literal):]
		if rest == "" {
			return Match{kw.token, len(kw.literal)}, true
		}

		next, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsSpace(next) || strings.ContainsRune(kw.delims, next) {
			return Match{kw.token, len(kw.literal)}, true
		}
	}
	return Match{}, false
}

// Classify returns the token at the start of src, or an Empty token if there
// is none, src is empty or the token is malformed.
func Classify(src string) query.Token {
	m, err := Scan(src)
	if err != nil {
		return query.Token{}
	}
	return m.Token
}
