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
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.in/src-d/go-sprunk.v0/query"
)

func TestTokenize(t *testing.T) {
	require := require.New(t)

	tokens, err := Tokenize("int main() { return 365; }")
	require.NoError(err)
	require.Equal([]query.Token{
		query.Int,
		query.NewWhitespace(1),
		query.NewIdentifier("main"),
		query.LParen,
		query.RParen,
		query.NewWhitespace(1),
		query.LBrace,
		query.NewWhitespace(1),
		query.Return,
		query.NewWhitespace(1),
		query.NewConstant(365),
		query.Semi,
		query.NewWhitespace(1),
		query.RBrace,
	}, tokens)
}

func TestTokenizePipeline(t *testing.T) {
	require := require.New(t)

	tokens, err := Tokenize("country = fr | stats count by region")
	require.NoError(err)
	require.Equal([]query.Token{
		query.NewIdentifier("country"),
		query.Eq,
		query.NewIdentifier("fr"),
		query.PipeToken,
		query.Stats,
		query.Count,
		query.By,
		query.NewIdentifier("region"),
	}, DropWhitespace(tokens))
}

func TestLexRoundTrip(t *testing.T) {
	inputs := []string{
		"int main() { return 365; }",
		"void f(){return;}",
		"007 = x",
		"  population = 0100 | by  region  ",
		"\tstats count\n| by x",
		"héllo wörld",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			require := require.New(t)
			res := New().Lex(input)
			require.NoError(res.Err())
			require.Len(res.Spans, len(res.Tokens))
			require.Equal(len(input), res.Consumed())

			cursor := 0
			for _, s := range res.Spans {
				require.Equal(cursor, s.Start)
				require.True(s.End > s.Start)
				cursor = s.End
			}
		})
	}
}

func TestLexLeadingZeros(t *testing.T) {
	require := require.New(t)

	res := New().Lex("x = 007;")
	require.NoError(res.Err())
	require.Equal([]query.Token{
		query.NewIdentifier("x"),
		query.NewWhitespace(1),
		query.Eq,
		query.NewWhitespace(1),
		query.NewConstant(7),
		query.Semi,
	}, res.Tokens)
	require.Equal(query.Span{Start: 4, End: 7}, res.Spans[4])
}

func TestLexStop(t *testing.T) {
	require := require.New(t)

	tokens, err := Tokenize("a = 1\nb @ 2")
	require.Error(err)
	require.Equal([]query.Token{
		query.NewIdentifier("a"),
		query.NewWhitespace(1),
		query.Eq,
		query.NewWhitespace(1),
		query.NewConstant(1),
		query.NewWhitespace(1),
		query.NewIdentifier("b"),
		query.NewWhitespace(1),
	}, tokens)

	d, ok := err.(*Diagnostic)
	require.True(ok)
	require.Equal(query.Position{Offset: 8, Line: 2, Column: 3}, d.Pos)
	require.True(ErrUnrecognizedCharacter.Is(d.Err))
	require.Equal(`2:3: unrecognized character '@'`, err.Error())
}

func TestLexSkip(t *testing.T) {
	require := require.New(t)

	res := New(WithRecovery(Skip)).Lex("a @ b # 99999999999999999999 c")
	require.Equal([]query.Token{
		query.NewIdentifier("a"),
		query.NewWhitespace(1),
		query.NewWhitespace(1),
		query.NewIdentifier("b"),
		query.NewWhitespace(1),
		query.NewWhitespace(1),
		query.NewWhitespace(1),
		query.NewIdentifier("c"),
	}, res.Tokens)

	require.Len(res.Diagnostics, 3)
	require.Equal(3, res.Diagnostics[0].Pos.Column)
	require.True(ErrUnrecognizedCharacter.Is(res.Diagnostics[0].Err))
	require.Equal(7, res.Diagnostics[1].Pos.Column)
	require.True(ErrInvalidNumericLiteral.Is(res.Diagnostics[2].Err))
	require.Equal(9, res.Diagnostics[2].Pos.Column)
	require.Equal(res.Diagnostics[0], res.Err())
}

func TestLexEmpty(t *testing.T) {
	require := require.New(t)

	res := New().Lex("")
	require.NoError(res.Err())
	require.Empty(res.Tokens)
	require.Equal(0, res.Consumed())
}

func TestParseRecovery(t *testing.T) {
	require := require.New(t)

	r, err := ParseRecovery("")
	require.NoError(err)
	require.Equal(Stop, r)

	r, err = ParseRecovery("SKIP")
	require.NoError(err)
	require.Equal(Skip, r)
	require.Equal("skip", r.String())

	_, err = ParseRecovery("retry")
	require.True(ErrInvalidRecovery.Is(err))
}

func TestDropWhitespace(t *testing.T) {
	require := require.New(t)

	tokens := []query.Token{
		query.NewWhitespace(2),
		query.PipeToken,
		query.NewWhitespace(1),
		query.Stats,
	}
	require.Equal([]query.Token{query.PipeToken, query.Stats}, DropWhitespace(tokens))
	require.Len(tokens, 4)
	require.Empty(DropWhitespace(nil))
}
