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

package parse

import (
	"context"
	"testing"

	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/require"

	"gopkg.in/src-d/go-sprunk.v0/query"
	"gopkg.in/src-d/go-sprunk.v0/query/lexer"
	"gopkg.in/src-d/go-sprunk.v0/query/plan"
)

var fixtures = map[string]query.Node{
	``: plan.NewUnresolvedSource(),
	`   `: plan.NewUnresolvedSource(),
	`country = fr`: plan.NewFilter("country", query.NewIdentifier("fr"), plan.NewUnresolvedSource()),
	`population = 100 region = north`: plan.NewFilter(
		"region",
		query.NewIdentifier("north"),
		plan.NewFilter("population", query.NewConstant(100), plan.NewUnresolvedSource()),
	),
	`| stats count`: plan.NewStats(nil, plan.NewUnresolvedSource()),
	`| stats count by region`: plan.NewStats([]string{"region"}, plan.NewUnresolvedSource()),
	`| by region`: plan.NewStats([]string{"region"}, plan.NewUnresolvedSource()),
	`country=fr|stats count by region`: plan.NewStats(
		[]string{"region"},
		plan.NewFilter("country", query.NewIdentifier("fr"), plan.NewUnresolvedSource()),
	),
	`| stats count by region | by count`: plan.NewStats(
		[]string{"count"},
		plan.NewStats([]string{"region"}, plan.NewUnresolvedSource()),
	),
	`| stats count by region | stats count`: plan.NewStats(
		nil,
		plan.NewStats([]string{"region"}, plan.NewUnresolvedSource()),
	),
}

func TestParse(t *testing.T) {
	for q, expected := range fixtures {
		t.Run(q, func(t *testing.T) {
			require := require.New(t)
			node, err := Parse(newContext(t), q)
			require.NoError(err)
			require.Equal(expected, node)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		query string
		kind  interface{ Is(error) bool }
	}{
		{`country = fr | by stats`, ErrUnexpectedSyntax},
		{`int main() { return 365; }`, ErrUnsupportedSyntax},
		{`return 1;`, ErrUnsupportedSyntax},
		{`country fr`, ErrUnexpectedSyntax},
		{`country =`, ErrUnexpectedSyntax},
		{`country = |`, ErrUnexpectedSyntax},
		{`stats count`, ErrUnexpectedSyntax},
		{`| stats`, ErrUnexpectedSyntax},
		{`| stats count by`, ErrUnexpectedSyntax},
		{`| by 1`, ErrUnexpectedSyntax},
		{`| count`, ErrUnexpectedSyntax},
		{`| stats count x`, ErrUnexpectedSyntax},
		{`country = @`, lexer.ErrUnrecognizedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			require := require.New(t)
			_, err := Parse(newContext(t), tt.query)
			require.Error(err)

			if d, ok := err.(*lexer.Diagnostic); ok {
				err = d.Err
			}
			require.True(tt.kind.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	require := require.New(t)

	_, err := Parse(newContext(t), "| stats count by")
	require.EqualError(err, "expecting Identifier but got end of input instead")

	_, err = Parse(newContext(t), "| by 1")
	require.EqualError(err, "expecting Identifier but got Constant: 1 instead")
}

func TestParseSkipRecovery(t *testing.T) {
	require := require.New(t)

	node, err := Parse(newContext(t), "country = fr @ | stats count", lexer.WithRecovery(lexer.Skip))
	require.NoError(err)
	require.Equal(plan.NewStats(
		nil,
		plan.NewFilter("country", query.NewIdentifier("fr"), plan.NewUnresolvedSource()),
	), node)
}

func TestParseSpan(t *testing.T) {
	require := require.New(t)

	tracer := mocktracer.New()
	ctx, err := query.NewContext(context.Background(), query.WithTracer(tracer))
	require.NoError(err)

	_, err = Parse(ctx, "| stats count")
	require.NoError(err)

	spans := tracer.FinishedSpans()
	require.Len(spans, 1)
	require.Equal("parse", spans[0].OperationName)
	require.Equal("| stats count", spans[0].Tag("query"))
	require.Equal(3, spans[0].Tag("tokens"))
}

func newContext(t *testing.T) *query.Context {
	ctx, err := query.NewContext(context.Background())
	require.NoError(t, err)
	return ctx
}
