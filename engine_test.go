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

package sprunk_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/require"

	"gopkg.in/src-d/go-sprunk.v0"
	"gopkg.in/src-d/go-sprunk.v0/query"
	"gopkg.in/src-d/go-sprunk.v0/query/lexer"
	"gopkg.in/src-d/go-sprunk.v0/query/parse"
	"gopkg.in/src-d/go-sprunk.v0/records"
	"gopkg.in/src-d/go-sprunk.v0/savedsearch"
)

const citiesCSV = `city,region,country,population
Lyon,ARA,France,513275
Grenoble,ARA,France,158180
Paris,IDF,France,2165423
Versailles,IDF,France,
Porto,Norte,Portugal,231800
Braga,Norte,Portugal,193333
Annecy,ARA,France,128199
`

var queries = []struct {
	query    string
	expected []query.Row
}{
	{
		"",
		[]query.Row{
			{"Lyon", "ARA", "France", uint64(513275)},
			{"Grenoble", "ARA", "France", uint64(158180)},
			{"Paris", "IDF", "France", uint64(2165423)},
			{"Versailles", "IDF", "France", nil},
			{"Porto", "Norte", "Portugal", uint64(231800)},
			{"Braga", "Norte", "Portugal", uint64(193333)},
			{"Annecy", "ARA", "France", uint64(128199)},
		},
	},
	{
		"country = Portugal",
		[]query.Row{
			{"Porto", "Norte", "Portugal", uint64(231800)},
			{"Braga", "Norte", "Portugal", uint64(193333)},
		},
	},
	{
		"country = France region = IDF",
		[]query.Row{
			{"Paris", "IDF", "France", uint64(2165423)},
			{"Versailles", "IDF", "France", nil},
		},
	},
	{
		"population = 158180",
		[]query.Row{{"Grenoble", "ARA", "France", uint64(158180)}},
	},
	{
		"| stats count",
		[]query.Row{{int64(7)}},
	},
	{
		"country = France | stats count",
		[]query.Row{{int64(5)}},
	},
	{
		"| stats count by region",
		[]query.Row{
			{"ARA", int64(3)},
			{"IDF", int64(2)},
			{"Norte", int64(2)},
		},
	},
	{
		"| by country",
		[]query.Row{
			{"France", int64(5)},
			{"Portugal", int64(2)},
		},
	},
	{
		"|stats count by region|by count",
		[]query.Row{
			{int64(3), int64(1)},
			{int64(2), int64(2)},
		},
	},
	{
		"country = Spain | stats count",
		[]query.Row{{int64(0)}},
	},
}

func newEngine(t *testing.T, cfg *sprunk.Config) *sprunk.Engine {
	t.Helper()
	table, err := records.ReadCSV("cities", strings.NewReader(citiesCSV), records.CitySchema)
	require.NoError(t, err)

	if cfg == nil {
		cfg = sprunk.NewConfig()
		cfg.SavedSearches = ""
	}

	e, err := sprunk.New(cfg, table)
	require.NoError(t, err)
	return e
}

func TestQueries(t *testing.T) {
	e := newEngine(t, nil)
	defer e.Close()

	for _, tt := range queries {
		testQuery(t, e, tt.query, tt.expected)
	}
}

func testQuery(t *testing.T, e *sprunk.Engine, q string, expected []query.Row) {
	t.Run(q, func(t *testing.T) {
		require := require.New(t)

		_, iter, err := e.Query(query.NewEmptyContext(), q)
		require.NoError(err)

		rows, err := query.RowIterToRows(iter)
		require.NoError(err)
		require.Equal(expected, rows)
	})
}

func TestQuerySchema(t *testing.T) {
	require := require.New(t)
	e := newEngine(t, nil)

	schema, iter, err := e.Query(query.NewEmptyContext(), "| stats count by region")
	require.NoError(err)
	require.NoError(iter.Close())
	require.Equal([]string{"region", "count"}, schema.Names())
}

func TestQueryErrors(t *testing.T) {
	testCases := []struct {
		query string
		err   func(error) bool
	}{
		{"country = Fr@nce", lexer.ErrUnrecognizedCharacter.Is},
		{"population = 99999999999999999999", lexer.ErrInvalidNumericLiteral.Is},
		{"country France", parse.ErrUnexpectedSyntax.Is},
		{"| stats", parse.ErrUnexpectedSyntax.Is},
		{"int main() { return 365; }", parse.ErrUnsupportedSyntax.Is},
		{"state = MA", query.ErrColumnNotFound.Is},
		{"| by state", query.ErrColumnNotFound.Is},
	}

	e := newEngine(t, nil)
	for _, tt := range testCases {
		t.Run(tt.query, func(t *testing.T) {
			require := require.New(t)

			_, iter, err := e.Query(query.NewEmptyContext(), tt.query)
			if err == nil {
				_, err = query.RowIterToRows(iter)
			}
			require.Error(err)
			require.True(tt.err(errorCause(err)), "unexpected error: %s", err)
		})
	}
}

func errorCause(err error) error {
	if d, ok := err.(*lexer.Diagnostic); ok {
		return d.Err
	}
	return err
}

func TestQueryDiagnosticPosition(t *testing.T) {
	require := require.New(t)
	e := newEngine(t, nil)

	_, _, err := e.Query(query.NewEmptyContext(), "country = France\n| stats @")
	require.Error(err)
	require.Equal("2:9: unrecognized character '@'", err.Error())
}

func TestQuerySkipRecovery(t *testing.T) {
	require := require.New(t)

	cfg := sprunk.NewConfig()
	cfg.Recovery = "skip"
	cfg.SavedSearches = ""
	e := newEngine(t, cfg)

	_, iter, err := e.Query(query.NewEmptyContext(), "country = Portugal # | stats count")
	require.NoError(err)

	rows, err := query.RowIterToRows(iter)
	require.NoError(err)
	require.Equal([]query.Row{{int64(2)}}, rows)
}

func TestNewInvalidRecovery(t *testing.T) {
	cfg := sprunk.NewConfig()
	cfg.Recovery = "retry"
	_, err := sprunk.New(cfg, records.NewTable("t", nil))
	require.True(t, sprunk.ErrInvalidRecovery.Is(err))
}

func TestTokenize(t *testing.T) {
	require := require.New(t)
	e := newEngine(t, nil)

	res := e.Tokenize(query.NewEmptyContext(), "| stats count")
	require.NoError(res.Err())
	require.Equal([]query.Token{
		query.PipeToken,
		query.NewWhitespace(1),
		query.Stats,
		query.NewWhitespace(1),
		query.Count,
	}, res.Tokens)
}

func TestSavedSearches(t *testing.T) {
	require := require.New(t)

	dir, err := ioutil.TempDir("", "sprunk")
	require.NoError(err)
	defer os.RemoveAll(dir)

	cfg := sprunk.NewConfig()
	cfg.SavedSearches = filepath.Join(dir, "searches.db")
	e := newEngine(t, cfg)
	defer e.Close()

	ctx := query.NewEmptyContext()
	require.NoError(e.Save(ctx, "per-country", "| by country"))
	require.True(parse.ErrUnexpectedSyntax.Is(e.Save(ctx, "broken", "| by")))

	q, err := e.Saved("per-country")
	require.NoError(err)
	require.Equal("| by country", q)

	_, err = e.Saved("broken")
	require.True(savedsearch.ErrSearchNotFound.Is(err))

	testQuery(t, e, q, []query.Row{
		{"France", int64(5)},
		{"Portugal", int64(2)},
	})
}

func TestQueryTracing(t *testing.T) {
	require := require.New(t)

	tracer := mocktracer.New()
	ctx, err := query.NewContext(context.Background(), query.WithTracer(tracer))
	require.NoError(err)

	e := newEngine(t, nil)
	_, iter, err := e.Query(ctx, "country = France | stats count")
	require.NoError(err)

	_, err = query.RowIterToRows(iter)
	require.NoError(err)

	spans := tracer.FinishedSpans()
	var names []string
	for _, s := range spans {
		names = append(names, s.OperationName)
	}
	require.ElementsMatch([]string{
		"query",
		"parse",
		"plan.Stats",
		"plan.Filter",
		"plan.ResolvedSource",
	}, names)
}
