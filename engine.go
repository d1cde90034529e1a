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

package sprunk // import "gopkg.in/src-d/go-sprunk.v0"

import (
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"gopkg.in/src-d/go-sprunk.v0/query"
	"gopkg.in/src-d/go-sprunk.v0/query/lexer"
	"gopkg.in/src-d/go-sprunk.v0/query/parse"
	"gopkg.in/src-d/go-sprunk.v0/query/plan"
	"gopkg.in/src-d/go-sprunk.v0/savedsearch"
)

// Engine runs search queries over a table of records.
type Engine struct {
	Config   *Config
	Table    query.Table
	Searches *savedsearch.Store

	recovery lexer.Recovery
}

// New creates a new Engine querying table. A nil config means the default
// one.
func New(cfg *Config, table query.Table) (*Engine, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	recovery, err := cfg.RecoveryMode()
	if err != nil {
		return nil, err
	}

	var searches *savedsearch.Store
	if cfg.SavedSearches != "" {
		searches = savedsearch.Open(cfg.SavedSearches)
	}

	return &Engine{
		Config:   cfg,
		Table:    table,
		Searches: searches,
		recovery: recovery,
	}, nil
}

func (e *Engine) lexerOptions(ctx *query.Context) []lexer.Option {
	return []lexer.Option{
		lexer.WithRecovery(e.recovery),
		lexer.WithLogger(ctx.Logger()),
	}
}

// Tokenize lexes the query with the configured recovery mode.
func (e *Engine) Tokenize(ctx *query.Context, q string) *lexer.Result {
	return lexer.New(e.lexerOptions(ctx)...).Lex(q)
}

// Query parses and runs the query against the engine table.
func (e *Engine) Query(
	ctx *query.Context,
	q string,
) (query.Schema, query.RowIter, error) {
	span, ctx := ctx.Span("query", opentracing.Tag{Key: "query", Value: q})
	defer span.Finish()

	logger := ctx.Logger().WithFields(logrus.Fields{
		TableLogField:    e.Table.Name(),
		RecoveryLogField: e.recovery,
	})
	logger.Debugf("running query: %s", q)

	parsed, err := parse.Parse(ctx, q, e.lexerOptions(ctx)...)
	if err != nil {
		return nil, nil, err
	}

	resolved, err := plan.Resolve(parsed, e.Table)
	if err != nil {
		return nil, nil, err
	}

	logger.Debugf("execution plan:\n%s", resolved)

	iter, err := resolved.RowIter(ctx)
	if err != nil {
		return nil, nil, err
	}

	return resolved.Schema(), iter, nil
}

// Saved returns the query of the search saved under name.
func (e *Engine) Saved(name string) (string, error) {
	if e.Searches == nil {
		return "", savedsearch.ErrSearchNotFound.New(name)
	}

	s, err := e.Searches.Load(name)
	if err != nil {
		return "", err
	}
	return s.Query, nil
}

// Save stores q under name after checking that it parses.
func (e *Engine) Save(ctx *query.Context, name, q string) error {
	if _, err := parse.Parse(ctx, q, e.lexerOptions(ctx)...); err != nil {
		return err
	}

	if e.Searches == nil {
		e.Searches = savedsearch.Open(DefaultSavedSearches)
	}
	return e.Searches.Save(name, q)
}

// Close releases the saved searches database.
func (e *Engine) Close() error {
	if e.Searches == nil {
		return nil
	}
	return e.Searches.Close()
}
