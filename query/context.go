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

package query

import (
	"context"
	"io"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/log"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// QueryIDLogField is the log field holding the id of the running query.
const QueryIDLogField = "queryID"

// Context of the query execution.
type Context struct {
	context.Context
	id     uuid.UUID
	query  string
	tracer opentracing.Tracer
}

// ContextOption is a function to configure the context.
type ContextOption func(*Context)

// WithTracer adds the given tracer to the context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithQuery adds the given query to the context.
func WithQuery(q string) ContextOption {
	return func(ctx *Context) {
		ctx.query = q
	}
}

// WithID sets the id of the query instead of generating a new one.
func WithID(id uuid.UUID) ContextOption {
	return func(ctx *Context) {
		ctx.id = id
	}
}

// NewContext creates a new query context. Options can be passed to configure
// the context. If some aspect of the context is not configured, the default
// value will be used.
// By default, the context will have a random id and a noop tracer.
func NewContext(ctx context.Context, opts ...ContextOption) (*Context, error) {
	c := &Context{
		Context: ctx,
		tracer:  opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if uuid.Equal(c.id, uuid.Nil) {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		c.id = id
	}

	return c, nil
}

// NewEmptyContext returns a default context with default values.
func NewEmptyContext() *Context {
	return &Context{
		Context: context.TODO(),
		tracer:  opentracing.NoopTracer{},
	}
}

// ID returns the id of the query associated with this context.
func (c *Context) ID() uuid.UUID { return c.id }

// Query returns the query string associated with this context.
func (c *Context) Query() string { return c.query }

// Logger returns a log entry tagged with the query id.
func (c *Context) Logger() *logrus.Entry {
	return logrus.WithField(QueryIDLogField, c.id.String())
}

// Span creates a new tracing span with the given context.
// It will return the span and a new context that should be passed to all
// children of this span.
func (c *Context) Span(
	opName string,
	opts ...opentracing.StartSpanOption,
) (opentracing.Span, *Context) {
	parentSpan := opentracing.SpanFromContext(c.Context)
	if parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)

	return span, c.WithContext(ctx)
}

// WithContext returns a new context with the given underlying context.
func (c *Context) WithContext(ctx context.Context) *Context {
	nc := *c
	nc.Context = ctx
	return &nc
}

// NewSpanIter creates a RowIter executed in the given span. The span is
// finished when the iterator is exhausted, fails or is closed.
func NewSpanIter(span opentracing.Span, iter RowIter) RowIter {
	return &spanIter{
		span: span,
		iter: iter,
	}
}

type spanIter struct {
	span  opentracing.Span
	iter  RowIter
	count int
	total time.Duration
	done  bool
}

func (i *spanIter) Next() (Row, error) {
	start := time.Now()

	row, err := i.iter.Next()
	if err == io.EOF {
		i.finish()
		return nil, err
	}

	if err != nil {
		i.finishWithError(err)
		return nil, err
	}

	i.count++
	i.total += time.Since(start)
	return row, nil
}

func (i *spanIter) finish() {
	if i.done {
		return
	}

	i.span.FinishWithOptions(opentracing.FinishOptions{
		LogRecords: []opentracing.LogRecord{
			{
				Timestamp: time.Now(),
				Fields: []log.Field{
					log.Int("rows", i.count),
					log.String("total_time", i.total.String()),
				},
			},
		},
	})
	i.done = true
}

func (i *spanIter) finishWithError(err error) {
	if i.done {
		return
	}

	i.span.FinishWithOptions(opentracing.FinishOptions{
		LogRecords: []opentracing.LogRecord{
			{
				Timestamp: time.Now(),
				Fields: []log.Field{
					log.String("error", err.Error()),
				},
			},
		},
	})
	i.done = true
}

func (i *spanIter) Close() error {
	i.finish()
	return i.iter.Close()
}
