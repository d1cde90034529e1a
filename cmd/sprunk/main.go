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

// Command sprunk reads a search query from the standard input and runs it
// over a CSV file of city records.
//
// ```
// $ echo 'country = France | stats count by region' | sprunk cities.csv
// You entered: country = France | stats count by region
// ...
// +--------+-------+
// | region | count |
// +--------+-------+
// | ARA    |     3 |
// | IDF    |     2 |
// +--------+-------+
// ```
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"gopkg.in/src-d/go-sprunk.v0"
	"gopkg.in/src-d/go-sprunk.v0/query"
	"gopkg.in/src-d/go-sprunk.v0/query/lexer"
	"gopkg.in/src-d/go-sprunk.v0/records"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	config   string
	recovery string
	save     string
	search   string
	records  string
}

func parseOptions(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("sprunk", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := new(options)
	fs.StringVar(&opts.config, "config", "", "path of the YAML config file")
	fs.StringVar(&opts.recovery, "recovery", "", "lexer recovery mode: stop or skip")
	fs.StringVar(&opts.save, "save", "", "save the query under this name after running it")
	fs.StringVar(&opts.search, "search", "", "run the saved search with this name instead of reading stdin")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: sprunk [flags] <records.csv>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expecting one records file, got %d", fs.NArg())
	}
	opts.records = fs.Arg(0)

	return opts, nil
}

func loadConfig(opts *options) (*sprunk.Config, error) {
	cfg := sprunk.NewConfig()
	if opts.config != "" {
		var err error
		cfg, err = sprunk.ReadConfigFile(opts.config)
		if err != nil {
			return nil, err
		}
	}

	if opts.recovery != "" {
		cfg.Recovery = opts.recovery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, sprunk.SetupLogging(cfg)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	table, err := records.LoadCSV(opts.records, records.CitySchema)
	if err != nil {
		fmt.Fprintf(stderr, "error running example: %s\n", err)
		return 1
	}

	e, err := sprunk.New(cfg, table)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() {
		if err := e.Close(); err != nil {
			logrus.WithError(err).Warn("unable to close saved searches")
		}
	}()

	q, err := readQuery(e, opts.search, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, err := query.NewContext(context.Background(), query.WithQuery(q))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "You entered: %s\n", q)

	res := e.Tokenize(ctx, q)
	for _, tok := range res.Tokens {
		fmt.Fprintln(stdout, tok)
	}

	fmt.Fprintln(stdout, "Filtering Tokens!")
	filtered := lexer.DropWhitespace(res.Tokens)
	for _, tok := range filtered {
		fmt.Fprintln(stdout, tok)
	}

	printClauses(stdout, filtered)

	schema, iter, err := e.Query(ctx, q)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	rows, err := query.RowIterToRows(iter)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	printTable(stdout, schema, rows)

	if opts.save != "" {
		if err := e.Save(ctx, opts.save, q); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		ctx.Logger().WithField("search", opts.save).Info("search saved")
	}

	return 0
}

func readQuery(e *sprunk.Engine, search string, stdin io.Reader) (string, error) {
	if search != "" {
		return e.Saved(search)
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// printClauses prints the shape of the clause starting at every pipe.
func printClauses(w io.Writer, tokens []query.Token) {
	cur := lexer.NewCursor(tokens)
	for !cur.Done() {
		if clause, ok := cur.DetectClause(); ok {
			fmt.Fprintf(w, "Found %s at token %d\n", clause, cur.Pos())
		}
		cur.Next()
	}
}
