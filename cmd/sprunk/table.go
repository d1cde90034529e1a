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

package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"

	"gopkg.in/src-d/go-sprunk.v0/query"
)

const nullValue = "NULL"

func formatValue(v interface{}) string {
	if v == nil {
		return nullValue
	}
	return cast.ToString(v)
}

// printTable writes rows as a bordered text table. Numeric columns are
// aligned to the right.
func printTable(w io.Writer, schema query.Schema, rows []query.Row) {
	widths := make([]int, len(schema))
	for i, col := range schema {
		widths[i] = utf8.RuneCountInString(col.Name)
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(schema))
		for j := range schema {
			var v interface{}
			if j < len(row) {
				v = row[j]
			}
			cells[i][j] = formatValue(v)
			if n := utf8.RuneCountInString(cells[i][j]); n > widths[j] {
				widths[j] = n
			}
		}
	}

	separator := func() {
		for _, width := range widths {
			fmt.Fprint(w, "+", strings.Repeat("-", width+2))
		}
		fmt.Fprintln(w, "+")
	}

	line := func(values []string, header bool) {
		for i, v := range values {
			pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(v))
			if !header && schema[i].Type != query.Text {
				fmt.Fprintf(w, "| %s%s ", pad, v)
			} else {
				fmt.Fprintf(w, "| %s%s ", v, pad)
			}
		}
		fmt.Fprintln(w, "|")
	}

	separator()
	line(schema.Names(), true)
	separator()
	for _, c := range cells {
		line(c, false)
	}
	separator()
}
