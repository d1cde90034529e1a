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

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidType is thrown when a value cannot be converted to the type
	// of the column it is stored in.
	ErrInvalidType = errors.NewKind("invalid value %v for type %s")

	// ErrColumnNotFound is returned when the column does not exist in the
	// schema of the rows being processed.
	ErrColumnNotFound = errors.NewKind("column %q could not be found%s")

	// ErrUnexpectedRowLength is thrown when the obtained row has more columns than the schema
	ErrUnexpectedRowLength = errors.NewKind("expected %d values, got %d")

	// ErrInvalidChildrenNumber is returned when the WithChildren method of a
	// node is called with an invalid number of arguments.
	ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrUnresolvedSource is returned when a node tree that still reads from
	// an unresolved source is executed.
	ErrUnresolvedSource = errors.NewKind("source of %s has not been resolved")
)
