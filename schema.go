/*
 * Copyright 2024 The questdb-go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package questdb

import (
	"fmt"
	"strings"
)

// ColumnType is a QuestDB column type that can be declared in an import schema.
type ColumnType int

const (
	Boolean ColumnType = iota + 1
	Byte
	Short
	Char
	Int
	Float
	Symbol
	String
	Long
	Date
	Timestamp
	Double
	Binary
	Long256
)

var columnTypes = []ColumnType{
	Boolean, Byte, Short, Char, Int, Float, Symbol, String, Long, Date, Timestamp, Double, Binary, Long256,
}

// String returns the type name QuestDB expects in a schema declaration, or ""
// for an unknown ColumnType.
func (t ColumnType) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Byte:
		return "BYTE"
	case Short:
		return "SHORT"
	case Char:
		return "CHAR"
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Symbol:
		return "SYMBOL"
	case String:
		return "STRING"
	case Long:
		return "LONG"
	case Date:
		return "DATE"
	case Timestamp:
		return "TIMESTAMP"
	case Double:
		return "DOUBLE"
	case Binary:
		return "BINARY"
	case Long256:
		return "LONG256"
	default:
		return ""
	}
}

// ParseColumnType parses a type name such as "int" or "TIMESTAMP".
func ParseColumnType(s string) (ColumnType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range columnTypes {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown column type: %q", s)
}

// ColumnSchema declares the type of one column of an imported file.
type ColumnSchema struct {
	Name string
	Type ColumnType
}

// encodeImportSchema renders the schema as "name=TYPE" pairs joined by '&', in
// declaration order.
func encodeImportSchema(schema []ColumnSchema) (string, error) {
	pairs := make([]string, 0, len(schema))
	for _, col := range schema {
		typ := col.Type.String()
		if typ == "" {
			return "", fmt.Errorf("%w: column %q has unknown column type %d", ErrInvalidRequest, col.Name, int(col.Type))
		}
		pairs = append(pairs, col.Name+"="+typ)
	}
	return strings.Join(pairs, "&"), nil
}

// ParseImportSchema parses a comma separated list of "name=TYPE" pairs, e.g.
// "id=INT,ts=TIMESTAMP", keeping the declaration order.
func ParseImportSchema(s string) ([]ColumnSchema, error) {
	var schema []ColumnSchema
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, typ, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid column declaration: %q", pair)
		}
		t, err := ParseColumnType(typ)
		if err != nil {
			return nil, err
		}
		schema = append(schema, ColumnSchema{Name: strings.TrimSpace(name), Type: t})
	}
	return schema, nil
}

// Atomicity controls how the server treats rows that fail to import.
//
// The zero value leaves the choice to the server.
type Atomicity int

const (
	// AtomicityStrict fails the whole import on any bad row.
	AtomicityStrict Atomicity = iota + 1
	// AtomicityRelaxed skips bad rows.
	AtomicityRelaxed
)

// String returns the wire token of the atomicity mode, or "" when unset.
func (a Atomicity) String() string {
	switch a {
	case AtomicityStrict:
		return "strict"
	case AtomicityRelaxed:
		return "relaxed"
	default:
		return ""
	}
}

// ParseAtomicity parses "strict" or "relaxed".
func ParseAtomicity(s string) (Atomicity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return AtomicityStrict, nil
	case "relaxed":
		return AtomicityRelaxed, nil
	default:
		return 0, fmt.Errorf("unknown atomicity: %q", s)
	}
}
