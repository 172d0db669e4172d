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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Value stores the contents of a single cell from a QuestDB query result.
type Value any

// ResultSet stores the successful response of the /exec endpoint.
type ResultSet struct {
	// Query is the query text echoed by the server.
	Query string `json:"query"`
	// Columns describes the result columns. Empty when NoMeta was requested.
	Columns []Column `json:"columns"`
	// Timestamp is the index of the designated timestamp column, or -1.
	Timestamp int `json:"timestamp"`
	// Dataset holds the rows exactly as the server sent them.
	Dataset json.RawMessage `json:"dataset"`
	// Count is the total number of rows, when the server reported it.
	Count int64 `json:"count"`
	// Timings is the server side timing breakdown, when the server reported it.
	Timings *Timings `json:"timings,omitempty"`
}

// Column describes a single result column.
type Column struct {
	// Name is the column name.
	Name string `json:"name"`
	// Type is the QuestDB type name, such as "INT" or "TIMESTAMP".
	Type string `json:"type"`
}

// Timings reports the server side time spent on a query, in nanoseconds.
type Timings struct {
	Compiler int64 `json:"compiler"`
	Execute  int64 `json:"execute"`
	Count    int64 `json:"count"`
}

// Decode decodes the dataset into v, which is usually a pointer to a slice.
//
// When v holds structs, every row must carry exactly the fields of the struct:
// a row key the struct lacks, or a struct field missing from the row, fails
// the decode. Fields tagged omitempty may be absent. Rows sent as JSON arrays
// are matched to fields through the column names, so they need column
// metadata and one cell per column.
func (rs *ResultSet) Decode(v any) error {
	data := []byte(rs.Dataset)
	if st, ok := structRowType(v); ok {
		rows, err := rs.structRows(st)
		if err != nil {
			return err
		}
		data = rows
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// structRowType returns the row type when v points to a slice or array of structs.
func structRowType(v any) (reflect.Type, bool) {
	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, false
	}
	t = t.Elem()
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil, false
	}
	t = t.Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}

// structRows rewrites the dataset as an array of objects keyed by column name
// and checks that each row has every required field of st.
func (rs *ResultSet) structRows(st reflect.Type) ([]byte, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(rs.Dataset, &rows); err != nil {
		return nil, &DecodeError{Err: err}
	}

	required := requiredFields(st)
	objects := make([]map[string]json.RawMessage, 0, len(rows))
	for i, row := range rows {
		fields, err := rs.rowFields(row)
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("row %d: %w", i, err)}
		}
		if name, ok := missingField(fields, required); ok {
			return nil, &DecodeError{Err: fmt.Errorf("row %d: missing field %q", i, name)}
		}
		objects = append(objects, fields)
	}

	data, err := json.Marshal(objects)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return data, nil
}

// rowFields returns the cells of a row keyed by column name.
func (rs *ResultSet) rowFields(row json.RawMessage) (map[string]json.RawMessage, error) {
	row = bytes.TrimSpace(row)
	if len(row) > 0 && row[0] == '[' {
		if len(rs.Columns) == 0 {
			return nil, errors.New("array row without column metadata")
		}
		var cells []json.RawMessage
		if err := json.Unmarshal(row, &cells); err != nil {
			return nil, err
		}
		if len(cells) != len(rs.Columns) {
			return nil, fmt.Errorf("row has %d cells for %d columns", len(cells), len(rs.Columns))
		}
		fields := make(map[string]json.RawMessage, len(cells))
		for i, col := range rs.Columns {
			fields[col.Name] = cells[i]
		}
		return fields, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(row, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// requiredFields lists the json names of the fields of t that a row must carry.
func requiredFields(t reflect.Type) []string {
	var names []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				names = append(names, requiredFields(ft)...)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		optional := strings.Split(opts, ",")
		if slices.Contains(optional, "omitempty") || slices.Contains(optional, "omitzero") {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}

// missingField returns the first name with no matching key in fields. Keys
// match case-insensitively, as encoding/json does.
func missingField(fields map[string]json.RawMessage, names []string) (string, bool) {
	for _, name := range names {
		if _, ok := fields[name]; ok {
			continue
		}
		found := false
		for key := range fields {
			if strings.EqualFold(key, name) {
				found = true
				break
			}
		}
		if !found {
			return name, true
		}
	}
	return "", false
}

// ToValues reads the result set and returns the rows as a 2D array of values,
// i.e., rows of value lists, converted according to the column types.
//
// Rows may be JSON arrays in column order or JSON objects keyed by column
// name. Column metadata is required, so this fails for NoMeta queries.
func (rs *ResultSet) ToValues() ([][]Value, error) {
	if len(rs.Columns) == 0 {
		return nil, errors.New("column metadata is not available")
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(rs.Dataset, &rows); err != nil {
		return nil, &DecodeError{Err: err}
	}

	valueLists := make([][]Value, 0, len(rows))
	for _, r := range rows {
		cells, err := rs.rowCells(r)
		if err != nil {
			return nil, err
		}

		values := make([]Value, 0, len(cells))
		for i, cell := range cells {
			val, err := convertValue(cell, rs.Columns[i].Type)
			if err != nil {
				return nil, &DecodeError{Err: fmt.Errorf("column %s: %w", rs.Columns[i].Name, err)}
			}
			values = append(values, val)
		}
		valueLists = append(valueLists, values)
	}
	return valueLists, nil
}

// rowCells returns the cells of a row in column order.
func (rs *ResultSet) rowCells(row json.RawMessage) ([]json.RawMessage, error) {
	row = bytes.TrimSpace(row)
	if len(row) == 0 {
		return nil, &DecodeError{Err: errors.New("empty row")}
	}

	switch row[0] {
	case '[':
		var cells []json.RawMessage
		if err := json.Unmarshal(row, &cells); err != nil {
			return nil, &DecodeError{Err: err}
		}
		if len(cells) != len(rs.Columns) {
			return nil, &DecodeError{Err: errors.New("column count does not match row length")}
		}
		return cells, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(row, &fields); err != nil {
			return nil, &DecodeError{Err: err}
		}
		cells := make([]json.RawMessage, len(rs.Columns))
		for i, col := range rs.Columns {
			cells[i] = fields[col.Name]
		}
		return cells, nil
	default:
		return nil, &DecodeError{Err: fmt.Errorf("unexpected row: %s", snippet(row))}
	}
}

func convertValue(raw json.RawMessage, typ string) (Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch strings.ToUpper(typ) {
	case "BOOLEAN":
		return decodeAs[bool](raw)
	case "BYTE":
		return decodeAs[int8](raw)
	case "SHORT":
		return decodeAs[int16](raw)
	case "INT":
		return decodeAs[int32](raw)
	case "LONG":
		return decodeAs[int64](raw)
	case "FLOAT":
		return decodeAs[float32](raw)
	case "DOUBLE":
		return decodeAs[float64](raw)
	case "CHAR", "SYMBOL", "STRING", "VARCHAR", "LONG256", "UUID", "IPV4":
		return decodeAs[string](raw)
	case "DATE", "TIMESTAMP":
		s, err := decodeAs[string](raw)
		if err != nil {
			return nil, err
		}
		return time.Parse(time.RFC3339Nano, s)
	default:
		return decodeAs[any](raw)
	}
}

func decodeAs[T any](raw json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}
