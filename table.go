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
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Table is a handle to a QuestDB table.
type Table struct {
	c *Client

	// Name is the name of the table.
	Name string
}

// Table returns a handle to the named table. No request is made.
func (c *Client) Table(name string) *Table {
	return &Table{
		c:    c,
		Name: name,
	}
}

// Identifier returns the table name quoted for use in SQL text.
func (t *Table) Identifier() string {
	return quoteIdent(t.Name, '"')
}

// Drop drops the table. The server acknowledges it with {"ddl":"OK"} instead
// of a dataset; a SQL failure is returned as *QueryError.
func (t *Table) Drop(ctx context.Context) error {
	data, err := t.c.exec(ctx, &ExecRequest{
		Query: fmt.Sprintf(`DROP TABLE %s`, t.Identifier()),
	})
	if err != nil {
		return err
	}
	if gjson.ValidBytes(data) && gjson.GetBytes(data, "ddl").Exists() {
		return nil
	}
	_, err = decodeExecResponse(data)
	return err
}

// Columns returns the declared columns of the table in table order.
//
// Types QuestDB reports that cannot be declared in an import schema fail the call.
func (t *Table) Columns(ctx context.Context) ([]ColumnSchema, error) {
	rs, err := t.c.Query(ctx, &ExecRequest{
		Query: fmt.Sprintf(`SELECT "column", "type" FROM table_columns(%s)`, quoteIdent(t.Name, '\'')),
	})
	if err != nil {
		return nil, err
	}

	records, err := rs.ToValues()
	if err != nil {
		return nil, err
	}
	columns := make([]ColumnSchema, 0, len(records))
	for _, record := range records {
		if len(record) != 2 {
			return nil, fmt.Errorf("expected 2 columns, got %d", len(record))
		}
		name, ok := record[0].(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", record[0])
		}
		typeName, ok := record[1].(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", record[1])
		}
		typ, err := ParseColumnType(typeName)
		if err != nil {
			return nil, err
		}
		columns = append(columns, ColumnSchema{Name: name, Type: typ})
	}
	return columns, nil
}

// quoteIdent wraps s in q, doubling any q inside it as QuestDB expects.
func quoteIdent(s string, q rune) string {
	var b strings.Builder
	b.WriteRune(q)
	for _, c := range s {
		if c == q {
			b.WriteRune(q)
		}
		b.WriteRune(c)
	}
	b.WriteRune(q)
	return b.String()
}
