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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnTypeString(t *testing.T) {
	expected := map[ColumnType]string{
		Boolean:   "BOOLEAN",
		Byte:      "BYTE",
		Short:     "SHORT",
		Char:      "CHAR",
		Int:       "INT",
		Float:     "FLOAT",
		Symbol:    "SYMBOL",
		String:    "STRING",
		Long:      "LONG",
		Date:      "DATE",
		Timestamp: "TIMESTAMP",
		Double:    "DOUBLE",
		Binary:    "BINARY",
		Long256:   "LONG256",
	}
	require.Len(t, columnTypes, len(expected))
	for typ, name := range expected {
		require.Equal(t, name, typ.String())

		parsed, err := ParseColumnType(name)
		require.NoError(t, err)
		require.Equal(t, typ, parsed)
	}
	require.Equal(t, "", ColumnType(0).String())

	parsed, err := ParseColumnType(" long256 ")
	require.NoError(t, err)
	require.Equal(t, Long256, parsed)

	_, err = ParseColumnType("VARCHAR2")
	require.Error(t, err)
}

func TestEncodeImportSchema(t *testing.T) {
	s, err := encodeImportSchema([]ColumnSchema{{Name: "id", Type: Int}, {Name: "ts", Type: Timestamp}})
	require.NoError(t, err)
	require.Equal(t, "id=INT&ts=TIMESTAMP", s)

	s, err = encodeImportSchema([]ColumnSchema{{Name: "ts", Type: Timestamp}, {Name: "id", Type: Int}, {Name: "v", Type: Long256}})
	require.NoError(t, err)
	require.Equal(t, "ts=TIMESTAMP&id=INT&v=LONG256", s)

	s, err = encodeImportSchema([]ColumnSchema{{Name: "flag", Type: Boolean}})
	require.NoError(t, err)
	require.Equal(t, "flag=BOOLEAN", s)

	_, err = encodeImportSchema([]ColumnSchema{{Name: "id"}})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParseImportSchema(t *testing.T) {
	schema, err := ParseImportSchema("id=int, ts=TIMESTAMP,,name=symbol")
	require.NoError(t, err)
	require.Equal(t, []ColumnSchema{
		{Name: "id", Type: Int},
		{Name: "ts", Type: Timestamp},
		{Name: "name", Type: Symbol},
	}, schema)

	schema, err = ParseImportSchema("")
	require.NoError(t, err)
	require.Empty(t, schema)

	_, err = ParseImportSchema("id")
	require.Error(t, err)
	_, err = ParseImportSchema("=INT")
	require.Error(t, err)
	_, err = ParseImportSchema("id=NUMBER")
	require.Error(t, err)
}

func TestAtomicity(t *testing.T) {
	require.Equal(t, "strict", AtomicityStrict.String())
	require.Equal(t, "relaxed", AtomicityRelaxed.String())
	require.Equal(t, "", Atomicity(0).String())

	a, err := ParseAtomicity("Relaxed")
	require.NoError(t, err)
	require.Equal(t, AtomicityRelaxed, a)

	_, err = ParseAtomicity("eventual")
	require.Error(t, err)
}

func TestLimitString(t *testing.T) {
	require.Equal(t, "20", LimitTo(20).String())
	require.Equal(t, "10,20", LimitRange(10, 20).String())
	require.Equal(t, "0,20", LimitRange(0, 20).String())
}

func TestParseLimit(t *testing.T) {
	l, err := ParseLimit("20")
	require.NoError(t, err)
	require.Equal(t, LimitTo(20), l)

	l, err = ParseLimit("10, 20")
	require.NoError(t, err)
	require.Equal(t, LimitRange(10, 20), l)

	for _, s := range []string{"", "-1", "a,b", "1,", "1,2,3"} {
		_, err := ParseLimit(s)
		require.Error(t, err, s)
	}
}

func TestQueryParamsKeepOrder(t *testing.T) {
	var q queryParams
	q.add("query", "select * from t where a = 'x y'")
	q.addLimit(LimitRange(1, 2))
	q.addBool("count", Bool(true))
	q.addBool("nm", nil)
	require.Equal(t, "query=select+%2A+from+t+where+a+%3D+%27x+y%27&limit=1%2C2&count=true", q.encode())
}

func TestQuoteIdent(t *testing.T) {
	require.Equal(t, `"readings"`, quoteIdent("readings", '"'))
	require.Equal(t, `"a""b"`, quoteIdent(`a"b`, '"'))
	require.Equal(t, `'it''s'`, quoteIdent("it's", '\''))
}
