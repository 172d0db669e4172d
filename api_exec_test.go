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

package questdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	questdb "github.com/questdb-sdk/questdb-go"
	"github.com/stretchr/testify/require"
)

type TestData struct {
	ID       int32   `json:"id"`
	TS       string  `json:"ts"`
	Temp     float64 `json:"temp"`
	SensorID int32   `json:"sensor_id"`
}

func TestExecQueryParameters(t *testing.T) {
	testCases := []struct {
		name   string
		req    questdb.ExecRequest
		keys   []string
		values map[string]string
	}{
		{
			name: "query only",
			req:  questdb.ExecRequest{Query: "select * from readings"},
			keys: []string{"query"},
		},
		{
			name:   "limit",
			req:    questdb.ExecRequest{Query: "readings", Limit: questdb.LimitTo(5)},
			keys:   []string{"query", "limit"},
			values: map[string]string{"limit": "5"},
		},
		{
			name:   "count",
			req:    questdb.ExecRequest{Query: "readings", Count: questdb.Bool(true)},
			keys:   []string{"query", "count"},
			values: map[string]string{"count": "true"},
		},
		{
			name:   "nm",
			req:    questdb.ExecRequest{Query: "readings", NoMeta: questdb.Bool(false)},
			keys:   []string{"query", "nm"},
			values: map[string]string{"nm": "false"},
		},
		{
			name: "all",
			req: questdb.ExecRequest{
				Query:  "readings",
				Limit:  questdb.LimitRange(10, 20),
				Count:  questdb.Bool(false),
				NoMeta: questdb.Bool(true),
			},
			keys:   []string{"query", "limit", "count", "nm"},
			values: map[string]string{"limit": "10,20", "count": "false", "nm": "true"},
		},
		{
			name:   "limit and nm",
			req:    questdb.ExecRequest{Query: "readings", Limit: questdb.LimitTo(1), NoMeta: questdb.Bool(true)},
			keys:   []string{"query", "limit", "nm"},
			values: map[string]string{"limit": "1", "nm": "true"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &Recorder{}
			c := NewTestClient(t, RespondJSON(http.StatusOK, `{"dataset":[]}`, rec))

			rows, err := questdb.Exec[TestData](context.Background(), c, &tc.req)
			require.NoError(t, err)
			require.Empty(t, rows)

			requests := rec.Requests()
			require.Len(t, requests, 1)
			r := requests[0]
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/exec", r.URL.Path)
			require.Equal(t, tc.keys, QueryKeys(r.URL.RawQuery))
			require.Equal(t, tc.req.Query, r.URL.Query().Get("query"))
			for k, v := range tc.values {
				require.Equal(t, v, r.URL.Query().Get(k))
			}
		})
	}
}

func TestExecDecodesDataset(t *testing.T) {
	c := NewTestClient(t, RespondJSON(http.StatusOK,
		`{"dataset": [{"id":1,"ts":"2020-01-01","temp":21.5,"sensor_id":3}]}`, nil))

	rows, err := questdb.Exec[TestData](context.Background(), c, &questdb.ExecRequest{
		Query: "select * from readings",
		Limit: questdb.LimitTo(5),
	})
	require.NoError(t, err)
	require.Equal(t, []TestData{{ID: 1, TS: "2020-01-01", Temp: 21.5, SensorID: 3}}, rows)
}

func TestExecDecodesPositionalRows(t *testing.T) {
	c := NewTestClient(t, RespondJSON(http.StatusOK,
		`{"query":"readings","columns":[{"name":"id","type":"INT"},{"name":"ts","type":"TIMESTAMP"},`+
			`{"name":"temp","type":"DOUBLE"},{"name":"sensor_id","type":"INT"}],"timestamp":1,`+
			`"dataset":[[1,"2020-01-01",21.5,3],[2,"2020-01-02",null,4]],"count":2}`, nil))

	rows, err := questdb.Exec[TestData](context.Background(), c, &questdb.ExecRequest{Query: "readings"})
	require.NoError(t, err)
	require.Equal(t, []TestData{
		{ID: 1, TS: "2020-01-01", Temp: 21.5, SensorID: 3},
		{ID: 2, TS: "2020-01-02", SensorID: 4},
	}, rows)
}

func TestExecOptionalFields(t *testing.T) {
	type Partial struct {
		ID   int32   `json:"id"`
		Temp float64 `json:"temp,omitempty"`
		Note string  `json:"-"`
	}

	c := NewTestClient(t, RespondJSON(http.StatusOK, `{"dataset":[{"ID":1},{"id":2,"temp":19.5}]}`, nil))

	rows, err := questdb.Exec[Partial](context.Background(), c, &questdb.ExecRequest{Query: "readings"})
	require.NoError(t, err)
	require.Equal(t, []Partial{{ID: 1}, {ID: 2, Temp: 19.5}}, rows)
}

func TestExecQueryError(t *testing.T) {
	c := NewTestClient(t, RespondJSON(http.StatusBadRequest,
		`{"query":"bad sql","error":"unexpected token","position":7}`, nil))

	rows, err := questdb.Exec[TestData](context.Background(), c, &questdb.ExecRequest{Query: "bad sql"})
	require.Nil(t, rows)

	var qe *questdb.QueryError
	require.ErrorAs(t, err, &qe)
	require.Equal(t, &questdb.QueryError{Query: "bad sql", Message: "unexpected token", Position: 7}, qe)
	require.Equal(t, "query error at position 7: unexpected token", err.Error())
}

func TestExecUnrecognizedResponse(t *testing.T) {
	for _, body := range []string{
		`{"foo":1}`,
		`{"query":"x","error":"partial"}`,
		`[1,2,3]`,
		`not json`,
		``,
	} {
		t.Run(body, func(t *testing.T) {
			c := NewTestClient(t, RespondJSON(http.StatusOK, body, nil))

			_, err := questdb.Exec[TestData](context.Background(), c, &questdb.ExecRequest{Query: "readings"})
			var de *questdb.DecodeError
			require.ErrorAs(t, err, &de)

			var qe *questdb.QueryError
			require.False(t, errors.As(err, &qe))
		})
	}
}

func TestExecRowShapeMismatch(t *testing.T) {
	for _, body := range []string{
		`{"dataset":[{"id":1,"ts":"2020-01-01","temp":21.5,"sensor_id":3,"extra":true}]}`,
		`{"dataset":[{"id":"one","ts":"2020-01-01","temp":21.5,"sensor_id":3}]}`,
		`{"dataset":[{"id":1}]}`,
		`{"dataset":[null]}`,
		`{"dataset":[[1,"2020-01-01",21.5,3]]}`,
		`{"columns":[{"name":"id","type":"INT"},{"name":"ts","type":"TIMESTAMP"}],"dataset":[[1,"2020-01-01",21.5,3]]}`,
		`{"columns":[{"name":"id","type":"INT"},{"name":"ts","type":"TIMESTAMP"}],"dataset":[[1,"2020-01-01"]]}`,
	} {
		c := NewTestClient(t, RespondJSON(http.StatusOK, body, nil))

		_, err := questdb.Exec[TestData](context.Background(), c, &questdb.ExecRequest{Query: "readings"})
		var de *questdb.DecodeError
		require.ErrorAs(t, err, &de, body)
	}
}

func TestExecGenericRows(t *testing.T) {
	c := NewTestClient(t, RespondJSON(http.StatusOK,
		`{"query":"readings","columns":[{"name":"id","type":"INT"}],"timestamp":-1,"dataset":[[1],[2]],"count":2}`, nil))

	rows, err := questdb.Exec[[]any](context.Background(), c, &questdb.ExecRequest{Query: "readings"})
	require.NoError(t, err)
	require.Equal(t, [][]any{{float64(1)}, {float64(2)}}, rows)
}

func TestQueryResultSetMetadata(t *testing.T) {
	c := NewTestClient(t, RespondJSON(http.StatusOK,
		`{"query":"readings","columns":[{"name":"id","type":"INT"},{"name":"ts","type":"TIMESTAMP"}],`+
			`"timestamp":1,"dataset":[],"count":0,"timings":{"compiler":10,"execute":20,"count":0}}`, nil))

	rs, err := c.Query(context.Background(), &questdb.ExecRequest{Query: "readings", Count: questdb.Bool(true)})
	require.NoError(t, err)
	require.Equal(t, "readings", rs.Query)
	require.Equal(t, []questdb.Column{{Name: "id", Type: "INT"}, {Name: "ts", Type: "TIMESTAMP"}}, rs.Columns)
	require.Equal(t, 1, rs.Timestamp)
	require.Equal(t, int64(0), rs.Count)
	require.Equal(t, &questdb.Timings{Compiler: 10, Execute: 20}, rs.Timings)
}

func TestExecTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := questdb.New(endpoint)
	defer c.Close()

	_, err := questdb.Exec[TestData](context.Background(), c, &questdb.ExecRequest{Query: "readings"})
	var te *questdb.TransportError
	require.ErrorAs(t, err, &te)
}

func TestExecKeepsEndpointVerbatim(t *testing.T) {
	rec := &Recorder{}
	srv := httptest.NewServer(RespondJSON(http.StatusOK, `{"dataset":[]}`, rec))
	defer srv.Close()

	c := questdb.New(srv.URL + "/questdb")
	defer c.Close()
	require.Equal(t, srv.URL+"/questdb", c.Endpoint())

	_, err := c.Query(context.Background(), &questdb.ExecRequest{Query: "readings"})
	require.NoError(t, err)
	requests := rec.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "/questdb/exec", requests[0].URL.Path)
}
