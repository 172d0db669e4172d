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
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ExecRequest describes a query for the /exec endpoint.
type ExecRequest struct {
	// Query is the SQL text. It can be multi-line, but must not contain a
	// statement separator such as ';'.
	Query string
	// Limit pages the result set. Nil leaves the server default in place.
	Limit *Limit
	// Count asks the server to count the rows and return the total.
	// There is a slight performance hit for requesting the row count.
	Count *bool
	// NoMeta skips the metadata section of the response when true. Clients
	// paging through a known result set typically set it to reduce response size.
	NoMeta *bool
}

// Query compiles and executes the SQL query and returns the raw result set.
//
// A SQL error reported by the server is returned as *QueryError. A response
// that carries neither a dataset nor an error object is returned as *DecodeError.
func (c *Client) Query(ctx context.Context, req *ExecRequest) (*ResultSet, error) {
	data, err := c.exec(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeExecResponse(data)
}

// exec sends req to /exec and returns the response body whatever the status.
func (c *Client) exec(ctx context.Context, req *ExecRequest) ([]byte, error) {
	var q queryParams
	q.add("query", req.Query)
	q.addLimit(req.Limit)
	q.addBool("count", req.Count)
	q.addBool("nm", req.NoMeta)

	u, err := c.endpointURL("/exec", &q)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.logger.Debug("exec", zap.String("query", req.Query), zap.String("params", u.RawQuery))
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer sneakyBodyClose(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return data, nil
}

// Exec compiles and executes the SQL query and decodes the dataset rows into T.
//
// Rows must match the fields of T exactly, as described on ResultSet.Decode,
// otherwise a *DecodeError is returned. Rows sent as arrays are matched to
// fields by column name:
//
//	type Reading struct {
//		ID       int32   `json:"id"`
//		TS       string  `json:"ts"`
//		Temp     float64 `json:"temp"`
//		SensorID int32   `json:"sensor_id"`
//	}
//
//	rows, err := questdb.Exec[Reading](ctx, c, &questdb.ExecRequest{
//		Query: "select * from readings",
//		Limit: questdb.LimitTo(5),
//	})
func Exec[T any](ctx context.Context, c *Client, req *ExecRequest) ([]T, error) {
	rs, err := c.Query(ctx, req)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := rs.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// decodeExecResponse tells a dataset from a SQL error by looking at the keys of
// the top-level object before decoding the matching branch.
func decodeExecResponse(data []byte) (*ResultSet, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Err: fmt.Errorf("invalid json: %q", snippet(data))}
	}
	obj := gjson.ParseBytes(data)
	if !obj.IsObject() {
		return nil, &DecodeError{Err: fmt.Errorf("expected a json object, got %s", obj.Type)}
	}

	if obj.Get("dataset").Exists() {
		var rs ResultSet
		if err := json.Unmarshal(data, &rs); err != nil {
			return nil, &DecodeError{Err: err}
		}
		return &rs, nil
	}

	qe, err := decodeQueryError(obj)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return nil, qe
}

func snippet(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) > 128 {
		data = data[:128]
	}
	return string(data)
}
