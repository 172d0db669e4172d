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
	"io"

	"go.uber.org/zap"
)

// ExportRequest describes a query for the /exp endpoint.
type ExportRequest struct {
	// Query is the SQL text whose result is exported.
	Query string
	// Limit pages the result set. Nil exports every row.
	Limit *Limit
}

// ExportResponse reports the outcome of an export.
type ExportResponse struct {
	// StatusCode is the HTTP status of the response. The body is copied
	// whatever the status, so a failed query leaves the server's error text
	// in the sink.
	StatusCode int
	// Written is the number of bytes copied into the sink.
	Written int64
}

// Export runs the query on the server and copies the response body verbatim
// into w. The body is not parsed.
//
// Failures of the HTTP call or of reading the body are returned as
// *TransportError. A failure to write into w is returned wrapped as is.
func (c *Client) Export(ctx context.Context, req *ExportRequest, w io.Writer) (*ExportResponse, error) {
	var q queryParams
	q.add("query", req.Query)
	q.addLimit(req.Limit)

	u, err := c.endpointURL("/exp", &q)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.logger.Debug("exp", zap.String("query", req.Query), zap.String("params", u.RawQuery))
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer sneakyBodyClose(resp.Body)

	sink := &sinkWriter{w: w}
	n, err := io.Copy(sink, resp.Body)
	result := &ExportResponse{StatusCode: resp.StatusCode, Written: n}
	if sink.err != nil {
		return result, fmt.Errorf("write export: %w", sink.err)
	}
	if err != nil {
		return result, &TransportError{Err: err}
	}
	return result, nil
}

// sinkWriter remembers write failures so they are not mistaken for body read failures.
type sinkWriter struct {
	w   io.Writer
	err error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}
