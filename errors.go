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
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// ErrInvalidRequest reports a request built with values outside their closed
// set, such as an unknown ColumnType. It signals a caller bug, not a failure
// of the server or the file system.
var ErrInvalidRequest = errors.New("invalid request")

// QueryError represents a SQL error reported by the QuestDB server.
//
// The server compiled or executed the query and rejected it; Position is the
// character offset in Query the error refers to.
type QueryError struct {
	Query    string `json:"query"`
	Message  string `json:"error"`
	Position int    `json:"position"`
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error at position %d: %s", e.Position, e.Message)
}

// TransportError wraps a failure of the underlying HTTP call, including
// failures reading the response body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error executing request: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body that could not be decoded into the
// expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error deserializing json: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FileError reports a local file failure while preparing an import.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

var queryErrorKeys = []string{"query", "error", "position"}

// decodeQueryError decodes obj as a QueryError. All of its keys must be present.
func decodeQueryError(obj gjson.Result) (*QueryError, error) {
	for _, key := range queryErrorKeys {
		if !obj.Get(key).Exists() {
			return nil, fmt.Errorf("unrecognized response: missing %q", key)
		}
	}
	var qe QueryError
	if err := json.Unmarshal([]byte(obj.Raw), &qe); err != nil {
		return nil, err
	}
	return &qe, nil
}

// sneakyBodyClose closes the body and ignores the error.
// This is useful to close the HTTP response body when we don't care about the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
