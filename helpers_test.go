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
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	questdb "github.com/questdb-sdk/questdb-go"
)

func NewTestClient(t testing.TB, handler http.HandlerFunc, opts ...questdb.Option) *questdb.Client {
	srv := httptest.NewServer(handler)
	c := questdb.NewClient(&questdb.Config{Endpoint: srv.URL}, opts...)
	t.Cleanup(func() {
		c.Close()
		srv.Close()
	})
	return c
}

// Recorder keeps the requests seen by a test server.
type Recorder struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (rec *Recorder) record(r *http.Request) {
	if rec == nil {
		return
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.requests = append(rec.requests, r)
}

// Requests returns the recorded requests. Their bodies are already consumed.
func (rec *Recorder) Requests() []*http.Request {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]*http.Request(nil), rec.requests...)
}

// RespondJSON returns a handler that records each request and replies with body.
func RespondJSON(status int, body string, rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// QueryKeys returns the parameter names of a raw query string in order.
func QueryKeys(rawQuery string) []string {
	var keys []string
	for _, kv := range strings.Split(rawQuery, "&") {
		if kv == "" {
			continue
		}
		key, _, _ := strings.Cut(kv, "=")
		keys = append(keys, key)
	}
	return keys
}
