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
	"net/url"
	"strconv"
	"strings"
)

// Limit selects the rows of a result set, for paging.
//
// Row numbers are 1-based and both bounds are inclusive on the server side:
// LimitRange(10, 20) returns rows 10 through 20, LimitTo(20) is equivalent to
// LimitRange(0, 20).
type Limit struct {
	Lower    uint64
	Upper    uint64
	HasLower bool
}

// LimitTo returns a Limit covering the first upper rows.
func LimitTo(upper uint64) *Limit {
	return &Limit{Upper: upper}
}

// LimitRange returns a Limit covering rows lower through upper.
func LimitRange(lower, upper uint64) *Limit {
	return &Limit{Lower: lower, Upper: upper, HasLower: true}
}

// String renders the limit in its wire form, "upper" or "lower,upper".
func (l Limit) String() string {
	if !l.HasLower {
		return strconv.FormatUint(l.Upper, 10)
	}
	return strconv.FormatUint(l.Lower, 10) + "," + strconv.FormatUint(l.Upper, 10)
}

// ParseLimit parses the wire form of a limit, "upper" or "lower,upper".
func ParseLimit(s string) (*Limit, error) {
	lower, upper, hasLower := strings.Cut(strings.TrimSpace(s), ",")
	if !hasLower {
		u, err := strconv.ParseUint(lower, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid limit %q: %w", s, err)
		}
		return LimitTo(u), nil
	}

	l, err := strconv.ParseUint(strings.TrimSpace(lower), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid limit %q: %w", s, err)
	}
	u, err := strconv.ParseUint(strings.TrimSpace(upper), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid limit %q: %w", s, err)
	}
	return LimitRange(l, u), nil
}

// Bool returns a pointer to v, for optional request flags.
func Bool(v bool) *bool {
	return &v
}

// queryParams builds a query string that keeps parameters in insertion order.
// url.Values sorts keys on Encode, and QuestDB parameter order is fixed.
type queryParams struct {
	b strings.Builder
}

func (q *queryParams) add(key, value string) {
	if q.b.Len() > 0 {
		q.b.WriteByte('&')
	}
	q.b.WriteString(url.QueryEscape(key))
	q.b.WriteByte('=')
	q.b.WriteString(url.QueryEscape(value))
}

func (q *queryParams) addLimit(l *Limit) {
	if l != nil {
		q.add("limit", l.String())
	}
}

func (q *queryParams) addBool(key string, v *bool) {
	if v != nil {
		q.add(key, strconv.FormatBool(*v))
	}
}

func (q *queryParams) encode() string {
	return q.b.String()
}

// endpointURL joins the configured endpoint, path and encoded query.
func (c *Client) endpointURL(path string, q *queryParams) (*url.URL, error) {
	u, err := url.Parse(c.config.Endpoint + path)
	if err != nil {
		return nil, err
	}
	u.RawQuery = q.encode()
	return u, nil
}
