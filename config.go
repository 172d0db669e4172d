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

import "time"

// Config defines the configuration for the client.
type Config struct {
	// Endpoint is the URL of the QuestDB HTTP server, e.g. "http://localhost:9000".
	//
	// It is used verbatim as the prefix of every request URL.
	Endpoint string `json:"endpoint"`
	// Timeout bounds a whole request round trip, including reading the body.
	//
	// Zero means no timeout; deadlines can still be set through the context.
	Timeout time.Duration `json:"timeout"`
}
