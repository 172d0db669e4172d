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

/*
Package questdb provides a lightweight and easy-to-use client for the HTTP interface of a QuestDB server.

# Client

Use NewClient to create a client struct. This is the major entrance for interacting with QuestDB:

	client := questdb.NewClient(&questdb.Config{
		Endpoint: "http://<questdb-host>:<questdb-port:-9000>",
	})

# Query Data

Exec runs a query on /exec and decodes the dataset into a slice of your row type:

	type Reading struct {
		ID       int32   `json:"id"`
		TS       string  `json:"ts"`
		Temp     float64 `json:"temp"`
		SensorID int32   `json:"sensor_id"`
	}

	rows, err := questdb.Exec[Reading](ctx, client, &questdb.ExecRequest{
		Query: "select * from readings",
		Limit: questdb.LimitTo(5),
	})

SQL errors come back as *QueryError, carrying the position of the offending token:

	var qe *questdb.QueryError
	if errors.As(err, &qe) {
		fmt.Println(qe.Message, qe.Position)
	}

Client.Query returns the raw ResultSet, which can also be read as typed values
or as an Arrow record batch.

# Import Data

Import uploads a file to /imp, optionally overriding column types:

	resp, err := client.Import(ctx, &questdb.ImportRequest{
		Path:      "readings.csv",
		Table:     "readings",
		Schema:    []questdb.ColumnSchema{{Name: "id", Type: questdb.Int}, {Name: "ts", Type: questdb.Timestamp}},
		Atomicity: questdb.AtomicityRelaxed,
	})

# Export Data

Export streams the result of a query from /exp into any io.Writer. The body is
copied whatever the status, which is reported alongside the byte count:

	resp, err := client.Export(ctx, &questdb.ExportRequest{Query: "readings"}, os.Stdout)
*/
package questdb
