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
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"go.uber.org/zap"
)

// ImportRequest describes a file upload to the /imp endpoint.
type ImportRequest struct {
	// Path is the file to import. Only its base name is sent to the server.
	Path string
	// Schema overrides the types of the listed columns. Order matters: it is
	// sent to the server as declared.
	Schema []ColumnSchema
	// Table is the target table name. Empty lets the server derive it from the file name.
	Table string
	// Overwrite replaces the content of an existing table.
	Overwrite *bool
	// Durable asks the server to commit with fsync.
	Durable *bool
	// Atomicity controls the handling of bad rows. The zero value omits it.
	Atomicity Atomicity
}

// ImportResponse is the acknowledgement returned by the /imp endpoint.
//
// The body is handed back as text and is not interpreted; in particular, row
// level rejections reported by the server do not fail the import.
type ImportResponse struct {
	StatusCode int
	Body       string
}

// Import uploads a file to the server.
//
// The file is opened before any request is made, and failures to open or read
// it are returned as *FileError. Its content is streamed into the request body.
// A schema or atomicity outside the known values is a programming error and is
// rejected with ErrInvalidRequest before the file is touched.
func (c *Client) Import(ctx context.Context, req *ImportRequest) (*ImportResponse, error) {
	var q queryParams
	q.add("fmt", "json")
	if req.Table != "" {
		q.add("name", req.Table)
	}
	q.addBool("overwrite", req.Overwrite)
	q.addBool("durable", req.Durable)
	if req.Atomicity != 0 {
		token := req.Atomicity.String()
		if token == "" {
			return nil, fmt.Errorf("%w: unknown atomicity %d", ErrInvalidRequest, int(req.Atomicity))
		}
		q.add("atomicity", token)
	}

	var schema string
	if len(req.Schema) > 0 {
		var err error
		if schema, err = encodeImportSchema(req.Schema); err != nil {
			return nil, err
		}
	}

	u, err := c.endpointURL("/imp", &q)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	f, err := c.fs.Open(req.Path)
	if err != nil {
		return nil, &FileError{Path: req.Path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &FileError{Path: req.Path, Err: err}
	}
	if info.IsDir() {
		return nil, &FileError{Path: req.Path, Err: errors.New("is a directory")}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	contentType := mw.FormDataContentType()

	done := make(chan struct{})
	go func() {
		defer close(done)
		body := &importBody{
			schema:   schema,
			filename: filepath.Base(req.Path),
			data:     &fileReader{path: req.Path, r: f},
		}
		_ = pw.CloseWithError(body.writeTo(mw))
	}()
	defer func() {
		// unblock the writer if the transport gave up early, and wait for it
		// before the file is closed
		_ = pr.Close()
		<-done
	}()

	c.logger.Debug("imp", zap.String("file", req.Path), zap.Int64("size", info.Size()), zap.String("params", u.RawQuery))
	resp, err := c.http.Post(ctx, u, contentType, pr)
	if err != nil {
		var fe *FileError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, &TransportError{Err: err}
	}
	defer sneakyBodyClose(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return &ImportResponse{
		StatusCode: resp.StatusCode,
		Body:       string(data),
	}, nil
}

// importBody is the multipart payload of an import: an optional "schema" text
// part followed by the "data" file part.
type importBody struct {
	schema   string
	filename string
	data     io.Reader
}

func (b *importBody) writeTo(mw *multipart.Writer) error {
	if b.schema != "" {
		if err := mw.WriteField("schema", b.schema); err != nil {
			return err
		}
	}

	part, err := mw.CreateFormFile("data", b.filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, b.data); err != nil {
		return err
	}
	return mw.Close()
}

// fileReader tags read failures as *FileError.
type fileReader struct {
	path string
	r    io.Reader
}

func (f *fileReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err != nil && err != io.EOF {
		err = &FileError{Path: f.path, Err: err}
	}
	return n, err
}
