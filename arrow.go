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
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// ArrowSchema returns the Arrow schema matching the result columns.
func (rs *ResultSet) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, 0, len(rs.Columns))
	for _, col := range rs.Columns {
		fields = append(fields, arrow.Field{
			Name:     col.Name,
			Type:     arrowType(col.Type),
			Nullable: true,
		})
	}
	return arrow.NewSchema(fields, nil)
}

// ToArrowRecord reads the result set and returns the rows as a single Arrow
// record batch. The caller owns the record and must Release it.
//
// Like ToValues, this requires column metadata.
func (rs *ResultSet) ToArrowRecord(mem memory.Allocator) (arrow.Record, error) {
	rows, err := rs.ToValues()
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(mem, rs.ArrowSchema())
	defer b.Release()

	for _, row := range rows {
		for i, v := range row {
			if err := appendArrowValue(b.Field(i), v); err != nil {
				return nil, fmt.Errorf("column %s: %w", rs.Columns[i].Name, err)
			}
		}
	}
	return b.NewRecord(), nil
}

func arrowType(typ string) arrow.DataType {
	switch strings.ToUpper(typ) {
	case "BOOLEAN":
		return arrow.FixedWidthTypes.Boolean
	case "BYTE":
		return arrow.PrimitiveTypes.Int8
	case "SHORT":
		return arrow.PrimitiveTypes.Int16
	case "INT":
		return arrow.PrimitiveTypes.Int32
	case "LONG":
		return arrow.PrimitiveTypes.Int64
	case "FLOAT":
		return arrow.PrimitiveTypes.Float32
	case "DOUBLE":
		return arrow.PrimitiveTypes.Float64
	case "DATE":
		return arrow.FixedWidthTypes.Timestamp_ms
	case "TIMESTAMP":
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

func appendArrowValue(b array.Builder, v Value) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	mismatch := func() error {
		return fmt.Errorf("unexpected value %T for %s", v, b.Type())
	}
	switch b := b.(type) {
	case *array.BooleanBuilder:
		x, ok := v.(bool)
		if !ok {
			return mismatch()
		}
		b.Append(x)
	case *array.Int8Builder:
		x, ok := v.(int8)
		if !ok {
			return mismatch()
		}
		b.Append(x)
	case *array.Int16Builder:
		x, ok := v.(int16)
		if !ok {
			return mismatch()
		}
		b.Append(x)
	case *array.Int32Builder:
		x, ok := v.(int32)
		if !ok {
			return mismatch()
		}
		b.Append(x)
	case *array.Int64Builder:
		x, ok := v.(int64)
		if !ok {
			return mismatch()
		}
		b.Append(x)
	case *array.Float32Builder:
		x, ok := v.(float32)
		if !ok {
			return mismatch()
		}
		b.Append(x)
	case *array.Float64Builder:
		x, ok := v.(float64)
		if !ok {
			return mismatch()
		}
		b.Append(x)
	case *array.TimestampBuilder:
		x, ok := v.(time.Time)
		if !ok {
			return mismatch()
		}
		if b.Type().(*arrow.TimestampType).Unit == arrow.Millisecond {
			b.Append(arrow.Timestamp(x.UnixMilli()))
		} else {
			b.Append(arrow.Timestamp(x.UnixMicro()))
		}
	case *array.StringBuilder:
		if s, ok := v.(string); ok {
			b.Append(s)
			break
		}
		// arrays and other composite values are kept as JSON text
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		b.Append(string(data))
	default:
		return mismatch()
	}
	return nil
}
