package table

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
)

// timestampLayout renders Parquet timestamps so the default timestamp layouts accept them.
const timestampLayout = "2006-01-02 15:04:05.999999999"

// Compression represents a Parquet compression algorithm.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionSnappy
	CompressionZstd
	CompressionLZ4
	CompressionGzip
)

// ParseCompression parses a compression name.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "snappy":
		return CompressionSnappy, nil
	case "zstd", "":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	case "gzip":
		return CompressionGzip, nil
	case "none":
		return CompressionNone, nil
	default:
		return CompressionZstd, fmt.Errorf("unknown compression %q", s)
	}
}

// codec returns the parquet-go compression codec.
func (c Compression) codec() compress.Codec {
	switch c {
	case CompressionSnappy:
		return &parquet.Snappy
	case CompressionZstd:
		return &parquet.Zstd
	case CompressionLZ4:
		return &parquet.Lz4Raw
	case CompressionGzip:
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

type cellRenderer func(v parquet.Value) string

// readParquet loads every row group of a flat Parquet file.
// Repeated columns keep only their first value in the text form.
func readParquet(r io.ReaderAt, size int64) (*Table, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	schema := pf.Schema()
	paths := schema.Columns()
	columns := make([]string, len(paths))
	renderers := make([]cellRenderer, len(paths))
	for i, path := range paths {
		columns[i] = strings.Join(path, ".")
		leaf, ok := schema.Lookup(path...)
		if !ok {
			return nil, fmt.Errorf("lookup column %q", columns[i])
		}
		renderers[i] = rendererFor(leaf.Node.Type())
	}
	if err := checkColumns(columns); err != nil {
		return nil, err
	}

	t := &Table{Columns: columns, Rows: [][]string{}, schema: schema, native: []parquet.Row{}}
	buf := make([]parquet.Row, 256)

	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				native := row.Clone()
				t.native = append(t.native, native)
				t.Rows = append(t.Rows, renderRow(native, renderers))
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("read row group: %w", err)
			}
		}
		rows.Close()
	}

	return t, nil
}

// writeParquet writes native rows with the source schema when the table came from
// Parquet, otherwise every column as an optional UTF-8 string.
func writeParquet(w io.Writer, t *Table, c Compression) error {
	schema, rows, err := t.parquetRows()
	if err != nil {
		return err
	}

	pw := parquet.NewWriter(w, schema, parquet.Compression(c.codec()))
	if _, err := pw.WriteRows(rows); err != nil {
		pw.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

func (t *Table) parquetRows() (*parquet.Schema, []parquet.Row, error) {
	if t.schema != nil && t.native != nil {
		return t.schema, t.native, nil
	}

	group := make(parquet.Group, len(t.Columns))
	source := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		group[c] = parquet.Optional(parquet.String())
		source[c] = i
	}
	schema := parquet.NewSchema("trip", group)

	// Group orders its fields by name, so leaf order differs from header order
	leaves := schema.Columns()
	rows := make([]parquet.Row, len(t.Rows))
	for i, cells := range t.Rows {
		row := make(parquet.Row, len(leaves))
		for leaf, path := range leaves {
			src, ok := source[path[0]]
			if !ok {
				return nil, nil, fmt.Errorf("column %q missing from header", path[0])
			}
			cell := ""
			if src < len(cells) {
				cell = cells[src]
			}
			if cell == "" {
				row[leaf] = parquet.NullValue().Level(0, 0, leaf)
			} else {
				row[leaf] = parquet.ByteArrayValue([]byte(cell)).Level(0, 1, leaf)
			}
		}
		rows[i] = row
	}

	return schema, rows, nil
}

func renderRow(row parquet.Row, renderers []cellRenderer) []string {
	cells := make([]string, len(renderers))
	seen := make([]bool, len(renderers))
	for _, v := range row {
		c := v.Column()
		if c < 0 || c >= len(cells) || seen[c] {
			continue
		}
		seen[c] = true
		cells[c] = renderers[c](v)
	}
	return cells
}

func rendererFor(typ parquet.Type) cellRenderer {
	lt := typ.LogicalType()
	if lt == nil {
		return renderValue
	}

	switch {
	case lt.Timestamp != nil:
		unit := lt.Timestamp.Unit
		return func(v parquet.Value) string {
			if v.IsNull() {
				return ""
			}
			n := v.Int64()
			var ts time.Time
			switch {
			case unit.Millis != nil:
				ts = time.UnixMilli(n)
			case unit.Nanos != nil:
				ts = time.Unix(0, n)
			default:
				ts = time.UnixMicro(n)
			}
			return ts.UTC().Format(timestampLayout)
		}
	case lt.Date != nil:
		return func(v parquet.Value) string {
			if v.IsNull() {
				return ""
			}
			return time.Unix(int64(v.Int32())*86400, 0).UTC().Format(time.DateOnly)
		}
	}
	return renderValue
}

func renderValue(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}

	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
