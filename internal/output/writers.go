package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xitongsys/parquet-go/writer"
)

// TableWriter encodes a table into one file on a target.
type TableWriter interface {
	Extension() string
	WriteTable(target Target, table *Table) error
}

// NewTableWriter returns the writer for a configured data.format.
func NewTableWriter(format string) (TableWriter, error) {
	switch format {
	case "csv":
		return &CSVWriter{}, nil
	case "json":
		return &JSONWriter{Indent: "  "}, nil
	case "parquet":
		return &ParquetWriter{Parallelism: 4}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func fileName(w TableWriter, table *Table) string {
	return table.Name + "." + w.Extension()
}

type CSVWriter struct{}

func (c *CSVWriter) Extension() string { return "csv" }

func (c *CSVWriter) WriteTable(target Target, table *Table) error {
	f, err := target.Create(fileName(c, table))
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(table.ColumnNames()); err != nil {
		f.Close()
		return err
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, value := range row {
			record[i] = formatCell(value)
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// JSONWriter writes the table as an array of objects, keys in column order and missing cells omitted.
type JSONWriter struct {
	Indent string
}

func (j *JSONWriter) Extension() string { return "json" }

func (j *JSONWriter) WriteTable(target Target, table *Table) error {
	records := make([]json.RawMessage, 0, len(table.Rows))
	for _, row := range table.Rows {
		record, err := rowJSON(table, row)
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	data, err := json.MarshalIndent(records, "", j.Indent)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", table.Name, err)
	}

	f, err := target.Create(fileName(j, table))
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// rowJSON encodes one row as an object, preserving column order.
func rowJSON(table *Table, row []any) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for i, value := range row {
		if value == nil {
			continue
		}
		key, err := json.Marshal(table.Columns[i].Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParquetWriter derives a schema from the table's columns; every column is optional.
type ParquetWriter struct {
	Parallelism int64
}

func (p *ParquetWriter) Extension() string { return "parquet" }

func (p *ParquetWriter) WriteTable(target Target, table *Table) error {
	fw, err := target.CreateParquet(fileName(p, table))
	if err != nil {
		return err
	}

	pw, err := writer.NewJSONWriter(parquetSchema(table), fw, p.Parallelism)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	for _, row := range table.Rows {
		record, err := rowJSON(table, row)
		if err != nil {
			fw.Close()
			return err
		}
		if err := pw.Write(string(record)); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return fw.Close()
}

func parquetSchema(table *Table) string {
	fields := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		fields = append(fields, fmt.Sprintf(`{"Tag":"name=%s, %s, repetitiontype=OPTIONAL"}`, c.Name, parquetType(c.Kind)))
	}
	return `{"Tag":"name=parquet_go_root, repetitiontype=REQUIRED","Fields":[` + strings.Join(fields, ",") + `]}`
}

func parquetType(kind ColumnKind) string {
	switch kind {
	case KindInt:
		return "type=INT64"
	case KindFloat:
		return "type=DOUBLE"
	default:
		return "type=BYTE_ARRAY, convertedtype=UTF8"
	}
}
