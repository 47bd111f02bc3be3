package rtable

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteCSV streams the table to w with one header row. Vector-valued
// columns are flattened into suffixed fields.
func (t *Table) WriteCSV(w io.Writer) error {
	rows, err := t.Rows()
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	var header []string
	for _, name := range t.names {
		header = append(header, t.cols[name].header(name)...)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv write header: %w", err)
	}

	record := make([]string, 0, len(header))
	for i := 0; i < rows; i++ {
		record = record[:0]
		for _, name := range t.names {
			record = append(record, t.cols[name].record(i)...)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a file through a buffered writer.
func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv create %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 256*1024)
	if err := t.WriteCSV(bw); err != nil {
		return err
	}
	return bw.Flush()
}
