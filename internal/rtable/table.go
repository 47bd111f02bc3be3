// Package rtable implements the append-only, named-column table that
// prediction results are collected into.
package rtable

import (
	"fmt"
	"strconv"

	"spotpredict/internal/geom"
	"spotpredict/internal/xtal"
)

// Column is one typed, append-only column.
type Column interface {
	Len() int
	appendColumn(other Column) error
	header(name string) []string
	record(i int) []string
}

// Table keys typed columns by name. Columns are created on first
// access and only ever grow; all columns must reach the same length
// before the table is read out.
type Table struct {
	names []string
	cols  map[string]Column
}

func New() *Table {
	return &Table{cols: map[string]Column{}}
}

// Rows returns the common column length, or an error if the columns
// are ragged.
func (t *Table) Rows() (int, error) {
	n := -1
	for _, name := range t.names {
		l := t.cols[name].Len()
		if n >= 0 && l != n {
			return 0, fmt.Errorf("rtable: column %q has %d rows, expected %d", name, l, n)
		}
		n = l
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// ColumnNames returns the column names in creation order.
func (t *Table) ColumnNames() []string {
	return append([]string(nil), t.names...)
}

func lookup[C Column](t *Table, name string, fresh func() C) C {
	if col, ok := t.cols[name]; ok {
		typed, ok := col.(C)
		if !ok {
			panic(fmt.Sprintf("rtable: column %q accessed with the wrong type", name))
		}
		return typed
	}
	typed := fresh()
	t.cols[name] = typed
	t.names = append(t.names, name)
	return typed
}

func (t *Table) Ints(name string) *IntColumn {
	return lookup(t, name, func() *IntColumn { return &IntColumn{} })
}

func (t *Table) Bools(name string) *BoolColumn {
	return lookup(t, name, func() *BoolColumn { return &BoolColumn{} })
}

func (t *Table) Vec3s(name string) *Vec3Column {
	return lookup(t, name, func() *Vec3Column { return &Vec3Column{} })
}

func (t *Table) Millers(name string) *MillerColumn {
	return lookup(t, name, func() *MillerColumn { return &MillerColumn{} })
}

// Merge appends all rows of other to t. The column sets must match by
// name and type.
func (t *Table) Merge(other *Table) error {
	if len(t.names) == 0 {
		// adopt the layout of the first non-empty table
		for _, name := range other.names {
			t.names = append(t.names, name)
			t.cols[name] = emptyLike(other.cols[name])
		}
	}
	if len(other.names) != len(t.names) {
		return fmt.Errorf("rtable: merge of mismatched tables")
	}
	for _, name := range t.names {
		src, ok := other.cols[name]
		if !ok {
			return fmt.Errorf("rtable: merge source missing column %q", name)
		}
		if err := t.cols[name].appendColumn(src); err != nil {
			return fmt.Errorf("rtable: column %q: %w", name, err)
		}
	}
	return nil
}

func emptyLike(c Column) Column {
	switch c.(type) {
	case *IntColumn:
		return &IntColumn{}
	case *BoolColumn:
		return &BoolColumn{}
	case *Vec3Column:
		return &Vec3Column{}
	case *MillerColumn:
		return &MillerColumn{}
	}
	panic(fmt.Sprintf("rtable: unknown column type %T", c))
}

type IntColumn struct{ data []int }

func (c *IntColumn) Append(v int) { c.data = append(c.data, v) }
func (c *IntColumn) At(i int) int { return c.data[i] }
func (c *IntColumn) Len() int     { return len(c.data) }

func (c *IntColumn) appendColumn(other Column) error {
	o, ok := other.(*IntColumn)
	if !ok {
		return fmt.Errorf("type mismatch: %T", other)
	}
	c.data = append(c.data, o.data...)
	return nil
}

func (c *IntColumn) header(name string) []string { return []string{name} }
func (c *IntColumn) record(i int) []string       { return []string{strconv.Itoa(c.data[i])} }

type BoolColumn struct{ data []bool }

func (c *BoolColumn) Append(v bool) { c.data = append(c.data, v) }
func (c *BoolColumn) At(i int) bool { return c.data[i] }
func (c *BoolColumn) Len() int      { return len(c.data) }

func (c *BoolColumn) appendColumn(other Column) error {
	o, ok := other.(*BoolColumn)
	if !ok {
		return fmt.Errorf("type mismatch: %T", other)
	}
	c.data = append(c.data, o.data...)
	return nil
}

func (c *BoolColumn) header(name string) []string { return []string{name} }
func (c *BoolColumn) record(i int) []string       { return []string{strconv.FormatBool(c.data[i])} }

type Vec3Column struct{ data []geom.Vec3 }

func (c *Vec3Column) Append(v geom.Vec3) { c.data = append(c.data, v) }
func (c *Vec3Column) At(i int) geom.Vec3 { return c.data[i] }
func (c *Vec3Column) Len() int           { return len(c.data) }

func (c *Vec3Column) appendColumn(other Column) error {
	o, ok := other.(*Vec3Column)
	if !ok {
		return fmt.Errorf("type mismatch: %T", other)
	}
	c.data = append(c.data, o.data...)
	return nil
}

func (c *Vec3Column) header(name string) []string {
	return []string{name + ".x", name + ".y", name + ".z"}
}

func (c *Vec3Column) record(i int) []string {
	v := c.data[i]
	return []string{
		strconv.FormatFloat(v.X, 'g', -1, 64),
		strconv.FormatFloat(v.Y, 'g', -1, 64),
		strconv.FormatFloat(v.Z, 'g', -1, 64),
	}
}

type MillerColumn struct{ data []xtal.Miller }

func (c *MillerColumn) Append(v xtal.Miller) { c.data = append(c.data, v) }
func (c *MillerColumn) At(i int) xtal.Miller { return c.data[i] }
func (c *MillerColumn) Len() int             { return len(c.data) }

func (c *MillerColumn) appendColumn(other Column) error {
	o, ok := other.(*MillerColumn)
	if !ok {
		return fmt.Errorf("type mismatch: %T", other)
	}
	c.data = append(c.data, o.data...)
	return nil
}

func (c *MillerColumn) header(name string) []string {
	return []string{name + ".h", name + ".k", name + ".l"}
}

func (c *MillerColumn) record(i int) []string {
	h := c.data[i]
	return []string{strconv.Itoa(h.H), strconv.Itoa(h.K), strconv.Itoa(h.L)}
}
