// Package comparables selects and ranks comparable sold properties from a
// sales dataset, and derives market statistics from it.
package comparables

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Field is a logical dataset column
type Field string

const (
	FieldZip       Field = "zip"
	FieldBeds      Field = "beds"
	FieldBaths     Field = "baths"
	FieldSqft      Field = "sqft"
	FieldPrice     Field = "price"
	FieldYearBuilt Field = "year_built"
	FieldAddress   Field = "address"
	FieldSaleDate  Field = "sale_date"
	FieldRent      Field = "rent"
)

// DefaultAliases lists, per field, the column names tried in order
var DefaultAliases = map[Field][]string{
	FieldZip:       {"zip_code", "zipcode", "ZipCode", "zip"},
	FieldBeds:      {"beds", "Bedrooms", "Bdrms"},
	FieldBaths:     {"baths", "Bathrooms"},
	FieldSqft:      {"sqft", "FinishedSqft"},
	FieldPrice:     {"price", "Sale_price"},
	FieldYearBuilt: {"year_built", "Year_Built", "year"},
	FieldAddress:   {"address", "Address"},
	FieldSaleDate:  {"sale_date", "Sale_date"},
	FieldRent:      {"rent"},
}

// Table is a column-oriented dataset. Numeric cells that are missing hold NaN.
type Table struct {
	rows    int
	numeric map[string][]float64
	text    map[string][]string
}

// NewTable creates an empty table with a fixed row count
func NewTable(rows int) *Table {
	return &Table{
		rows:    rows,
		numeric: make(map[string][]float64),
		text:    make(map[string][]string),
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// AddNumeric adds or replaces a numeric column
func (t *Table) AddNumeric(name string, values []float64) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), t.rows)
	}
	delete(t.text, name)
	t.numeric[name] = values
	return nil
}

// AddText adds or replaces a text column
func (t *Table) AddText(name string, values []string) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), t.rows)
	}
	delete(t.numeric, name)
	t.text[name] = values
	return nil
}

// Columns returns all column names, sorted
func (t *Table) Columns() []string {
	names := make([]string, 0, len(t.numeric)+len(t.text))
	for name := range t.numeric {
		names = append(names, name)
	}
	for name := range t.text {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (t *Table) has(name string) bool {
	_, n := t.numeric[name]
	_, s := t.text[name]
	return n || s
}

// resolve returns the first alias of field present in the table
func (t *Table) resolve(aliases map[Field][]string, field Field) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, name := range aliases[field] {
		if t.has(name) {
			return name, true
		}
	}
	return "", false
}

// numberAt reads a cell as a number; text cells are parsed
func (t *Table) numberAt(name string, row int) float64 {
	if col, ok := t.numeric[name]; ok {
		return col[row]
	}
	if col, ok := t.text[name]; ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(col[row]), 64)
		if err == nil {
			return v
		}
	}
	return math.NaN()
}

// textAt reads a cell as text; whole numbers print without decimals
func (t *Table) textAt(name string, row int) string {
	if col, ok := t.text[name]; ok {
		return strings.TrimSpace(col[row])
	}
	if col, ok := t.numeric[name]; ok {
		v := col[row]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// column is a resolved field accessor
type column struct {
	table *Table
	name  string
	ok    bool
}

func (t *Table) column(aliases map[Field][]string, field Field) column {
	name, ok := t.resolve(aliases, field)
	return column{table: t, name: name, ok: ok}
}

func (c column) number(row int) float64 {
	if !c.ok {
		return math.NaN()
	}
	return c.table.numberAt(c.name, row)
}

func (c column) text(row int) string {
	if !c.ok {
		return ""
	}
	return c.table.textAt(c.name, row)
}
