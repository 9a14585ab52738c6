package models

// Column is one named value of a Row. Value is nil when the field is absent, otherwise one of
// string, int, decimal.Decimal or time.Time.
type Column struct {
	Name  string
	Value any
}

// Row is an ordered set of named values. Rows produced from different service lines may carry
// different column sets.
type Row []Column

// Get returns the value of the named column.
func (r Row) Get(name string) (any, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Names returns the column names in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Name
	}
	return names
}
