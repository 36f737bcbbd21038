package domain

import "fmt"

// Encoder is an ordered, append-only mapping from category string to integer
// code for one categorical column. A code once assigned is never reassigned
// or removed; unseen strings are appended at the end.
type Encoder struct {
	column string
	values []string
	codes  map[string]int
}

// NewEncoder creates an empty encoder for a column.
func NewEncoder(column string) *Encoder {
	return &Encoder{
		column: column,
		codes:  make(map[string]int),
	}
}

// RestoreEncoder rebuilds an encoder from a persisted ordered value list.
// The position of each value is its code.
func RestoreEncoder(column string, values []string) *Encoder {
	e := &Encoder{
		column: column,
		values: append([]string(nil), values...),
		codes:  make(map[string]int, len(values)),
	}
	for i, v := range values {
		e.codes[v] = i
	}
	return e
}

// Column returns the column this encoder belongs to.
func (e *Encoder) Column() string { return e.column }

// Len returns the number of assigned codes.
func (e *Encoder) Len() int { return len(e.values) }

// Code returns the code for a value and whether it has one.
func (e *Encoder) Code(value string) (int, bool) {
	code, ok := e.codes[value]
	return code, ok
}

// Append assigns the next free code to an unseen value and returns it.
// If the value already has a code, that code is returned unchanged.
func (e *Encoder) Append(value string) int {
	if code, ok := e.codes[value]; ok {
		return code
	}
	code := len(e.values)
	e.values = append(e.values, value)
	e.codes[value] = code
	return code
}

// Decode returns the original string for a code.
func (e *Encoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.values) {
		return "", fmt.Errorf("encoder %q: no value for code %d", e.column, code)
	}
	return e.values[code], nil
}

// Snapshot returns a copy of the ordered value list for persistence.
func (e *Encoder) Snapshot() []string {
	return append([]string(nil), e.values...)
}
