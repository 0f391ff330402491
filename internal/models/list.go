package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// IntList stores a slice of ints as a JSON column. Used for bingo grids and
// marked numbers.
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		l = IntList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *IntList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = IntList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported source type for IntList")
}

// StringList stores a slice of ids as a JSON column (e.g. post likes).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported source type for StringList")
}

// Contains reports whether id is present.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with id removed.
func (l StringList) Without(id string) StringList {
	out := make(StringList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
