package features

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// Kind is the scalar type held by a Value
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
)

// Value is a single feature cell: a number, a boolean, or a categorical string.
// The zero Value is the number 0, which is also the table fill value.
type Value struct {
	kind Kind
	num  float64
	str  string
}

func Num(v float64) Value { return Value{kind: KindNumber, num: v} }
func Int(v int) Value     { return Value{kind: KindNumber, num: float64(v)} }
func Str(v string) Value  { return Value{kind: KindString, str: v} }

func Bool(v bool) Value {
	if v {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric reading of the value. Booleans read as 0/1,
// strings as 0.
func (v Value) Float() float64 {
	return v.num
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		if v.num != 0 {
			return "1"
		}
		return "0"
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.num != 0)
	}
	return json.Marshal(v.num)
}

// Record is one battle's flat feature mapping. Keys keep insertion order so
// that identical input always yields identical output.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set writes a feature, overwriting any previous value under the same key
func (r *Record) Set(key string, v Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Add increments a numeric counter, starting from zero
func (r *Record) Add(key string, delta float64) {
	cur := r.values[key]
	r.Set(key, Num(cur.num+delta))
}

// Get returns the value stored under key
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns feature names in insertion order
func (r *Record) Keys() []string {
	return r.keys
}

func (r *Record) Len() int {
	return len(r.keys)
}

// MarshalJSON writes the record as a JSON object in key order
func (r *Record) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range r.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}
