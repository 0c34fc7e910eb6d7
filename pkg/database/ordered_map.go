package database

import (
	"bytes"
	"encoding/json"

	"github.com/bisegni/dumpscan/pkg/query"
)

// KeyVal is one column of an OrderedMap.
type KeyVal struct {
	Key string
	Val interface{}
}

// OrderedMap is a row that keeps its columns in dump order when encoded.
type OrderedMap []KeyVal

// FromColumns pairs column names with their values.
func FromColumns(names []string, values []interface{}) OrderedMap {
	om := make(OrderedMap, len(names))
	for i, name := range names {
		om[i] = KeyVal{Key: name, Val: values[i]}
	}
	return om
}

// MarshalJSON implements the json.Marshaler interface.
func (om OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range om {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(kv.Val)
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value for a key with a linear scan.
func (om OrderedMap) Get(key string) (interface{}, bool) {
	for _, kv := range om {
		if kv.Key == key {
			return kv.Val, true
		}
	}
	return nil, false
}

// Keys returns the column names in order.
func (om OrderedMap) Keys() []string {
	keys := make([]string, len(om))
	for i, kv := range om {
		keys[i] = kv.Key
	}
	return keys
}

// ToRecord converts to the unordered form expressions evaluate against.
func (om OrderedMap) ToRecord() query.Record {
	m := make(query.Record, len(om))
	for _, kv := range om {
		m[kv.Key] = kv.Val
	}
	return m
}

// String implements fmt.Stringer
func (om OrderedMap) String() string {
	b, _ := om.MarshalJSON()
	return string(b)
}
