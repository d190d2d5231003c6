package jsonlog

import (
	"bytes"
	"sync"

	"github.com/goccy/go-json"
)

// bufPool holds render buffers to reduce allocations per record.
var bufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// ToJSON encodes v into a JSON fragment suitable for Builder.JSON.
// HTML escaping is disabled.
func ToJSON(v interface{}) (json.RawMessage, error) {
	b, err := marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// marshal encodes v without HTML escaping and without the trailing newline
// the encoder appends.
func marshal(v interface{}) ([]byte, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return append([]byte(nil), out...), nil
}

// object is an insertion-ordered JSON object. Setting an existing key replaces
// its value in place.
type object struct {
	keys   []string
	values [][]byte
	index  map[string]int
}

func newObject(size int) *object {
	return &object{
		keys:   make([]string, 0, size),
		values: make([][]byte, 0, size),
		index:  make(map[string]int, size),
	}
}

// set stores an already encoded JSON value under key.
func (o *object) set(key string, raw []byte) {
	if i, ok := o.index[key]; ok {
		o.values[i] = raw
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.values = append(o.values, raw)
}

func (o *object) size() int {
	return len(o.keys)
}

// MarshalJSON implements json.Marshaler.
func (o *object) MarshalJSON() ([]byte, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(o.values[i])
	}
	buf.WriteByte('}')
	return append([]byte(nil), buf.Bytes()...), nil
}

func (o *object) String() string {
	b, err := o.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}
