package interp

import (
	"bytes"

	"github.com/jacoelho/jdl/internal/eval"
)

// object is a JSON object that encodes its keys in first-assignment order.
// Assigning an existing key replaces the value in place.
type object struct {
	keys   []string
	values map[string]any
}

func newObject(capacity int) *object {
	return &object{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

func (o *object) set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := eval.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v, err := eval.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
