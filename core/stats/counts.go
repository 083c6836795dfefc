// core/stats/counts.go
package stats

import (
	"bytes"
	"encoding/json"
)

// Counts is a string-keyed counter that remembers first-seen order.
// The zero value is ready to use.
type Counts struct {
	keys []string
	m    map[string]int
}

// Add increments key by n.
func (c *Counts) Add(key string, n int) {
	if c.m == nil {
		c.m = make(map[string]int)
	}
	if _, ok := c.m[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.m[key] += n
}

// Get returns the count for key (0 if absent).
func (c *Counts) Get(key string) int { return c.m[key] }

// Keys returns the keys in first-seen order.
func (c *Counts) Keys() []string { return append([]string(nil), c.keys...) }

// Len returns the number of distinct keys.
func (c *Counts) Len() int { return len(c.keys) }

// Sum adds all counts.
func (c *Counts) Sum() int {
	s := 0
	for _, v := range c.m {
		s += v
	}
	return s
}

// Each calls fn for every key in first-seen order.
func (c *Counts) Each(fn func(key string, n int)) {
	for _, k := range c.keys {
		fn(k, c.m[k])
	}
}

func (c *Counts) clone() Counts {
	out := Counts{keys: append([]string(nil), c.keys...), m: make(map[string]int, len(c.m))}
	for k, v := range c.m {
		out.m[k] = v
	}
	return out
}

// MarshalJSON writes a JSON object with keys in first-seen order.
func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, _ := json.Marshal(c.m[k])
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the document's key order.
func (c *Counts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // {
		return err
	}
	*c = Counts{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var n int
		if err := dec.Decode(&n); err != nil {
			return err
		}
		c.Add(key, n)
	}
	_, err := dec.Token() // }
	return err
}
