package wire

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[uint16]*Schema)
)

func registryKey(d Domain, op Op) uint16 {
	return uint16(d)<<8 | uint16(op)
}

// Register adds an operation schema to the global table and returns
// the stored copy. It is meant to run from package initialization and
// panics on an invalid or duplicate schema: a malformed layout table
// is a build defect, not a runtime condition.
func Register(s Schema) *Schema {
	if err := s.Validate(); err != nil {
		panic(err)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	key := registryKey(s.Domain, s.Op)
	if prev, ok := registry[key]; ok {
		panic(fmt.Sprintf("wire: schema %s collides with %s on (0x%02x, 0x%02x)",
			s.Name, prev.Name, uint8(s.Domain), uint8(s.Op)))
	}
	registry[key] = &s
	return &s
}

// Lookup returns the schema registered for (d, op).
func Lookup(d Domain, op Op) (*Schema, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[registryKey(d, op)]
	if !ok {
		return nil, fmt.Errorf("%w: (0x%02x, 0x%02x)", ErrUnknownOperation, uint8(d), uint8(op))
	}
	return s, nil
}

// Schemas returns every registered schema ordered by (domain, op), for
// table printing and exhaustive tests.
func Schemas() []*Schema {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]*Schema, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return registryKey(out[i].Domain, out[i].Op) < registryKey(out[j].Domain, out[j].Op)
	})
	return out
}

// Decoded is a schema-validated payload broken into named fields, plus
// any tail bytes the operation allows.
type Decoded struct {
	Schema *Schema
	Fields []DecodedField
	Tail   []byte
}

// Field returns the decoded field with the given name, or nil.
func (d *Decoded) Field(name string) *DecodedField {
	for i := range d.Fields {
		if d.Fields[i].Field.Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// Decode splits raw, looks up its schema and walks every field. This
// is the generic path used by inspectors; domain packages layer typed
// payload structs on top of the same walk.
func Decode(raw []byte) (*Decoded, error) {
	d, op, err := Split(raw)
	if err != nil {
		return nil, err
	}
	s, err := Lookup(d, op)
	if err != nil {
		return nil, err
	}
	fields, tail, err := s.Walk(raw)
	if err != nil {
		return nil, err
	}
	return &Decoded{Schema: s, Fields: fields, Tail: tail}, nil
}
