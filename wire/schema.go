package wire

import (
	"fmt"

	"github.com/styx-network/gstyx/params"
)

// FieldKind classifies how a schema field is laid out on the wire.
type FieldKind uint8

const (
	// KindU8, KindU16, KindU32 and KindU64 are little-endian unsigned
	// integers of the obvious widths.
	KindU8 FieldKind = iota + 1
	KindU16
	KindU32
	KindU64
	// KindBytes is a fixed-size raw byte field; Field.Size gives the
	// width (32 for keys/hashes, 8 for short nonces).
	KindBytes
	// KindVar16 and KindVar32 are variable-length fields: a u16 or u32
	// little-endian length prefix immediately followed by that many
	// bytes.
	KindVar16
	KindVar32
	// KindProof is the Merkle proof group used by claim operations: a
	// u8 sibling count, then count 32-byte siblings, then count
	// direction bytes (each 0 or 1).
	KindProof
)

func (k FieldKind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindBytes:
		return "bytes"
	case KindVar16:
		return "var16"
	case KindVar32:
		return "var32"
	case KindProof:
		return "proof"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// fixedSize returns the wire width of fixed kinds, or -1 for variable
// kinds.
func (k FieldKind) fixedSize(declared int) int {
	switch k {
	case KindU8:
		return 1
	case KindU16:
		return 2
	case KindU32:
		return 4
	case KindU64:
		return 8
	case KindBytes:
		return declared
	default:
		return -1
	}
}

// minSize returns the smallest wire footprint of a field.
func (k FieldKind) minSize(declared int) int {
	switch k {
	case KindVar16:
		return 2
	case KindVar32:
		return 4
	case KindProof:
		return 1
	default:
		return k.fixedSize(declared)
	}
}

// Field describes one operation field. Offset is measured in the
// handler's view of the payload: from byte 0 for full-payload handlers
// and from the operation byte for handlers that receive the payload
// with the domain stripped.
type Field struct {
	Name   string
	Offset int
	Size   int // fixed width for KindBytes, element width for KindProof
	Kind   FieldKind
}

// Schema is the authoritative layout of one (domain, operation) pair.
type Schema struct {
	Domain Domain
	Op     Op
	Name   string

	// Stripped marks operations whose deployed handler receives the
	// payload without the leading domain byte, so field offsets count
	// from the operation byte. This is a fixed contract per operation.
	Stripped bool

	// AllowTail permits bytes after the last field. The only user is
	// the private-message compliance tail, which the typed decoder
	// parses itself.
	AllowTail bool

	Fields []Field
}

// fieldsStart returns the view offset of the first field: past the
// operation byte for stripped views, past both discriminators
// otherwise.
func (s *Schema) fieldsStart() int {
	if s.Stripped {
		return 1
	}
	return 2
}

// View returns the byte window the operation's handler sees, given the
// full payload.
func (s *Schema) View(raw []byte) []byte {
	if s.Stripped && len(raw) > 0 {
		return raw[1:]
	}
	return raw
}

// MinLen is the smallest valid full payload (domain byte included).
func (s *Schema) MinLen() int {
	n := 2
	for _, f := range s.Fields {
		n += f.Kind.minSize(f.Size)
	}
	return n
}

// MinViewLen is the smallest valid handler view.
func (s *Schema) MinViewLen() int {
	if s.Stripped {
		return s.MinLen() - 1
	}
	return s.MinLen()
}

// Validate checks the table itself: offsets must be contiguous from
// fieldsStart, fixed kinds must carry their exact widths, and variable
// kinds may only be followed by other variable kinds (their offsets
// are no longer static). Registration panics on a failure, so a broken
// table can never ship.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema (%d,%d): empty name", s.Domain, s.Op)
	}
	cursor := s.fieldsStart()
	dynamic := false
	for i, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema %s: field %d has no name", s.Name, i)
		}
		switch f.Kind {
		case KindBytes:
			if f.Size <= 0 {
				return fmt.Errorf("schema %s: field %s: bytes kind needs a positive size", s.Name, f.Name)
			}
		case KindProof:
			if f.Size != 32 {
				return fmt.Errorf("schema %s: field %s: proof siblings are 32 bytes", s.Name, f.Name)
			}
		case KindU8, KindU16, KindU32, KindU64, KindVar16, KindVar32:
		default:
			return fmt.Errorf("schema %s: field %s: unknown kind %d", s.Name, f.Name, f.Kind)
		}
		if dynamic {
			if f.Offset != OffsetDynamic {
				return fmt.Errorf("schema %s: field %s follows a variable field, offset must be dynamic", s.Name, f.Name)
			}
		} else {
			if f.Offset != cursor {
				return fmt.Errorf("schema %s: field %s: offset %d, want %d", s.Name, f.Name, f.Offset, cursor)
			}
		}
		if sz := f.Kind.fixedSize(f.Size); sz >= 0 {
			cursor += sz
		} else {
			dynamic = true
		}
	}
	return nil
}

// OffsetDynamic marks a field whose offset depends on a preceding
// variable-length field.
const OffsetDynamic = -1

// DecodedField is one field as extracted by Walk: the raw wire bytes
// (length prefixes excluded) and the view offset where its data began.
type DecodedField struct {
	Field  Field
	Offset int
	Data   []byte
}

// Walk validates raw against the schema and extracts every field. It
// enforces the minimum length, bounds-checks every variable field, and
// rejects trailing bytes unless the schema allows a tail. The returned
// tail is non-nil only for AllowTail schemas.
func (s *Schema) Walk(raw []byte) ([]DecodedField, []byte, error) {
	if len(raw) > params.MaxInstructionBytes {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrOversize, len(raw))
	}
	if len(raw) < s.MinLen() {
		return nil, nil, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrMalformedPayload, s.Name, s.MinLen(), len(raw))
	}
	if Domain(raw[0]) != s.Domain || Op(raw[1]) != s.Op {
		return nil, nil, fmt.Errorf("%w: discriminator mismatch for %s", ErrMalformedPayload, s.Name)
	}

	view := s.View(raw)
	r := NewReader(view)
	if _, err := r.Bytes(s.fieldsStart()); err != nil {
		return nil, nil, err
	}

	out := make([]DecodedField, 0, len(s.Fields))
	for _, f := range s.Fields {
		start := r.Offset()
		var data []byte
		var err error
		switch f.Kind {
		case KindU8:
			data, err = r.Bytes(1)
		case KindU16:
			data, err = r.Bytes(2)
		case KindU32:
			data, err = r.Bytes(4)
		case KindU64:
			data, err = r.Bytes(8)
		case KindBytes:
			data, err = r.Bytes(f.Size)
		case KindVar16:
			start += 2
			data, err = r.Var16()
		case KindVar32:
			start += 4
			data, err = r.Var32()
		case KindProof:
			var count uint8
			count, err = r.U8()
			if err == nil {
				start++
				data, err = r.Bytes(int(count)*f.Size + int(count))
			}
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w (field %s of %s)", err, f.Name, s.Name)
		}
		out = append(out, DecodedField{Field: f, Offset: start, Data: data})
	}

	if r.Remaining() > 0 {
		if !s.AllowTail {
			return nil, nil, fmt.Errorf("%w after %s", ErrTrailingBytes, s.Name)
		}
		tail, _ := r.Bytes(r.Remaining())
		return out, tail, nil
	}
	return out, nil, nil
}
