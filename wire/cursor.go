package wire

import (
	"encoding/binary"
	"fmt"
)

// Reader walks a payload buffer left to right. Every read is bounds
// checked and fails with ErrMalformedPayload; a Reader never panics on
// hostile input.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset reports the current read position.
func (r *Reader) Offset() int { return r.off }

// Remaining reports the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrMalformedPayload, n, r.off, r.Remaining())
	}
	return nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

// Bytes reads n raw bytes and returns a copy.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read", ErrMalformedPayload)
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out, nil
}

// Bytes32 reads a fixed 32-byte field.
func (r *Reader) Bytes32() ([32]byte, error) {
	var out [32]byte
	if err := r.need(32); err != nil {
		return out, err
	}
	copy(out[:], r.buf[r.off:r.off+32])
	r.off += 32
	return out, nil
}

// Var16 reads a u16 length prefix followed by that many bytes.
func (r *Reader) Var16() ([]byte, error) {
	n, err := r.U16()
	if err != nil {
		return nil, err
	}
	return r.Bytes(int(n))
}

// Var32 reads a u32 length prefix followed by that many bytes.
func (r *Reader) Var32() ([]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	return r.Bytes(int(n))
}

// Writer builds a payload buffer by appending fields in order.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity preallocated for sizeHint.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports the number of bytes written.
func (w *Writer) Len() int { return len(w.buf) }

// PutU8 appends one byte.
func (w *Writer) PutU8(v uint8) { w.buf = append(w.buf, v) }

// PutU16 appends a little-endian uint16.
func (w *Writer) PutU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutU32 appends a little-endian uint32.
func (w *Writer) PutU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutU64 appends a little-endian uint64.
func (w *Writer) PutU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutBytes appends raw bytes with no prefix.
func (w *Writer) PutBytes(b []byte) { w.buf = append(w.buf, b...) }

// PutVar16 appends a u16 length prefix and the bytes.
func (w *Writer) PutVar16(b []byte) error {
	if len(b) > 0xFFFF {
		return fmt.Errorf("%w: %d bytes exceed u16 prefix", ErrFieldTooLong, len(b))
	}
	w.PutU16(uint16(len(b)))
	w.PutBytes(b)
	return nil
}

// PutVar32 appends a u32 length prefix and the bytes.
func (w *Writer) PutVar32(b []byte) error {
	if uint64(len(b)) > 0xFFFFFFFF {
		return fmt.Errorf("%w: %d bytes exceed u32 prefix", ErrFieldTooLong, len(b))
	}
	w.PutU32(uint32(len(b)))
	w.PutBytes(b)
	return nil
}
