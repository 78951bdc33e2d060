package wire

import (
	"errors"
	"testing"
)

// FuzzDecode feeds arbitrary bytes through the generic decode path.
// The codec must classify every input as decodable or malformed; it
// must never panic.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{uint8(testDomain)})
	f.Add([]byte{uint8(testDomain), 0x02, 0xAB, 0x03, 0x00, 'a', 'b', 'c'})
	f.Add([]byte{uint8(testDomain), 0x02, 0xAB, 0xFF, 0xFF})
	f.Add([]byte{uint8(testDomain), 0x03, 7, 0, 0, 0, 200})
	f.Add([]byte{0xEE, 0xEE})

	f.Fuzz(func(t *testing.T, data []byte) {
		dec, err := Decode(data)
		if err != nil {
			if !errors.Is(err, ErrMalformedPayload) &&
				!errors.Is(err, ErrUnknownOperation) &&
				!errors.Is(err, ErrOversize) {
				t.Fatalf("unclassified decode error: %v", err)
			}
			return
		}
		// Anything that decodes must re-walk cleanly.
		if _, _, err := dec.Schema.Walk(data); err != nil {
			t.Fatalf("walk disagrees with decode: %v", err)
		}
	})
}
