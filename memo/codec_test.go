package memo

import (
	"bytes"
	"encoding/hex"
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/styx-network/gstyx/common"
)

func testAddr(seed byte) common.Address {
	var a common.Address
	for i := range a {
		a[i] = seed
	}
	return a
}

func test32(seed byte) [32]byte {
	var b [32]byte
	for i := range b {
		b[i] = seed
	}
	return b
}

var testDumper = spew.ConfigState{DisableMethods: true, Indent: "    "}

func TestPrivateMessageRoundtrip(t *testing.T) {
	want := PrivateMessage{
		Flags:        FlagEncrypt,
		EncRecipient: test32(0xA1),
		Sender:       testAddr(0x0B),
		Payload:      []byte("sealed body"),
	}
	raw, err := EncodePrivateMessage(want)
	if err != nil {
		t.Fatalf("EncodePrivateMessage: %v", err)
	}
	got, err := DecodePrivateMessage(raw)
	if err != nil {
		t.Fatalf("DecodePrivateMessage: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("roundtrip mismatch:\nGOT %sWANT %s", testDumper.Sdump(got), testDumper.Sdump(want))
	}
}

func TestPrivateMessageComplianceTail(t *testing.T) {
	want := PrivateMessage{
		Flags:        FlagEncrypt | FlagCompliance,
		EncRecipient: test32(0xA2),
		Sender:       testAddr(0x0C),
		Payload:      []byte{0xDE, 0xAD},
		AuditorKeys:  []common.Address{testAddr(0xE1), testAddr(0xE2)},
	}
	raw, err := EncodePrivateMessage(want)
	if err != nil {
		t.Fatalf("EncodePrivateMessage: %v", err)
	}
	got, err := DecodePrivateMessage(raw)
	if err != nil {
		t.Fatalf("DecodePrivateMessage: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("roundtrip mismatch:\nGOT %sWANT %s", testDumper.Sdump(got), testDumper.Sdump(want))
	}

	// Truncating inside the auditor list must fail even though the
	// schema itself tolerates a tail.
	for cut := len(raw) - 1; cut > len(raw)-33; cut -= 16 {
		if _, err := DecodePrivateMessage(raw[:cut]); err == nil {
			t.Fatalf("truncated auditor list at %d decoded", cut)
		}
	}

	// Inflating the declared count must fail.
	countOff := len(raw) - 2*32 - 1
	bad := append([]byte(nil), raw...)
	bad[countOff] = 3
	if _, err := DecodePrivateMessage(bad); err == nil {
		t.Fatal("inflated auditor count decoded")
	}
}

func TestPrivateMessageTailRules(t *testing.T) {
	// Auditor keys without the compliance flag are rejected at encode.
	_, err := EncodePrivateMessage(PrivateMessage{
		AuditorKeys: []common.Address{testAddr(0x01)},
	})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}

	// A compliance flag with no tail is tolerated, as the deployed
	// handler tolerates it.
	raw, err := EncodePrivateMessage(PrivateMessage{
		Flags:        FlagCompliance,
		EncRecipient: test32(0x01),
		Sender:       testAddr(0x02),
		Payload:      []byte("x"),
	})
	if err != nil {
		t.Fatalf("EncodePrivateMessage: %v", err)
	}
	got, err := DecodePrivateMessage(raw)
	if err != nil {
		t.Fatalf("DecodePrivateMessage: %v", err)
	}
	if got.AuditorKeys != nil {
		t.Fatalf("unexpected auditors: %v", got.AuditorKeys)
	}

	// A tail on a message without the flag is malformed.
	noFlag, err := EncodePrivateMessage(PrivateMessage{
		EncRecipient: test32(0x01),
		Sender:       testAddr(0x02),
		Payload:      []byte("x"),
	})
	if err != nil {
		t.Fatalf("EncodePrivateMessage: %v", err)
	}
	withTail := append(append([]byte(nil), noFlag...), 0x01)
	withTail = append(withTail, make([]byte, 32)...)
	if _, err := DecodePrivateMessage(withTail); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload for tail without flag, got %v", err)
	}
}

func TestRoutedMessageRoundtrip(t *testing.T) {
	want := RoutedMessage{
		Flags:     FlagEncrypt,
		HopCount:  3,
		SessionID: test32(0x51),
		HopIndex:  1,
		NextHop:   test32(0x52),
		Payload:   []byte("layered"),
	}
	raw, err := EncodeRoutedMessage(want)
	if err != nil {
		t.Fatalf("EncodeRoutedMessage: %v", err)
	}
	got, err := DecodeRoutedMessage(raw)
	if err != nil {
		t.Fatalf("DecodeRoutedMessage: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("roundtrip mismatch:\nGOT %sWANT %s", testDumper.Sdump(got), testDumper.Sdump(want))
	}
}

func TestRoutedMessageHopBounds(t *testing.T) {
	_, err := EncodeRoutedMessage(RoutedMessage{HopCount: 6})
	if !errors.Is(err, ErrTooManyHops) {
		t.Fatalf("expected ErrTooManyHops, got %v", err)
	}
	_, err = EncodeRoutedMessage(RoutedMessage{HopCount: 2, HopIndex: 3})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}

	raw, err := EncodeRoutedMessage(RoutedMessage{HopCount: 5, HopIndex: 5, SessionID: test32(1), NextHop: test32(2)})
	if err != nil {
		t.Fatalf("EncodeRoutedMessage: %v", err)
	}
	// hopCount sits at view offset 2, raw offset 3.
	bad := append([]byte(nil), raw...)
	bad[3] = 6
	if _, err := DecodeRoutedMessage(bad); !errors.Is(err, ErrTooManyHops) {
		t.Fatalf("expected ErrTooManyHops, got %v", err)
	}
	bad = append([]byte(nil), raw...)
	bad[3] = 4 // hopIndex 5 now exceeds hopCount 4
	if _, err := DecodeRoutedMessage(bad); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

// The pinned transfer bytes below were produced against the deployed
// v3 handler. They freeze the full field layout, the little-endian
// amount mask and the metadata-key recipient mask at once.
func TestPrivateTransferVector(t *testing.T) {
	sender := testAddr(0x11)
	recipient := testAddr(0x22)
	nonce := [AmountNonceSize]byte{0x33, 0x33, 0x33, 0x33, 0x33, 0x33, 0x33, 0x33}

	want := PrivateTransfer{
		Flags:        FlagEncrypt,
		EncRecipient: EncryptRecipient(sender, recipient),
		Sender:       sender,
		EncAmount:    MaskAmount(750_000, sender, recipient, nonce),
		AmountNonce:  nonce,
		Memo:         []byte("memo"),
	}
	raw, err := EncodePrivateTransfer(want)
	if err != nil {
		t.Fatalf("EncodePrivateTransfer: %v", err)
	}
	const pinned = "01" + // domain
		"0501" +
		"932841f941bb071665c6421a35a22e39a3c7b31fbef9528f30f4be8298d9f0c4" +
		"1111111111111111111111111111111111111111111111111111111111111111" +
		"89093160be623edb" +
		"3333333333333333" +
		"0400" + "6d656d6f"
	if got := hex.EncodeToString(raw); got != pinned {
		t.Fatalf("encoding mismatch:\ngot  %s\nwant %s", got, pinned)
	}

	got, err := DecodePrivateTransfer(raw)
	if err != nil {
		t.Fatalf("DecodePrivateTransfer: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("roundtrip mismatch:\nGOT %sWANT %s", testDumper.Sdump(got), testDumper.Sdump(want))
	}
	if amt := UnmaskAmount(got.EncAmount, got.Sender, recipient, got.AmountNonce); amt != 750_000 {
		t.Fatalf("unmasked amount %d, want 750000", amt)
	}
	if rec := DecryptRecipient(got.Sender, got.EncRecipient); rec != recipient {
		t.Fatalf("recovered recipient %s, want %s", rec, recipient)
	}
}

func TestRatchetMessageRoundtrip(t *testing.T) {
	want := RatchetMessage{
		Flags:        FlagEncrypt,
		SessionID:    test32(0x61),
		Counter:      1 << 40,
		EphemeralPub: test32(0x62),
		Ciphertext:   bytes.Repeat([]byte{0xC7}, 48),
	}
	raw, err := EncodeRatchetMessage(want)
	if err != nil {
		t.Fatalf("EncodeRatchetMessage: %v", err)
	}
	got, err := DecodeRatchetMessage(raw)
	if err != nil {
		t.Fatalf("DecodeRatchetMessage: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("roundtrip mismatch:\nGOT %sWANT %s", testDumper.Sdump(got), testDumper.Sdump(want))
	}
}

func TestComplianceRevealRoundtrip(t *testing.T) {
	want := ComplianceReveal{
		Flags:         FlagCompliance,
		MessageID:     test32(0x71),
		Auditor:       testAddr(0x72),
		DisclosureKey: test32(0x73),
		RevealType:    RevealAmount,
	}
	raw, err := EncodeComplianceReveal(want)
	if err != nil {
		t.Fatalf("EncodeComplianceReveal: %v", err)
	}
	got, err := DecodeComplianceReveal(raw)
	if err != nil {
		t.Fatalf("DecodeComplianceReveal: %v", err)
	}
	if got != want {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", got, want)
	}

	// Undefined disclosure levels are rejected on encode but decoded
	// leniently, reporting Valid() == false.
	_, err = EncodeComplianceReveal(ComplianceReveal{RevealType: 9})
	if !errors.Is(err, ErrInvalidRevealType) {
		t.Fatalf("expected ErrInvalidRevealType, got %v", err)
	}
	lenient := append([]byte(nil), raw...)
	lenient[len(lenient)-1] = 9
	dec, err := DecodeComplianceReveal(lenient)
	if err != nil {
		t.Fatalf("DecodeComplianceReveal: %v", err)
	}
	if dec.RevealType.Valid() {
		t.Fatalf("reveal type 9 reported valid")
	}
	if dec.RevealType.String() != "unknown" {
		t.Fatalf("reveal type 9 String() = %q", dec.RevealType.String())
	}

	// Fixed-length operation: a trailing byte is malformed.
	if _, err := DecodeComplianceReveal(append(append([]byte(nil), raw...), 0x00)); err == nil {
		t.Fatal("trailing byte decoded")
	}
}

func TestDecodeTruncationSweep(t *testing.T) {
	encodings := map[string][]byte{}

	raw, err := EncodePrivateMessage(PrivateMessage{
		Flags: FlagEncrypt, EncRecipient: test32(1), Sender: testAddr(2), Payload: []byte("pm"),
	})
	if err != nil {
		t.Fatal(err)
	}
	encodings["privateMessage"] = raw

	raw, err = EncodeRoutedMessage(RoutedMessage{
		HopCount: 2, SessionID: test32(3), HopIndex: 1, NextHop: test32(4), Payload: []byte("rm"),
	})
	if err != nil {
		t.Fatal(err)
	}
	encodings["routedMessage"] = raw

	raw, err = EncodePrivateTransfer(PrivateTransfer{
		EncRecipient: test32(5), Sender: testAddr(6), EncAmount: 7, Memo: []byte("pt"),
	})
	if err != nil {
		t.Fatal(err)
	}
	encodings["privateTransfer"] = raw

	raw, err = EncodeRatchetMessage(RatchetMessage{
		SessionID: test32(8), Counter: 9, EphemeralPub: test32(10), Ciphertext: []byte("rc"),
	})
	if err != nil {
		t.Fatal(err)
	}
	encodings["ratchetMessage"] = raw

	raw, err = EncodeComplianceReveal(ComplianceReveal{
		MessageID: test32(11), Auditor: testAddr(12), DisclosureKey: test32(13),
	})
	if err != nil {
		t.Fatal(err)
	}
	encodings["complianceReveal"] = raw

	decoders := map[string]func([]byte) error{
		"privateMessage":   func(b []byte) error { _, err := DecodePrivateMessage(b); return err },
		"routedMessage":    func(b []byte) error { _, err := DecodeRoutedMessage(b); return err },
		"privateTransfer":  func(b []byte) error { _, err := DecodePrivateTransfer(b); return err },
		"ratchetMessage":   func(b []byte) error { _, err := DecodeRatchetMessage(b); return err },
		"complianceReveal": func(b []byte) error { _, err := DecodeComplianceReveal(b); return err },
	}

	for name, enc := range encodings {
		decode := decoders[name]
		if err := decode(enc); err != nil {
			t.Fatalf("%s: full decode failed: %v", name, err)
		}
		for cut := 0; cut < len(enc); cut++ {
			if err := decode(enc[:cut]); err == nil {
				t.Fatalf("%s: prefix of %d/%d bytes decoded", name, cut, len(enc))
			}
		}
	}
}

func FuzzDecodePrivateMessage(f *testing.F) {
	seed, err := EncodePrivateMessage(PrivateMessage{
		Flags:        FlagEncrypt | FlagCompliance,
		EncRecipient: test32(0xA1),
		Sender:       testAddr(0x0B),
		Payload:      []byte("seed"),
		AuditorKeys:  []common.Address{testAddr(0xE1)},
	})
	if err != nil {
		f.Fatal(err)
	}
	f.Add(seed)
	f.Add([]byte{byte(Domain), OpPrivateMessage})
	f.Fuzz(func(t *testing.T, data []byte) {
		p, err := DecodePrivateMessage(data)
		if err != nil {
			if !errors.Is(err, ErrInvalidPayload) {
				t.Fatalf("unexpected error class: %v", err)
			}
			return
		}
		reencoded, err := EncodePrivateMessage(p)
		if err != nil {
			t.Fatalf("decoded message failed to re-encode: %v", err)
		}
		// The empty-tail tolerance makes one byte sequence non-canonical:
		// compliance flag with no auditors re-encodes without the tail.
		if _, err := DecodePrivateMessage(reencoded); err != nil {
			t.Fatalf("re-encoded message failed to decode: %v", err)
		}
	})
}
