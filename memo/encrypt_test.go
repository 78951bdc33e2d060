package memo

import (
	"bytes"
	"errors"
	"testing"

	"github.com/styx-network/gstyx/common"
)

func TestSharedKeyVector(t *testing.T) {
	key := SharedKey(testAddr(0x11), testAddr(0x22))
	want := "3e92e0db88d6afea9edc4eedf62fffa4d92bcdfc310dccbe943747fe8302e871"
	if got := common.Bytes2Hex(key[:]); got != want {
		t.Fatalf("SharedKey = %s, want %s", got, want)
	}

	// Order matters: both ends must agree on the (sender, recipient)
	// argument order.
	if SharedKey(testAddr(0x22), testAddr(0x11)) == key {
		t.Fatal("shared key is order-independent")
	}
}

func TestDeriveNonceVector(t *testing.T) {
	enc := EncryptRecipient(testAddr(0x11), testAddr(0x22))
	nonce := DeriveNonce(MsgNonceDomain, enc[:])
	want := "762fb75a59958b16a39373eb"
	if got := common.Bytes2Hex(nonce[:]); got != want {
		t.Fatalf("DeriveNonce = %s, want %s", got, want)
	}
}

func TestSealOpenRoundtrip(t *testing.T) {
	key := SharedKey(testAddr(0x01), testAddr(0x02))
	nonce := DeriveNonce(MsgNonceDomain, []byte("material"))
	plaintext := []byte("the quick brown fox")
	additional := []byte("bound context")

	ciphertext, err := Seal(key, nonce, plaintext, additional)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(ciphertext) != len(plaintext)+SealOverhead {
		t.Fatalf("ciphertext length %d, want %d", len(ciphertext), len(plaintext)+SealOverhead)
	}
	got, err := Open(key, nonce, ciphertext, additional)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("plaintext mismatch: %x", got)
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	key := SharedKey(testAddr(0x01), testAddr(0x02))
	nonce := DeriveNonce(MsgNonceDomain, []byte("material"))
	ciphertext, err := Seal(key, nonce, []byte("payload"), nil)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	for i := 0; i < len(ciphertext); i++ {
		bad := append([]byte(nil), ciphertext...)
		bad[i] ^= 0x01
		if _, err := Open(key, nonce, bad, nil); !errors.Is(err, ErrDecryptFailed) {
			t.Fatalf("bit flip at %d: got %v", i, err)
		}
	}

	wrongKey := SharedKey(testAddr(0x01), testAddr(0x03))
	if _, err := Open(wrongKey, nonce, ciphertext, nil); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("wrong key: got %v", err)
	}
	wrongNonce := DeriveNonce(MsgNonceDomain, []byte("other"))
	if _, err := Open(key, wrongNonce, ciphertext, nil); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("wrong nonce: got %v", err)
	}
	if _, err := Open(key, nonce, ciphertext, []byte("aad")); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("mismatched additional data: got %v", err)
	}
	if _, err := Open(key, nonce, ciphertext[:SealOverhead-1], nil); !errors.Is(err, ErrCiphertextTooShort) {
		t.Fatalf("short ciphertext: got %v", err)
	}
}

func TestSealMessagePath(t *testing.T) {
	sender := testAddr(0x11)
	recipient := testAddr(0x22)
	enc := EncryptRecipient(sender, recipient)

	ciphertext, err := SealMessage(sender, recipient, enc, []byte("hi"))
	if err != nil {
		t.Fatalf("SealMessage: %v", err)
	}
	got, err := OpenMessage(sender, recipient, enc, ciphertext)
	if err != nil {
		t.Fatalf("OpenMessage: %v", err)
	}
	if string(got) != "hi" {
		t.Fatalf("plaintext mismatch: %q", got)
	}

	// The recipient recovers everything from the wire fields alone.
	decoded := DecryptRecipient(sender, enc)
	if _, err := OpenMessage(sender, decoded, enc, ciphertext); err != nil {
		t.Fatalf("OpenMessage with recovered recipient: %v", err)
	}
}
