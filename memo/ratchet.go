package memo

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/styx-network/gstyx/crypto"
)

// maxSkippedKeys bounds the per-session cache of message keys derived
// for counters that arrived out of order. A key evicted from the cache
// leaves its message undecryptable, so the bound also caps how far an
// inbound counter may run ahead of the chain.
const maxSkippedKeys = 256

// RatchetAdvance steps a hash ratchet once:
//
//	next   = Keccak256("STYX_RATCHET_CHAIN_V1" || chainKey || counter_LE64 || 0x01)
//	msgKey = Keccak256("STYX_RATCHET_MSG_V1"   || chainKey || counter_LE64 || 0x02)
//
// The chain key never encrypts anything and each message key is used
// once, so compromising a later chain state reveals nothing about
// earlier messages.
func RatchetAdvance(chainKey [32]byte, counter uint64) (next [32]byte, msgKey [32]byte) {
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], counter)
	copy(next[:], crypto.Keccak256([]byte(RatchetChainDomain), chainKey[:], ctr[:], []byte{0x01}))
	copy(msgKey[:], crypto.Keccak256([]byte(RatchetMsgDomain), chainKey[:], ctr[:], []byte{0x02}))
	return next, msgKey
}

// ratchetNonce binds a ratchet ciphertext to its session and counter.
// Message keys are single-use, so uniqueness comes from the key; the
// derived nonce adds cross-session separation.
func ratchetNonce(sessionID [32]byte, counter uint64) [NonceSize]byte {
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], counter)
	return DeriveNonce(MsgNonceDomain, append(sessionID[:], ctr[:]...))
}

// Session is one end of a forward-secret conversation. Each direction
// runs its own hash chain; the peers construct their sessions with the
// send and receive chain keys swapped. Outbound counters are issued
// atomically, so concurrent senders on one session get distinct
// consecutive numbers. Inbound messages may arrive out of order:
// message keys for skipped counters are parked in a bounded LRU cache
// and consumed exactly once.
type Session struct {
	id [32]byte

	sendCtr atomic.Uint64

	mu        sync.Mutex
	closed    bool
	sendChain [32]byte
	sendNext  uint64
	parked    map[uint64][32]byte

	recvChain [32]byte
	recvNext  uint64
	skipped   *lru.Cache
}

// NewSession builds a session from its two initial chain keys. The
// peers call this with the chain arguments swapped: A's send chain is
// B's receive chain. Initial keys come from a higher-level handshake,
// or from SharedKey over the two parties' addresses for the
// address-bound sessions the memo program itself supports.
func NewSession(id [32]byte, sendChain, recvChain [32]byte) *Session {
	skipped, _ := lru.New(maxSkippedKeys)
	return &Session{
		id:        id,
		sendChain: sendChain,
		recvChain: recvChain,
		parked:    make(map[uint64][32]byte),
		skipped:   skipped,
	}
}

// ID returns the session identifier carried in every RatchetMessage.
func (s *Session) ID() [32]byte { return s.id }

// Seal encrypts plaintext as the next outbound message of the session.
// ephemeralPub is the sender's current DH key, carried for handshake
// layers above this one; a zero value is valid for purely symmetric
// sessions.
func (s *Session) Seal(ephemeralPub [32]byte, plaintext []byte) (*RatchetMessage, error) {
	ctr := s.sendCtr.Add(1) - 1
	key, err := s.sendKey(ctr)
	if err != nil {
		return nil, err
	}
	ciphertext, err := Seal(key, ratchetNonce(s.id, ctr), plaintext, nil)
	if err != nil {
		return nil, err
	}
	return &RatchetMessage{
		Flags:        FlagEncrypt,
		SessionID:    s.id,
		Counter:      ctr,
		EphemeralPub: ephemeralPub,
		Ciphertext:   ciphertext,
	}, nil
}

// Open decrypts an inbound message, advancing the receive chain as
// needed. A counter ahead of the chain parks the keys it skips; a
// counter already consumed returns ErrCounterReplayed. Chain state
// moves only after authentication succeeds, so a forged ciphertext
// cannot burn the key of the real message behind it.
func (s *Session) Open(msg *RatchetMessage) ([]byte, error) {
	if subtle.ConstantTimeCompare(msg.SessionID[:], s.id[:]) != 1 {
		return nil, fmt.Errorf("%w: session id mismatch", ErrInvalidPayload)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	ctr := msg.Counter
	nonce := ratchetNonce(s.id, ctr)

	if ctr < s.recvNext {
		v, ok := s.skipped.Get(ctr)
		if !ok {
			return nil, ErrCounterReplayed
		}
		plaintext, err := Open(v.([32]byte), nonce, msg.Ciphertext, nil)
		if err != nil {
			return nil, err
		}
		s.skipped.Remove(ctr)
		return plaintext, nil
	}
	if ctr-s.recvNext > maxSkippedKeys {
		return nil, fmt.Errorf("%w: counter %d, chain at %d", ErrCounterSkipTooLarge, ctr, s.recvNext)
	}

	// Derive on scratch state first.
	chain, next := s.recvChain, s.recvNext
	type skipped struct {
		ctr uint64
		key [32]byte
	}
	var parked []skipped
	for next < ctr {
		advanced, msgKey := RatchetAdvance(chain, next)
		parked = append(parked, skipped{next, msgKey})
		chain, next = advanced, next+1
	}
	advanced, key := RatchetAdvance(chain, ctr)
	plaintext, err := Open(key, nonce, msg.Ciphertext, nil)
	if err != nil {
		return nil, err
	}
	for _, sk := range parked {
		s.skipped.Add(sk.ctr, sk.key)
	}
	s.recvChain, s.recvNext = advanced, ctr+1
	return plaintext, nil
}

// Close wipes the chain state. Further Seal and Open calls fail with
// ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.sendChain = [32]byte{}
	s.recvChain = [32]byte{}
	for ctr := range s.parked {
		delete(s.parked, ctr)
	}
	s.skipped.Purge()
}

// sendKey walks the send chain to the issued counter. When concurrent
// senders overtake each other, the walk parks the overtaken keys; each
// sender then collects its own. The parked map is bounded by the
// number of in-flight Seal calls.
func (s *Session) sendKey(ctr uint64) ([32]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return [32]byte{}, ErrSessionClosed
	}
	if ctr < s.sendNext {
		key, ok := s.parked[ctr]
		if !ok {
			return [32]byte{}, ErrCounterReplayed
		}
		delete(s.parked, ctr)
		return key, nil
	}
	for s.sendNext < ctr {
		next, msgKey := RatchetAdvance(s.sendChain, s.sendNext)
		s.parked[s.sendNext] = msgKey
		s.sendChain, s.sendNext = next, s.sendNext+1
	}
	next, msgKey := RatchetAdvance(s.sendChain, ctr)
	s.sendChain, s.sendNext = next, ctr+1
	return msgKey, nil
}

