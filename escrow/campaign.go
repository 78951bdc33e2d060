package escrow

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"

	mapset "github.com/deckarep/golang-set"
	"github.com/google/uuid"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/crypto"
	"github.com/styx-network/gstyx/params"
)

// NewCampaignID draws a random 32-byte campaign identifier from two
// v4 UUIDs.
func NewCampaignID() ([32]byte, error) {
	var id [32]byte
	for off := 0; off < len(id); off += 16 {
		u, err := uuid.NewRandom()
		if err != nil {
			return [32]byte{}, fmt.Errorf("escrow: could not create random uuid: %w", err)
		}
		copy(id[off:], u[:])
	}
	return id, nil
}

// NewTreeSalt draws a fresh tree-wide leaf salt.
func NewTreeSalt() ([32]byte, error) {
	var salt [32]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return [32]byte{}, fmt.Errorf("escrow: could not draw tree salt: %w", err)
	}
	return salt, nil
}

// ManifestHash commits to the full entry list in leaf order:
//
//	Keccak256(count_LE32 || entry_0 || entry_1 || …)
//
// with each entry as recipient || amount_LE64. Publishing the list
// lets anyone rebuild this hash and the tree root from it.
func ManifestHash(entries []Entry) common.Hash {
	buf := make([]byte, 4, 4+len(entries)*40)
	binary.LittleEndian.PutUint32(buf, uint32(len(entries)))
	var amt [8]byte
	for _, e := range entries {
		binary.LittleEndian.PutUint64(amt[:], e.Amount)
		buf = append(buf, e.Recipient.Bytes()...)
		buf = append(buf, amt[:]...)
	}
	return crypto.Keccak256Hash(buf)
}

// checkEntries validates a batch and returns its total. The checks
// mirror the deployed program: no empty campaigns, no zero
// allocations, no recipient twice, and the vault total must fit.
func checkEntries(entries []Entry) (uint64, error) {
	if len(entries) == 0 {
		return 0, ErrEmptyCampaign
	}
	if len(entries) > params.MaxBatchEntries {
		return 0, fmt.Errorf("%w: %d > %d", ErrTooManyEntries, len(entries), params.MaxBatchEntries)
	}
	seen := mapset.NewThreadUnsafeSet()
	var total uint64
	for i, e := range entries {
		if e.Amount == 0 {
			return 0, fmt.Errorf("%w: entry %d", ErrZeroAmount, i)
		}
		if !seen.Add(e.Recipient) {
			return 0, fmt.Errorf("%w: entry %d (%s)", ErrDuplicateRecipient, i, e.Recipient)
		}
		if e.Amount > math.MaxUint64-total {
			return 0, fmt.Errorf("%w: at entry %d", ErrAmountOverflow, i)
		}
		total += e.Amount
	}
	return total, nil
}

// BuildCampaign validates the entry list and assembles the campaign
// record and its distribution tree. The caller funds the campaign with
// the returned total and hands each recipient a claim code cut from
// the tree.
func BuildCampaign(id [32]byte, entries []Entry, salt [32]byte, expiry uint64) (*Campaign, *Tree, uint64, error) {
	total, err := checkEntries(entries)
	if err != nil {
		return nil, nil, 0, err
	}
	tree, err := NewTree(entries, salt)
	if err != nil {
		return nil, nil, 0, err
	}
	campaign := &Campaign{
		ID:           id,
		ManifestHash: ManifestHash(entries),
		Root:         tree.Root(),
		Salt:         salt,
		Expiry:       expiry,
	}
	return campaign, tree, total, nil
}

// Init returns the wire payload registering the campaign.
func (c *Campaign) Init() ([]byte, error) {
	return EncodeInitCampaign(InitCampaign{
		CampaignID:   c.ID,
		ManifestHash: c.ManifestHash,
		Root:         c.Root,
		TreeSalt:     c.Salt,
		Expiry:       c.Expiry,
	})
}

// ChunkEntries splits an oversized list into batches of at most
// params.MaxBatchEntries, preserving order. Each chunk becomes its own
// campaign; the program has no instruction for growing a tree in
// place.
func ChunkEntries(entries []Entry) [][]Entry {
	if len(entries) == 0 {
		return nil
	}
	chunks := make([][]Entry, 0, (len(entries)+params.MaxBatchEntries-1)/params.MaxBatchEntries)
	for len(entries) > params.MaxBatchEntries {
		chunks = append(chunks, entries[:params.MaxBatchEntries])
		entries = entries[params.MaxBatchEntries:]
	}
	return append(chunks, entries)
}
