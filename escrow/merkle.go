package escrow

import (
	"bytes"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/crypto"
	"github.com/styx-network/gstyx/params"
)

// HashLeaf computes a distribution leaf:
//
//	Keccak256(recipient || amount_LE64 || index_LE32 || salt)
//
// The salt is tree-wide: generated once per campaign and stored with
// the root, it keeps recipients with guessable (address, amount) pairs
// out of rainbow-table reach. Binding the index makes equal
// allocations to one recipient distinct leaves.
func HashLeaf(recipient common.Address, amount uint64, index uint32, salt [32]byte) common.Hash {
	var amt [8]byte
	binary.LittleEndian.PutUint64(amt[:], amount)
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)
	return crypto.Keccak256Hash(recipient.Bytes(), amt[:], idx[:], salt[:])
}

// hashPair folds two nodes with the smaller operand first, matching
// the deployed verifier. Canonical ordering frees verification from
// left/right bookkeeping.
func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return crypto.Keccak256Hash(a[:], b[:])
	}
	return crypto.Keccak256Hash(b[:], a[:])
}

// Tree is a salted Merkle distribution tree over a fixed entry list.
// Layer 0 holds the leaves; a layer with an odd node count promotes
// its last node by pairing it with itself.
type Tree struct {
	salt   [32]byte
	layers [][]common.Hash
}

// NewTree hashes the entries into leaves and folds the layers. The
// entry order is the leaf order; building the same list with the same
// salt always yields the same root.
func NewTree(entries []Entry, salt [32]byte) (*Tree, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCampaign
	}
	if len(entries) > params.MaxBatchEntries {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyEntries, len(entries), params.MaxBatchEntries)
	}

	leaves := make([]common.Hash, len(entries))
	workers := runtime.NumCPU()
	if workers > len(entries) {
		workers = len(entries)
	}
	shard := (len(entries) + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo, hi := w*shard, (w+1)*shard
		if hi > len(entries) {
			hi = len(entries)
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				leaves[i] = HashLeaf(entries[i].Recipient, entries[i].Amount, uint32(i), salt)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	layers := [][]common.Hash{leaves}
	for level := leaves; len(level) > 1; {
		next := make([]common.Hash, (len(level)+1)/2)
		for i := range next {
			left := level[2*i]
			right := left
			if 2*i+1 < len(level) {
				right = level[2*i+1]
			}
			next[i] = hashPair(left, right)
		}
		layers = append(layers, next)
		level = next
	}
	return &Tree{salt: salt, layers: layers}, nil
}

// Root returns the tree root. A single-leaf tree's root is its leaf.
func (t *Tree) Root() common.Hash {
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// Len returns the leaf count.
func (t *Tree) Len() int { return len(t.layers[0]) }

// Salt returns the tree-wide leaf salt.
func (t *Tree) Salt() [32]byte { return t.salt }

// Leaf returns the leaf hash at index.
func (t *Tree) Leaf(index uint32) (common.Hash, error) {
	if int(index) >= t.Len() {
		return common.Hash{}, fmt.Errorf("%w: index %d of %d leaves", ErrIndexOutOfRange, index, t.Len())
	}
	return t.layers[0][index], nil
}

// Proof builds the membership proof for the leaf at index.
func (t *Tree) Proof(index uint32) (*Proof, error) {
	if int(index) >= t.Len() {
		return nil, fmt.Errorf("%w: index %d of %d leaves", ErrIndexOutOfRange, index, t.Len())
	}
	depth := len(t.layers) - 1
	proof := &Proof{
		Leaf:       t.layers[0][index],
		Siblings:   make([]common.Hash, 0, depth),
		Directions: make([]byte, 0, depth),
		Index:      index,
	}
	pos := int(index)
	for _, layer := range t.layers[:depth] {
		sib := pos ^ 1
		if sib >= len(layer) {
			sib = pos // promoted node pairs with itself
		}
		proof.Siblings = append(proof.Siblings, layer[sib])
		proof.Directions = append(proof.Directions, byte(pos&1))
		pos >>= 1
	}
	return proof, nil
}

// Verify checks a proof against this tree: the depth and index must
// match the tree shape and the fold must land on the root.
func (t *Tree) Verify(p *Proof) bool {
	if p == nil || int(p.Index) >= t.Len() {
		return false
	}
	if !ProofDepthMatches(t.Len(), p) {
		return false
	}
	return VerifyProof(p, t.Root())
}

// VerifyProof reports whether the proof's fold reaches root. It never
// returns an error: malformed proofs, inconsistent directions and
// out-of-range indexes are all simply false. Directions must agree
// with the index bit-by-bit even though the canonical pair ordering
// does not consume them while hashing.
func VerifyProof(p *Proof, root common.Hash) bool {
	if p == nil || len(p.Siblings) != len(p.Directions) {
		return false
	}
	if len(p.Siblings) > params.MaxTreeDepth {
		return false
	}
	node := p.Leaf
	pos := p.Index
	for i, sib := range p.Siblings {
		if p.Directions[i] != byte(pos&1) {
			return false
		}
		node = hashPair(node, sib)
		pos >>= 1
	}
	if pos != 0 {
		// The index addresses a position outside the proven depth.
		return false
	}
	return subtle.ConstantTimeCompare(node[:], root[:]) == 1
}

// ProofDepth returns the proof length a tree with leafCount leaves
// produces.
func ProofDepth(leafCount int) int {
	depth := 0
	for n := leafCount; n > 1; n = (n + 1) / 2 {
		depth++
	}
	return depth
}

// ProofDepthMatches reports whether a proof's depth fits a tree of
// leafCount leaves. Verifiers that know the leaf count reject
// truncated or padded proofs before folding.
func ProofDepthMatches(leafCount int, p *Proof) bool {
	return p != nil && len(p.Siblings) == ProofDepth(leafCount)
}
